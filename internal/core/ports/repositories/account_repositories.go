package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountFilter narrows an account listing.
type AccountFilter struct {
	AccountType     *domain.AccountType
	ParentAccountID *string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's descriptive fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalanceWriter maintains the cached balance column. Every method must be
// called with a transactional ctx.
type AccountBalanceWriter interface {
	// FindAccountsByIDsForUpdate locks the accounts in ascending id order.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltas adds each delta to the cached balance atomically.
	ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error

	// OverwriteBalances replaces cached balances, used when rebuilding from the ledger.
	OverwriteBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}
