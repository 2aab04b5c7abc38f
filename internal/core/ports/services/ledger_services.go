package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerQuerySvc defines read operations over posted ledger rows
type LedgerQuerySvc interface {
	// GetAccountBalance nets the account's rows up to asOf (all rows when nil) on its normal side.
	GetAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// GetTrialBalance lists every active account's net balance in one column.
	GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// GetAccountTransactions lists an account's rows with a running balance.
	GetAccountTransactions(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountTransactions, error)

	// GetGeneralLedger lists rows across accounts.
	GetGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error)

	// GetAccountActivity summarizes a fiscal month for an account.
	GetAccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error)
}

// LedgerMaintenanceSvc checks and repairs the cached balances
type LedgerMaintenanceSvc interface {
	// VerifyBalances compares every account's cached balance with its ledger rows.
	VerifyBalances(ctx context.Context) ([]domain.BalanceDrift, error)

	// RebuildBalances overwrites cached balances from the ledger and returns what changed.
	RebuildBalances(ctx context.Context, userID string) ([]domain.BalanceDrift, error)
}

// LedgerSvcFacade combines ledger queries and maintenance
type LedgerSvcFacade interface {
	LedgerQuerySvc
	LedgerMaintenanceSvc
}
