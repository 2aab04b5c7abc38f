package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankTransactionFilter narrows a bank transaction listing.
type BankTransactionFilter struct {
	DateFrom         *time.Time
	DateTo           *time.Time
	UnreconciledOnly bool
	Limit            int
	Offset           int
}

// BankAccountStore persists bank accounts.
type BankAccountStore interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	FindPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error)
	ListBankAccountsDueForReconciliation(ctx context.Context, now time.Time) ([]domain.BankAccount, error)

	// UpdateBankAccount stores the editable settings; balances and version are left alone.
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error

	// ClearPrimaryBankAccounts unsets the primary flag on every account except exceptID.
	ClearPrimaryBankAccounts(ctx context.Context, exceptID string, userID string, now time.Time) error

	// UpdateBankBalance adds delta to the current balance if the row is still at
	// expectedVersion. A version mismatch returns apperrors.ErrConflict.
	UpdateBankBalance(ctx context.Context, bankAccountID string, delta decimal.Decimal, expectedVersion int64, userID string, now time.Time) error

	// UpdateReconciliationSchedule stores the next due date and, when given, the last statement.
	UpdateReconciliationSchedule(ctx context.Context, bankAccountID string, nextDue *time.Time, lastStatementDate *time.Time, lastStatementBalance *decimal.Decimal, userID string, now time.Time) error
}

// BankTransactionStore persists rows of a bank account's own ledger.
type BankTransactionStore interface {
	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error
	FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)
	ListBankTransactions(ctx context.Context, bankAccountID string, filter BankTransactionFilter) ([]domain.BankTransaction, error)
	DeleteBankTransaction(ctx context.Context, transactionID string) error

	// MarkTransactionReconciled stamps one transaction; already reconciled rows return apperrors.ErrInvalidState.
	MarkTransactionReconciled(ctx context.Context, transactionID string, reconciliationID string, at time.Time) error

	// MarkTransactionsReconciledInPeriod stamps every unreconciled transaction dated within [start, end].
	MarkTransactionsReconciledInPeriod(ctx context.Context, bankAccountID string, start, end time.Time, reconciliationID string, at time.Time) (int, error)

	// LinkJournalEntry sets the journal entry of an unlinked transaction; an existing link returns apperrors.ErrConflict.
	LinkJournalEntry(ctx context.Context, transactionID string, journalEntryID string) error

	// SumBankTransactions returns the signed total and count of transactions dated on or before upTo.
	SumBankTransactions(ctx context.Context, bankAccountID string, upTo *time.Time, unreconciledOnly bool) (decimal.Decimal, int, error)
}

// ReconciliationStore persists reconciliation sessions.
type ReconciliationStore interface {
	SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)
	FindReconciliationForUpdate(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)
	UpdateReconciliation(ctx context.Context, rec domain.Reconciliation) error
	ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error)
	LatestReconciliation(ctx context.Context, bankAccountID string) (*domain.Reconciliation, error)
}

// BankRepositoryFacade combines all bank-related repository interfaces
type BankRepositoryFacade interface {
	BankAccountStore
	BankTransactionStore
	ReconciliationStore
}
