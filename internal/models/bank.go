package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the bank_accounts table row.
type BankAccount struct {
	BankAccountID           string           `db:"bank_account_id"`
	Name                    string           `db:"name"`
	BankName                string           `db:"bank_name"`
	AccountNumberMasked     string           `db:"account_number_masked"`
	CurrencyCode            string           `db:"currency_code"`
	LedgerAccountID         *string          `db:"ledger_account_id"`
	OpeningBalance          decimal.Decimal  `db:"opening_balance"`
	CurrentBalance          decimal.Decimal  `db:"current_balance"`
	IsPrimary               bool             `db:"is_primary"`
	IsActive                bool             `db:"is_active"`
	RequiresReconciliation  bool             `db:"requires_reconciliation"`
	ReconciliationFrequency string           `db:"reconciliation_frequency"`
	NextReconciliationDue   *time.Time       `db:"next_reconciliation_due"`
	LastStatementDate       *time.Time       `db:"last_statement_date"`
	LastStatementBalance    *decimal.Decimal `db:"last_statement_balance"`
	Version                 int64            `db:"version"`
	AuditFields
}

// BankTransaction is the bank_transactions table row.
type BankTransaction struct {
	TransactionID    string          `db:"transaction_id"`
	BankAccountID    string          `db:"bank_account_id"`
	TransactionDate  time.Time       `db:"transaction_date"`
	Description      string          `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	TransactionType  string          `db:"transaction_type"`
	Reference        *string         `db:"reference"`
	IsReconciled     bool            `db:"is_reconciled"`
	ReconciledAt     *time.Time      `db:"reconciled_at"`
	ReconciliationID *string         `db:"reconciliation_id"`
	JournalEntryID   *string         `db:"journal_entry_id"`
	AuditFields
}

// Reconciliation is the bank_reconciliations table row.
type Reconciliation struct {
	ReconciliationID   string          `db:"reconciliation_id"`
	BankAccountID      string          `db:"bank_account_id"`
	StatementStartDate time.Time       `db:"statement_start_date"`
	StatementEndDate   time.Time       `db:"statement_end_date"`
	StatementBalance   decimal.Decimal `db:"statement_balance"`
	BookBalance        decimal.Decimal `db:"book_balance"`
	Difference         decimal.Decimal `db:"difference"`
	Deposits           decimal.Decimal `db:"deposits"`
	Withdrawals        decimal.Decimal `db:"withdrawals"`
	BankFees           decimal.Decimal `db:"bank_fees"`
	InterestEarned     decimal.Decimal `db:"interest_earned"`
	Notes              *string         `db:"notes"`
	Status             string          `db:"status"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CompletedBy        *string         `db:"completed_by"`
	ReconciledCount    int             `db:"reconciled_count"`
	AuditFields
}
