package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is the append-only ledger_rows table row.
type LedgerRow struct {
	RowID          string          `db:"row_id"`
	Seq            int64           `db:"seq"` // BIGSERIAL, insertion order
	AccountID      string          `db:"account_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	EntryNumber    string          `db:"entry_number"`
	EntryDate      time.Time       `db:"entry_date"`
	Description    *string         `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	FiscalYear     int             `db:"fiscal_year"`
	FiscalMonth    int             `db:"fiscal_month"`
	FiscalQuarter  int             `db:"fiscal_quarter"`
	CreatedAt      time.Time       `db:"created_at"`
}
