package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID            string          `db:"entry_id"`
	EntryNumber        string          `db:"entry_number"`
	EntryDate          time.Time       `db:"entry_date"`
	EntryType          string          `db:"entry_type"`
	Description        string          `db:"description"`
	Reference          *string         `db:"reference"`
	Notes              *string         `db:"notes"`
	Tags               []string        `db:"tags"`
	SourceDocumentType *string         `db:"source_document_type"`
	SourceDocumentID   *string         `db:"source_document_id"`
	FiscalYear         int             `db:"fiscal_year"`
	FiscalMonth        int             `db:"fiscal_month"`
	FiscalQuarter      int             `db:"fiscal_quarter"`
	TotalDebit         decimal.Decimal `db:"total_debit"`
	TotalCredit        decimal.Decimal `db:"total_credit"`
	Status             string          `db:"status"`
	ReversalOfID       *string         `db:"reversal_of_id"` // FK to the entry this one reverses
	ReversedByID       *string         `db:"reversed_by_id"` // FK to the entry that reversed this one
	PostedAt           *time.Time      `db:"posted_at"`
	PostedBy           *string         `db:"posted_by"`
	AuditFields
}

// JournalLine is the journal_lines table row.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	LineNumber     int             `db:"line_number"`
	AccountID      string          `db:"account_id"`
	Description    *string         `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
}
