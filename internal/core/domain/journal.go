package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether an amount sits on the debit or the credit side.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
	// Void is reserved; no operation transitions into it yet.
	Void JournalStatus = "VOID"
)

// EntryType classifies the business event behind a journal entry.
type EntryType string

const (
	EntryGeneral        EntryType = "GENERAL"
	EntrySales          EntryType = "SALES"
	EntryPurchase       EntryType = "PURCHASE"
	EntryPayment        EntryType = "PAYMENT"
	EntryReceipt        EntryType = "RECEIPT"
	EntryPayroll        EntryType = "PAYROLL"
	EntryDepreciation   EntryType = "DEPRECIATION"
	EntryAdjustment     EntryType = "ADJUSTMENT"
	EntryOpeningBalance EntryType = "OPENING_BALANCE"
	EntryClosing        EntryType = "CLOSING"
	EntryBank           EntryType = "BANK"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryGeneral, EntrySales, EntryPurchase, EntryPayment, EntryReceipt, EntryPayroll,
		EntryDepreciation, EntryAdjustment, EntryOpeningBalance, EntryClosing, EntryBank:
		return true
	}
	return false
}

// SourceDocumentType names the collaborator record an entry was generated from.
type SourceDocumentType string

const (
	SourceOrder               SourceDocumentType = "ORDER"
	SourceInvoice             SourceDocumentType = "INVOICE"
	SourceBill                SourceDocumentType = "BILL"
	SourceExpense             SourceDocumentType = "EXPENSE"
	SourceCashflowTransaction SourceDocumentType = "CASHFLOW_TRANSACTION"
	SourceManual              SourceDocumentType = "MANUAL"
	SourceBankTransaction     SourceDocumentType = "BANK_TRANSACTION"
	SourceOther               SourceDocumentType = "OTHER"
)

// IsValid reports whether t is a known source document type.
func (t SourceDocumentType) IsValid() bool {
	switch t {
	case SourceOrder, SourceInvoice, SourceBill, SourceExpense, SourceCashflowTransaction,
		SourceManual, SourceBankTransaction, SourceOther:
		return true
	}
	return false
}

// SourceDocument links an entry back to the record that produced it.
type SourceDocument struct {
	Type SourceDocumentType `json:"type"`
	ID   string             `json:"id"`
}

// IsManual reports whether entries with this source are user-keyed.
func (s *SourceDocument) IsManual() bool {
	return s == nil || s.Type == SourceManual
}

// FiscalPeriod is the accounting period an entry belongs to.
type FiscalPeriod struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Quarter int `json:"quarter"`
}

// IsZero reports whether the period was left unset.
func (p FiscalPeriod) IsZero() bool {
	return p.Year == 0 && p.Month == 0 && p.Quarter == 0
}

// FiscalPeriodFor derives the calendar fiscal period of t.
func FiscalPeriodFor(t time.Time) FiscalPeriod {
	month := int(t.Month())
	return FiscalPeriod{
		Year:    t.Year(),
		Month:   month,
		Quarter: (month + 2) / 3,
	}
}

// JournalLine is one debit or credit leg of an entry.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	LineNumber     int             `json:"lineNumber"`
	AccountID      string          `json:"accountID"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// Side returns the non-zero side of the line.
func (l JournalLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the magnitude of the non-zero side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Validate checks that exactly one side is set and nothing is negative.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("line %d: account is required", l.LineNumber)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("line %d: amounts cannot be negative", l.LineNumber)
	}
	hasDebit := l.Debit.IsPositive()
	hasCredit := l.Credit.IsPositive()
	if hasDebit == hasCredit {
		return fmt.Errorf("line %d: exactly one of debit or credit must be non-zero", l.LineNumber)
	}
	return nil
}

// JournalEntry is a balanced, multi-line financial event.
type JournalEntry struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	EntryType      EntryType       `json:"entryType"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	SourceDocument *SourceDocument `json:"sourceDocument,omitempty"`
	FiscalPeriod   FiscalPeriod    `json:"fiscalPeriod"`
	Lines          []JournalLine   `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	IsBalanced     bool            `json:"isBalanced"`
	Status         JournalStatus   `json:"status"`
	ReversalOfID   *string         `json:"reversalOfID,omitempty"`
	ReversedByID   *string         `json:"reversedByID,omitempty"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	PostedBy       *string         `json:"postedBy,omitempty"`
	AuditFields
}

// Recalculate refreshes the derived totals and the balanced flag from the lines.
func (e *JournalEntry) Recalculate() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	e.TotalDebit = debit
	e.TotalCredit = credit
	e.IsBalanced = WithinTolerance(debit, credit)
}

// AccountIDs returns the distinct accounts touched by the entry, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// CanPost returns nil if the entry may move from DRAFT to POSTED.
func (e JournalEntry) CanPost() error {
	if e.Status != Draft {
		return fmt.Errorf("entry %s is %s, only DRAFT entries can be posted", e.EntryNumber, e.Status)
	}
	if !e.IsBalanced {
		return fmt.Errorf("entry %s is not balanced: debit %s, credit %s", e.EntryNumber, e.TotalDebit, e.TotalCredit)
	}
	return nil
}

// CanReverse returns nil if the entry may move from POSTED to REVERSED.
func (e JournalEntry) CanReverse() error {
	if e.Status != Posted {
		return fmt.Errorf("entry %s is %s, only POSTED entries can be reversed", e.EntryNumber, e.Status)
	}
	if e.ReversedByID != nil {
		return fmt.Errorf("entry %s has already been reversed", e.EntryNumber)
	}
	return nil
}

// ReversalLines returns copies of the lines with debit and credit swapped.
func (e JournalEntry) ReversalLines() []JournalLine {
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLine{
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
		}
	}
	return lines
}

// FormatEntryNumber renders JE-YYYYMMDD-NNNN for the given day and sequence value.
func FormatEntryNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("JE-%s-%04d", day.UTC().Format("20060102"), seq)
}
