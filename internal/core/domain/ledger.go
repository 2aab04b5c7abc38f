package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is the immutable per-line record written when an entry is posted.
// Seq is assigned by the database and gives the insertion order.
type LedgerRow struct {
	RowID          string          `json:"rowID"`
	Seq            int64           `json:"seq"`
	AccountID      string          `json:"accountID"`
	JournalEntryID string          `json:"journalEntryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	FiscalPeriod   FiscalPeriod    `json:"fiscalPeriod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AccountTransaction is a ledger row with the account's running balance after it.
type AccountTransaction struct {
	LedgerRow
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountTransactions is the ordered history of one account over a range.
type AccountTransactions struct {
	Account        Account              `json:"account"`
	Range          DateRange            `json:"range"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	Transactions   []AccountTransaction `json:"transactions"`
}

// BalanceSums holds raw debit and credit totals of an account's ledger rows.
type BalanceSums struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	RowCount  int             `json:"rowCount"`
}

// Net returns debit minus credit.
func (s BalanceSums) Net() decimal.Decimal {
	return s.Debit.Sub(s.Credit)
}

// AccountActivity summarizes an account's postings within a fiscal month.
type AccountActivity struct {
	AccountID        string          `json:"accountID"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	NetActivity      decimal.Decimal `json:"netActivity"`
	TransactionCount int             `json:"transactionCount"`
}

// TrialBalanceRow places an account's net balance in exactly one column.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is the global debit/credit check as of a date.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"`
	IsBalanced  bool              `json:"isBalanced"`
}

// GeneralLedgerFilter narrows a general ledger listing.
type GeneralLedgerFilter struct {
	Account     string
	EntryNumber string
	Search      string
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	NextToken   *string
}

// GeneralLedgerLine is a ledger row joined with its account.
type GeneralLedgerLine struct {
	LedgerRow
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
}

// GeneralLedgerPage is one page of a general ledger listing plus totals over the whole filter.
type GeneralLedgerPage struct {
	Lines       []GeneralLedgerLine `json:"lines"`
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	NextToken   *string             `json:"nextToken,omitempty"`
}

// BalanceDrift reports an account whose cached balance disagrees with its ledger rows.
type BalanceDrift struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Difference    decimal.Decimal `json:"difference"`
}
