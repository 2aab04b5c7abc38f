package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionType is the kind of movement recorded on a bank account.
type BankTransactionType string

const (
	BankDeposit    BankTransactionType = "DEPOSIT"
	BankWithdrawal BankTransactionType = "WITHDRAWAL"
	BankTransfer   BankTransactionType = "TRANSFER"
	BankFee        BankTransactionType = "FEE"
	BankInterest   BankTransactionType = "INTEREST"
	BankCheck      BankTransactionType = "CHECK"
	BankCardCharge BankTransactionType = "CARD_CHARGE"
	BankOther      BankTransactionType = "OTHER"
)

// IsValid reports whether t is a known bank transaction type.
func (t BankTransactionType) IsValid() bool {
	switch t {
	case BankDeposit, BankWithdrawal, BankTransfer, BankFee, BankInterest,
		BankCheck, BankCardCharge, BankOther:
		return true
	}
	return false
}

// IsInflow reports whether the type increases the bank balance.
func (t BankTransactionType) IsInflow() bool {
	return t == BankDeposit || t == BankInterest
}

// BalanceEffect returns the signed change amount has on the bank balance.
func (t BankTransactionType) BalanceEffect(amount decimal.Decimal) decimal.Decimal {
	if t.IsInflow() {
		return amount
	}
	return amount.Neg()
}

// ReconciliationFrequency controls when the next reconciliation falls due.
type ReconciliationFrequency string

const (
	FrequencyDaily     ReconciliationFrequency = "DAILY"
	FrequencyWeekly    ReconciliationFrequency = "WEEKLY"
	FrequencyBiWeekly  ReconciliationFrequency = "BI_WEEKLY"
	FrequencyMonthly   ReconciliationFrequency = "MONTHLY"
	FrequencyQuarterly ReconciliationFrequency = "QUARTERLY"
	FrequencyAnnually  ReconciliationFrequency = "ANNUALLY"
	FrequencyManual    ReconciliationFrequency = "MANUAL"
)

// IsValid reports whether f is a known frequency.
func (f ReconciliationFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyAnnually, FrequencyManual:
		return true
	}
	return false
}

// NextDue returns the next due date counted from "from", or nil for manual schedules.
func (f ReconciliationFrequency) NextDue(from time.Time) *time.Time {
	var next time.Time
	switch f {
	case FrequencyDaily:
		next = from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		next = from.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		next = from.AddDate(0, 0, 14)
	case FrequencyMonthly:
		next = from.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		next = from.AddDate(0, 3, 0)
	case FrequencyAnnually:
		next = from.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}

// BankAccount is a real-world bank account with its own ledger.
type BankAccount struct {
	BankAccountID           string                  `json:"bankAccountID"`
	Name                    string                  `json:"name"`
	BankName                string                  `json:"bankName"`
	AccountNumberMasked     string                  `json:"accountNumberMasked"`
	CurrencyCode            string                  `json:"currencyCode"`
	LedgerAccountID         *string                 `json:"ledgerAccountID,omitempty"`
	OpeningBalance          decimal.Decimal         `json:"openingBalance"`
	CurrentBalance          decimal.Decimal         `json:"currentBalance"`
	IsPrimary               bool                    `json:"isPrimary"`
	IsActive                bool                    `json:"isActive"`
	RequiresReconciliation  bool                    `json:"requiresReconciliation"`
	ReconciliationFrequency ReconciliationFrequency `json:"reconciliationFrequency"`
	NextReconciliationDue   *time.Time              `json:"nextReconciliationDue,omitempty"`
	LastStatementDate       *time.Time              `json:"lastStatementDate,omitempty"`
	LastStatementBalance    *decimal.Decimal        `json:"lastStatementBalance,omitempty"`
	Version                 int64                   `json:"version"`
	AuditFields
}

// DisplayName is "<bank> <masked number>" used in listings.
func (b BankAccount) DisplayName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", b.BankName, b.AccountNumberMasked))
}

// IsReconciliationDue reports whether the account should be reconciled at now.
func (b BankAccount) IsReconciliationDue(now time.Time) bool {
	if !b.IsActive || !b.RequiresReconciliation || b.NextReconciliationDue == nil {
		return false
	}
	return !b.NextReconciliationDue.After(now)
}

// MaskAccountNumber keeps only the last four characters of a raw account number.
func MaskAccountNumber(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(raw) <= 4 {
		return "****" + raw
	}
	return "****" + raw[len(raw)-4:]
}

// BankTransaction is a row on a bank account's own ledger.
type BankTransaction struct {
	TransactionID    string              `json:"transactionID"`
	BankAccountID    string              `json:"bankAccountID"`
	TransactionDate  time.Time           `json:"transactionDate"`
	Description      string              `json:"description"`
	Amount           decimal.Decimal     `json:"amount"`
	TransactionType  BankTransactionType `json:"transactionType"`
	Reference        string              `json:"reference,omitempty"`
	IsReconciled     bool                `json:"isReconciled"`
	ReconciledAt     *time.Time          `json:"reconciledAt,omitempty"`
	ReconciliationID *string             `json:"reconciliationID,omitempty"`
	JournalEntryID   *string             `json:"journalEntryID,omitempty"`
	AuditFields
}

// SignedAmount returns the transaction's effect on the bank balance.
func (t BankTransaction) SignedAmount() decimal.Decimal {
	return t.TransactionType.BalanceEffect(t.Amount)
}

// ReconciliationStatus is the workflow state of a reconciliation.
type ReconciliationStatus string

const (
	ReconciliationDraft       ReconciliationStatus = "DRAFT"
	ReconciliationInProgress  ReconciliationStatus = "IN_PROGRESS"
	ReconciliationReconciled  ReconciliationStatus = "RECONCILED"
	ReconciliationDiscrepancy ReconciliationStatus = "DISCREPANCY"
)

// Reconciliation compares a bank statement to the book balance for a period.
type Reconciliation struct {
	ReconciliationID   string               `json:"reconciliationID"`
	BankAccountID      string               `json:"bankAccountID"`
	StatementStartDate time.Time            `json:"statementStartDate"`
	StatementEndDate   time.Time            `json:"statementEndDate"`
	StatementBalance   decimal.Decimal      `json:"statementBalance"`
	BookBalance        decimal.Decimal      `json:"bookBalance"`
	Difference         decimal.Decimal      `json:"difference"`
	Deposits           decimal.Decimal      `json:"deposits"`
	Withdrawals        decimal.Decimal      `json:"withdrawals"`
	BankFees           decimal.Decimal      `json:"bankFees"`
	InterestEarned     decimal.Decimal      `json:"interestEarned"`
	Notes              string               `json:"notes,omitempty"`
	Status             ReconciliationStatus `json:"status"`
	CompletedAt        *time.Time           `json:"completedAt,omitempty"`
	CompletedBy        *string              `json:"completedBy,omitempty"`
	ReconciledCount    int                  `json:"reconciledCount"`
	AuditFields
}

// IsWithinTolerance reports whether the statement and book balances agree.
func (r Reconciliation) IsWithinTolerance() bool {
	return IsNegligible(r.Difference)
}

// BankAccountSummary is the dashboard view of a bank account.
type BankAccountSummary struct {
	Account             BankAccount      `json:"account"`
	UnreconciledBalance decimal.Decimal  `json:"unreconciledBalance"`
	UnreconciledCount   int              `json:"unreconciledCount"`
	LastReconciliation  *Reconciliation  `json:"lastReconciliation,omitempty"`
	ReconciliationDue   bool             `json:"reconciliationDue"`
	LedgerBalance       *decimal.Decimal `json:"ledgerBalance,omitempty"`
}
