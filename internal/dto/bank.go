package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name                    string                         `json:"name" binding:"required"`
	BankName                string                         `json:"bankName" binding:"required"`
	AccountNumber           string                         `json:"accountNumber" binding:"required,min=4"` // Stored masked
	CurrencyCode            string                         `json:"currencyCode"`
	LedgerAccountID         *string                        `json:"ledgerAccountID"` // Chart account mirrored by this bank account
	OpeningBalance          decimal.Decimal                `json:"openingBalance"`
	IsPrimary               bool                           `json:"isPrimary"`
	RequiresReconciliation  bool                           `json:"requiresReconciliation"`
	ReconciliationFrequency domain.ReconciliationFrequency `json:"reconciliationFrequency"` // Defaults to MONTHLY
}

// UpdateBankAccountRequest changes the settings of a bank account. Nil fields are left unchanged.
type UpdateBankAccountRequest struct {
	Name                    *string                         `json:"name"`
	BankName                *string                         `json:"bankName"`
	LedgerAccountID         *string                         `json:"ledgerAccountID"`
	IsPrimary               *bool                           `json:"isPrimary"`
	IsActive                *bool                           `json:"isActive"`
	RequiresReconciliation  *bool                           `json:"requiresReconciliation"`
	ReconciliationFrequency *domain.ReconciliationFrequency `json:"reconciliationFrequency"`
	NextReconciliationDue   *time.Time                      `json:"nextReconciliationDue"` // Overrides the computed due date
}

// AddBankTransactionRequest records a movement on a bank account.
type AddBankTransactionRequest struct {
	TransactionDate time.Time                  `json:"transactionDate" binding:"required"`
	Description     string                     `json:"description" binding:"required"`
	Amount          decimal.Decimal            `json:"amount" binding:"required"`
	TransactionType domain.BankTransactionType `json:"transactionType" binding:"required"`
	Reference       string                     `json:"reference"`
}

// ListBankTransactionsParams defines query parameters for listing bank transactions.
type ListBankTransactionsParams struct {
	DateFrom         string `form:"dateFrom"`
	DateTo           string `form:"dateTo"`
	UnreconciledOnly bool   `form:"unreconciledOnly"`
	Limit            int    `form:"limit,default=100"`
	Offset           int    `form:"offset,default=0"`
}

// ReconcileTransactionRequest stamps one transaction with a reconciliation.
type ReconcileTransactionRequest struct {
	ReconciliationID string `json:"reconciliationID" binding:"required"`
}

// PostBankTransactionRequest posts a bank transaction into the general ledger.
type PostBankTransactionRequest struct {
	OffsetAccountID string `json:"offsetAccountID" binding:"required"`
	Description     string `json:"description"`
}

// CreateReconciliationRequest opens a reconciliation against a bank statement.
type CreateReconciliationRequest struct {
	StatementStartDate time.Time        `json:"statementStartDate" binding:"required"`
	StatementEndDate   time.Time        `json:"statementEndDate" binding:"required"`
	StatementBalance   decimal.Decimal  `json:"statementBalance"`
	BookBalance        *decimal.Decimal `json:"bookBalance"` // Computed from the bank ledger when omitted
	Deposits           decimal.Decimal  `json:"deposits"`
	Withdrawals        decimal.Decimal  `json:"withdrawals"`
	BankFees           decimal.Decimal  `json:"bankFees"`
	InterestEarned     decimal.Decimal  `json:"interestEarned"`
	Notes              string           `json:"notes"`
}

// StartReconciliationRequest optionally corrects the balances of a reconciliation as it is started.
type StartReconciliationRequest struct {
	StatementBalance *decimal.Decimal `json:"statementBalance"`
	BookBalance      *decimal.Decimal `json:"bookBalance"` // Recomputed from the bank ledger when restarting a discrepancy
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID           string                         `json:"bankAccountID"`
	Name                    string                         `json:"name"`
	BankName                string                         `json:"bankName"`
	DisplayName             string                         `json:"displayName"`
	AccountNumberMasked     string                         `json:"accountNumberMasked"`
	CurrencyCode            string                         `json:"currencyCode"`
	LedgerAccountID         *string                        `json:"ledgerAccountID,omitempty"`
	OpeningBalance          decimal.Decimal                `json:"openingBalance"`
	CurrentBalance          decimal.Decimal                `json:"currentBalance"`
	CurrentBalanceFormatted string                         `json:"currentBalanceFormatted"`
	IsPrimary               bool                           `json:"isPrimary"`
	IsActive                bool                           `json:"isActive"`
	RequiresReconciliation  bool                           `json:"requiresReconciliation"`
	ReconciliationFrequency domain.ReconciliationFrequency `json:"reconciliationFrequency"`
	NextReconciliationDue   *time.Time                     `json:"nextReconciliationDue,omitempty"`
	LastStatementDate       *time.Time                     `json:"lastStatementDate,omitempty"`
	LastStatementBalance    *decimal.Decimal               `json:"lastStatementBalance,omitempty"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	TransactionID    string                     `json:"transactionID"`
	BankAccountID    string                     `json:"bankAccountID"`
	TransactionDate  string                     `json:"transactionDate"`
	Description      string                     `json:"description"`
	Amount           decimal.Decimal            `json:"amount"`
	SignedAmount     decimal.Decimal            `json:"signedAmount"`
	TransactionType  domain.BankTransactionType `json:"transactionType"`
	Reference        string                     `json:"reference,omitempty"`
	IsReconciled     bool                       `json:"isReconciled"`
	ReconciledAt     *time.Time                 `json:"reconciledAt,omitempty"`
	ReconciliationID *string                    `json:"reconciliationID,omitempty"`
	JournalEntryID   *string                    `json:"journalEntryID,omitempty"`
}

// ReconciliationResponse defines the data returned for a reconciliation.
type ReconciliationResponse struct {
	ReconciliationID   string                      `json:"reconciliationID"`
	BankAccountID      string                      `json:"bankAccountID"`
	StatementStartDate string                      `json:"statementStartDate"`
	StatementEndDate   string                      `json:"statementEndDate"`
	StatementBalance   decimal.Decimal             `json:"statementBalance"`
	BookBalance        decimal.Decimal             `json:"bookBalance"`
	Difference         decimal.Decimal             `json:"difference"`
	Deposits           decimal.Decimal             `json:"deposits"`
	Withdrawals        decimal.Decimal             `json:"withdrawals"`
	BankFees           decimal.Decimal             `json:"bankFees"`
	InterestEarned     decimal.Decimal             `json:"interestEarned"`
	Notes              string                      `json:"notes,omitempty"`
	Status             domain.ReconciliationStatus `json:"status"`
	CompletedAt        *time.Time                  `json:"completedAt,omitempty"`
	ReconciledCount    int                         `json:"reconciledCount"`
}

// BankAccountSummaryResponse is the dashboard view of a bank account.
type BankAccountSummaryResponse struct {
	Account             BankAccountResponse     `json:"account"`
	UnreconciledBalance decimal.Decimal         `json:"unreconciledBalance"`
	UnreconciledCount   int                     `json:"unreconciledCount"`
	LastReconciliation  *ReconciliationResponse `json:"lastReconciliation,omitempty"`
	ReconciliationDue   bool                    `json:"reconciliationDue"`
	LedgerBalance       *decimal.Decimal        `json:"ledgerBalance,omitempty"`
}

// BankBalanceAtDateResponse is the bank ledger balance at a date.
type BankBalanceAtDateResponse struct {
	BankAccountID string          `json:"bankAccountID"`
	Date          string          `json:"date"`
	Balance       decimal.Decimal `json:"balance"`
	Formatted     string          `json:"formatted"`
}

// ToBankAccountResponse converts a domain.BankAccount to its DTO.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:           b.BankAccountID,
		Name:                    b.Name,
		BankName:                b.BankName,
		DisplayName:             b.DisplayName(),
		AccountNumberMasked:     b.AccountNumberMasked,
		CurrencyCode:            b.CurrencyCode,
		LedgerAccountID:         b.LedgerAccountID,
		OpeningBalance:          b.OpeningBalance,
		CurrentBalance:          b.CurrentBalance,
		CurrentBalanceFormatted: utils.FormatMoney(b.CurrentBalance, b.CurrencyCode),
		IsPrimary:               b.IsPrimary,
		IsActive:                b.IsActive,
		RequiresReconciliation:  b.RequiresReconciliation,
		ReconciliationFrequency: b.ReconciliationFrequency,
		NextReconciliationDue:   b.NextReconciliationDue,
		LastStatementDate:       b.LastStatementDate,
		LastStatementBalance:    b.LastStatementBalance,
	}
}

// ToListBankAccountResponse converts a slice of bank accounts.
func ToListBankAccountResponse(accounts []domain.BankAccount) []BankAccountResponse {
	res := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToBankAccountResponse(&accounts[i])
	}
	return res
}

// ToBankTransactionResponse converts a domain.BankTransaction to its DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:    t.TransactionID,
		BankAccountID:    t.BankAccountID,
		TransactionDate:  t.TransactionDate.Format(DateLayout),
		Description:      t.Description,
		Amount:           t.Amount,
		SignedAmount:     t.SignedAmount(),
		TransactionType:  t.TransactionType,
		Reference:        t.Reference,
		IsReconciled:     t.IsReconciled,
		ReconciledAt:     t.ReconciledAt,
		ReconciliationID: t.ReconciliationID,
		JournalEntryID:   t.JournalEntryID,
	}
}

// ToListBankTransactionResponse converts a slice of bank transactions.
func ToListBankTransactionResponse(txns []domain.BankTransaction) []BankTransactionResponse {
	res := make([]BankTransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToBankTransactionResponse(&txns[i])
	}
	return res
}

// ToReconciliationResponse converts a domain.Reconciliation to its DTO.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID:   r.ReconciliationID,
		BankAccountID:      r.BankAccountID,
		StatementStartDate: r.StatementStartDate.Format(DateLayout),
		StatementEndDate:   r.StatementEndDate.Format(DateLayout),
		StatementBalance:   r.StatementBalance,
		BookBalance:        r.BookBalance,
		Difference:         r.Difference,
		Deposits:           r.Deposits,
		Withdrawals:        r.Withdrawals,
		BankFees:           r.BankFees,
		InterestEarned:     r.InterestEarned,
		Notes:              r.Notes,
		Status:             r.Status,
		CompletedAt:        r.CompletedAt,
		ReconciledCount:    r.ReconciledCount,
	}
}

// ToListReconciliationResponse converts a slice of reconciliations.
func ToListReconciliationResponse(recs []domain.Reconciliation) []ReconciliationResponse {
	res := make([]ReconciliationResponse, len(recs))
	for i := range recs {
		res[i] = ToReconciliationResponse(&recs[i])
	}
	return res
}

// ToBankAccountSummaryResponse converts a summary view.
func ToBankAccountSummaryResponse(s *domain.BankAccountSummary) BankAccountSummaryResponse {
	res := BankAccountSummaryResponse{
		Account:             ToBankAccountResponse(&s.Account),
		UnreconciledBalance: s.UnreconciledBalance,
		UnreconciledCount:   s.UnreconciledCount,
		ReconciliationDue:   s.ReconciliationDue,
		LedgerBalance:       s.LedgerBalance,
	}
	if s.LastReconciliation != nil {
		last := ToReconciliationResponse(s.LastReconciliation)
		res.LastReconciliation = &last
	}
	return res
}
