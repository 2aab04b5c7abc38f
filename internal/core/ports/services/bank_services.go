package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// BankAccountSvc manages bank accounts and their own transaction ledger
type BankAccountSvc interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	GetPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, userID string) (*domain.BankAccount, error)
	DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string) error
	ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error)
	GetBankAccountSummary(ctx context.Context, bankAccountID string) (*domain.BankAccountSummary, error)
	GetBalanceAtDate(ctx context.Context, bankAccountID string, date time.Time) (decimal.Decimal, error)
	ListAccountsNeedingReconciliation(ctx context.Context) ([]domain.BankAccount, error)

	AddTransaction(ctx context.Context, bankAccountID string, req dto.AddBankTransactionRequest, userID string) (*domain.BankTransaction, error)
	ListTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, error)
	GetUnreconciledTransactions(ctx context.Context, bankAccountID string) ([]domain.BankTransaction, error)
	DeleteTransaction(ctx context.Context, bankAccountID string, transactionID string, userID string) error
	ReconcileTransaction(ctx context.Context, bankAccountID string, transactionID string, reconciliationID string) (*domain.BankTransaction, error)
	PostTransactionToGeneralLedger(ctx context.Context, bankAccountID string, transactionID string, req dto.PostBankTransactionRequest, userID string) (*domain.JournalEntry, error)
}

// ReconciliationSvc runs the reconciliation workflow
type ReconciliationSvc interface {
	CreateReconciliation(ctx context.Context, bankAccountID string, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error)
	StartReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, req dto.StartReconciliationRequest, userID string) (*domain.Reconciliation, error)
	CompleteReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, userID string) (*domain.Reconciliation, error)
	ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error)
}

// BankSvcFacade combines all bank-related service interfaces
type BankSvcFacade interface {
	BankAccountSvc
	ReconciliationSvc
}
