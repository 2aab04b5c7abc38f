package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) PostJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) CreateAndPostJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseJournalEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockLedgerService) GetAccountTransactions(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountTransactions, error) {
	args := m.Called(ctx, accountID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountTransactions), args.Error(1)
}
func (m *MockLedgerService) GetGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerPage), args.Error(1)
}
func (m *MockLedgerService) GetAccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountActivity), args.Error(1)
}
func (m *MockLedgerService) VerifyBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceDrift), args.Error(1)
}
func (m *MockLedgerService) RebuildBalances(ctx context.Context, userID string) ([]domain.BalanceDrift, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceDrift), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}
func (m *MockReportingService) CashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}
func (m *MockReportingService) FinancialSummary(ctx context.Context, from, to time.Time) (*domain.FinancialSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialSummary), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock BankService ---
type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankService) GetPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankService) UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankService) DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string) error {
	return m.Called(ctx, bankAccountID, userID).Error(0)
}
func (m *MockBankService) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}
func (m *MockBankService) GetBankAccountSummary(ctx context.Context, bankAccountID string) (*domain.BankAccountSummary, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccountSummary), args.Error(1)
}
func (m *MockBankService) GetBalanceAtDate(ctx context.Context, bankAccountID string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, bankAccountID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockBankService) ListAccountsNeedingReconciliation(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}
func (m *MockBankService) AddTransaction(ctx context.Context, bankAccountID string, req dto.AddBankTransactionRequest, userID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}
func (m *MockBankService) ListTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}
func (m *MockBankService) GetUnreconciledTransactions(ctx context.Context, bankAccountID string) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}
func (m *MockBankService) DeleteTransaction(ctx context.Context, bankAccountID string, transactionID string, userID string) error {
	args := m.Called(ctx, bankAccountID, transactionID, userID)
	return args.Error(0)
}
func (m *MockBankService) ReconcileTransaction(ctx context.Context, bankAccountID string, transactionID string, reconciliationID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, transactionID, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}
func (m *MockBankService) PostTransactionToGeneralLedger(ctx context.Context, bankAccountID string, transactionID string, req dto.PostBankTransactionRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, bankAccountID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockBankService) CreateReconciliation(ctx context.Context, bankAccountID string, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}
func (m *MockBankService) StartReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, req dto.StartReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID, reconciliationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}
func (m *MockBankService) CompleteReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, userID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID, reconciliationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}
func (m *MockBankService) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

var _ portssvc.BankSvcFacade = (*MockBankService)(nil)
