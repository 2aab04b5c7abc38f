package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Account repository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return m.Called(ctx, accountID, userID, now).Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	return m.Called(ctx, deltas, userID, now).Error(0)
}

func (m *MockAccountRepository) OverwriteBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	return m.Called(ctx, balances, userID, now).Error(0)
}

// --- Journal repository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalRepository) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID string, userID string, at time.Time) error {
	return m.Called(ctx, entryID, userID, at).Error(0)
}

func (m *MockJournalRepository) MarkReversed(ctx context.Context, entryID string, reversedByID string, userID string, at time.Time) error {
	return m.Called(ctx, entryID, reversedByID, userID, at).Error(0)
}

// --- Ledger repository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) InsertLedgerRows(ctx context.Context, rows []domain.LedgerRow) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *MockLedgerRepository) SumBalances(ctx context.Context, window domain.DateRange) (map[string]domain.BalanceSums, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.BalanceSums), args.Error(1)
}

func (m *MockLedgerRepository) SumAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.BalanceSums, error) {
	args := m.Called(ctx, accountID, window)
	return args.Get(0).(domain.BalanceSums), args.Error(1)
}

func (m *MockLedgerRepository) ListAccountRows(ctx context.Context, accountID string, window domain.DateRange) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, accountID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) ListGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerPage), args.Error(1)
}

func (m *MockLedgerRepository) AccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountActivity), args.Error(1)
}

// --- Bank repository ---

type MockBankRepository struct {
	mock.Mock
}

var _ portsrepo.BankRepositoryFacade = (*MockBankRepository)(nil)

func (m *MockBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) FindPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockBankRepository) ClearPrimaryBankAccounts(ctx context.Context, exceptID string, userID string, now time.Time) error {
	return m.Called(ctx, exceptID, userID, now).Error(0)
}

func (m *MockBankRepository) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) ListBankAccountsDueForReconciliation(ctx context.Context, now time.Time) ([]domain.BankAccount, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) UpdateBankBalance(ctx context.Context, bankAccountID string, delta decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	return m.Called(ctx, bankAccountID, delta, expectedVersion, userID, now).Error(0)
}

func (m *MockBankRepository) UpdateReconciliationSchedule(ctx context.Context, bankAccountID string, nextDue *time.Time, lastStatementDate *time.Time, lastStatementBalance *decimal.Decimal, userID string, now time.Time) error {
	return m.Called(ctx, bankAccountID, nextDue, lastStatementDate, lastStatementBalance, userID, now).Error(0)
}

func (m *MockBankRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockBankRepository) FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, filter portsrepo.BankTransactionFilter) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) DeleteBankTransaction(ctx context.Context, transactionID string) error {
	return m.Called(ctx, transactionID).Error(0)
}

func (m *MockBankRepository) MarkTransactionReconciled(ctx context.Context, transactionID string, reconciliationID string, at time.Time) error {
	return m.Called(ctx, transactionID, reconciliationID, at).Error(0)
}

func (m *MockBankRepository) MarkTransactionsReconciledInPeriod(ctx context.Context, bankAccountID string, start, end time.Time, reconciliationID string, at time.Time) (int, error) {
	args := m.Called(ctx, bankAccountID, start, end, reconciliationID, at)
	return args.Int(0), args.Error(1)
}

func (m *MockBankRepository) LinkJournalEntry(ctx context.Context, transactionID string, journalEntryID string) error {
	return m.Called(ctx, transactionID, journalEntryID).Error(0)
}

func (m *MockBankRepository) SumBankTransactions(ctx context.Context, bankAccountID string, upTo *time.Time, unreconciledOnly bool) (decimal.Decimal, int, error) {
	args := m.Called(ctx, bankAccountID, upTo, unreconciledOnly)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

func (m *MockBankRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockBankRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockBankRepository) FindReconciliationForUpdate(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockBankRepository) UpdateReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockBankRepository) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

func (m *MockBankRepository) LatestReconciliation(ctx context.Context, bankAccountID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

// --- Sequencer, publisher, transactions ---

type MockSequencer struct {
	mock.Mock
}

func (m *MockSequencer) NextEntrySequence(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// fakeTxManager runs fn inline and counts how often a transaction was opened.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- fixtures ---

var fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func newAccount(id, code string, t domain.AccountType, subtype domain.AccountSubtype, role domain.CashFlowRole) domain.Account {
	return domain.Account{
		AccountID:        id,
		Code:             code,
		Name:             "Account " + code,
		AccountType:      t,
		Subtype:          subtype,
		NormalBalance:    t.NormalBalance(),
		CashFlowRole:     role,
		CurrencyCode:     "USD",
		AllowManualEntry: true,
		IsActive:         true,
	}
}

var errUnavailable = errors.New("service unavailable")
