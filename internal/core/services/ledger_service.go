package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 500
)

// ledgerService answers balance and history questions from the ledger rows.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
	txManager   portsrepo.TransactionManager
}

// NewLedgerService creates the ledger query and maintenance service.
func NewLedgerService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(opts),
		accountRepo: repos.AccountRepo,
		ledgerRepo:  repos.LedgerRepo,
		txManager:   repos.TxManager,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	var window domain.DateRange
	if asOf != nil {
		window.To = domain.StartOfDay(*asOf)
	}
	sums, err := s.ledgerRepo.SumAccount(ctx, accountID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account rows", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return account.SignedDelta(sums.Debit, sums.Credit), nil
}

func (s *ledgerService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.StartOfDay(asOf)
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{IncludeInactive: true})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for trial balance")
		return nil, err
	}
	sums, err := s.ledgerRepo.SumBalances(ctx, domain.DateRange{To: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum balances for trial balance")
		return nil, err
	}

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, acc := range accounts {
		sum, hasRows := sums[acc.AccountID]
		if !acc.IsActive && !hasRows {
			continue
		}
		debit, credit := accounting.TrialBalanceColumns(sum.Debit, sum.Credit)
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = domain.IsNegligible(tb.Difference)

	if !tb.IsBalanced {
		s.GetLogger(ctx).Warn("Trial balance does not balance",
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("difference", tb.Difference.String()))
	}
	return tb, nil
}

func (s *ledgerService) GetAccountTransactions(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountTransactions, error) {
	if window.To.IsZero() {
		window.To = s.Now()
	}
	window.To = domain.StartOfDay(window.To)
	if !window.From.IsZero() {
		window.From = domain.StartOfDay(window.From)
		if window.From.After(window.To) {
			return nil, apperrors.NewValidationError("from must not be after to")
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if !window.From.IsZero() {
		before, err := s.ledgerRepo.SumAccount(ctx, accountID, domain.DateRange{To: window.From.AddDate(0, 0, -1)})
		if err != nil {
			s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", accountID))
			return nil, err
		}
		opening = account.SignedDelta(before.Debit, before.Credit)
	}

	rows, err := s.ledgerRepo.ListAccountRows(ctx, accountID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account rows", slog.String("account_id", accountID))
		return nil, err
	}
	txns, closing := accounting.RunningBalances(account.AccountType, opening, rows)

	return &domain.AccountTransactions{
		Account:        *account,
		Range:          window,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Transactions:   txns,
	}, nil
}

func (s *ledgerService) GetGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLedgerPageSize
	}
	if filter.Limit > maxLedgerPageSize {
		filter.Limit = maxLedgerPageSize
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperrors.NewValidationError("dateFrom must not be after dateTo")
	}

	page, err := s.ledgerRepo.ListGeneralLedger(ctx, filter)
	if err != nil {
		if !isExpected(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list general ledger")
		}
		return nil, err
	}
	return page, nil
}

func (s *ledgerService) GetAccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month must be between 1 and 12")
	}
	if year < 1900 {
		return nil, apperrors.NewValidationError("invalid year %d", year)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	activity, err := s.ledgerRepo.AccountActivity(ctx, accountID, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account activity", slog.String("account_id", accountID))
		return nil, err
	}
	return activity, nil
}

func (s *ledgerService) VerifyBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	sums, err := s.ledgerRepo.SumBalances(ctx, domain.DateRange{})
	if err != nil {
		return nil, err
	}
	drifts := detectDrift(accounts, sums)
	if len(drifts) > 0 {
		s.GetLogger(ctx).Warn("Cached balances drifted from the ledger", slog.Int("accounts", len(drifts)))
	}
	return drifts, nil
}

func (s *ledgerService) RebuildBalances(ctx context.Context, userID string) ([]domain.BalanceDrift, error) {
	var drifts []domain.BalanceDrift
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		all, err := s.accountRepo.ListAccounts(txCtx, portsrepo.AccountFilter{IncludeInactive: true})
		if err != nil {
			return err
		}
		ids := make([]string, len(all))
		for i, a := range all {
			ids[i] = a.AccountID
		}
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(txCtx, ids)
		if err != nil {
			return err
		}
		accounts := make([]domain.Account, 0, len(locked))
		for _, a := range all {
			if acc, ok := locked[a.AccountID]; ok {
				accounts = append(accounts, acc)
			}
		}

		sums, err := s.ledgerRepo.SumBalances(txCtx, domain.DateRange{})
		if err != nil {
			return err
		}
		drifts = detectDrift(accounts, sums)
		if len(drifts) == 0 {
			return nil
		}
		balances := make(map[string]decimal.Decimal, len(drifts))
		for _, d := range drifts {
			balances[d.AccountID] = d.LedgerBalance
		}
		return s.accountRepo.OverwriteBalances(txCtx, balances, userID, s.Now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to rebuild balances")
		return nil, err
	}
	s.LogInfo(ctx, "Balances rebuilt from ledger", slog.Int("corrected", len(drifts)))
	return drifts, nil
}

// detectDrift compares cached balances to the ledger, ordered by account code.
func detectDrift(accounts []domain.Account, sums map[string]domain.BalanceSums) []domain.BalanceDrift {
	drifts := make([]domain.BalanceDrift, 0)
	for _, acc := range accounts {
		sum := sums[acc.AccountID]
		ledger := acc.SignedDelta(sum.Debit, sum.Credit)
		if acc.Balance.Equal(ledger) {
			continue
		}
		drifts = append(drifts, domain.BalanceDrift{
			AccountID:     acc.AccountID,
			AccountCode:   acc.Code,
			CachedBalance: acc.Balance,
			LedgerBalance: ledger,
			Difference:    acc.Balance.Sub(ledger),
		})
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].AccountCode < drifts[j].AccountCode })
	return drifts
}
