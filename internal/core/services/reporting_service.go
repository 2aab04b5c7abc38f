package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	currency    string
}

// NewReportingService creates the financial statement engine. currency labels every report.
func NewReportingService(repos portsrepo.RepositoryProvider, currency string, opts ...Option) portssvc.ReportingService {
	return &reportingService{
		BaseService: newBaseService(opts),
		accountRepo: repos.AccountRepo,
		ledgerRepo:  repos.LedgerRepo,
		currency:    currency,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// periodBalances pairs every active account, plus any inactive account with rows in
// window, with its debit and credit sums. Accounts come back ordered by code.
func (s *reportingService) periodBalances(ctx context.Context, window domain.DateRange) ([]domain.AccountPeriodBalance, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sums, err := s.ledgerRepo.SumBalances(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger rows: %w", err)
	}

	balances := make([]domain.AccountPeriodBalance, 0, len(accounts))
	for _, acc := range accounts {
		sum, hasRows := sums[acc.AccountID]
		if !acc.IsActive && !hasRows {
			continue
		}
		balances = append(balances, domain.AccountPeriodBalance{
			Account: acc,
			Debit:   sum.Debit,
			Credit:  sum.Credit,
		})
	}
	return balances, nil
}

// buildSection groups the balances of one account type by subtype, in code order.
func buildSection(balances []domain.AccountPeriodBalance, accountType domain.AccountType) domain.ReportSection {
	section := domain.ReportSection{Groups: []domain.ReportGroup{}, Total: decimal.Zero}
	index := map[domain.AccountSubtype]int{}
	for _, b := range balances {
		if b.Account.AccountType != accountType {
			continue
		}
		amount := b.Balance()
		i, ok := index[b.Account.Subtype]
		if !ok {
			i = len(section.Groups)
			index[b.Account.Subtype] = i
			section.Groups = append(section.Groups, domain.ReportGroup{Subtype: b.Account.Subtype, Total: decimal.Zero})
		}
		group := &section.Groups[i]
		group.Lines = append(group.Lines, domain.ReportLine{
			AccountID:   b.Account.AccountID,
			AccountCode: b.Account.Code,
			Name:        b.Account.Name,
			Subtype:     b.Account.Subtype,
			Amount:      amount,
		})
		group.Total = group.Total.Add(amount)
		section.Total = section.Total.Add(amount)
	}
	return section
}

// percentOf returns part/whole*100 rounded to two places, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// ratio returns num/den rounded to two places, or zero when den is zero.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(2)
}

func validatePeriod(from, to time.Time) (domain.DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return domain.DateRange{}, apperrors.NewValidationError("both from and to dates are required")
	}
	window := domain.DateRange{From: domain.StartOfDay(from), To: domain.StartOfDay(to)}
	if window.From.After(window.To) {
		return domain.DateRange{}, apperrors.NewValidationError("from must not be after to")
	}
	return window, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	window, err := validatePeriod(from, to)
	if err != nil {
		return nil, err
	}
	balances, err := s.periodBalances(ctx, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balances for income statement")
		return nil, err
	}

	is := s.incomeStatement(window, balances)
	s.LogDebug(ctx, "Income statement generated",
		slog.String("from", window.From.Format(time.DateOnly)),
		slog.String("to", window.To.Format(time.DateOnly)),
		slog.String("net_income", is.NetIncome.String()))
	return is, nil
}

func (s *reportingService) incomeStatement(window domain.DateRange, balances []domain.AccountPeriodBalance) *domain.IncomeStatement {
	revenue := buildSection(balances, domain.Revenue)
	expenses := buildSection(balances, domain.Expense)
	net := revenue.Total.Sub(expenses.Total)
	return &domain.IncomeStatement{
		Period:        window,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  revenue.Total,
		TotalExpenses: expenses.Total,
		NetIncome:     net,
		ProfitMargin:  percentOf(net, revenue.Total),
		GeneratedAt:   s.Now(),
		CurrencyCode:  s.currency,
	}
}

func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	if asOf.IsZero() {
		return nil, apperrors.NewValidationError("asOf date is required")
	}
	asOf = domain.StartOfDay(asOf)
	balances, err := s.periodBalances(ctx, domain.DateRange{To: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to load balances for balance sheet")
		return nil, err
	}

	assets := buildSection(balances, domain.Asset)
	liabilities := buildSection(balances, domain.Liability)
	equity := buildSection(balances, domain.Equity)

	// Revenue and expense accounts are not closed into equity yet, so their
	// cumulative net is carried as its own equity line.
	earnings := buildSection(balances, domain.Revenue).Total.Sub(buildSection(balances, domain.Expense).Total)
	equity.Groups = append(equity.Groups, domain.ReportGroup{
		Subtype: domain.CurrentEarnings,
		Lines: []domain.ReportLine{{
			Name:    "Current Earnings",
			Subtype: domain.CurrentEarnings,
			Amount:  earnings,
		}},
		Total: earnings,
	})
	equity.Total = equity.Total.Add(earnings)

	liabilitiesAndEquity := liabilities.Total.Add(equity.Total)
	difference := assets.Total.Sub(liabilitiesAndEquity)
	bs := &domain.BalanceSheet{
		AsOf:                      asOf,
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		CurrentEarnings:           earnings,
		TotalAssets:               assets.Total,
		TotalLiabilities:          liabilities.Total,
		TotalEquity:               equity.Total,
		TotalLiabilitiesAndEquity: liabilitiesAndEquity,
		Difference:                difference,
		IsBalanced:                domain.IsNegligible(difference),
		GeneratedAt:               s.Now(),
		CurrencyCode:              s.currency,
	}
	if !bs.IsBalanced {
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("difference", difference.String()))
	}
	return bs, nil
}

func (s *reportingService) CashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	window, err := validatePeriod(from, to)
	if err != nil {
		return nil, err
	}
	period, err := s.periodBalances(ctx, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to load period balances for cash flow")
		return nil, err
	}
	opening, err := s.periodBalances(ctx, domain.DateRange{To: window.From.AddDate(0, 0, -1)})
	if err != nil {
		s.LogError(ctx, err, "Failed to load opening balances for cash flow")
		return nil, err
	}

	cf := &domain.CashFlowStatement{
		Period:       window,
		NetIncome:    s.incomeStatement(window, period).NetIncome,
		Operating:    domain.CashFlowSection{Items: []domain.CashFlowItem{}, Total: decimal.Zero},
		Investing:    domain.CashFlowSection{Items: []domain.CashFlowItem{}, Total: decimal.Zero},
		Financing:    domain.CashFlowSection{Items: []domain.CashFlowItem{}, Total: decimal.Zero},
		GeneratedAt:  s.Now(),
		CurrencyCode: s.currency,
	}
	cf.Operating.Add("Net income", "", cf.NetIncome)

	beginning := decimal.Zero
	for _, b := range opening {
		if b.Account.CashFlowRole == domain.RoleCash {
			beginning = beginning.Add(b.Balance())
		}
	}

	cashChange := decimal.Zero
	for _, b := range period {
		acc := b.Account
		// A balance sheet account's movement has the opposite effect on cash.
		effect := b.Credit.Sub(b.Debit)
		switch acc.CashFlowRole {
		case domain.RoleCash:
			cashChange = cashChange.Add(b.Balance())
		case domain.RoleDepreciation:
			cf.Operating.Add("Depreciation: "+acc.Name, acc.AccountID, b.Debit.Sub(b.Credit))
		case domain.RoleWorkingCapital:
			cf.Operating.Add(workingCapitalLabel(acc, effect), acc.AccountID, effect)
		case domain.RoleFixedAsset, domain.RoleInvestment:
			label := "Sale of " + acc.Name
			if effect.IsNegative() {
				label = "Purchase of " + acc.Name
			}
			cf.Investing.Add(label, acc.AccountID, effect)
		case domain.RoleDebt:
			label := "Proceeds from " + acc.Name
			if effect.IsNegative() {
				label = "Repayment of " + acc.Name
			}
			cf.Financing.Add(label, acc.AccountID, effect)
		case domain.RoleCapital:
			label := "Capital contributed: " + acc.Name
			if effect.IsNegative() {
				label = "Capital withdrawn: " + acc.Name
			}
			cf.Financing.Add(label, acc.AccountID, effect)
		case domain.RoleDividend:
			cf.Financing.Add("Distributions: "+acc.Name, acc.AccountID, effect)
		}
	}

	cf.NetCashFlow = cf.Operating.Total.Add(cf.Investing.Total).Add(cf.Financing.Total)
	cf.BeginningCash = beginning
	cf.EndingCash = beginning.Add(cashChange)
	cf.UnclassifiedDelta = cashChange.Sub(cf.NetCashFlow)
	cf.Reconciles = domain.IsNegligible(cf.UnclassifiedDelta)
	if !cf.Reconciles {
		s.GetLogger(ctx).Warn("Cash flow does not reconcile to cash accounts",
			slog.String("unclassified", cf.UnclassifiedDelta.String()))
	}
	return cf, nil
}

func workingCapitalLabel(acc domain.Account, effect decimal.Decimal) string {
	if acc.AccountType == domain.Asset {
		if effect.IsNegative() {
			return "Increase in " + acc.Name
		}
		return "Decrease in " + acc.Name
	}
	if effect.IsNegative() {
		return "Decrease in " + acc.Name
	}
	return "Increase in " + acc.Name
}

func (s *reportingService) FinancialSummary(ctx context.Context, from, to time.Time) (*domain.FinancialSummary, error) {
	window, err := validatePeriod(from, to)
	if err != nil {
		return nil, err
	}

	var (
		is *domain.IncomeStatement
		bs *domain.BalanceSheet
		cf *domain.CashFlowStatement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		is, err = s.IncomeStatement(gctx, window.From, window.To)
		return err
	})
	g.Go(func() error {
		var err error
		bs, err = s.BalanceSheet(gctx, window.To)
		return err
	})
	g.Go(func() error {
		var err error
		cf, err = s.CashFlowStatement(gctx, window.From, window.To)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build financial summary")
		return nil, err
	}

	summary := &domain.FinancialSummary{
		Period:          window,
		IncomeStatement: *is,
		BalanceSheet:    *bs,
		CashFlow:        *cf,
		Ratios: domain.FinancialRatios{
			CurrentRatio: ratio(
				bs.Assets.SubtypeTotal(domain.CurrentAsset),
				bs.Liabilities.SubtypeTotal(domain.CurrentLiability),
			),
			DebtToEquity:   ratio(bs.TotalLiabilities, bs.TotalEquity),
			ReturnOnAssets: percentOf(is.NetIncome, bs.TotalAssets),
			ProfitMargin:   is.ProfitMargin,
		},
		GeneratedAt: s.Now(),
	}
	s.LogInfo(ctx, "Financial summary generated",
		slog.String("from", window.From.Format(time.DateOnly)),
		slog.String("to", window.To.Format(time.DateOnly)))
	return summary, nil
}
