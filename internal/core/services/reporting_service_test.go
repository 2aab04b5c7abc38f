package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// January books of a small business:
//
//	owner invests 10000 cash; sells 5000 (3000 cash, 2000 on account);
//	incurs 1000 expenses on credit; buys equipment for 4000 cash;
//	borrows 2000; books 200 depreciation.
type ReportingServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	accountRepo *MockAccountRepository
	ledgerRepo  *MockLedgerRepository
	service     portssvc.ReportingService

	accounts []domain.Account
	january  map[string]domain.BalanceSums
	from, to domain.DateRange
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.accountRepo = new(MockAccountRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.service = services.NewReportingService(portsrepo.RepositoryProvider{
		AccountRepo: suite.accountRepo,
		LedgerRepo:  suite.ledgerRepo,
	}, "USD", services.WithClock(fixedClock))

	suite.accounts = []domain.Account{
		newAccount("cash", "1000", domain.Asset, domain.CurrentAsset, domain.RoleCash),
		newAccount("ar", "1100", domain.Asset, domain.CurrentAsset, domain.RoleWorkingCapital),
		newAccount("equip", "1500", domain.Asset, domain.FixedAsset, domain.RoleFixedAsset),
		newAccount("accum", "1510", domain.Asset, domain.FixedAsset, domain.RoleNone),
		newAccount("ap", "2000", domain.Liability, domain.CurrentLiability, domain.RoleWorkingCapital),
		newAccount("loan", "2500", domain.Liability, domain.LongTermLiability, domain.RoleDebt),
		newAccount("capital", "3000", domain.Equity, domain.OwnerEquity, domain.RoleCapital),
		newAccount("rev", "4000", domain.Revenue, domain.OperatingRevenue, domain.RoleNone),
		newAccount("exp", "5000", domain.Expense, domain.OperatingExpense, domain.RoleNone),
		newAccount("depr", "5100", domain.Expense, domain.OperatingExpense, domain.RoleDepreciation),
	}
	dormant := newAccount("old", "1900", domain.Asset, domain.OtherAsset, domain.RoleNone)
	dormant.IsActive = false
	suite.accounts = append(suite.accounts, dormant)

	suite.january = map[string]domain.BalanceSums{
		"cash":    {Debit: dec("15000"), Credit: dec("4000")},
		"ar":      {Debit: dec("2000"), Credit: decimal.Zero},
		"equip":   {Debit: dec("4000"), Credit: decimal.Zero},
		"accum":   {Debit: decimal.Zero, Credit: dec("200")},
		"ap":      {Debit: decimal.Zero, Credit: dec("1000")},
		"loan":    {Debit: decimal.Zero, Credit: dec("2000")},
		"capital": {Debit: decimal.Zero, Credit: dec("10000")},
		"rev":     {Debit: decimal.Zero, Credit: dec("5000")},
		"exp":     {Debit: dec("1000"), Credit: decimal.Zero},
		"depr":    {Debit: dec("200"), Credit: decimal.Zero},
	}
	suite.from = domain.DateRange{From: date(2024, 1, 1), To: date(2024, 1, 31)}
	suite.to = domain.DateRange{To: date(2024, 1, 31)}
}

func (suite *ReportingServiceTestSuite) expectBooks() {
	suite.accountRepo.On("ListAccounts", mock.Anything, portsrepo.AccountFilter{IncludeInactive: true}).Return(suite.accounts, nil)
	suite.ledgerRepo.On("SumBalances", mock.Anything, suite.from).Return(suite.january, nil)
	suite.ledgerRepo.On("SumBalances", mock.Anything, suite.to).Return(suite.january, nil)
	suite.ledgerRepo.On("SumBalances", mock.Anything, domain.DateRange{To: date(2023, 12, 31)}).
		Return(map[string]domain.BalanceSums{}, nil)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement() {
	suite.expectBooks()

	is, err := suite.service.IncomeStatement(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.Equal("5000", is.TotalRevenue.String())
	suite.Equal("1200", is.TotalExpenses.String())
	suite.Equal("3800", is.NetIncome.String())
	suite.Equal("76", is.ProfitMargin.String())
	suite.Require().Len(is.Expenses.Groups, 1)
	suite.Len(is.Expenses.Groups[0].Lines, 2)
	suite.Equal("USD", is.CurrencyCode)
	suite.Equal(fixedNow, is.GeneratedAt)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_InvalidPeriod() {
	_, err := suite.service.IncomeStatement(suite.ctx, date(2024, 2, 1), date(2024, 1, 1))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.accountRepo.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_CarriesCurrentEarnings() {
	suite.expectBooks()

	bs, err := suite.service.BalanceSheet(suite.ctx, date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.Equal("16800", bs.TotalAssets.String())
	suite.Equal("3000", bs.TotalLiabilities.String())
	suite.Equal("3800", bs.CurrentEarnings.String())
	suite.Equal("13800", bs.TotalEquity.String())
	suite.True(bs.IsBalanced)
	suite.True(bs.Difference.IsZero())

	suite.Require().Len(bs.Equity.Groups, 2)
	earnings := bs.Equity.Groups[1]
	suite.Equal(domain.CurrentEarnings, earnings.Subtype)
	suite.Equal("Current Earnings", earnings.Lines[0].Name)

	// The inactive account has no rows and is left out.
	for _, g := range bs.Assets.Groups {
		suite.NotEqual(domain.OtherAsset, g.Subtype)
	}
}

func (suite *ReportingServiceTestSuite) TestCashFlowStatement_Reconciles() {
	suite.expectBooks()

	cf, err := suite.service.CashFlowStatement(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.Equal("3800", cf.NetIncome.String())
	suite.Equal("3000", cf.Operating.Total.String())
	suite.Equal("-4000", cf.Investing.Total.String())
	suite.Equal("12000", cf.Financing.Total.String())
	suite.Equal("11000", cf.NetCashFlow.String())
	suite.True(cf.BeginningCash.IsZero())
	suite.Equal("11000", cf.EndingCash.String())
	suite.True(cf.Reconciles)
	suite.True(cf.UnclassifiedDelta.IsZero())

	descriptions := make([]string, 0, len(cf.Operating.Items))
	for _, item := range cf.Operating.Items {
		descriptions = append(descriptions, item.Description)
	}
	suite.Equal([]string{
		"Net income",
		"Increase in Account 1100",
		"Increase in Account 2000",
		"Depreciation: Account 5100",
	}, descriptions)
	suite.Equal("Purchase of Account 1500", cf.Investing.Items[0].Description)
}

func (suite *ReportingServiceTestSuite) TestCashFlowStatement_ReportsUnclassifiedMovement() {
	// Moving the loan to role NONE leaves its 2000 of cash unexplained.
	for i := range suite.accounts {
		if suite.accounts[i].AccountID == "loan" {
			suite.accounts[i].CashFlowRole = domain.RoleNone
		}
	}
	suite.expectBooks()

	cf, err := suite.service.CashFlowStatement(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.False(cf.Reconciles)
	suite.Equal("2000", cf.UnclassifiedDelta.String())
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_Ratios() {
	suite.expectBooks()

	summary, err := suite.service.FinancialSummary(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.Equal("13", summary.Ratios.CurrentRatio.String())
	suite.Equal("0.22", summary.Ratios.DebtToEquity.String())
	suite.Equal("22.62", summary.Ratios.ReturnOnAssets.String())
	suite.Equal("76", summary.Ratios.ProfitMargin.String())
	suite.Equal("3800", summary.IncomeStatement.NetIncome.String())
	suite.True(summary.BalanceSheet.IsBalanced)
	suite.True(summary.CashFlow.Reconciles)
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_EmptyBooksHaveZeroRatios() {
	suite.accountRepo.On("ListAccounts", mock.Anything, mock.Anything).Return([]domain.Account{}, nil)
	suite.ledgerRepo.On("SumBalances", mock.Anything, mock.Anything).Return(map[string]domain.BalanceSums{}, nil)

	summary, err := suite.service.FinancialSummary(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.Require().NoError(err)
	suite.True(summary.Ratios.CurrentRatio.IsZero())
	suite.True(summary.Ratios.DebtToEquity.IsZero())
	suite.True(summary.Ratios.ReturnOnAssets.IsZero())
	suite.True(summary.Ratios.ProfitMargin.IsZero())
}

func (suite *ReportingServiceTestSuite) TestFinancialSummary_PropagatesFailure() {
	suite.accountRepo.On("ListAccounts", mock.Anything, mock.Anything).Return(nil, errUnavailable)

	_, err := suite.service.FinancialSummary(suite.ctx, date(2024, 1, 1), date(2024, 1, 31))

	suite.ErrorIs(err, errUnavailable)
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
