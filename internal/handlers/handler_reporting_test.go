package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func balancedTrialBalance() *domain.TrialBalance {
	return &domain.TrialBalance{
		AsOf: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		Rows: []domain.TrialBalanceRow{
			{AccountID: "acc-cash", AccountCode: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(800), Credit: decimal.Zero},
			{AccountID: "acc-rev", AccountCode: "4000", AccountName: "Sales", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(800)},
		},
		TotalDebit:  decimal.NewFromInt(800),
		TotalCredit: decimal.NewFromInt(800),
		Difference:  decimal.Zero,
		IsBalanced:  true,
	}
}

func (suite *HandlerTestSuite) TestTrialBalance_BothRoutes() {
	suite.ledgerSvc.On("GetTrialBalance", mock.Anything, onDay(2024, time.January, 31)).
		Return(balancedTrialBalance(), nil).Twice()

	for _, path := range []string{"/general-ledger/trial-balance?asOf=2024-01-31", "/reports/trial-balance?asOf=2024-01-31"} {
		w := suite.do(http.MethodGet, path, nil)

		suite.Equal(http.StatusOK, w.Code, path)
		var res dto.TrialBalanceResponse
		suite.decode(w, &res)
		suite.True(res.IsBalanced)
		suite.Equal("2024-01-31", res.AsOf)
		suite.Len(res.Rows, 2)
	}
}

func (suite *HandlerTestSuite) TestTrialBalance_BadDate() {
	w := suite.do(http.MethodGet, "/general-ledger/trial-balance?asOf=yesterday", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGeneralLedger_BuildsFilter() {
	suite.ledgerSvc.On("GetGeneralLedger", mock.Anything,
		mock.MatchedBy(func(f domain.GeneralLedgerFilter) bool {
			return f.Account == "1000" && f.Search == "rent" && f.Limit == 10 &&
				f.DateFrom != nil && f.DateFrom.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
				f.DateTo == nil
		}),
	).Return(&domain.GeneralLedgerPage{TotalDebit: decimal.NewFromInt(300), TotalCredit: decimal.NewFromInt(300)}, nil).Once()

	w := suite.do(http.MethodGet, "/general-ledger?account=1000&search=rent&limit=10&dateFrom=2024-01-01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.GeneralLedgerResponse
	suite.decode(w, &res)
	suite.True(decimal.NewFromInt(300).Equal(res.TotalDebit))
}

func (suite *HandlerTestSuite) TestGeneralLedger_BadDate() {
	w := suite.do(http.MethodGet, "/general-ledger?dateTo=2024-13-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestIncomeStatement_Period() {
	suite.reportingSvc.On("IncomeStatement", mock.Anything, onDay(2024, time.January, 1), onDay(2024, time.January, 31)).
		Return(&domain.IncomeStatement{
			Period:        domain.DateRange{From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)},
			CurrencyCode:  "USD",
			TotalRevenue:  decimal.NewFromInt(5000),
			TotalExpenses: decimal.NewFromInt(1200),
			NetIncome:     decimal.NewFromInt(3800),
			ProfitMargin:  decimal.NewFromInt(76),
		}, nil).Once()

	w := suite.do(http.MethodGet, "/reports/income-statement?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.IncomeStatementResponse
	suite.decode(w, &res)
	suite.True(decimal.NewFromInt(3800).Equal(res.NetIncome.Amount))
	suite.Equal("$3,800.00", res.NetIncome.Formatted)
	suite.Equal("2024-01-01", res.FromDate)
}

func (suite *HandlerTestSuite) TestIncomeStatement_DefaultsToYearToDate() {
	suite.reportingSvc.On("IncomeStatement", mock.Anything,
		mock.MatchedBy(func(t time.Time) bool { return t.YearDay() == 1 }),
		onDay(2024, time.March, 15),
	).Return(&domain.IncomeStatement{}, nil).Once()

	w := suite.do(http.MethodGet, "/reports/income-statement?to=2024-03-15", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestBalanceSheet() {
	suite.reportingSvc.On("BalanceSheet", mock.Anything, onDay(2024, time.January, 31)).
		Return(&domain.BalanceSheet{
			AsOf:                      time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			CurrencyCode:              "USD",
			TotalAssets:               decimal.NewFromInt(16800),
			TotalLiabilitiesAndEquity: decimal.NewFromInt(16800),
			IsBalanced:                true,
		}, nil).Once()

	w := suite.do(http.MethodGet, "/reports/balance-sheet?asOf=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BalanceSheetResponse
	suite.decode(w, &res)
	suite.True(res.IsBalanced)
	suite.True(decimal.NewFromInt(16800).Equal(res.TotalAssets.Amount))
}

func (suite *HandlerTestSuite) TestCashFlow() {
	suite.reportingSvc.On("CashFlowStatement", mock.Anything, onDay(2024, time.January, 1), onDay(2024, time.January, 31)).
		Return(&domain.CashFlowStatement{CurrencyCode: "USD", NetCashFlow: decimal.NewFromInt(11000), Reconciles: true}, nil).Once()

	w := suite.do(http.MethodGet, "/reports/cash-flow?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.CashFlowResponse
	suite.decode(w, &res)
	suite.True(res.Reconciles)
	suite.True(decimal.NewFromInt(11000).Equal(res.NetCashFlow.Amount))
}

func (suite *HandlerTestSuite) TestSummary_InternalErrorIsGeneric() {
	suite.reportingSvc.On("FinancialSummary", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("pq: connection reset")).Once()

	w := suite.do(http.MethodGet, "/reports/summary?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to generate financial summary", suite.errorMessage(w))
}
