package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func cashAccount() *domain.Account {
	return &domain.Account{
		AccountID:     "acc-cash",
		Code:          "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.Debit,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	suite.accountSvc.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Code == "1000" && req.AccountType == domain.Asset
		}),
		testActor,
	).Return(cashAccount(), nil).Once()

	w := suite.do(http.MethodPost, "/accounts", map[string]any{
		"code":        "1000",
		"name":        "Cash",
		"accountType": "ASSET",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal("acc-cash", res.AccountID)
	suite.Equal("1000", res.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_RejectsMalformedCode() {
	w := suite.do(http.MethodPost, "/accounts", map[string]any{
		"code":        "10A",
		"name":        "Cash",
		"accountType": "ASSET",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.accountSvc.On("CreateAccount", mock.Anything, mock.Anything, testActor).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "account code 1000 is already used", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/accounts", map[string]any{
		"code":        "1000",
		"name":        "Cash",
		"accountType": "ASSET",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorMessage(w), "already used")
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accountSvc.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("account", "missing")).Once()

	w := suite.do(http.MethodGet, "/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateSystemAccount() {
	suite.accountSvc.On("DeactivateAccount", mock.Anything, "acc-ret", testActor).
		Return(apperrors.NewAppError(http.StatusUnprocessableEntity, "system account 3100 cannot be deactivated", nil)).Once()

	w := suite.do(http.MethodDelete, "/accounts/acc-ret", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount_NoContent() {
	suite.accountSvc.On("DeactivateAccount", mock.Anything, "acc-cash", testActor).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/accounts/acc-cash", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_AsOf() {
	suite.accountSvc.On("GetAccountByID", mock.Anything, "acc-cash").Return(cashAccount(), nil).Once()
	suite.ledgerSvc.On("GetAccountBalance", mock.Anything, "acc-cash",
		mock.MatchedBy(func(t *time.Time) bool {
			return t != nil && t.Equal(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
		}),
	).Return(decimal.RequireFromString("1250.5"), nil).Once()

	w := suite.do(http.MethodGet, "/accounts/acc-cash/balance?asOf=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.decode(w, &res)
	suite.True(decimal.RequireFromString("1250.5").Equal(res.Balance))
	suite.Equal("$1,250.50", res.Formatted)
	suite.Require().NotNil(res.AsOf)
	suite.Equal("2024-01-31", *res.AsOf)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_BadDate() {
	w := suite.do(http.MethodGet, "/accounts/acc-cash/balance?asOf=31-01-2024", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accountSvc.AssertNotCalled(suite.T(), "GetAccountByID", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetAccountTransactions_PassesWindow() {
	suite.ledgerSvc.On("GetAccountTransactions", mock.Anything, "acc-cash",
		mock.MatchedBy(func(r domain.DateRange) bool {
			return r.From.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
				r.To.Equal(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
		}),
	).Return(&domain.AccountTransactions{
		Account:        *cashAccount(),
		Range:          domain.DateRange{From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)},
		OpeningBalance: decimal.NewFromInt(400),
		ClosingBalance: decimal.NewFromInt(450),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/acc-cash/transactions?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountTransactionsResponse
	suite.decode(w, &res)
	suite.Equal("2024-01-01", res.From)
	suite.True(decimal.NewFromInt(450).Equal(res.ClosingBalance))
}

func (suite *HandlerTestSuite) TestGetAccountActivity() {
	suite.ledgerSvc.On("GetAccountActivity", mock.Anything, "acc-cash", 2024, 2).
		Return(&domain.AccountActivity{AccountID: "acc-cash", Year: 2024, Month: 2, TransactionCount: 3}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/acc-cash/activity?year=2024&month=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountActivityResponse
	suite.decode(w, &res)
	suite.Equal(3, res.TransactionCount)
}

func (suite *HandlerTestSuite) TestGetAccountActivity_BadMonth() {
	w := suite.do(http.MethodGet, "/accounts/acc-cash/activity?year=2024&month=feb", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}
