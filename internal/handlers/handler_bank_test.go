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

func firstBank() *domain.BankAccount {
	ledger := "acc-cash"
	return &domain.BankAccount{
		BankAccountID:           "bank-1",
		Name:                    "Operating",
		BankName:                "First Bank",
		AccountNumberMasked:     "****6789",
		CurrencyCode:            "USD",
		LedgerAccountID:         &ledger,
		OpeningBalance:          decimal.NewFromInt(1000),
		CurrentBalance:          decimal.NewFromInt(800),
		IsActive:                true,
		RequiresReconciliation:  true,
		ReconciliationFrequency: domain.FrequencyMonthly,
	}
}

func (suite *HandlerTestSuite) TestCreateBankAccount() {
	suite.bankSvc.On("CreateBankAccount", mock.Anything,
		mock.MatchedBy(func(req dto.CreateBankAccountRequest) bool {
			return req.AccountNumber == "123456789" && req.OpeningBalance.Equal(decimal.NewFromInt(1000))
		}),
		testActor,
	).Return(firstBank(), nil).Once()

	w := suite.do(http.MethodPost, "/bank-accounts", map[string]any{
		"name":           "Operating",
		"bankName":       "First Bank",
		"accountNumber":  "123456789",
		"openingBalance": "1000",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.BankAccountResponse
	suite.decode(w, &res)
	suite.Equal("****6789", res.AccountNumberMasked)
	suite.Equal("First Bank ****6789", res.DisplayName)
}

func (suite *HandlerTestSuite) TestCreateBankAccount_ShortNumber() {
	w := suite.do(http.MethodPost, "/bank-accounts", map[string]any{
		"name":          "Operating",
		"bankName":      "First Bank",
		"accountNumber": "12",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestNeedsReconciliationRouteIsNotAnID() {
	suite.bankSvc.On("ListAccountsNeedingReconciliation", mock.Anything).
		Return([]domain.BankAccount{*firstBank()}, nil).Once()

	w := suite.do(http.MethodGet, "/bank-accounts/needs-reconciliation", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.BankAccountResponse
	suite.decode(w, &res)
	suite.Len(res, 1)
	suite.bankSvc.AssertNotCalled(suite.T(), "GetBankAccount", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestBalanceAtDate() {
	suite.bankSvc.On("GetBankAccount", mock.Anything, "bank-1").Return(firstBank(), nil).Once()
	suite.bankSvc.On("GetBalanceAtDate", mock.Anything, "bank-1", onDay(2024, time.January, 15)).
		Return(decimal.RequireFromString("950.25"), nil).Once()

	w := suite.do(http.MethodGet, "/bank-accounts/bank-1/balance-at-date?date=2024-01-15", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BankBalanceAtDateResponse
	suite.decode(w, &res)
	suite.Equal("2024-01-15", res.Date)
	suite.Equal("$950.25", res.Formatted)
}

func (suite *HandlerTestSuite) TestAddTransaction_ConflictIsRetryable() {
	suite.bankSvc.On("AddTransaction", mock.Anything, "bank-1", mock.Anything, testActor).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "bank account was modified concurrently", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/transactions", map[string]any{
		"transactionDate": "2024-01-20T00:00:00Z",
		"description":     "Office rent",
		"amount":          "200",
		"transactionType": "WITHDRAWAL",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestAddTransaction_Success() {
	suite.bankSvc.On("AddTransaction", mock.Anything, "bank-1",
		mock.MatchedBy(func(req dto.AddBankTransactionRequest) bool {
			return req.TransactionType == domain.BankWithdrawal && req.Amount.Equal(decimal.NewFromInt(200))
		}),
		testActor,
	).Return(&domain.BankTransaction{
		TransactionID:   "txn-1",
		BankAccountID:   "bank-1",
		TransactionDate: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		Description:     "Office rent",
		Amount:          decimal.NewFromInt(200),
		TransactionType: domain.BankWithdrawal,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/transactions", map[string]any{
		"transactionDate": "2024-01-20T00:00:00Z",
		"description":     "Office rent",
		"amount":          "200",
		"transactionType": "WITHDRAWAL",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.BankTransactionResponse
	suite.decode(w, &res)
	suite.True(decimal.NewFromInt(-200).Equal(res.SignedAmount))
	suite.Equal("2024-01-20", res.TransactionDate)
}

func (suite *HandlerTestSuite) TestDeleteTransaction() {
	suite.bankSvc.On("DeleteTransaction", mock.Anything, "bank-1", "txn-1", testActor).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/bank-accounts/bank-1/transactions/txn-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestReconcileTransaction_RequiresReconciliationID() {
	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/transactions/txn-1/reconcile", map[string]any{})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestPostTransaction_AlreadyPosted() {
	suite.bankSvc.On("PostTransactionToGeneralLedger", mock.Anything, "bank-1", "txn-1",
		dto.PostBankTransactionRequest{OffsetAccountID: "acc-exp"}, testActor,
	).Return(nil, apperrors.NewAppError(http.StatusConflict, "transaction already posted", nil)).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/transactions/txn-1/post", map[string]any{"offsetAccountID": "acc-exp"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCompleteReconciliation_Discrepancy() {
	suite.bankSvc.On("CompleteReconciliation", mock.Anything, "bank-1", "rec-1", testActor).
		Return(nil, apperrors.NewAppError(http.StatusUnprocessableEntity, "statement differs from book balance by -10.00", apperrors.ErrReconciliationDiscrepancy)).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/reconciliations/rec-1/complete", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.errorMessage(w), "-10.00")
}

func (suite *HandlerTestSuite) TestCreateReconciliation() {
	suite.bankSvc.On("CreateReconciliation", mock.Anything, "bank-1",
		mock.MatchedBy(func(req dto.CreateReconciliationRequest) bool {
			return req.BookBalance == nil && req.StatementBalance.Equal(decimal.NewFromInt(1290))
		}),
		testActor,
	).Return(&domain.Reconciliation{
		ReconciliationID:   "rec-1",
		BankAccountID:      "bank-1",
		StatementStartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		StatementEndDate:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance:   decimal.NewFromInt(1290),
		BookBalance:        decimal.NewFromInt(1300),
		Difference:         decimal.NewFromInt(-10),
		Status:             domain.ReconciliationDraft,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/reconciliations", map[string]any{
		"statementStartDate": "2024-01-01T00:00:00Z",
		"statementEndDate":   "2024-01-31T00:00:00Z",
		"statementBalance":   "1290",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.ReconciliationResponse
	suite.decode(w, &res)
	suite.Equal(domain.ReconciliationDraft, res.Status)
	suite.True(decimal.NewFromInt(-10).Equal(res.Difference))
}

func (suite *HandlerTestSuite) TestGetPrimaryBankAccount() {
	primary := firstBank()
	primary.IsPrimary = true
	suite.bankSvc.On("GetPrimaryBankAccount", mock.Anything).Return(primary, nil).Once()

	w := suite.do(http.MethodGet, "/bank-accounts/primary", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BankAccountResponse
	suite.decode(w, &res)
	suite.Equal("bank-1", res.BankAccountID)
	suite.True(res.IsPrimary)
}

func (suite *HandlerTestSuite) TestGetPrimaryBankAccount_NoneSet() {
	suite.bankSvc.On("GetPrimaryBankAccount", mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusNotFound, "no primary bank account is set", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/bank-accounts/primary", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateBankAccount() {
	updated := firstBank()
	updated.IsPrimary = true
	updated.ReconciliationFrequency = domain.FrequencyWeekly
	suite.bankSvc.On("UpdateBankAccount", mock.Anything, "bank-1",
		mock.MatchedBy(func(req dto.UpdateBankAccountRequest) bool {
			return req.IsPrimary != nil && *req.IsPrimary &&
				req.ReconciliationFrequency != nil && *req.ReconciliationFrequency == domain.FrequencyWeekly &&
				req.Name == nil
		}),
		testActor,
	).Return(updated, nil).Once()

	w := suite.do(http.MethodPatch, "/bank-accounts/bank-1", map[string]any{
		"isPrimary":               true,
		"reconciliationFrequency": "WEEKLY",
	})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.BankAccountResponse
	suite.decode(w, &res)
	suite.True(res.IsPrimary)
	suite.Equal(domain.FrequencyWeekly, res.ReconciliationFrequency)
}

func (suite *HandlerTestSuite) TestDeactivateBankAccount() {
	suite.bankSvc.On("DeactivateBankAccount", mock.Anything, "bank-1", testActor).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/bank-accounts/bank-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateBankAccount_AlreadyInactive() {
	suite.bankSvc.On("DeactivateBankAccount", mock.Anything, "bank-1", testActor).
		Return(apperrors.NewAppError(http.StatusUnprocessableEntity, "bank account Operating is already inactive", nil)).Once()

	w := suite.do(http.MethodDelete, "/bank-accounts/bank-1", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestStartReconciliation_WithCorrectedBalance() {
	suite.bankSvc.On("StartReconciliation", mock.Anything, "bank-1", "rec-1",
		mock.MatchedBy(func(req dto.StartReconciliationRequest) bool {
			return req.StatementBalance != nil && req.StatementBalance.Equal(decimal.NewFromInt(1300)) && req.BookBalance == nil
		}),
		testActor,
	).Return(&domain.Reconciliation{
		ReconciliationID: "rec-1",
		BankAccountID:    "bank-1",
		StatementBalance: decimal.NewFromInt(1300),
		BookBalance:      decimal.NewFromInt(1300),
		Difference:       decimal.Zero,
		Status:           domain.ReconciliationInProgress,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/reconciliations/rec-1/start", map[string]any{
		"statementBalance": "1300",
	})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ReconciliationResponse
	suite.decode(w, &res)
	suite.Equal(domain.ReconciliationInProgress, res.Status)
	suite.True(res.Difference.IsZero())
}

func (suite *HandlerTestSuite) TestStartReconciliation_NoBody() {
	suite.bankSvc.On("StartReconciliation", mock.Anything, "bank-1", "rec-1", dto.StartReconciliationRequest{}, testActor).
		Return(&domain.Reconciliation{ReconciliationID: "rec-1", BankAccountID: "bank-1", Status: domain.ReconciliationInProgress}, nil).Once()

	w := suite.do(http.MethodPost, "/bank-accounts/bank-1/reconciliations/rec-1/start", nil)

	suite.Equal(http.StatusOK, w.Code)
}
