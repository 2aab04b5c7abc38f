package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// bankHandler serves bank accounts, their transactions and reconciliations.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{bankService: bs}
}

func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newBankHandler(bankService)

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listBankAccounts)
		banks.GET("/needs-reconciliation", h.listNeedingReconciliation)
		banks.GET("/primary", h.getPrimaryBankAccount)

		bank := banks.Group("/:bankAccountID")
		bank.GET("", h.getBankAccount)
		bank.PATCH("", h.updateBankAccount)
		bank.DELETE("", h.deactivateBankAccount)
		bank.GET("/summary", h.getBankAccountSummary)
		bank.GET("/balance-at-date", h.getBalanceAtDate)

		txns := bank.Group("/transactions")
		txns.POST("", h.addTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/unreconciled", h.listUnreconciled)
		txns.DELETE("/:transactionID", h.deleteTransaction)
		txns.POST("/:transactionID/reconcile", h.reconcileTransaction)
		txns.POST("/:transactionID/post", h.postTransaction)

		recs := bank.Group("/reconciliations")
		recs.POST("", h.createReconciliation)
		recs.GET("", h.listReconciliations)
		recs.POST("/:reconciliationID/start", h.startReconciliation)
		recs.POST("/:reconciliationID/complete", h.completeReconciliation)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	account, err := h.bankService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create bank account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags bank-accounts
// @Produce  json
// @Param   includeInactive query bool false "Include inactive accounts"
// @Success 200 {array} dto.BankAccountResponse
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *bankHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))

	accounts, err := h.bankService.ListBankAccounts(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBankAccountResponse(accounts))
}

// listNeedingReconciliation godoc
// @Summary List bank accounts whose reconciliation is due
// @Tags bank-accounts
// @Produce  json
// @Success 200 {array} dto.BankAccountResponse
// @Security BearerAuth
// @Router /bank-accounts/needs-reconciliation [get]
func (h *bankHandler) listNeedingReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.bankService.ListAccountsNeedingReconciliation(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBankAccountResponse(accounts))
}

// getBankAccount godoc
// @Summary Get a bank account
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID} [get]
func (h *bankHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.bankService.GetBankAccount(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// getPrimaryBankAccount godoc
// @Summary Get the primary bank account
// @Tags bank-accounts
// @Produce  json
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "No primary bank account"
// @Security BearerAuth
// @Router /bank-accounts/primary [get]
func (h *bankHandler) getPrimaryBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.bankService.GetPrimaryBankAccount(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve primary bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// updateBankAccount godoc
// @Summary Update a bank account
// @Description Setting isPrimary unsets it on every other account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   bankAccount body dto.UpdateBankAccountRequest true "Fields to change"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID} [patch]
func (h *bankHandler) updateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	account, err := h.bankService.UpdateBankAccount(c.Request.Context(), c.Param("bankAccountID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// deactivateBankAccount godoc
// @Summary Deactivate a bank account
// @Description Bank accounts keep their history and are never hard deleted
// @Tags bank-accounts
// @Param   bankAccountID path string true "Bank account ID"
// @Success 204
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 422 {object} map[string]string "Already inactive"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID} [delete]
func (h *bankHandler) deactivateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	bankAccountID := c.Param("bankAccountID")
	if err := h.bankService.DeactivateBankAccount(c.Request.Context(), bankAccountID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate bank account")
		return
	}
	logger.Info("Bank account deactivated", slog.String("bank_account_id", bankAccountID))
	c.Status(http.StatusNoContent)
}

// getBankAccountSummary godoc
// @Summary Get the reconciliation summary of a bank account
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountSummaryResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/summary [get]
func (h *bankHandler) getBankAccountSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.bankService.GetBankAccountSummary(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bank account summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountSummaryResponse(summary))
}

// getBalanceAtDate godoc
// @Summary Get the bank ledger balance at a date
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   date query string false "Date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BankBalanceAtDateResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/balance-at-date [get]
func (h *bankHandler) getBalanceAtDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, err := queryDateOr(c, "date", today())
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}
	bankAccountID := c.Param("bankAccountID")

	account, err := h.bankService.GetBankAccount(c.Request.Context(), bankAccountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bank account")
		return
	}
	balance, err := h.bankService.GetBalanceAtDate(c.Request.Context(), bankAccountID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.BankBalanceAtDateResponse{
		BankAccountID: bankAccountID,
		Date:          date.Format(dto.DateLayout),
		Balance:       balance,
		Formatted:     utils.FormatMoney(balance, account.CurrencyCode),
	})
}

// addTransaction godoc
// @Summary Record a bank transaction
// @Description Records a movement and applies its signed amount to the current balance
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   transaction body dto.AddBankTransactionRequest true "Transaction"
// @Success 201 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions [post]
func (h *bankHandler) addTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.AddTransaction(c.Request.Context(), c.Param("bankAccountID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record bank transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List bank transactions
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Param   unreconciledOnly query bool false "Only unreconciled transactions"
// @Param   limit query int false "Page size" default(100)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.BankTransactionResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions [get]
func (h *bankHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBankTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	txns, err := h.bankService.ListTransactions(c.Request.Context(), c.Param("bankAccountID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list bank transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBankTransactionResponse(txns))
}

// listUnreconciled godoc
// @Summary List unreconciled bank transactions
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Success 200 {array} dto.BankTransactionResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions/unreconciled [get]
func (h *bankHandler) listUnreconciled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	txns, err := h.bankService.GetUnreconciledTransactions(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list unreconciled transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBankTransactionResponse(txns))
}

// deleteTransaction godoc
// @Summary Delete an unreconciled bank transaction
// @Tags bank-accounts
// @Param   bankAccountID path string true "Bank account ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 422 {object} map[string]string "Transaction is reconciled"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions/{transactionID} [delete]
func (h *bankHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	bankAccountID := c.Param("bankAccountID")
	transactionID := c.Param("transactionID")

	if err := h.bankService.DeleteTransaction(c.Request.Context(), bankAccountID, transactionID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete bank transaction")
		return
	}
	logger.Info("Bank transaction deleted",
		slog.String("bank_account_id", bankAccountID),
		slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// reconcileTransaction godoc
// @Summary Mark a bank transaction reconciled
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   transactionID path string true "Transaction ID"
// @Param   body body dto.ReconcileTransactionRequest true "Reconciliation"
// @Success 200 {object} dto.BankTransactionResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions/{transactionID}/reconcile [post]
func (h *bankHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReconcileTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	txn, err := h.bankService.ReconcileTransaction(c.Request.Context(), c.Param("bankAccountID"), c.Param("transactionID"), req.ReconciliationID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile bank transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

// postTransaction godoc
// @Summary Post a bank transaction to the general ledger
// @Description Creates and posts a journal entry between the linked ledger account and an offset account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   transactionID path string true "Transaction ID"
// @Param   body body dto.PostBankTransactionRequest true "Offset account"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Transaction already posted"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/transactions/{transactionID}/post [post]
func (h *bankHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	entry, err := h.bankService.PostTransactionToGeneralLedger(c.Request.Context(), c.Param("bankAccountID"), c.Param("transactionID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post bank transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// createReconciliation godoc
// @Summary Open a reconciliation against a bank statement
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   body body dto.CreateReconciliationRequest true "Statement"
// @Success 201 {object} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/reconciliations [post]
func (h *bankHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	rec, err := h.bankService.CreateReconciliation(c.Request.Context(), c.Param("bankAccountID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create reconciliation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// listReconciliations godoc
// @Summary List reconciliations of a bank account
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Success 200 {array} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/reconciliations [get]
func (h *bankHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recs, err := h.bankService.ListReconciliations(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListReconciliationResponse(recs))
}

// startReconciliation godoc
// @Summary Move a reconciliation to IN_PROGRESS
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   balances body dto.StartReconciliationRequest false "Corrected balances"
// @Success 200 {object} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/reconciliations/{reconciliationID}/start [post]
func (h *bankHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StartReconciliationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, logger, "Invalid request format", err)
			return
		}
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	rec, err := h.bankService.StartReconciliation(c.Request.Context(), c.Param("bankAccountID"), c.Param("reconciliationID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to start reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// completeReconciliation godoc
// @Summary Complete a reconciliation
// @Description Succeeds only when the statement and book balances agree within tolerance
// @Tags bank-accounts
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 422 {object} map[string]string "Reconciliation has a discrepancy"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/reconciliations/{reconciliationID}/complete [post]
func (h *bankHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	rec, err := h.bankService.CompleteReconciliation(c.Request.Context(), c.Param("bankAccountID"), c.Param("reconciliationID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to complete reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}
