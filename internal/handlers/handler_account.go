package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerQuerySvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerQuerySvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerQuerySvc) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/transactions", h.getAccountTransactions)
		accounts.GET("/:accountID/activity", h.getAccountActivity)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already used"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))
	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   accountType query string false "Filter by account type"
// @Param   includeInactive query bool false "Include deactivated accounts"
// @Param   limit query int false "Limit number of results" default(100)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccountTree godoc
// @Summary Get the account hierarchy
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountTreeResponse
// @Security BearerAuth
// @Router /accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tree, err := h.accountService.GetAccountTree(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build account tree")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTreeResponse(tree))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates descriptive fields. Type and normal balance cannot change.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Accounts are never deleted. System accounts cannot be deactivated.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account cannot be deactivated"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("accountID"), userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Nets the account's ledger rows on its normal side, optionally up to a date
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	asOf, err := queryDate(c, "asOf")
	if err != nil {
		badRequest(c, logger, "Invalid date", err)
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}

	var asOfLabel *string
	if asOf != nil {
		label := asOf.Format(dto.DateLayout)
		asOfLabel = &label
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(account, balance, asOfLabel))
}

// getAccountTransactions godoc
// @Summary List an account's ledger rows with running balance
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)" default(today)
// @Success 200 {object} dto.AccountTransactionsResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) getAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var window domain.DateRange
	from, err := queryDate(c, "from")
	if err != nil {
		badRequest(c, logger, "Invalid date", err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		badRequest(c, logger, "Invalid date", err)
		return
	}
	if from != nil {
		window.From = *from
	}
	if to != nil {
		window.To = *to
	}

	history, err := h.ledgerService.GetAccountTransactions(c.Request.Context(), c.Param("accountID"), window)
	if err != nil {
		respondError(c, logger, err, "Failed to list account transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTransactionsResponse(history))
}

// getAccountActivity godoc
// @Summary Summarize an account's postings in a month
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   year query int true "Fiscal year"
// @Param   month query int true "Fiscal month (1-12)"
// @Success 200 {object} dto.AccountActivityResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/activity [get]
func (h *accountHandler) getAccountActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		badRequest(c, logger, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		badRequest(c, logger, "Invalid month", err)
		return
	}

	activity, err := h.ledgerService.GetAccountActivity(c.Request.Context(), c.Param("accountID"), year, month)
	if err != nil {
		respondError(c, logger, err, "Failed to load account activity")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountActivityResponse(activity))
}
