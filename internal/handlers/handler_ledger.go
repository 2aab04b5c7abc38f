package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the posted ledger: the general ledger listing and the trial balance.
type ledgerHandler struct {
	ledgerService portssvc.LedgerQuerySvc
}

func newLedgerHandler(ls portssvc.LedgerQuerySvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerQuerySvc) {
	h := newLedgerHandler(ledgerService)

	gl := rg.Group("/general-ledger")
	{
		gl.GET("", h.getGeneralLedger)
		gl.GET("/trial-balance", h.getTrialBalance)
	}
}

// getGeneralLedger godoc
// @Summary List general ledger rows
// @Description Lists posted ledger rows with their accounts, filtered, with totals over the whole filter
// @Tags ledger
// @Produce  json
// @Param   account query string false "Account code or name"
// @Param   entryNumber query string false "Entry number"
// @Param   search query string false "Free text search over descriptions"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /general-ledger [get]
func (h *ledgerHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListGeneralLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	from, err := dto.ParseOptionalDate(params.DateFrom)
	if err != nil {
		badRequest(c, logger, "Invalid dateFrom", err)
		return
	}
	to, err := dto.ParseOptionalDate(params.DateTo)
	if err != nil {
		badRequest(c, logger, "Invalid dateTo", err)
		return
	}

	page, err := h.ledgerService.GetGeneralLedger(c.Request.Context(), domain.GeneralLedgerFilter{
		Account:     params.Account,
		EntryNumber: params.EntryNumber,
		Search:      params.Search,
		DateFrom:    from,
		DateTo:      to,
		Limit:       params.Limit,
		NextToken:   params.NextToken,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve general ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(page))
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance as of a specific date
// @Tags ledger
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /general-ledger/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := queryDateOr(c, "asOf", today())
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	logger = logger.With(slog.String("as_of", asOf.Format(dto.DateLayout)))
	logger.Info("Generating trial balance")

	tb, err := h.ledgerService.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// today is the current UTC calendar date at midnight.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
