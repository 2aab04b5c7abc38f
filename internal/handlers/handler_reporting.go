package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	ledgerService    portssvc.LedgerQuerySvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, ls portssvc.LedgerQuerySvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		ledgerService:    ls,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, ledgerService portssvc.LedgerQuerySvc) {
	h := newReportingHandler(reportingService, ledgerService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
		reportingGroup.GET("/summary", h.getSummary)
	}
}

// periodFromQuery reads from/to, defaulting to the year to date.
func periodFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	to, err := queryDateOr(c, "to", today())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := queryDateOr(c, "from", time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := queryDateOr(c, "asOf", today())
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	tb, err := h.ledgerService.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Revenue, expenses and net income over a period
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(start of year)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, err := periodFromQuery(c)
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	logger = logger.With(
		slog.String("from", from.Format(dto.DateLayout)),
		slog.String("to", to.Format(dto.DateLayout)))
	logger.Info("Generating income statement")

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Assets, liabilities and equity as of a date, with current-period earnings folded into equity
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := queryDateOr(c, "asOf", today())
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	if !report.IsBalanced {
		logger.Warn("Balance sheet does not balance", slog.String("as_of", asOf.Format(dto.DateLayout)))
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getCashFlow godoc
// @Summary Generate cash flow statement
// @Description Indirect-method cash flow over a period
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(start of year)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, err := periodFromQuery(c)
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	report, err := h.reportingService.CashFlowStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}

// getSummary godoc
// @Summary Generate financial summary
// @Description Headline totals and ratios for a period
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(start of year)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, err := periodFromQuery(c)
	if err != nil {
		badRequest(c, logger, "Invalid date format. Use YYYY-MM-DD", err)
		return
	}

	summary, err := h.reportingService.FinancialSummary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate financial summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(summary))
}
