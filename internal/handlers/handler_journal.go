package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/by-number/:entryNumber", h.getJournalEntryByNumber)
		entries.GET("/:entryID", h.getJournalEntry)
		entries.POST("/:entryID/post", h.postJournalEntry)
		entries.POST("/:entryID/reverse", h.reverseJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Stores a balanced entry as DRAFT, or posts it immediately with post=true
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   post query bool false "Post the entry in the same transaction"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry and its lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	postNow, _ := strconv.ParseBool(c.Query("post"))

	logger.Info("Received request to create journal entry",
		slog.Int("lines", len(req.Lines)),
		slog.Bool("post", postNow))

	create := h.journalService.CreateJournalEntry
	if postNow {
		create = h.journalService.CreateAndPostJournalEntry
	}
	entry, err := create(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getJournalEntryByNumber godoc
// @Summary Get a journal entry by its entry number
// @Tags journal-entries
// @Produce  json
// @Param   entryNumber path string true "Entry number (JE-YYYYMMDD-NNNN)"
// @Success 200 {object} dto.JournalEntryResponse
// @Security BearerAuth
// @Router /journal-entries/by-number/{entryNumber} [get]
func (h *journalHandler) getJournalEntryByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.journalService.GetJournalEntryByNumber(c.Request.Context(), c.Param("entryNumber"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with cursor pagination
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "DRAFT, POSTED, REVERSED or VOID"
// @Param   entryType query string false "Entry type"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	res, err := h.journalService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, res)
}

// postJournalEntry godoc
// @Summary Post a draft journal entry
// @Description Writes the entry's ledger rows and updates account balances atomically
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 422 {object} map[string]string "Entry is not a balanced draft"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), c.Param("entryID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror entry with debits and credits swapped and marks the original REVERSED
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional reversal date and description"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 422 {object} map[string]string "Entry cannot be reversed"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseJournalEntryRequest
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

	reversal, err := h.journalService.ReverseJournalEntry(c.Request.Context(), c.Param("entryID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
