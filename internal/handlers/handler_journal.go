package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries and ledgers.
type journalHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

func newJournalHandler(ledgerSvc portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{ledgerSvc: ledgerSvc}
}

// postEntry posts a manual voucher.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.ledgerSvc.PostEntry(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted via API", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry retrieves an entry with its lines.
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	entryID := c.Param("entry_id")

	entry, err := h.ledgerSvc.GetEntryByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries retrieves a token-paginated list of entries.
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	params := dto.ListEntriesParams{}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	params.IncludeReversals = c.Query("includeReversals") == "true"

	resp, err := h.ledgerSvc.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reverseEntry posts a reversing entry for a posted entry.
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	entryID := c.Param("entry_id")

	reversing, err := h.ledgerSvc.ReverseEntry(c.Request.Context(), tenantID, entryID, middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed via API", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversing))
}

// accountLedger retrieves an account's activity with running balances.
func (h *journalHandler) accountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	accountID := c.Param("account_id")

	params := dto.AccountLedgerParams{}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.ledgerSvc.AccountLedger(c.Request.Context(), tenantID, accountID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get account ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reconcile recomputes all cached account balances from the posted lines.
func (h *journalHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	balances, err := h.ledgerSvc.ReconcileAccountBalances(c.Request.Context(), tenantID, middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile balances")
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileResponse{Balances: balances})
}

// registerEntryRoutes registers the journal entry and ledger routes.
func registerEntryRoutes(group *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ledgerSvc)
	entries := group.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
	ledger := group.Group("/ledger")
	{
		ledger.GET("/accounts/:account_id", h.accountLedger)
		ledger.POST("/reconcile", h.reconcile)
	}
}
