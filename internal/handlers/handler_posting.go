package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler exposes the transaction adapters and inventory valuation.
type postingHandler struct {
	postingSvc   portssvc.PostingSvcFacade
	inventorySvc portssvc.InventorySvcFacade
}

func newPostingHandler(postingSvc portssvc.PostingSvcFacade, inventorySvc portssvc.InventorySvcFacade) *postingHandler {
	return &postingHandler{postingSvc: postingSvc, inventorySvc: inventorySvc}
}

// respondPosting writes the adapter result. A repeated confirm of the
// same document is reported as success with no entries, since callers
// treat the duplicate as a no-op.
func respondPosting(c *gin.Context, logger *slog.Logger, entries []domain.JournalEntry, err error, logMsg string) {
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyProcessed) {
			logger.Info("Source already posted, returning no-op", slog.String("detail", err.Error()))
			c.JSON(http.StatusOK, dto.PostingResponse{Entries: []dto.EntryResponse{}})
			return
		}
		respondServiceError(c, logger, err, logMsg)
		return
	}

	resp := dto.PostingResponse{Entries: make([]dto.EntryResponse, len(entries))}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	c.JSON(http.StatusCreated, resp)
}

func bindPosting[T any](c *gin.Context, logger *slog.Logger) (T, string, bool) {
	var req T
	tenantID, ok := requireTenant(c)
	if !ok {
		return req, "", false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind posting request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return req, "", false
	}
	return req, tenantID, true
}

func (h *postingHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.SaleRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessSale(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post sale")
}

func (h *postingHandler) postPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.PurchaseRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessPurchase(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post purchase")
}

func (h *postingHandler) postSaleReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.SaleReturnRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessSaleReturn(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post sale return")
}

func (h *postingHandler) postPurchaseReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.PurchaseReturnRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessPurchaseReturn(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post purchase return")
}

func (h *postingHandler) postCustomerPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.CustomerPaymentRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessCustomerPayment(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post customer payment")
}

func (h *postingHandler) postSupplierPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.SupplierPaymentRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessSupplierPayment(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post supplier payment")
}

func (h *postingHandler) postSalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.SalaryRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessSalary(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post salary")
}

func (h *postingHandler) postCommission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.CommissionRequest](c, logger)
	if !ok {
		return
	}
	entries, err := h.postingSvc.ProcessSalesCommission(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	respondPosting(c, logger, entries, err, "Failed to post commission")
}

// postInventoryAdjustment reconciles recorded stock with a physical count.
func (h *postingHandler) postInventoryAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, tenantID, ok := bindPosting[dto.InventoryAdjustmentRequest](c, logger)
	if !ok {
		return
	}

	entry, err := h.inventorySvc.ProcessInventoryAdjustment(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post inventory adjustment")
		return
	}
	if entry == nil {
		// Count matched the records; nothing was written.
		c.JSON(http.StatusOK, dto.PostingResponse{Entries: []dto.EntryResponse{}})
		return
	}
	c.JSON(http.StatusCreated, dto.PostingResponse{Entries: []dto.EntryResponse{dto.ToEntryResponse(entry)}})
}

// listStockMovements retrieves a product's movement log.
func (h *postingHandler) listStockMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	productID := c.Param("product_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	movements, err := h.inventorySvc.ListMovementsByProduct(c.Request.Context(), tenantID, productID, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock movements")
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

// registerPostingRoutes registers the transaction adapter and inventory routes.
func registerPostingRoutes(group *gin.RouterGroup, postingSvc portssvc.PostingSvcFacade, inventorySvc portssvc.InventorySvcFacade) {
	h := newPostingHandler(postingSvc, inventorySvc)
	postings := group.Group("/postings")
	{
		postings.POST("/sales", h.postSale)
		postings.POST("/purchases", h.postPurchase)
		postings.POST("/sale-returns", h.postSaleReturn)
		postings.POST("/purchase-returns", h.postPurchaseReturn)
		postings.POST("/customer-payments", h.postCustomerPayment)
		postings.POST("/supplier-payments", h.postSupplierPayment)
		postings.POST("/salaries", h.postSalary)
		postings.POST("/commissions", h.postCommission)
	}
	inventory := group.Group("/inventory")
	{
		inventory.POST("/adjustments", h.postInventoryAdjustment)
		inventory.GET("/products/:product_id/movements", h.listStockMovements)
	}
}
