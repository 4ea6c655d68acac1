package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// reportingHandler serves the financial reports.
type reportingHandler struct {
	reportingSvc portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingSvc portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingSvc: reportingSvc}
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	report, err := h.reportingSvc.TrialBalance(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be formatted as YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.reportingSvc.BalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	from, err := time.Parse(reportDateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be formatted as YYYY-MM-DD"})
		return
	}
	to, err := time.Parse(reportDateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be formatted as YYYY-MM-DD"})
		return
	}

	report, err := h.reportingSvc.IncomeStatement(c.Request.Context(), tenantID, from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) customerStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	customerID := c.Param("customer_id")

	report, err := h.reportingSvc.CustomerStatement(c.Request.Context(), tenantID, customerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build customer statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) supplierStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplier_id")

	report, err := h.reportingSvc.SupplierStatement(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build supplier statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingSvc portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingSvc)
	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/customers/:customer_id/statement", h.customerStatement)
		reports.GET("/suppliers/:supplier_id/statement", h.supplierStatement)
	}
}
