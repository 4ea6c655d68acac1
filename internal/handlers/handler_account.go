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

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	registrySvc portssvc.RegistrySvcFacade
}

func newAccountHandler(registrySvc portssvc.RegistrySvcFacade) *accountHandler {
	return &accountHandler{registrySvc: registrySvc}
}

// createAccount creates (or idempotently returns) an account by code.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.registrySvc.CreateAccount(c.Request.Context(), tenantID, req, middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount retrieves one account by ID.
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	accountID := c.Param("account_id")

	account, err := h.registrySvc.GetAccountByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts retrieves a paginated list of active accounts.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.registrySvc.ListAccounts(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// deactivateAccount marks an account inactive. Accounts are never deleted.
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	accountID := c.Param("account_id")

	if err := h.registrySvc.DeactivateAccount(c.Request.Context(), tenantID, accountID, middleware.GetActorID(c)); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerAccountRoutes registers the chart-of-accounts routes.
func registerAccountRoutes(group *gin.RouterGroup, registrySvc portssvc.RegistrySvcFacade) {
	h := newAccountHandler(registrySvc)
	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.DELETE("/:account_id", h.deactivateAccount)
	}
}
