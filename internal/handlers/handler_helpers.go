package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service errors into HTTP responses.
// Validation problems carry their message to the caller; infrastructure
// failures are logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrImbalancedEntry):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNegativeStock):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent modification, please retry"})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireTenant extracts the tenant ID from the route or aborts with 400.
func requireTenant(c *gin.Context) (string, bool) {
	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return "", false
	}
	return tenantID, true
}
