package handlers

import (
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/bizbooks/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	if cfg.RateLimit != "" {
		if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
			store := memory.NewStore()
			v1.Use(middleware.RateLimit(limiter.New(store, rate)))
		}
	}

	// All ledger data is tenant scoped
	tenants := v1.Group("/tenants/:tenant_id")
	registerAccountRoutes(tenants, services.Registry)
	registerEntryRoutes(tenants, services.Ledger)
	registerPostingRoutes(tenants, services.Posting, services.Inventory)
	registerReportingRoutes(tenants, services.Reporting)
}
