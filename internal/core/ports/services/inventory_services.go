package services

import (
	"context"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CostedItem is a product quantity valued at a unit cost, produced by
// the valuation service for COGS and return postings.
type CostedItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// InventorySvcFacade is the inventory valuation component: COGS
// computation and stock-count adjustment posting.
type InventorySvcFacade interface {
	// ProcessInventoryAdjustment reconciles recorded stock with a physical
	// count. A zero delta is a no-op returning (nil, nil); otherwise the
	// stock is corrected, a movement is logged and a gain/loss entry valued
	// at |delta| x last-known unit cost is posted, all atomically.
	ProcessInventoryAdjustment(ctx context.Context, tenantID string, req dto.InventoryAdjustmentRequest, actorID string) (*domain.JournalEntry, error)

	// CostSaleItems values sale items for COGS: caller-supplied cost
	// snapshots win, otherwise the product's last-known cost is used.
	// Items with no cost data are omitted.
	CostSaleItems(ctx context.Context, tenantID string, items []dto.SaleItem) ([]CostedItem, decimal.Decimal, error)

	// ListMovementsByProduct retrieves a product's stock movement log.
	ListMovementsByProduct(ctx context.Context, tenantID string, productID string, limit int, offset int) ([]domain.StockMovement, error)
}
