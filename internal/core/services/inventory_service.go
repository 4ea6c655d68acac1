package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// inventoryService implements inventory valuation: COGS costing for the
// sale adapters and stock-count adjustment posting. Valuation uses the
// product's last-known cost price throughout.
type inventoryService struct {
	stockRepo   portsrepo.StockRepositoryFacade
	ledgerSvc   portssvc.LedgerSvcFacade
	registrySvc portssvc.RegistrySvcFacade
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(stockRepo portsrepo.StockRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade, registrySvc portssvc.RegistrySvcFacade) portssvc.InventorySvcFacade {
	return &inventoryService{
		stockRepo:   stockRepo,
		ledgerSvc:   ledgerSvc,
		registrySvc: registrySvc,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// ProcessInventoryAdjustment implements portssvc.InventorySvcFacade.
func (s *inventoryService) ProcessInventoryAdjustment(ctx context.Context, tenantID string, req dto.InventoryAdjustmentRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ActualQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: actual quantity cannot be negative", apperrors.ErrValidation)
	}

	product, err := s.stockRepo.FindProductByID(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", req.ProductID, err)
	}

	delta := req.ActualQuantity.Sub(product.StockQuantity)
	if delta.IsZero() {
		logger.Info("Stock count matches recorded quantity, nothing to adjust", slog.String("product_id", req.ProductID), slog.String("tenant_id", tenantID))
		return nil, nil
	}
	if !product.CostPrice.IsPositive() {
		return nil, fmt.Errorf("%w: product %s has no cost price to value the adjustment", apperrors.ErrValidation, req.ProductID)
	}

	value := delta.Abs().Mul(product.CostPrice)

	inventoryAccount, err := s.registrySvc.GetOrCreateAccount(ctx, tenantID, CodeInventory, defaultChart[CodeInventory].Name, domain.Asset, "", actorID)
	if err != nil {
		return nil, err
	}

	var lines []domain.JournalLine
	var direction string
	if delta.IsPositive() {
		gainAccount, err := s.registrySvc.GetOrCreateAccount(ctx, tenantID, CodeInventoryGain, defaultChart[CodeInventoryGain].Name, domain.Revenue, "", actorID)
		if err != nil {
			return nil, err
		}
		lines = debitCreditLines(inventoryAccount.AccountID, gainAccount.AccountID, value, req.Notes)
		direction = "gain"
	} else {
		lossAccount, err := s.registrySvc.GetOrCreateAccount(ctx, tenantID, CodeInventoryLoss, defaultChart[CodeInventoryLoss].Name, domain.Expense, "", actorID)
		if err != nil {
			return nil, err
		}
		lines = debitCreditLines(lossAccount.AccountID, inventoryAccount.AccountID, value, req.Notes)
		direction = "loss"
	}

	reference := req.Notes
	if reference == "" {
		reference = fmt.Sprintf("Stock count for product %s", req.ProductID)
	}
	stockChanges := []portsrepo.StockChange{{
		Movement: domain.StockMovement{
			MovementID:   uuid.NewString(),
			TenantID:     tenantID,
			ProductID:    req.ProductID,
			MovementType: domain.StockAdjustment,
			Quantity:     delta.Abs(),
			Reference:    reference,
		},
		StockDelta: delta,
	}}

	input := portssvc.EntryInput{
		EntryType:   domain.EntryAdjustment,
		Description: fmt.Sprintf("Inventory %s for %s, counted %s against recorded %s", direction, product.Name, req.ActualQuantity.String(), product.StockQuantity.String()),
		Lines:       lines,
	}
	entries, err := s.ledgerSvc.PostEntries(ctx, tenantID, []portssvc.EntryInput{input}, nil, stockChanges, actorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Inventory adjustment posted",
		slog.String("product_id", req.ProductID),
		slog.String("delta", delta.String()),
		slog.String("value", value.String()),
		slog.String("tenant_id", tenantID))
	return &entries[0], nil
}

// CostSaleItems implements portssvc.InventorySvcFacade.
func (s *inventoryService) CostSaleItems(ctx context.Context, tenantID string, items []dto.SaleItem) ([]portssvc.CostedItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, nil
	}

	needLookup := make([]string, 0, len(items))
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: item quantity must be positive for product %s", apperrors.ErrValidation, item.ProductID)
		}
		if item.UnitCost == nil {
			needLookup = append(needLookup, item.ProductID)
		}
	}

	products := map[string]domain.Product{}
	if len(needLookup) > 0 {
		var err error
		products, err = s.stockRepo.FindProductsByIDs(ctx, tenantID, uniqueStrings(needLookup))
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to fetch products for costing: %w", err)
		}
	}

	costed := make([]portssvc.CostedItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		unitCost := decimal.Zero
		if item.UnitCost != nil {
			unitCost = *item.UnitCost
		} else if product, ok := products[item.ProductID]; ok {
			unitCost = product.CostPrice
		}
		// Items with no usable cost are skipped rather than valued at zero.
		if !unitCost.IsPositive() {
			continue
		}
		costed = append(costed, portssvc.CostedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  unitCost,
		})
		total = total.Add(item.Quantity.Mul(unitCost))
	}
	return costed, total, nil
}

// ListMovementsByProduct implements portssvc.InventorySvcFacade.
func (s *inventoryService) ListMovementsByProduct(ctx context.Context, tenantID string, productID string, limit int, offset int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if _, err := s.stockRepo.FindProductByID(ctx, tenantID, productID); err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return s.stockRepo.ListMovementsByProduct(ctx, tenantID, productID, limit, offset)
}
