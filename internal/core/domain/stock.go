package domain

import (
	"github.com/shopspring/decimal"
)

// StockMovementType classifies a physical stock movement.
type StockMovementType string

const (
	StockIn         StockMovementType = "IN"
	StockOut        StockMovementType = "OUT"
	StockAdjustment StockMovementType = "ADJUSTMENT"
	StockReturn     StockMovementType = "RETURN"
)

// StockMovement records a physical stock change for one product.
// Movements are append-only; the ledger valuation entries reference them
// through the shared posting reference.
type StockMovement struct {
	MovementID   string            `json:"movementID"` // Primary key (UUID)
	TenantID     string            `json:"tenantID"`
	ProductID    string            `json:"productID"`
	MovementType StockMovementType `json:"movementType"`
	Quantity     decimal.Decimal   `json:"quantity"` // Always positive; direction comes from the type
	Reference    string            `json:"reference"`
	AuditFields
}

// Product is the slice of product master data the ledger core consumes:
// the last-known unit cost used for COGS valuation and the current
// physical stock. Master-data CRUD lives outside this core.
//
// Known limitation carried over from the original design: CostPrice is
// the product's current cost, not a FIFO or weighted-average lot cost.
type Product struct {
	ProductID     string          `json:"productID"`
	TenantID      string          `json:"tenantID"`
	Name          string          `json:"name"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	AuditFields
}
