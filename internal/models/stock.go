package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product row; only the columns the ledger core
// reads and maintains (last-known cost and physical stock).
type Product struct {
	ProductID     string          `db:"product_id"`
	TenantID      string          `db:"tenant_id"`
	Name          string          `db:"name"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	StockQuantity decimal.Decimal `db:"stock_quantity"`
	AuditFields
}

// StockMovement represents a stock movement row.
type StockMovement struct {
	MovementID   string          `db:"movement_id"`
	TenantID     string          `db:"tenant_id"`
	ProductID    string          `db:"product_id"`
	MovementType string          `db:"movement_type"`
	Quantity     decimal.Decimal `db:"quantity"`
	Reference    string          `db:"reference"`
	AuditFields
}
