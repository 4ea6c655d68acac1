package repositories

import (
	"context"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StockChange bundles one product's physical stock effect of a posting:
// the movement row to record, the signed stock delta to apply, and an
// optional refresh of the product's last-known unit cost (purchases).
type StockChange struct {
	Movement     domain.StockMovement
	StockDelta   decimal.Decimal
	NewCostPrice *decimal.Decimal
}

// ProductReader defines read operations for product stock data.
type ProductReader interface {
	// FindProductByID retrieves a product's cost and stock snapshot.
	FindProductByID(ctx context.Context, tenantID string, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products by their IDs.
	FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error)
}

// StockTransactionSupport defines the stock operations the posting unit
// runs inside its database transaction.
type StockTransactionSupport interface {
	// FindProductsByIDsForUpdate selects products and locks them FOR UPDATE
	// within a transaction, in ascending product_id order. Product rows are
	// always locked before account rows.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, productIDs []string) (map[string]domain.Product, error)

	// ApplyStockChangesInTx records stock movements and applies stock deltas
	// (and cost refreshes) to the locked product rows.
	ApplyStockChangesInTx(ctx context.Context, tx pgx.Tx, tenantID string, changes []StockChange, userID string) error
}

// StockMovementReader defines read operations for the movement log.
type StockMovementReader interface {
	// ListMovementsByProduct retrieves a product's movement log, newest first.
	ListMovementsByProduct(ctx context.Context, tenantID string, productID string, limit int, offset int) ([]domain.StockMovement, error)
}

// StockRepositoryFacade combines all stock-related repository interfaces.
type StockRepositoryFacade interface {
	ProductReader
	StockTransactionSupport
	StockMovementReader
}

// PartyReader defines the read-only access to customer/supplier master
// data the ledger consumes (subaccount naming and statement headers).
type PartyReader interface {
	FindCustomerByID(ctx context.Context, tenantID string, customerID string) (*domain.Customer, error)
	FindSupplierByID(ctx context.Context, tenantID string, supplierID string) (*domain.Supplier, error)
}
