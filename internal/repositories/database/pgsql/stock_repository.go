package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/bizbooks/ledger_backend/internal/models"
	"github.com/bizbooks/ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `product_id, tenant_id, name, cost_price, stock_quantity, created_at, created_by, last_updated_at, last_updated_by`

type PgxStockRepository struct {
	BaseRepository
	// allowNegativeStock disables the negative stock guard. Some tenants
	// deliberately oversell and backfill purchases later.
	allowNegativeStock bool
}

// newPgxStockRepository creates a new repository for product stock data.
func newPgxStockRepository(pool *pgxpool.Pool, allowNegativeStock bool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{
		BaseRepository:     BaseRepository{Pool: pool},
		allowNegativeStock: allowNegativeStock,
	}
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.TenantID,
		&m.Name,
		&m.CostPrice,
		&m.StockQuantity,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

// FindProductByID retrieves a product's cost and stock snapshot.
func (r *PgxStockRepository) FindProductByID(ctx context.Context, tenantID string, productID string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = $1 AND tenant_id = $2;
	`
	product, err := scanProduct(r.Pool.QueryRow(ctx, query, productID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	return product, nil
}

// FindProductsByIDs retrieves multiple products by their IDs.
func (r *PgxStockRepository) FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND product_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row during batch fetch: %w", err)
		}
		productsMap[product.ProductID] = *product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows during batch fetch: %w", err)
	}
	return productsMap, nil
}

// FindProductsByIDsForUpdate retrieves products by IDs and locks the rows
// for update in ascending product_id order. Must be called within a
// transaction, before any account rows are locked.
func (r *PgxStockRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND product_id = ANY($2)
		ORDER BY product_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, tenantID, productIDs)
	if err != nil {
		if isConcurrencyError(err) {
			return nil, fmt.Errorf("%w: locking products: %v", apperrors.ErrConcurrency, err)
		}
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		productsMap[product.ProductID] = *product
	}
	if err := rows.Err(); err != nil {
		if isConcurrencyError(err) {
			return nil, fmt.Errorf("%w: locking products: %v", apperrors.ErrConcurrency, err)
		}
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}

	if len(productsMap) != len(productIDs) {
		missing := []string{}
		for _, id := range productIDs {
			if _, found := productsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock all requested products, missing: %v", apperrors.ErrNotFound, missing)
	}
	return productsMap, nil
}

// ApplyStockChangesInTx records stock movements and applies stock deltas
// (and cost refreshes) to the locked product rows. Enforces the negative
// stock guard unless the repository was built with the override.
func (r *PgxStockRepository) ApplyStockChangesInTx(ctx context.Context, tx pgx.Tx, tenantID string, changes []portsrepo.StockChange, userID string) error {
	now := time.Now().UTC()

	movementQuery := `
		INSERT INTO stock_movements (movement_id, tenant_id, product_id, movement_type, quantity, reference, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	updateQuery := `
		UPDATE products
		SET stock_quantity = stock_quantity + $3,
		    cost_price = COALESCE($4, cost_price),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE product_id = $1 AND tenant_id = $2
		RETURNING stock_quantity;
	`

	for _, change := range changes {
		m := mapping.ToModelStockMovement(change.Movement)
		if _, err := tx.Exec(ctx, movementQuery,
			m.MovementID,
			m.TenantID,
			m.ProductID,
			m.MovementType,
			m.Quantity,
			m.Reference,
			now,
			userID,
			now,
			userID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to insert stock movement for product "+m.ProductID, err)
		}

		var newQuantity decimal.Decimal
		err := tx.QueryRow(ctx, updateQuery,
			change.Movement.ProductID,
			tenantID,
			change.StockDelta,
			change.NewCostPrice,
			now,
			userID,
		).Scan(&newQuantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, change.Movement.ProductID)
			}
			return apperrors.NewAppError(500, "failed to update stock for product "+change.Movement.ProductID, err)
		}
		if newQuantity.IsNegative() && !r.allowNegativeStock {
			return fmt.Errorf("%w: product %s would go to %s", apperrors.ErrNegativeStock, change.Movement.ProductID, newQuantity.String())
		}
	}
	return nil
}

// ListMovementsByProduct retrieves a product's movement log, newest first.
func (r *PgxStockRepository) ListMovementsByProduct(ctx context.Context, tenantID string, productID string, limit int, offset int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT movement_id, tenant_id, product_id, movement_type, quantity, reference, created_at, created_by, last_updated_at, last_updated_by
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC, movement_id DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements for product %s: %w", productID, err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		err := rows.Scan(
			&m.MovementID,
			&m.TenantID,
			&m.ProductID,
			&m.MovementType,
			&m.Quantity,
			&m.Reference,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement row for product %s: %w", productID, err)
		}
		movements = append(movements, mapping.ToDomainStockMovement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movement rows for product %s: %w", productID, err)
	}
	return movements, nil
}
