package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPartyRepository reads customer and supplier master data. The suite's
// master-data service owns these tables; this repository never writes them.
type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new read-only repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyReader {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyReader = (*PgxPartyRepository)(nil)

// FindCustomerByID retrieves a customer's name and opening balance.
func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, tenantID string, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, opening_balance
		FROM customers
		WHERE customer_id = $1 AND tenant_id = $2;
	`
	var c domain.Customer
	err := r.Pool.QueryRow(ctx, query, customerID, tenantID).Scan(
		&c.CustomerID,
		&c.TenantID,
		&c.Name,
		&c.OpeningBalance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	return &c, nil
}

// FindSupplierByID retrieves a supplier's name and opening balance.
func (r *PgxPartyRepository) FindSupplierByID(ctx context.Context, tenantID string, supplierID string) (*domain.Supplier, error) {
	query := `
		SELECT supplier_id, tenant_id, name, opening_balance
		FROM suppliers
		WHERE supplier_id = $1 AND tenant_id = $2;
	`
	var s domain.Supplier
	err := r.Pool.QueryRow(ctx, query, supplierID, tenantID).Scan(
		&s.SupplierID,
		&s.TenantID,
		&s.Name,
		&s.OpeningBalance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID %s: %w", supplierID, err)
	}
	return &s, nil
}
