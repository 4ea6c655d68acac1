package models

import (
	"github.com/shopspring/decimal"
)

// Customer represents the customer columns the ledger core reads.
type Customer struct {
	CustomerID     string          `db:"customer_id"`
	TenantID       string          `db:"tenant_id"`
	Name           string          `db:"name"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
}

// Supplier represents the supplier columns the ledger core reads.
type Supplier struct {
	SupplierID     string          `db:"supplier_id"`
	TenantID       string          `db:"tenant_id"`
	Name           string          `db:"name"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
}
