package domain

import (
	"github.com/shopspring/decimal"
)

// Customer is the read-only slice of customer master data the ledger
// consumes for receivable subaccounts and statements.
type Customer struct {
	CustomerID     string          `json:"customerID"`
	TenantID       string          `json:"tenantID"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// Supplier is the read-only slice of supplier master data the ledger
// consumes for payable subaccounts and statements.
type Supplier struct {
	SupplierID     string          `json:"supplierID"`
	TenantID       string          `json:"tenantID"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}
