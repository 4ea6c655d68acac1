package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account represents an account row.
// Note: ParentAccountID uses string for the nullable foreign key; the
// repository maps it through sql.NullString.
type Account struct {
	AccountID       string          `db:"account_id"`
	TenantID        string          `db:"tenant_id"`
	Code            string          `db:"code"` // Unique per tenant
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	Balance         decimal.Decimal `db:"balance"`
	DebitTotal      decimal.Decimal `db:"debit_total"`
	CreditTotal     decimal.Decimal `db:"credit_total"`
	AuditFields
}
