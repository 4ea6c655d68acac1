package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a financial account within the chart of accounts.
// Balance, DebitTotal and CreditTotal are caches maintained by the ledger
// engine; the posted journal lines remain the source of truth and
// ReconcileAccountBalances can rebuild all three at any time.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	TenantID        string          `json:"tenantID"`        // Owning tenant, supplied by the caller
	Code            string          `json:"code"`            // Unique per tenant, e.g. "1200" or "1200-C42"
	Name            string          `json:"name"`            // Display name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	ParentAccountID string          `json:"parentAccountID"` // Nullable self reference, e.g. subaccount -> control account
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"` // Accounts are deactivated, never deleted
	Balance         decimal.Decimal `json:"balance"`
	DebitTotal      decimal.Decimal `json:"debitTotal"`
	CreditTotal     decimal.Decimal `json:"creditTotal"`
	AuditFields
}
