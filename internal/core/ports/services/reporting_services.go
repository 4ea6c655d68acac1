package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade answers the integrity-sensitive read queries. All
// operations are pure readers over committed ledger state.
type ReportingSvcFacade interface {
	// TrialBalance classifies every active account's balance into a debit
	// or credit column; Balanced reports exact column-total equality.
	TrialBalance(ctx context.Context, tenantID string) (*domain.TrialBalanceReport, error)

	// BalanceSheet aggregates asset/liability/equity balances as of a date.
	BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// IncomeStatement aggregates revenue/expense activity over a period,
	// windowed by the entries' business dates.
	IncomeStatement(ctx context.Context, tenantID string, from, to time.Time) (*domain.IncomeStatementReport, error)

	// CustomerStatement builds a customer's statement from the ledger
	// activity on their receivable subaccount plus the opening balance.
	CustomerStatement(ctx context.Context, tenantID string, customerID string) (*domain.StatementReport, error)

	// SupplierStatement builds a supplier's statement; the running balance
	// direction is flipped relative to customers.
	SupplierStatement(ctx context.Context, tenantID string, supplierID string) (*domain.StatementReport, error)
}
