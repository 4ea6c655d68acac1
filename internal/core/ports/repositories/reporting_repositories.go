package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
// All queries are read-only and run against committed ledger state.
type ReportingRepository interface {
	// GetAccountBalances retrieves every active account with its cached
	// balance, for trial balance classification.
	GetAccountBalances(ctx context.Context, tenantID string) ([]domain.Account, error)

	// GetIncomeStatementData retrieves net revenue and expense amounts per
	// account for entries dated within [from, to], reversals excluded.
	GetIncomeStatementData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetBalanceSheetData retrieves net asset, liability and equity amounts
	// per account for entries dated up to asOf, reversals excluded.
	GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)

	// GetStatementLines retrieves all posted lines touching an account in
	// chronological order, with entry details, for statement assembly.
	GetStatementLines(ctx context.Context, tenantID string, accountID string) ([]domain.StatementLine, error)
}
