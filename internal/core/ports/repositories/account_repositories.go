package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountDelta is the net effect of one posting on a single account:
// the signed balance change plus the unsigned debit/credit totals to
// accumulate onto the account's running totals.
type AccountDelta struct {
	Balance decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within a tenant.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of active accounts for a tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A (tenant, code) unique violation
	// surfaces as apperrors.ErrDuplicate so lazy creation stays idempotent.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines the operations the posting unit uses
// inside its database transaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them FOR UPDATE
	// within a transaction. Rows are locked in ascending account_id order so
	// concurrent postings over overlapping accounts cannot deadlock.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance and debit/credit-total deltas
	// for multiple accounts within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]AccountDelta, userID string, now time.Time) error
}

// AccountReconciler recomputes cached account balances from the posted lines.
type AccountReconciler interface {
	// ReconcileAccountBalances overwrites every account's cached balance,
	// debit total and credit total with values recomputed from the full set
	// of posted lines. Returns the recomputed balances keyed by account ID.
	ReconcileAccountBalances(ctx context.Context, tenantID string, userID string, now time.Time) (map[string]decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
	AccountReconciler
}
