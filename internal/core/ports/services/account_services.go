package services

import (
	"context"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/dto"
)

// RegistrySvcFacade is the chart-of-accounts registry: deterministic,
// idempotent account lookup/creation plus the read operations the API
// exposes. Accounts are created lazily on first reference and never
// deleted, only deactivated.
type RegistrySvcFacade interface {
	// GetOrCreateAccount returns the existing account for code within the
	// tenant, or creates it with a zero balance. Safe to call concurrently.
	GetOrCreateAccount(ctx context.Context, tenantID string, code string, name string, accountType domain.AccountType, parentCode string, actorID string) (*domain.Account, error)

	// CreateAccount handles explicit creation requests (same idempotent
	// semantics as GetOrCreateAccount).
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// CustomerReceivableAccount resolves the per-customer receivable
	// subaccount, deriving its code deterministically from the customer ID.
	CustomerReceivableAccount(ctx context.Context, tenantID string, customerID string, actorID string) (*domain.Account, error)

	// SupplierPayableAccount resolves the per-supplier payable subaccount.
	SupplierPayableAccount(ctx context.Context, tenantID string, supplierID string, actorID string) (*domain.Account, error)

	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its code.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of active accounts.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, actorID string) error
}
