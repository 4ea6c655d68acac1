package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/bizbooks/ledger_backend/internal/middleware"
)

// Well-known chart codes. Transaction adapters resolve accounts through
// these so every tenant ends up with the same base chart.
const (
	CodeCash              = "1000"
	CodeReceivable        = "1200"
	CodeInventory         = "1300"
	CodePayable           = "2100"
	CodeCommissionPayable = "2200"
	CodeOwnerEquity       = "3000"
	CodeSalesRevenue      = "4000"
	CodeSalesReturns      = "4100"
	CodeInventoryGain     = "4200"
	CodeCOGS              = "5000"
	CodePurchaseReturns   = "5100"
	CodeSalaryExpense     = "5200"
	CodeCommissionExpense = "5300"
	CodeInventoryLoss     = "5400"
)

type chartDefault struct {
	Name        string
	AccountType domain.AccountType
}

// defaultChart holds the lazily-created base chart of accounts.
var defaultChart = map[string]chartDefault{
	CodeCash:              {"Cash", domain.Asset},
	CodeReceivable:        {"Accounts Receivable", domain.Asset},
	CodeInventory:         {"Inventory", domain.Asset},
	CodePayable:           {"Accounts Payable", domain.Liability},
	CodeCommissionPayable: {"Commission Payable", domain.Liability},
	CodeOwnerEquity:       {"Owner Equity", domain.Equity},
	CodeSalesRevenue:      {"Sales Revenue", domain.Revenue},
	CodeSalesReturns:      {"Sales Returns", domain.Revenue},
	CodeInventoryGain:     {"Inventory Gain", domain.Revenue},
	CodeCOGS:              {"Cost of Goods Sold", domain.Expense},
	CodePurchaseReturns:   {"Purchase Returns", domain.Expense},
	CodeSalaryExpense:     {"Salary Expense", domain.Expense},
	CodeCommissionExpense: {"Commission Expense", domain.Expense},
	CodeInventoryLoss:     {"Inventory Loss", domain.Expense},
}

// registryService implements the chart-of-accounts registry.
type registryService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyReader
}

// NewRegistryService creates a new registry service.
func NewRegistryService(accountRepo portsrepo.AccountRepositoryFacade, partyRepo portsrepo.PartyReader) portssvc.RegistrySvcFacade {
	return &registryService{
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
	}
}

var _ portssvc.RegistrySvcFacade = (*registryService)(nil)

// GetOrCreateAccount implements portssvc.RegistrySvcFacade.
// Concurrent callers racing on the same code both end up with the same
// account: the loser of the insert race re-reads the winner's row.
func (s *registryService) GetOrCreateAccount(ctx context.Context, tenantID string, code string, name string, accountType domain.AccountType, parentCode string, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err == nil {
		// Existing accounts are never downgraded or mutated by lookups.
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up account by code", slog.String("error", err.Error()), slog.String("code", code), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to look up account by code %s: %w", code, err)
	}

	parentAccountID := ""
	if parentCode != "" {
		parent, err := s.ensureKnownAccount(ctx, tenantID, parentCode, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent account %s: %w", parentCode, err)
		}
		parentAccountID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            code,
		Name:            name,
		AccountType:     accountType,
		ParentAccountID: parentAccountID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the insert race; the concurrent winner's row is the account.
			return s.accountRepo.FindAccountByCode(ctx, tenantID, code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", code), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account %s: %w", code, err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", code), slog.String("tenant_id", tenantID))
	return &account, nil
}

// ensureKnownAccount resolves a code that must already exist or be part
// of the default chart.
func (s *registryService) ensureKnownAccount(ctx context.Context, tenantID string, code string, actorID string) (*domain.Account, error) {
	if def, ok := defaultChart[code]; ok {
		return s.GetOrCreateAccount(ctx, tenantID, code, def.Name, def.AccountType, "", actorID)
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAccount implements portssvc.RegistrySvcFacade.
func (s *registryService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	account, err := s.GetOrCreateAccount(ctx, tenantID, req.Code, req.Name, req.AccountType, req.ParentCode, actorID)
	if err != nil {
		return nil, err
	}
	if req.Description != "" && account.Description == "" {
		account.Description = req.Description
		account.LastUpdatedAt = time.Now().UTC()
		account.LastUpdatedBy = actorID
		if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
			return nil, fmt.Errorf("failed to set account description: %w", err)
		}
	}
	return account, nil
}

// CustomerReceivableAccount implements portssvc.RegistrySvcFacade.
func (s *registryService) CustomerReceivableAccount(ctx context.Context, tenantID string, customerID string, actorID string) (*domain.Account, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	code := fmt.Sprintf("%s-C%s", CodeReceivable, customerID)
	name := fmt.Sprintf("Receivable - %s", customer.Name)
	return s.GetOrCreateAccount(ctx, tenantID, code, name, domain.Asset, CodeReceivable, actorID)
}

// SupplierPayableAccount implements portssvc.RegistrySvcFacade.
func (s *registryService) SupplierPayableAccount(ctx context.Context, tenantID string, supplierID string, actorID string) (*domain.Account, error) {
	supplier, err := s.partyRepo.FindSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, err)
	}
	code := fmt.Sprintf("%s-S%s", CodePayable, supplierID)
	name := fmt.Sprintf("Payable - %s", supplier.Name)
	return s.GetOrCreateAccount(ctx, tenantID, code, name, domain.Liability, CodePayable, actorID)
}

// GetAccountByID implements portssvc.RegistrySvcFacade.
func (s *registryService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode implements portssvc.RegistrySvcFacade.
func (s *registryService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

// GetAccountsByIDs implements portssvc.RegistrySvcFacade.
func (s *registryService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

// ListAccounts implements portssvc.RegistrySvcFacade.
func (s *registryService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
}

// DeactivateAccount implements portssvc.RegistrySvcFacade.
func (s *registryService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if err := s.accountRepo.DeactivateAccount(ctx, tenantID, accountID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID), slog.String("tenant_id", tenantID))
	return nil
}
