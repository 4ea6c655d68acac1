package services

import (
	"context"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/dto"
)

// PostingSvcFacade holds the transaction adapters: one operation per
// business event type. Each adapter derives the correct set of ledger
// lines for its event and delegates to the ledger engine; adapters never
// mutate ledger state directly.
//
// Every adapter is idempotent per source document: a second confirm of
// an already-posted document returns apperrors.ErrAlreadyProcessed and
// writes nothing.
type PostingSvcFacade interface {
	ProcessSale(ctx context.Context, tenantID string, req dto.SaleRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessPurchase(ctx context.Context, tenantID string, req dto.PurchaseRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessSaleReturn(ctx context.Context, tenantID string, req dto.SaleReturnRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessPurchaseReturn(ctx context.Context, tenantID string, req dto.PurchaseReturnRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessCustomerPayment(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessSupplierPayment(ctx context.Context, tenantID string, req dto.SupplierPaymentRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessSalary(ctx context.Context, tenantID string, req dto.SalaryRequest, actorID string) ([]domain.JournalEntry, error)
	ProcessSalesCommission(ctx context.Context, tenantID string, req dto.CommissionRequest, actorID string) ([]domain.JournalEntry, error)
}
