package services

import (
	"context"
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
	"github.com/shopspring/decimal"
)

// Reference types recorded on posting markers, one per source document kind.
const (
	RefSale            = "SALE"
	RefPurchase        = "PURCHASE"
	RefSaleReturn      = "SALE_RETURN"
	RefPurchaseReturn  = "PURCHASE_RETURN"
	RefCustomerPayment = "CUSTOMER_PAYMENT"
	RefSupplierPayment = "SUPPLIER_PAYMENT"
	RefSalary          = "SALARY"
	RefCommission      = "COMMISSION"
)

// postingService implements the transaction adapters. Adapters derive
// ledger lines from source documents and delegate all writes to the
// ledger engine; they hold no persistence of their own.
type postingService struct {
	ledgerSvc    portssvc.LedgerSvcFacade
	registrySvc  portssvc.RegistrySvcFacade
	inventorySvc portssvc.InventorySvcFacade
	journalRepo  portsrepo.JournalReader
}

// NewPostingService creates a new posting service.
func NewPostingService(ledgerSvc portssvc.LedgerSvcFacade, registrySvc portssvc.RegistrySvcFacade, inventorySvc portssvc.InventorySvcFacade, journalRepo portsrepo.JournalReader) portssvc.PostingSvcFacade {
	return &postingService{
		ledgerSvc:    ledgerSvc,
		registrySvc:  registrySvc,
		inventorySvc: inventorySvc,
		journalRepo:  journalRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// guardPosting rejects non-confirmed documents and already-posted sources.
// The read check here is a fast path only; the marker insert inside the
// posting transaction is what actually enforces exactly-once.
func (s *postingService) guardPosting(ctx context.Context, tenantID string, status dto.DocumentStatus, ref domain.PostingReference) error {
	if status != dto.StatusConfirmed {
		return fmt.Errorf("%w: only confirmed documents can be posted, got status %s", apperrors.ErrValidation, status)
	}
	processed, err := s.journalRepo.IsSourceProcessed(ctx, tenantID, ref)
	if err != nil {
		return fmt.Errorf("failed to check posting marker for %s %s: %w", ref.Type, ref.ID, err)
	}
	if processed {
		return fmt.Errorf("%w: %s %s", apperrors.ErrAlreadyProcessed, ref.Type, ref.ID)
	}
	return nil
}

func (s *postingService) defaultAccount(ctx context.Context, tenantID string, code string, actorID string) (*domain.Account, error) {
	def, ok := defaultChart[code]
	if !ok {
		return nil, fmt.Errorf("%w: account code %s is not part of the default chart", apperrors.ErrInternal, code)
	}
	return s.registrySvc.GetOrCreateAccount(ctx, tenantID, code, def.Name, def.AccountType, "", actorID)
}

func debitCreditLines(debitAccountID, creditAccountID string, amount decimal.Decimal, notes string) []domain.JournalLine {
	return []domain.JournalLine{
		{AccountID: debitAccountID, Side: domain.Debit, Amount: amount, Notes: notes},
		{AccountID: creditAccountID, Side: domain.Credit, Amount: amount, Notes: notes},
	}
}

// ProcessSale implements portssvc.PostingSvcFacade. A sale posts up to
// three entries in one atomic unit: the revenue entry, a COGS entry when
// line costs are known, and a commission accrual when a rep is attached.
func (s *postingService) ProcessSale(ctx context.Context, tenantID string, req dto.SaleRequest, actorID string) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ref := domain.PostingReference{Type: RefSale, ID: req.SaleID}
	if err := s.guardPosting(ctx, tenantID, req.Status, ref); err != nil {
		return nil, err
	}
	if !req.InvoiceTotal.IsPositive() {
		return nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}

	arAccount, err := s.registrySvc.CustomerReceivableAccount(ctx, tenantID, req.CustomerID, actorID)
	if err != nil {
		return nil, err
	}
	revenueAccount, err := s.defaultAccount(ctx, tenantID, CodeSalesRevenue, actorID)
	if err != nil {
		return nil, err
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntrySale,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Sale %s to %s", req.SaleID, arAccount.Name),
		Lines:       debitCreditLines(arAccount.AccountID, revenueAccount.AccountID, req.InvoiceTotal, ""),
	}}

	var stockChanges []portsrepo.StockChange
	costedItems, totalCOGS, err := s.inventorySvc.CostSaleItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if totalCOGS.IsPositive() {
		cogsAccount, err := s.defaultAccount(ctx, tenantID, CodeCOGS, actorID)
		if err != nil {
			return nil, err
		}
		inventoryAccount, err := s.defaultAccount(ctx, tenantID, CodeInventory, actorID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, portssvc.EntryInput{
			EntryType:   domain.EntrySale,
			EntryDate:   req.Date,
			Description: fmt.Sprintf("Cost of goods sold for sale %s", req.SaleID),
			Lines:       debitCreditLines(cogsAccount.AccountID, inventoryAccount.AccountID, totalCOGS, ""),
		})
		stockChanges = s.saleStockChanges(tenantID, costedItems, ref, actorID)
	} else if len(req.Items) > 0 {
		logger.Warn("Sale posted without COGS entry, no cost data available", slog.String("sale_id", req.SaleID), slog.String("tenant_id", tenantID))
	}

	if req.SalesRepID != "" && req.CommissionRate.IsPositive() {
		commission := req.InvoiceTotal.Mul(req.CommissionRate)
		commissionInput, err := s.commissionInput(ctx, tenantID, req.Date, commission,
			fmt.Sprintf("Commission for %s on sale %s", req.SalesRepID, req.SaleID), actorID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, *commissionInput)
	}

	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, stockChanges, actorID)
}

func (s *postingService) saleStockChanges(tenantID string, items []portssvc.CostedItem, ref domain.PostingReference, actorID string) []portsrepo.StockChange {
	changes := make([]portsrepo.StockChange, len(items))
	for i, item := range items {
		changes[i] = portsrepo.StockChange{
			Movement: domain.StockMovement{
				MovementID:   uuid.NewString(),
				TenantID:     tenantID,
				ProductID:    item.ProductID,
				MovementType: domain.StockOut,
				Quantity:     item.Quantity,
				Reference:    fmt.Sprintf("%s %s", ref.Type, ref.ID),
			},
			StockDelta: item.Quantity.Neg(),
		}
	}
	return changes
}

func (s *postingService) commissionInput(ctx context.Context, tenantID string, date time.Time, amount decimal.Decimal, description string, actorID string) (*portssvc.EntryInput, error) {
	expenseAccount, err := s.defaultAccount(ctx, tenantID, CodeCommissionExpense, actorID)
	if err != nil {
		return nil, err
	}
	payableAccount, err := s.defaultAccount(ctx, tenantID, CodeCommissionPayable, actorID)
	if err != nil {
		return nil, err
	}
	return &portssvc.EntryInput{
		EntryType:   domain.EntryCommission,
		EntryDate:   date,
		Description: description,
		Lines:       debitCreditLines(expenseAccount.AccountID, payableAccount.AccountID, amount, ""),
	}, nil
}

// ProcessPurchase implements portssvc.PostingSvcFacade. Purchases value
// inventory at the purchased unit cost and refresh each product's
// last-known cost price.
func (s *postingService) ProcessPurchase(ctx context.Context, tenantID string, req dto.PurchaseRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefPurchase, ID: req.PurchaseID}
	if err := s.guardPosting(ctx, tenantID, req.Status, ref); err != nil {
		return nil, err
	}
	if !req.InvoiceTotal.IsPositive() {
		return nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}

	apAccount, err := s.registrySvc.SupplierPayableAccount(ctx, tenantID, req.SupplierID, actorID)
	if err != nil {
		return nil, err
	}
	inventoryAccount, err := s.defaultAccount(ctx, tenantID, CodeInventory, actorID)
	if err != nil {
		return nil, err
	}

	stockChanges := make([]portsrepo.StockChange, 0, len(req.Items))
	for _, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: purchase quantity must be positive for product %s", apperrors.ErrValidation, item.ProductID)
		}
		unitCost := item.UnitCost
		stockChanges = append(stockChanges, portsrepo.StockChange{
			Movement: domain.StockMovement{
				MovementID:   uuid.NewString(),
				TenantID:     tenantID,
				ProductID:    item.ProductID,
				MovementType: domain.StockIn,
				Quantity:     item.Quantity,
				Reference:    fmt.Sprintf("%s %s", ref.Type, ref.ID),
			},
			StockDelta:   item.Quantity,
			NewCostPrice: &unitCost,
		})
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntryPurchase,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Purchase %s from %s", req.PurchaseID, apAccount.Name),
		Lines:       debitCreditLines(inventoryAccount.AccountID, apAccount.AccountID, req.InvoiceTotal, ""),
	}}
	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, stockChanges, actorID)
}

// ProcessSaleReturn implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessSaleReturn(ctx context.Context, tenantID string, req dto.SaleReturnRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefSaleReturn, ID: req.ReturnID}
	if err := s.guardPosting(ctx, tenantID, req.Status, ref); err != nil {
		return nil, err
	}
	if !req.ReturnTotal.IsPositive() {
		return nil, fmt.Errorf("%w: return total must be positive", apperrors.ErrValidation)
	}

	arAccount, err := s.registrySvc.CustomerReceivableAccount(ctx, tenantID, req.CustomerID, actorID)
	if err != nil {
		return nil, err
	}
	returnsAccount, err := s.defaultAccount(ctx, tenantID, CodeSalesReturns, actorID)
	if err != nil {
		return nil, err
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntrySaleReturn,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Sale return %s from %s", req.ReturnID, arAccount.Name),
		Lines:       debitCreditLines(returnsAccount.AccountID, arAccount.AccountID, req.ReturnTotal, ""),
	}}

	// Returned goods re-enter stock at the known cost and back out COGS.
	var stockChanges []portsrepo.StockChange
	costedItems, totalCost, err := s.inventorySvc.CostSaleItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if totalCost.IsPositive() {
		inventoryAccount, err := s.defaultAccount(ctx, tenantID, CodeInventory, actorID)
		if err != nil {
			return nil, err
		}
		cogsAccount, err := s.defaultAccount(ctx, tenantID, CodeCOGS, actorID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, portssvc.EntryInput{
			EntryType:   domain.EntrySaleReturn,
			EntryDate:   req.Date,
			Description: fmt.Sprintf("Returned goods to stock for return %s", req.ReturnID),
			Lines:       debitCreditLines(inventoryAccount.AccountID, cogsAccount.AccountID, totalCost, ""),
		})
		for _, item := range costedItems {
			stockChanges = append(stockChanges, portsrepo.StockChange{
				Movement: domain.StockMovement{
					MovementID:   uuid.NewString(),
					TenantID:     tenantID,
					ProductID:    item.ProductID,
					MovementType: domain.StockReturn,
					Quantity:     item.Quantity,
					Reference:    fmt.Sprintf("%s %s", ref.Type, ref.ID),
				},
				StockDelta: item.Quantity,
			})
		}
	}

	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, stockChanges, actorID)
}

// ProcessPurchaseReturn implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessPurchaseReturn(ctx context.Context, tenantID string, req dto.PurchaseReturnRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefPurchaseReturn, ID: req.ReturnID}
	if err := s.guardPosting(ctx, tenantID, req.Status, ref); err != nil {
		return nil, err
	}
	if !req.ReturnTotal.IsPositive() {
		return nil, fmt.Errorf("%w: return total must be positive", apperrors.ErrValidation)
	}

	apAccount, err := s.registrySvc.SupplierPayableAccount(ctx, tenantID, req.SupplierID, actorID)
	if err != nil {
		return nil, err
	}
	returnsAccount, err := s.defaultAccount(ctx, tenantID, CodePurchaseReturns, actorID)
	if err != nil {
		return nil, err
	}

	stockChanges := make([]portsrepo.StockChange, 0, len(req.Items))
	for _, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: return quantity must be positive for product %s", apperrors.ErrValidation, item.ProductID)
		}
		stockChanges = append(stockChanges, portsrepo.StockChange{
			Movement: domain.StockMovement{
				MovementID:   uuid.NewString(),
				TenantID:     tenantID,
				ProductID:    item.ProductID,
				MovementType: domain.StockOut,
				Quantity:     item.Quantity,
				Reference:    fmt.Sprintf("%s %s", ref.Type, ref.ID),
			},
			StockDelta: item.Quantity.Neg(),
		})
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntryPurchaseReturn,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Purchase return %s to %s", req.ReturnID, apAccount.Name),
		Lines:       debitCreditLines(apAccount.AccountID, returnsAccount.AccountID, req.ReturnTotal, ""),
	}}
	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, stockChanges, actorID)
}

// ProcessCustomerPayment implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessCustomerPayment(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefCustomerPayment, ID: req.PaymentID}
	// Payments have no draft state; they post on creation.
	if err := s.guardPosting(ctx, tenantID, dto.StatusConfirmed, ref); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	arAccount, err := s.registrySvc.CustomerReceivableAccount(ctx, tenantID, req.CustomerID, actorID)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.defaultAccount(ctx, tenantID, CodeCash, actorID)
	if err != nil {
		return nil, err
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntryCustomerPayment,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Payment %s received from %s", req.PaymentID, arAccount.Name),
		Lines:       debitCreditLines(cashAccount.AccountID, arAccount.AccountID, req.Amount, req.Notes),
	}}
	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, nil, actorID)
}

// ProcessSupplierPayment implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessSupplierPayment(ctx context.Context, tenantID string, req dto.SupplierPaymentRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefSupplierPayment, ID: req.PaymentID}
	if err := s.guardPosting(ctx, tenantID, dto.StatusConfirmed, ref); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	apAccount, err := s.registrySvc.SupplierPayableAccount(ctx, tenantID, req.SupplierID, actorID)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.defaultAccount(ctx, tenantID, CodeCash, actorID)
	if err != nil {
		return nil, err
	}

	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntrySupplierPayment,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Payment %s made to %s", req.PaymentID, apAccount.Name),
		Lines:       debitCreditLines(apAccount.AccountID, cashAccount.AccountID, req.Amount, req.Notes),
	}}
	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, nil, actorID)
}

// ProcessSalary implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessSalary(ctx context.Context, tenantID string, req dto.SalaryRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefSalary, ID: req.SalaryID}
	if err := s.guardPosting(ctx, tenantID, req.Status, ref); err != nil {
		return nil, err
	}
	if !req.NetPay.IsPositive() {
		return nil, fmt.Errorf("%w: net pay must be positive", apperrors.ErrValidation)
	}

	expenseAccount, err := s.defaultAccount(ctx, tenantID, CodeSalaryExpense, actorID)
	if err != nil {
		return nil, err
	}
	cashAccount, err := s.defaultAccount(ctx, tenantID, CodeCash, actorID)
	if err != nil {
		return nil, err
	}

	employee := req.EmployeeName
	if employee == "" {
		employee = req.EmployeeID
	}
	inputs := []portssvc.EntryInput{{
		EntryType:   domain.EntrySalary,
		EntryDate:   req.Date,
		Description: fmt.Sprintf("Salary %s for %s", req.SalaryID, employee),
		Lines:       debitCreditLines(expenseAccount.AccountID, cashAccount.AccountID, req.NetPay, ""),
	}}
	return s.ledgerSvc.PostEntries(ctx, tenantID, inputs, &ref, nil, actorID)
}

// ProcessSalesCommission implements portssvc.PostingSvcFacade.
func (s *postingService) ProcessSalesCommission(ctx context.Context, tenantID string, req dto.CommissionRequest, actorID string) ([]domain.JournalEntry, error) {
	ref := domain.PostingReference{Type: RefCommission, ID: req.CommissionID}
	if err := s.guardPosting(ctx, tenantID, dto.StatusConfirmed, ref); err != nil {
		return nil, err
	}
	commission := req.SaleTotal.Mul(req.Rate)
	if !commission.IsPositive() {
		return nil, fmt.Errorf("%w: commission amount must be positive", apperrors.ErrValidation)
	}

	input, err := s.commissionInput(ctx, tenantID, req.Date, commission,
		fmt.Sprintf("Commission %s for %s", req.CommissionID, req.SalesRepID), actorID)
	if err != nil {
		return nil, err
	}
	return s.ledgerSvc.PostEntries(ctx, tenantID, []portssvc.EntryInput{*input}, &ref, nil, actorID)
}
