package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/core/services"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockLedgerSvc    *MockLedgerService
	mockRegistrySvc  *MockRegistryService
	mockInventorySvc *MockInventoryService
	mockJournalRepo  *MockJournalRepository
	service          portssvc.PostingSvcFacade
	tenantID         string
	actorID          string

	cashAccount      domain.Account
	arAccount        domain.Account
	apAccount        domain.Account
	revenueAccount   domain.Account
	inventoryAccount domain.Account
	cogsAccount      domain.Account
	commExpAccount   domain.Account
	commPayAccount   domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.mockRegistrySvc = new(MockRegistryService)
	suite.mockInventorySvc = new(MockInventoryService)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewPostingService(suite.mockLedgerSvc, suite.mockRegistrySvc, suite.mockInventorySvc, suite.mockJournalRepo)

	suite.tenantID = uuid.NewString()
	suite.actorID = uuid.NewString()

	mkAccount := func(code string, t domain.AccountType) domain.Account {
		return domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: code, AccountType: t, IsActive: true}
	}
	suite.cashAccount = mkAccount(services.CodeCash, domain.Asset)
	suite.arAccount = mkAccount(services.CodeReceivable+"-C42", domain.Asset)
	suite.arAccount.Name = "Receivable - Acme Traders"
	suite.apAccount = mkAccount(services.CodePayable+"-S7", domain.Liability)
	suite.apAccount.Name = "Payable - Global Supplies"
	suite.revenueAccount = mkAccount(services.CodeSalesRevenue, domain.Revenue)
	suite.inventoryAccount = mkAccount(services.CodeInventory, domain.Asset)
	suite.cogsAccount = mkAccount(services.CodeCOGS, domain.Expense)
	suite.commExpAccount = mkAccount(services.CodeCommissionExpense, domain.Expense)
	suite.commPayAccount = mkAccount(services.CodeCommissionPayable, domain.Liability)
}

func (suite *PostingServiceTestSuite) expectDefaultAccount(account domain.Account) {
	acc := account
	suite.mockRegistrySvc.On("GetOrCreateAccount", mock.Anything, suite.tenantID, acc.Code, mock.AnythingOfType("string"), acc.AccountType, "", suite.actorID).
		Return(&acc, nil)
}

func (suite *PostingServiceTestSuite) expectNotProcessed(refType, refID string) {
	suite.mockJournalRepo.On("IsSourceProcessed", mock.Anything, suite.tenantID, domain.PostingReference{Type: refType, ID: refID}).
		Return(false, nil).Once()
}

func (suite *PostingServiceTestSuite) postedEntries(n int) []domain.JournalEntry {
	entries := make([]domain.JournalEntry, n)
	for i := range entries {
		entries[i] = domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}
	}
	return entries
}

func (suite *PostingServiceTestSuite) TestProcessSale_NoCostData() {
	ctx := context.Background()
	saleID := uuid.NewString()
	total := decimal.NewFromInt(100)
	req := dto.SaleRequest{
		SaleID:       saleID,
		CustomerID:   "42",
		Status:       dto.StatusConfirmed,
		Date:         time.Now(),
		InvoiceTotal: total,
	}

	suite.expectNotProcessed(services.RefSale, saleID)
	suite.mockRegistrySvc.On("CustomerReceivableAccount", ctx, suite.tenantID, "42", suite.actorID).Return(&suite.arAccount, nil).Once()
	suite.expectDefaultAccount(suite.revenueAccount)
	suite.mockInventorySvc.On("CostSaleItems", ctx, suite.tenantID, []dto.SaleItem(nil)).
		Return(nil, decimal.Zero, nil).Once()

	var capturedInputs []portssvc.EntryInput
	ref := domain.PostingReference{Type: services.RefSale, ID: saleID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, []portsrepo.StockChange(nil), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
		}).Return(suite.postedEntries(1), nil).Once()

	entries, err := suite.service.ProcessSale(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(entries, 1)
	suite.Require().Len(capturedInputs, 1)

	sale := capturedInputs[0]
	suite.Equal(domain.EntrySale, sale.EntryType)
	suite.Require().Len(sale.Lines, 2)
	suite.Equal(suite.arAccount.AccountID, sale.Lines[0].AccountID)
	suite.Equal(domain.Debit, sale.Lines[0].Side)
	suite.True(sale.Lines[0].Amount.Equal(total))
	suite.Equal(suite.revenueAccount.AccountID, sale.Lines[1].AccountID)
	suite.Equal(domain.Credit, sale.Lines[1].Side)
	suite.True(sale.Lines[1].Amount.Equal(total))
}

func (suite *PostingServiceTestSuite) TestProcessSale_WithCOGSAndCommission() {
	ctx := context.Background()
	saleID := uuid.NewString()
	total := decimal.NewFromInt(100)
	cost := decimal.NewFromInt(60)
	qty := decimal.NewFromInt(3)
	productID := uuid.NewString()
	req := dto.SaleRequest{
		SaleID:         saleID,
		CustomerID:     "42",
		Status:         dto.StatusConfirmed,
		Date:           time.Now(),
		InvoiceTotal:   total,
		Items:          []dto.SaleItem{{ProductID: productID, Quantity: qty}},
		SalesRepID:     "rep-9",
		CommissionRate: decimal.NewFromFloat(0.10),
	}

	suite.expectNotProcessed(services.RefSale, saleID)
	suite.mockRegistrySvc.On("CustomerReceivableAccount", ctx, suite.tenantID, "42", suite.actorID).Return(&suite.arAccount, nil).Once()
	suite.expectDefaultAccount(suite.revenueAccount)
	suite.expectDefaultAccount(suite.cogsAccount)
	suite.expectDefaultAccount(suite.inventoryAccount)
	suite.expectDefaultAccount(suite.commExpAccount)
	suite.expectDefaultAccount(suite.commPayAccount)

	costed := []portssvc.CostedItem{{ProductID: productID, Quantity: qty, UnitCost: decimal.NewFromInt(20)}}
	suite.mockInventorySvc.On("CostSaleItems", ctx, suite.tenantID, req.Items).Return(costed, cost, nil).Once()

	var capturedInputs []portssvc.EntryInput
	var capturedChanges []portsrepo.StockChange
	ref := domain.PostingReference{Type: services.RefSale, ID: saleID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, mock.AnythingOfType("[]repositories.StockChange"), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
			capturedChanges = args.Get(4).([]portsrepo.StockChange)
		}).Return(suite.postedEntries(3), nil).Once()

	entries, err := suite.service.ProcessSale(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(entries, 3)
	suite.Require().Len(capturedInputs, 3)

	cogs := capturedInputs[1]
	suite.Require().Len(cogs.Lines, 2)
	suite.Equal(suite.cogsAccount.AccountID, cogs.Lines[0].AccountID)
	suite.Equal(domain.Debit, cogs.Lines[0].Side)
	suite.True(cogs.Lines[0].Amount.Equal(cost))
	suite.Equal(suite.inventoryAccount.AccountID, cogs.Lines[1].AccountID)
	suite.Equal(domain.Credit, cogs.Lines[1].Side)

	commission := capturedInputs[2]
	suite.Equal(domain.EntryCommission, commission.EntryType)
	suite.Require().Len(commission.Lines, 2)
	suite.Equal(suite.commExpAccount.AccountID, commission.Lines[0].AccountID)
	suite.True(commission.Lines[0].Amount.Equal(decimal.NewFromInt(10)))
	suite.Equal(suite.commPayAccount.AccountID, commission.Lines[1].AccountID)

	suite.Require().Len(capturedChanges, 1)
	suite.Equal(productID, capturedChanges[0].Movement.ProductID)
	suite.Equal(domain.StockOut, capturedChanges[0].Movement.MovementType)
	suite.True(capturedChanges[0].Movement.Quantity.Equal(qty))
	suite.True(capturedChanges[0].StockDelta.Equal(qty.Neg()))
	suite.Nil(capturedChanges[0].NewCostPrice)
}

func (suite *PostingServiceTestSuite) TestProcessSale_RejectsDraft() {
	ctx := context.Background()
	req := dto.SaleRequest{
		SaleID:       uuid.NewString(),
		CustomerID:   "42",
		Status:       dto.StatusDraft,
		Date:         time.Now(),
		InvoiceTotal: decimal.NewFromInt(100),
	}

	_, err := suite.service.ProcessSale(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "IsSourceProcessed", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestProcessSale_SecondConfirmIsRejected() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := dto.SaleRequest{
		SaleID:       saleID,
		CustomerID:   "42",
		Status:       dto.StatusConfirmed,
		Date:         time.Now(),
		InvoiceTotal: decimal.NewFromInt(100),
	}

	suite.mockJournalRepo.On("IsSourceProcessed", ctx, suite.tenantID, domain.PostingReference{Type: services.RefSale, ID: saleID}).
		Return(true, nil).Once()

	_, err := suite.service.ProcessSale(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestProcessPurchase_RefreshesCostAndStock() {
	ctx := context.Background()
	purchaseID := uuid.NewString()
	total := decimal.NewFromInt(500)
	qty := decimal.NewFromInt(10)
	unitCost := decimal.NewFromInt(50)
	productID := uuid.NewString()
	req := dto.PurchaseRequest{
		PurchaseID:   purchaseID,
		SupplierID:   "7",
		Status:       dto.StatusConfirmed,
		Date:         time.Now(),
		InvoiceTotal: total,
		Items:        []dto.PurchaseItem{{ProductID: productID, Quantity: qty, UnitCost: unitCost}},
	}

	suite.expectNotProcessed(services.RefPurchase, purchaseID)
	suite.mockRegistrySvc.On("SupplierPayableAccount", ctx, suite.tenantID, "7", suite.actorID).Return(&suite.apAccount, nil).Once()
	suite.expectDefaultAccount(suite.inventoryAccount)

	var capturedInputs []portssvc.EntryInput
	var capturedChanges []portsrepo.StockChange
	ref := domain.PostingReference{Type: services.RefPurchase, ID: purchaseID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, mock.AnythingOfType("[]repositories.StockChange"), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
			capturedChanges = args.Get(4).([]portsrepo.StockChange)
		}).Return(suite.postedEntries(1), nil).Once()

	_, err := suite.service.ProcessPurchase(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(capturedInputs, 1)
	suite.Equal(domain.EntryPurchase, capturedInputs[0].EntryType)
	suite.Equal(suite.inventoryAccount.AccountID, capturedInputs[0].Lines[0].AccountID)
	suite.Equal(domain.Debit, capturedInputs[0].Lines[0].Side)
	suite.Equal(suite.apAccount.AccountID, capturedInputs[0].Lines[1].AccountID)
	suite.Equal(domain.Credit, capturedInputs[0].Lines[1].Side)

	suite.Require().Len(capturedChanges, 1)
	suite.Equal(domain.StockIn, capturedChanges[0].Movement.MovementType)
	suite.True(capturedChanges[0].StockDelta.Equal(qty))
	suite.Require().NotNil(capturedChanges[0].NewCostPrice)
	suite.True(capturedChanges[0].NewCostPrice.Equal(unitCost))
}

func (suite *PostingServiceTestSuite) TestProcessPurchase_NegativeQuantityRejected() {
	ctx := context.Background()
	req := dto.PurchaseRequest{
		PurchaseID:   uuid.NewString(),
		SupplierID:   "7",
		Status:       dto.StatusConfirmed,
		Date:         time.Now(),
		InvoiceTotal: decimal.NewFromInt(500),
		Items:        []dto.PurchaseItem{{ProductID: uuid.NewString(), Quantity: decimal.NewFromInt(-1), UnitCost: decimal.NewFromInt(50)}},
	}

	suite.expectNotProcessed(services.RefPurchase, req.PurchaseID)
	suite.mockRegistrySvc.On("SupplierPayableAccount", ctx, suite.tenantID, "7", suite.actorID).Return(&suite.apAccount, nil).Once()
	suite.expectDefaultAccount(suite.inventoryAccount)

	_, err := suite.service.ProcessPurchase(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestProcessCustomerPayment() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	amount := decimal.NewFromInt(200)
	req := dto.CustomerPaymentRequest{
		PaymentID:  paymentID,
		CustomerID: "42",
		Date:       time.Now(),
		Amount:     amount,
	}

	suite.expectNotProcessed(services.RefCustomerPayment, paymentID)
	suite.mockRegistrySvc.On("CustomerReceivableAccount", ctx, suite.tenantID, "42", suite.actorID).Return(&suite.arAccount, nil).Once()
	suite.expectDefaultAccount(suite.cashAccount)

	var capturedInputs []portssvc.EntryInput
	ref := domain.PostingReference{Type: services.RefCustomerPayment, ID: paymentID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, []portsrepo.StockChange(nil), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
		}).Return(suite.postedEntries(1), nil).Once()

	_, err := suite.service.ProcessCustomerPayment(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(capturedInputs, 1)
	suite.Equal(domain.EntryCustomerPayment, capturedInputs[0].EntryType)
	suite.Equal(suite.cashAccount.AccountID, capturedInputs[0].Lines[0].AccountID)
	suite.Equal(domain.Debit, capturedInputs[0].Lines[0].Side)
	suite.Equal(suite.arAccount.AccountID, capturedInputs[0].Lines[1].AccountID)
	suite.Equal(domain.Credit, capturedInputs[0].Lines[1].Side)
}

func (suite *PostingServiceTestSuite) TestProcessSalary() {
	ctx := context.Background()
	salaryID := uuid.NewString()
	netPay := decimal.NewFromInt(3000)
	salaryAccount := domain.Account{AccountID: uuid.NewString(), Code: services.CodeSalaryExpense, AccountType: domain.Expense, IsActive: true}
	req := dto.SalaryRequest{
		SalaryID:   salaryID,
		EmployeeID: "emp-1",
		Status:     dto.StatusConfirmed,
		Date:       time.Now(),
		NetPay:     netPay,
	}

	suite.expectNotProcessed(services.RefSalary, salaryID)
	suite.expectDefaultAccount(salaryAccount)
	suite.expectDefaultAccount(suite.cashAccount)

	var capturedInputs []portssvc.EntryInput
	ref := domain.PostingReference{Type: services.RefSalary, ID: salaryID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, []portsrepo.StockChange(nil), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
		}).Return(suite.postedEntries(1), nil).Once()

	_, err := suite.service.ProcessSalary(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(capturedInputs, 1)
	suite.Equal(domain.EntrySalary, capturedInputs[0].EntryType)
	suite.Equal(salaryAccount.AccountID, capturedInputs[0].Lines[0].AccountID)
	suite.True(capturedInputs[0].Lines[0].Amount.Equal(netPay))
	suite.Equal(suite.cashAccount.AccountID, capturedInputs[0].Lines[1].AccountID)
}

func (suite *PostingServiceTestSuite) TestProcessSalesCommission_ComputesAmount() {
	ctx := context.Background()
	commissionID := uuid.NewString()
	req := dto.CommissionRequest{
		CommissionID: commissionID,
		SalesRepID:   "rep-9",
		Date:         time.Now(),
		SaleTotal:    decimal.NewFromInt(2000),
		Rate:         decimal.NewFromFloat(0.05),
	}

	suite.expectNotProcessed(services.RefCommission, commissionID)
	suite.expectDefaultAccount(suite.commExpAccount)
	suite.expectDefaultAccount(suite.commPayAccount)

	var capturedInputs []portssvc.EntryInput
	ref := domain.PostingReference{Type: services.RefCommission, ID: commissionID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, []portsrepo.StockChange(nil), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
		}).Return(suite.postedEntries(1), nil).Once()

	_, err := suite.service.ProcessSalesCommission(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(capturedInputs, 1)
	suite.True(capturedInputs[0].Lines[0].Amount.Equal(decimal.NewFromInt(100)))
}

func (suite *PostingServiceTestSuite) TestProcessSupplierPayment() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	amount := decimal.NewFromInt(450)
	req := dto.SupplierPaymentRequest{
		PaymentID:  paymentID,
		SupplierID: "7",
		Date:       time.Now(),
		Amount:     amount,
	}

	suite.expectNotProcessed(services.RefSupplierPayment, paymentID)
	suite.mockRegistrySvc.On("SupplierPayableAccount", ctx, suite.tenantID, "7", suite.actorID).Return(&suite.apAccount, nil).Once()
	suite.expectDefaultAccount(suite.cashAccount)

	var capturedInputs []portssvc.EntryInput
	ref := domain.PostingReference{Type: services.RefSupplierPayment, ID: paymentID}
	suite.mockLedgerSvc.On("PostEntries", ctx, suite.tenantID, mock.AnythingOfType("[]services.EntryInput"), &ref, []portsrepo.StockChange(nil), suite.actorID).
		Run(func(args mock.Arguments) {
			capturedInputs = args.Get(2).([]portssvc.EntryInput)
		}).Return(suite.postedEntries(1), nil).Once()

	_, err := suite.service.ProcessSupplierPayment(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(capturedInputs, 1)
	suite.Equal(domain.EntrySupplierPayment, capturedInputs[0].EntryType)
	suite.Equal(suite.apAccount.AccountID, capturedInputs[0].Lines[0].AccountID)
	suite.Equal(domain.Debit, capturedInputs[0].Lines[0].Side)
	suite.Equal(suite.cashAccount.AccountID, capturedInputs[0].Lines[1].AccountID)
	suite.Equal(domain.Credit, capturedInputs[0].Lines[1].Side)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
