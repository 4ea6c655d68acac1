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

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.LedgerSvcFacade
	tenantID         string
	actorID          string
	cashAccount      domain.Account
	revenueAccount   domain.Account
	inactiveAccount  domain.Account
	liabilityAccount domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.tenantID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.inactiveAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "9999",
		AccountType: domain.Expense,
		IsActive:    false,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "2100",
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

func (suite *LedgerServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *LedgerServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Owner capital injection",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	var capturedDeltas map[string]portsrepo.AccountDelta
	suite.mockJournalRepo.On("SavePostedEntries", ctx, suite.tenantID,
		mock.MatchedBy(func(entries []domain.JournalEntry) bool {
			if len(entries) != 1 {
				return false
			}
			e := entries[0]
			return e.EntryType == domain.EntryVoucher &&
				e.Status == domain.Posted &&
				e.TotalAmount.Equal(amount) &&
				len(e.Lines) == 2
		}),
		mock.AnythingOfType("map[string]repositories.AccountDelta"),
		(*domain.PostingReference)(nil),
		[]portsrepo.StockChange(nil),
	).Run(func(args mock.Arguments) {
		capturedDeltas = args.Get(3).(map[string]portsrepo.AccountDelta)
	}).Return([]domain.JournalEntry{{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE-20260829-0001",
		EntryType:   domain.EntryVoucher,
		Status:      domain.Posted,
		TotalAmount: amount,
	}}, nil).Once()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-20260829-0001", entry.EntryNumber)

	// Debit to the asset raises it, credit to revenue raises it too.
	suite.True(capturedDeltas[suite.cashAccount.AccountID].Balance.Equal(amount))
	suite.True(capturedDeltas[suite.cashAccount.AccountID].Debit.Equal(amount))
	suite.True(capturedDeltas[suite.revenueAccount.AccountID].Balance.Equal(amount))
	suite.True(capturedDeltas[suite.revenueAccount.AccountID].Credit.Equal(amount))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostEntry_ImbalancedRejectedWithoutWrites() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Broken voucher",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImbalancedEntry)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SavePostedEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntry_BothSidesOnOneLine() {
	ctx := context.Background()
	req := dto.PostEntryRequest{
		Date:        time.Now(),
		Description: "Invalid line",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(50)},
		},
	}

	_, err := suite.service.PostEntry(ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostEntries_SingleAccountRejected() {
	ctx := context.Background()
	amount := decimal.NewFromInt(25)
	inputs := []portssvc.EntryInput{{
		EntryType: domain.EntryVoucher,
		Lines: []domain.JournalLine{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount},
			{AccountID: suite.cashAccount.AccountID, Side: domain.Credit, Amount: amount},
		},
	}}

	_, err := suite.service.PostEntries(ctx, suite.tenantID, inputs, nil, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostEntries_InactiveAccountRejected() {
	ctx := context.Background()
	amount := decimal.NewFromInt(40)
	inputs := []portssvc.EntryInput{{
		EntryType: domain.EntryVoucher,
		Lines: []domain.JournalLine{
			{AccountID: suite.inactiveAccount.AccountID, Side: domain.Debit, Amount: amount},
			{AccountID: suite.cashAccount.AccountID, Side: domain.Credit, Amount: amount},
		},
	}}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.inactiveAccount, suite.cashAccount), nil).Once()

	_, err := suite.service.PostEntries(ctx, suite.tenantID, inputs, nil, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SavePostedEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntries_UnknownAccountRejected() {
	ctx := context.Background()
	amount := decimal.NewFromInt(40)
	missingID := uuid.NewString()
	inputs := []portssvc.EntryInput{{
		EntryType: domain.EntryVoucher,
		Lines: []domain.JournalLine{
			{AccountID: missingID, Side: domain.Debit, Amount: amount},
			{AccountID: suite.cashAccount.AccountID, Side: domain.Credit, Amount: amount},
		},
	}}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.PostEntries(ctx, suite.tenantID, inputs, nil, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
}

func (suite *LedgerServiceTestSuite) TestPostEntries_AlreadyProcessedPassesThrough() {
	ctx := context.Background()
	amount := decimal.NewFromInt(75)
	ref := &domain.PostingReference{Type: "SALE", ID: uuid.NewString()}
	inputs := []portssvc.EntryInput{{
		EntryType: domain.EntrySale,
		Lines: []domain.JournalLine{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount},
			{AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Amount: amount},
		},
	}}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SavePostedEntries", ctx, suite.tenantID, mock.Anything, mock.Anything, ref, []portsrepo.StockChange(nil)).
		Return(nil, apperrors.ErrAlreadyProcessed).Once()

	_, err := suite.service.PostEntries(ctx, suite.tenantID, inputs, ref, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
}

func (suite *LedgerServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100)
	originalID := uuid.NewString()
	original := domain.JournalEntry{
		EntryID:     originalID,
		TenantID:    suite.tenantID,
		EntryNumber: "SAL-20260810-0003",
		EntryType:   domain.EntrySale,
		Status:      domain.Posted,
		TotalAmount: amount,
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: amount},
		{LineID: uuid.NewString(), EntryID: originalID, AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Amount: amount},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, originalID).Return(&original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, originalID).Return(originalLines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	reversingID := uuid.NewString()
	suite.mockJournalRepo.On("SavePostedEntries", ctx, suite.tenantID,
		mock.MatchedBy(func(entries []domain.JournalEntry) bool {
			if len(entries) != 1 {
				return false
			}
			e := entries[0]
			if e.OriginalEntryID == nil || *e.OriginalEntryID != originalID {
				return false
			}
			// Sides must be flipped line for line.
			return len(e.Lines) == 2 &&
				e.Lines[0].AccountID == suite.cashAccount.AccountID && e.Lines[0].Side == domain.Credit &&
				e.Lines[1].AccountID == suite.revenueAccount.AccountID && e.Lines[1].Side == domain.Debit
		}),
		mock.AnythingOfType("map[string]repositories.AccountDelta"),
		(*domain.PostingReference)(nil),
		[]portsrepo.StockChange(nil),
	).Return([]domain.JournalEntry{{
		EntryID:         reversingID,
		EntryNumber:     "SAL-20260829-0001",
		EntryType:       domain.EntrySale,
		Status:          domain.Posted,
		OriginalEntryID: &originalID,
		TotalAmount:     amount,
	}}, nil).Once()

	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, suite.tenantID, originalID, domain.Reversed, &reversingID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.tenantID, originalID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(reversingID, reversing.EntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entryID := uuid.NewString()
	reversed := domain.JournalEntry{
		EntryID:  entryID,
		TenantID: suite.tenantID,
		Status:   domain.Reversed,
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(&reversed, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return([]domain.JournalLine{}, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.tenantID, entryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SavePostedEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReconcileAccountBalances() {
	ctx := context.Background()
	want := map[string]decimal.Decimal{
		suite.cashAccount.AccountID:    decimal.NewFromInt(500),
		suite.revenueAccount.AccountID: decimal.NewFromInt(500),
	}
	suite.mockAccountRepo.On("ReconcileAccountBalances", ctx, suite.tenantID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(want, nil).Once()

	got, err := suite.service.ReconcileAccountBalances(ctx, suite.tenantID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(want, got)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
