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
	"github.com/bizbooks/ledger_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryMinAccounts = errors.New("entry must affect at least two different accounts")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAlreadyReversed  = errors.New("entry is already reversed")
)

// ledgerService implements the ledger engine.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// PostEntry implements portssvc.LedgerSvcFacade.
func (s *ledgerService) PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lr := range req.Lines {
		hasDebit := lr.Debit.IsPositive()
		hasCredit := lr.Credit.IsPositive()
		if hasDebit == hasCredit {
			return nil, fmt.Errorf("%w: exactly one of debit or credit must be positive for account %s", apperrors.ErrValidation, lr.AccountID)
		}
		side := domain.Debit
		amount := lr.Debit
		if hasCredit {
			side = domain.Credit
			amount = lr.Credit
		}
		lines[i] = domain.JournalLine{
			AccountID: lr.AccountID,
			Side:      side,
			Amount:    amount,
			Notes:     lr.Notes,
		}
	}

	input := portssvc.EntryInput{
		EntryType:   domain.EntryVoucher,
		EntryDate:   req.Date,
		Description: req.Description,
		Lines:       lines,
	}
	entries, err := s.PostEntries(ctx, tenantID, []portssvc.EntryInput{input}, nil, nil, actorID)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// PostEntries implements portssvc.LedgerSvcFacade. Every input is
// validated and priced before anything is written; the repository then
// commits the whole batch, the balance deltas, the marker and the stock
// changes in one database transaction.
func (s *ledgerService) PostEntries(ctx context.Context, tenantID string, inputs []portssvc.EntryInput, ref *domain.PostingReference, stockChanges []portsrepo.StockChange, actorID string) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no entries to post", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(inputs)*2)
	for _, input := range inputs {
		if err := accounting.ValidateEntryBalance(input.Lines); err != nil {
			return nil, err
		}
		accountSet := make(map[string]struct{})
		for _, line := range input.Lines {
			accountSet[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
		if len(accountSet) < 2 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryMinAccounts)
		}
	}

	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	deltas := make(map[string]portsrepo.AccountDelta)
	entries := make([]domain.JournalEntry, len(inputs))

	for i, input := range inputs {
		entryID := uuid.NewString()
		entryDate := input.EntryDate
		if entryDate.IsZero() {
			entryDate = now
		}

		entryLines := make([]domain.JournalLine, len(input.Lines))
		for j, line := range input.Lines {
			account := accountsMap[line.AccountID]
			signedAmount, err := accounting.CalculateSignedAmount(line, account.AccountType)
			if err != nil {
				return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
			}
			delta := deltas[line.AccountID]
			delta.Balance = delta.Balance.Add(signedAmount)
			if line.Side == domain.Debit {
				delta.Debit = delta.Debit.Add(line.Amount)
			} else {
				delta.Credit = delta.Credit.Add(line.Amount)
			}
			deltas[line.AccountID] = delta

			entryLines[j] = domain.JournalLine{
				LineID:    uuid.NewString(),
				EntryID:   entryID,
				AccountID: line.AccountID,
				Side:      line.Side,
				Amount:    line.Amount,
				Notes:     line.Notes,
				EntryDate: entryDate,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actorID,
					LastUpdatedAt: now,
					LastUpdatedBy: actorID,
				},
			}
		}

		entry := domain.JournalEntry{
			EntryID:     entryID,
			TenantID:    tenantID,
			EntryType:   input.EntryType,
			EntryDate:   entryDate,
			Description: input.Description,
			TotalAmount: accounting.EntryTotal(input.Lines),
			Status:      domain.Posted,
			PostedAt:    now,
			PostedBy:    actorID,
			Lines:       entryLines,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		if ref != nil {
			entry.ReferenceType = &ref.Type
			entry.ReferenceID = &ref.ID
		}
		entry.OriginalEntryID = input.OriginalEntryID
		entries[i] = entry
	}

	saved, err := s.journalRepo.SavePostedEntries(ctx, tenantID, entries, deltas, ref, stockChanges)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyProcessed) {
			logger.Error("Failed to save posted entries", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	for _, e := range saved {
		logger.Info("Entry posted",
			slog.String("entry_id", e.EntryID),
			slog.String("entry_number", e.EntryNumber),
			slog.String("entry_type", string(e.EntryType)),
			slog.String("tenant_id", tenantID))
	}
	return saved, nil
}

// GetEntryByID implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	entries, nextToken, err := s.journalRepo.ListEntriesByTenant(ctx, tenantID, portsrepo.EntryListParams{
		Limit:            params.Limit,
		NextToken:        params.NextToken,
		IncludeReversals: params.IncludeReversals,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// AccountLedger implements portssvc.LedgerSvcFacade.
func (s *ledgerService) AccountLedger(ctx context.Context, tenantID string, accountID string, params dto.AccountLedgerParams) (*dto.AccountLedgerResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, tenantID, accountID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
	}
	return &dto.AccountLedgerResponse{
		AccountID: accountID,
		Lines:     dto.ToLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

// ReverseEntry implements portssvc.LedgerSvcFacade. The reversing entry
// mirrors the original line for line with sides flipped; the original is
// then marked REVERSED and linked to its reversal.
func (s *ledgerService) ReverseEntry(ctx context.Context, tenantID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadyReversed)
	}

	reversedLines := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		side := domain.Debit
		if line.Side == domain.Debit {
			side = domain.Credit
		}
		reversedLines[i] = domain.JournalLine{
			AccountID: line.AccountID,
			Side:      side,
			Amount:    line.Amount,
			Notes:     line.Notes,
		}
	}

	input := portssvc.EntryInput{
		EntryType:       original.EntryType,
		EntryDate:       time.Now().UTC(),
		Description:     fmt.Sprintf("Reversal of %s", original.EntryNumber),
		Lines:           reversedLines,
		OriginalEntryID: &original.EntryID,
	}
	posted, err := s.PostEntries(ctx, tenantID, []portssvc.EntryInput{input}, nil, nil, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to post reversing entry for %s: %w", entryID, err)
	}
	reversing := posted[0]

	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, tenantID, entryID, domain.Reversed, &reversing.EntryID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark entry reversed", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", entryID, err)
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversing.EntryID), slog.String("tenant_id", tenantID))
	return &reversing, nil
}

// ReconcileAccountBalances implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ReconcileAccountBalances(ctx context.Context, tenantID string, actorID string) (map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balances, err := s.accountRepo.ReconcileAccountBalances(ctx, tenantID, actorID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to reconcile account balances", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to reconcile account balances: %w", err)
	}
	logger.Info("Account balances reconciled", slog.String("tenant_id", tenantID), slog.Int("accounts", len(balances)))
	return balances, nil
}
