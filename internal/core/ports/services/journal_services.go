package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/bizbooks/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// EntryInput is a candidate journal entry handed to the ledger engine by
// a transaction adapter. Lines carry account IDs, sides and positive
// amounts; IDs, numbering and running balances are assigned on posting.
type EntryInput struct {
	EntryType   domain.EntryType
	EntryDate   time.Time
	Description string
	Lines       []domain.JournalLine
	// Set on reversing entries to link back to the entry being reversed.
	OriginalEntryID *string
}

// LedgerSvcFacade is the ledger engine: balanced-entry posting, reversal,
// ledger reads and balance reconciliation.
type LedgerSvcFacade interface {
	// PostEntry validates and posts a manual voucher.
	PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest, actorID string) (*domain.JournalEntry, error)

	// PostEntries validates and posts one or more candidate entries as a
	// single atomic unit, together with the idempotency marker and stock
	// changes the adapter supplies. Used by transaction adapters.
	PostEntries(ctx context.Context, tenantID string, inputs []EntryInput, ref *domain.PostingReference, stockChanges []portsrepo.StockChange, actorID string) ([]domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// AccountLedger retrieves the chronological activity of one account
	// with running balances.
	AccountLedger(ctx context.Context, tenantID string, accountID string, params dto.AccountLedgerParams) (*dto.AccountLedgerResponse, error)

	// ReverseEntry posts a new entry that exactly reverses a posted entry.
	// Posted entries are immutable; this is the only correction mechanism.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, actorID string) (*domain.JournalEntry, error)

	// ReconcileAccountBalances recomputes every account's cached balance
	// from the full set of posted lines and overwrites the caches. Returns
	// the recomputed balances keyed by account ID.
	ReconcileAccountBalances(ctx context.Context, tenantID string, actorID string) (map[string]decimal.Decimal, error)
}
