package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
)

// EntryListParams controls token-paginated entry listings.
type EntryListParams struct {
	Limit            int
	NextToken        *string
	IncludeReversals bool
}

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByTenant retrieves a paginated list of entries using token-based
	// pagination. Returns the entries, a token for the next page, and an error.
	ListEntriesByTenant(ctx context.Context, tenantID string, params EntryListParams) ([]domain.JournalEntry, *string, error)

	// IsSourceProcessed reports whether a posting already exists for the given
	// source reference. Used as the read side of the idempotency guard; the
	// write side is the marker row inserted by SavePostedEntries.
	IsSourceProcessed(ctx context.Context, tenantID string, ref domain.PostingReference) (bool, error)
}

// JournalWriter defines the atomic posting unit and reversal support.
type JournalWriter interface {
	// SavePostedEntries persists one or more balanced entries as a single
	// atomic unit: entry rows, line rows (with running balances), account
	// balance/total updates, the idempotency marker (when ref is non-nil)
	// and any stock changes. Entry numbers are allocated inside the same
	// transaction; the returned entries carry them. Either everything
	// commits or nothing does.
	//
	// A duplicate marker surfaces as apperrors.ErrAlreadyProcessed; lock or
	// serialization contention as apperrors.ErrConcurrency.
	SavePostedEntries(ctx context.Context, tenantID string, entries []domain.JournalEntry, deltas map[string]AccountDelta, ref *domain.PostingReference, stockChanges []StockChange) ([]domain.JournalEntry, error)

	// UpdateEntryStatusAndLinks updates the status and reversal linkage of an entry.
	UpdateEntryStatusAndLinks(ctx context.Context, tenantID string, entryID string, status domain.EntryStatus, reversingEntryID *string, updatedByUserID string, updatedAt time.Time) error
}

// LineReader defines read operations for journal line data.
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated, newest-first list of lines
	// touching an account, each carrying its running balance.
	ListLinesByAccountID(ctx context.Context, tenantID string, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineReader
}
