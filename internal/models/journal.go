package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

// JournalEntry represents a journal entry row.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	TenantID         string          `db:"tenant_id"`
	EntryNumber      string          `db:"entry_number"`
	EntryType        string          `db:"entry_type"`
	EntryDate        time.Time       `db:"entry_date"`
	Description      string          `db:"description"`
	ReferenceType    *string         `db:"reference_type"` // Nullable
	ReferenceID      *string         `db:"reference_id"`   // Nullable
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           EntryStatus     `db:"status"`
	OriginalEntryID  *string         `db:"original_entry_id"`  // Nullable
	ReversingEntryID *string         `db:"reversing_entry_id"` // Nullable
	PostedAt         time.Time       `db:"posted_at"`
	PostedBy         string          `db:"posted_by"`
	AuditFields
}

// JournalLine represents a journal line row.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	Side           string          `db:"side"`
	Amount         decimal.Decimal `db:"amount"`
	Notes          string          `db:"notes"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	// Joined entry details, populated by ledger listings only.
	EntryDate        time.Time `db:"entry_date"`
	EntryNumber      string    `db:"entry_number"`
	EntryDescription string    `db:"entry_description"`
	AuditFields
}
