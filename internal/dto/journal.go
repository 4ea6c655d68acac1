package dto

import (
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one candidate line of a manual voucher. Exactly one
// of Debit/Credit must be positive; the other must be zero or absent.
type EntryLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes"`
}

// PostEntryRequest is the payload for posting a manual voucher.
type PostEntryRequest struct {
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// LineResponse is the API representation of a journal line.
type LineResponse struct {
	LineID           string          `json:"lineID"`
	EntryID          string          `json:"entryID"`
	AccountID        string          `json:"accountID"`
	Side             string          `json:"side"`
	Amount           decimal.Decimal `json:"amount"`
	Notes            string          `json:"notes,omitempty"`
	RunningBalance   decimal.Decimal `json:"runningBalance"`
	EntryDate        time.Time       `json:"entryDate,omitempty"`
	EntryNumber      string          `json:"entryNumber,omitempty"`
	EntryDescription string          `json:"entryDescription,omitempty"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID       string          `json:"entryID"`
	EntryNumber   string          `json:"entryNumber"`
	EntryType     string          `json:"entryType"`
	EntryDate     time.Time       `json:"entryDate"`
	Description   string          `json:"description"`
	ReferenceType *string         `json:"referenceType,omitempty"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PostedAt      time.Time       `json:"postedAt"`
	PostedBy      string          `json:"postedBy"`
	Lines         []LineResponse  `json:"lines,omitempty"`
}

// ToLineResponse converts a domain line to its response DTO.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:           l.LineID,
		EntryID:          l.EntryID,
		AccountID:        l.AccountID,
		Side:             string(l.Side),
		Amount:           l.Amount,
		Notes:            l.Notes,
		RunningBalance:   l.RunningBalance,
		EntryDate:        l.EntryDate,
		EntryNumber:      l.EntryNumber,
		EntryDescription: l.EntryDescription,
	}
}

// ToLineResponses converts a slice of domain lines.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	resp := make([]LineResponse, len(lines))
	for i, l := range lines {
		resp[i] = ToLineResponse(l)
	}
	return resp
}

// ToEntryResponse converts a domain entry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		EntryNumber:   e.EntryNumber,
		EntryType:     string(e.EntryType),
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		TotalAmount:   e.TotalAmount,
		Status:        string(e.Status),
		PostedAt:      e.PostedAt,
		PostedBy:      e.PostedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToLineResponses(e.Lines)
	}
	return resp
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit            int
	NextToken        *string
	IncludeReversals bool
}

// ListEntriesResponse wraps a page of entries and the next-page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// AccountLedgerParams holds parameters for the account ledger listing.
type AccountLedgerParams struct {
	Limit     int
	NextToken *string
}

// AccountLedgerResponse is a page of an account's ledger with running balances.
type AccountLedgerResponse struct {
	AccountID string          `json:"accountID"`
	Lines     []LineResponse  `json:"lines"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ReconcileResponse reports the recomputed balances after drift repair.
type ReconcileResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}
