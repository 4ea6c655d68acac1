package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// EntryType classifies a journal entry by the business event that produced it.
type EntryType string

const (
	EntryVoucher         EntryType = "VOUCHER"
	EntrySale            EntryType = "SALE"
	EntryPurchase        EntryType = "PURCHASE"
	EntrySaleReturn      EntryType = "SALE_RETURN"
	EntryPurchaseReturn  EntryType = "PURCHASE_RETURN"
	EntryCustomerPayment EntryType = "CUSTOMER_PAYMENT"
	EntrySupplierPayment EntryType = "SUPPLIER_PAYMENT"
	EntrySalary          EntryType = "SALARY"
	EntryCommission      EntryType = "COMMISSION"
	EntryAdjustment      EntryType = "ADJUSTMENT"
)

// NumberPrefix returns the entry-number prefix for this entry type,
// e.g. "SAL" in "SAL-20240115-0007".
func (t EntryType) NumberPrefix() string {
	switch t {
	case EntrySale:
		return "SAL"
	case EntryPurchase:
		return "PUR"
	case EntrySaleReturn:
		return "SRT"
	case EntryPurchaseReturn:
		return "PRT"
	case EntryCustomerPayment:
		return "RCV"
	case EntrySupplierPayment:
		return "PAY"
	case EntrySalary:
		return "SLR"
	case EntryCommission:
		return "COM"
	case EntryAdjustment:
		return "ADJ"
	default:
		return "JE"
	}
}

// JournalEntry represents a single balanced financial event composed of
// at least two lines. Once posted an entry is immutable; corrections are
// new reversing entries, never edits.
type JournalEntry struct {
	EntryID     string    `json:"entryID"`     // Primary key (UUID)
	TenantID    string    `json:"tenantID"`    // Owning tenant
	EntryNumber string    `json:"entryNumber"` // Human readable, e.g. "SAL-20240115-0007"
	EntryType   EntryType `json:"entryType"`
	EntryDate   time.Time `json:"entryDate"` // Business date (source confirmation date)
	Description string    `json:"description"`
	// Reference to the originating business object, when the entry was
	// produced by a transaction adapter rather than a manual voucher.
	ReferenceType    *string         `json:"referenceType,omitempty"`
	ReferenceID      *string         `json:"referenceID,omitempty"`
	TotalAmount      decimal.Decimal `json:"totalAmount"` // Sum of the debit side
	Status           EntryStatus     `json:"status"`
	OriginalEntryID  *string         `json:"originalEntryID,omitempty"`  // Set on reversing entries
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"` // Set on reversed entries
	PostedAt         time.Time       `json:"postedAt"`
	PostedBy         string          `json:"postedBy"`
	Lines            []JournalLine   `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// EntrySide indicates whether a journal line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalLine is a single line within a journal entry, affecting one
// account with a positive amount on exactly one side.
type JournalLine struct {
	LineID    string          `json:"lineID"`  // Primary key (UUID)
	EntryID   string          `json:"entryID"` // FK -> JournalEntry
	AccountID string          `json:"accountID"`
	Side      EntrySide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"` // Always positive
	Notes     string          `json:"notes"`
	// Account balance after this line was applied.
	RunningBalance decimal.Decimal `json:"runningBalance"`
	// Denormalized entry details for ledger listings.
	EntryDate        time.Time `json:"entryDate,omitempty"`
	EntryNumber      string    `json:"entryNumber,omitempty"`
	EntryDescription string    `json:"entryDescription,omitempty"`
	AuditFields
}

// PostingReference identifies the source business transaction an entry
// was derived from. It doubles as the idempotency key: at most one
// posting may exist per reference within a tenant.
type PostingReference struct {
	Type string
	ID   string
}
