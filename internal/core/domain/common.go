package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Actor IDs are opaque strings supplied by the caller; the ledger core
// never resolves identities itself.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
