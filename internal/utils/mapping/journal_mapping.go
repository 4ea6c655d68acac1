package mapping

import (
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	"github.com/bizbooks/ledger_backend/internal/models"
)

// ToModelJournalEntry converts a domain journal entry to its model representation.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TenantID:         d.TenantID,
		EntryNumber:      d.EntryNumber,
		EntryType:        string(d.EntryType),
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		ReferenceType:    d.ReferenceType,
		ReferenceID:      d.ReferenceID,
		TotalAmount:      d.TotalAmount,
		Status:           models.EntryStatus(d.Status),
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		PostedAt:         d.PostedAt,
		PostedBy:         d.PostedBy,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model journal entry to its domain representation.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		EntryNumber:      m.EntryNumber,
		EntryType:        domain.EntryType(m.EntryType),
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		TotalAmount:      m.TotalAmount,
		Status:           domain.EntryStatus(m.Status),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		PostedAt:         m.PostedAt,
		PostedBy:         m.PostedBy,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain journal line to its model representation.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		Side:           string(d.Side),
		Amount:         d.Amount,
		Notes:          d.Notes,
		RunningBalance: d.RunningBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model journal line to its domain representation.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:           m.LineID,
		EntryID:          m.EntryID,
		AccountID:        m.AccountID,
		Side:             domain.EntrySide(m.Side),
		Amount:           m.Amount,
		Notes:            m.Notes,
		RunningBalance:   m.RunningBalance,
		EntryDate:        m.EntryDate,
		EntryNumber:      m.EntryNumber,
		EntryDescription: m.EntryDescription,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
