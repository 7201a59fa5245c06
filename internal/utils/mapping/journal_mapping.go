package mapping

import (
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
// Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		Status:            models.EntryStatus(d.Status),
		EntryType:         models.EntryType(d.EntryType),
		SourceService:     d.SourceService,
		SourceReferenceID: d.SourceReferenceID,
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		VoidedAt:          d.VoidedAt,
		VoidedBy:          d.VoidedBy,
		VoidReason:        d.VoidReason,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Description:       m.Description,
		Status:            domain.EntryStatus(m.Status),
		EntryType:         domain.EntryType(m.EntryType),
		SourceService:     m.SourceService,
		SourceReferenceID: m.SourceReferenceID,
		PostedAt:          m.PostedAt,
		PostedBy:          m.PostedBy,
		VoidedAt:          m.VoidedAt,
		VoidedBy:          m.VoidedBy,
		VoidReason:        m.VoidReason,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:          d.LineID,
		EntryID:         d.EntryID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		TransactionType: models.TransactionType(d.TransactionType),
		Memo:            d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:          m.LineID,
		EntryID:         m.EntryID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		Memo:            m.Memo,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
