package mapping

import (
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/models"
)

// ToModelBankReconciliation converts a domain BankReconciliation to a model
// BankReconciliation. Reconciling items are mapped separately.
func ToModelBankReconciliation(d domain.BankReconciliation) models.BankReconciliation {
	return models.BankReconciliation{
		ReconciliationID:       d.ReconciliationID,
		BankAccountID:          d.BankAccountID,
		Year:                   d.Year,
		Month:                  d.Month,
		StatementEndingBalance: d.StatementEndingBalance,
		BookEndingBalance:      d.BookEndingBalance,
		AdjustedBankBalance:    d.AdjustedBankBalance,
		AdjustedBookBalance:    d.AdjustedBookBalance,
		MatchedCount:           d.MatchedCount,
		UnmatchedCount:         d.UnmatchedCount,
		DepositsInTransitTotal: d.DepositsInTransitTotal,
		OutstandingChecksTotal: d.OutstandingChecksTotal,
		BankAdjustmentsTotal:   d.BankAdjustmentsTotal,
		BookAdjustmentsTotal:   d.BookAdjustmentsTotal,
		Status:                 models.ReconciliationStatus(d.Status),
		CompletedAt:            d.CompletedAt,
		CompletedBy:            d.CompletedBy,
		ApprovedAt:             d.ApprovedAt,
		ApprovedBy:             d.ApprovedBy,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankReconciliation converts a model BankReconciliation to a domain one
func ToDomainBankReconciliation(m models.BankReconciliation) domain.BankReconciliation {
	return domain.BankReconciliation{
		ReconciliationID:       m.ReconciliationID,
		BankAccountID:          m.BankAccountID,
		Year:                   m.Year,
		Month:                  m.Month,
		StatementEndingBalance: m.StatementEndingBalance,
		BookEndingBalance:      m.BookEndingBalance,
		AdjustedBankBalance:    m.AdjustedBankBalance,
		AdjustedBookBalance:    m.AdjustedBookBalance,
		MatchedCount:           m.MatchedCount,
		UnmatchedCount:         m.UnmatchedCount,
		DepositsInTransitTotal: m.DepositsInTransitTotal,
		OutstandingChecksTotal: m.OutstandingChecksTotal,
		BankAdjustmentsTotal:   m.BankAdjustmentsTotal,
		BookAdjustmentsTotal:   m.BookAdjustmentsTotal,
		Status:                 domain.ReconciliationStatus(m.Status),
		CompletedAt:            m.CompletedAt,
		CompletedBy:            m.CompletedBy,
		ApprovedAt:             m.ApprovedAt,
		ApprovedBy:             m.ApprovedBy,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconcilingItem converts a domain ReconcilingItem to a model ReconcilingItem
func ToModelReconcilingItem(d domain.ReconcilingItem) models.ReconcilingItem {
	return models.ReconcilingItem{
		ItemID:               d.ItemID,
		ReconciliationID:     d.ReconciliationID,
		ItemType:             models.ReconcilingItemType(d.ItemType),
		Side:                 models.ReconciliationSide(d.Side),
		Description:          d.Description,
		Amount:               d.Amount,
		TransactionDate:      d.TransactionDate,
		Reference:            d.Reference,
		RequiresJournalEntry: d.RequiresJournalEntry,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconcilingItem converts a model ReconcilingItem to a domain ReconcilingItem
func ToDomainReconcilingItem(m models.ReconcilingItem) domain.ReconcilingItem {
	return domain.ReconcilingItem{
		ItemID:               m.ItemID,
		ReconciliationID:     m.ReconciliationID,
		ItemType:             domain.ReconcilingItemType(m.ItemType),
		Side:                 domain.ReconciliationSide(m.Side),
		Description:          m.Description,
		Amount:               m.Amount,
		TransactionDate:      m.TransactionDate,
		Reference:            m.Reference,
		RequiresJournalEntry: m.RequiresJournalEntry,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReconcilingItemSlice converts a slice of model ReconcilingItems to domain ones
func ToDomainReconcilingItemSlice(ms []models.ReconcilingItem) []domain.ReconcilingItem {
	ds := make([]domain.ReconcilingItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReconcilingItem(m)
	}
	return ds
}
