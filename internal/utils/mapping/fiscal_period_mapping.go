package mapping

import (
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/models"
)

// ToModelFiscalPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:     d.PeriodID,
		Year:         d.Year,
		Month:        d.Month,
		Status:       models.PeriodStatus(d.Status),
		ClosedAt:     d.ClosedAt,
		ClosedBy:     d.ClosedBy,
		ReopenedAt:   d.ReopenedAt,
		ReopenedBy:   d.ReopenedBy,
		ReopenReason: d.ReopenReason,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:     m.PeriodID,
		Year:         m.Year,
		Month:        m.Month,
		Status:       domain.PeriodStatus(m.Status),
		ClosedAt:     m.ClosedAt,
		ClosedBy:     m.ClosedBy,
		ReopenedAt:   m.ReopenedAt,
		ReopenedBy:   m.ReopenedBy,
		ReopenReason: m.ReopenReason,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAccountBalance converts a domain AccountBalance to a model AccountBalance
func ToModelAccountBalance(d domain.AccountBalance) models.AccountBalance {
	return models.AccountBalance{
		AccountID:      d.AccountID,
		Year:           d.Year,
		Month:          d.Month,
		OpeningBalance: d.OpeningBalance,
		DebitTotal:     d.DebitTotal,
		CreditTotal:    d.CreditTotal,
		ClosingBalance: d.ClosingBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountBalance converts a model AccountBalance to a domain AccountBalance
func ToDomainAccountBalance(m models.AccountBalance) domain.AccountBalance {
	return domain.AccountBalance{
		AccountID:      m.AccountID,
		Year:           m.Year,
		Month:          m.Month,
		OpeningBalance: m.OpeningBalance,
		DebitTotal:     m.DebitTotal,
		CreditTotal:    m.CreditTotal,
		ClosingBalance: m.ClosingBalance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
