package mapping

import (
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:         d.BankAccountID,
		LedgerAccountID:       d.LedgerAccountID,
		BankName:              d.BankName,
		AccountNumber:         d.AccountNumber,
		AccountType:           models.BankAccountType(d.AccountType),
		CurrencyCode:          d.CurrencyCode,
		Status:                models.BankAccountStatus(d.Status),
		LastReconciledDate:    d.LastReconciledDate,
		LastReconciledBalance: d.LastReconciledBalance,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:         m.BankAccountID,
		LedgerAccountID:       m.LedgerAccountID,
		BankName:              m.BankName,
		AccountNumber:         m.AccountNumber,
		AccountType:           domain.BankAccountType(m.AccountType),
		CurrencyCode:          m.CurrencyCode,
		Status:                domain.BankAccountStatus(m.Status),
		LastReconciledDate:    m.LastReconciledDate,
		LastReconciledBalance: m.LastReconciledBalance,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankStatement converts a domain BankStatement header to a model
// BankStatement. Transactions are mapped separately.
func ToModelBankStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		StatementID:      d.StatementID,
		BankAccountID:    d.BankAccountID,
		ReconciliationID: d.ReconciliationID,
		StatementDate:    d.StatementDate,
		PeriodStart:      d.PeriodStart,
		PeriodEnd:        d.PeriodEnd,
		OpeningBalance:   d.OpeningBalance,
		ClosingBalance:   d.ClosingBalance,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankStatement converts a model BankStatement to a domain BankStatement
func ToDomainBankStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		StatementID:      m.StatementID,
		BankAccountID:    m.BankAccountID,
		ReconciliationID: m.ReconciliationID,
		StatementDate:    m.StatementDate,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		OpeningBalance:   m.OpeningBalance,
		ClosingBalance:   m.ClosingBalance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to a model BankTransaction
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:   d.TransactionID,
		StatementID:     d.StatementID,
		TransactionDate: d.TransactionDate,
		ValueDate:       d.ValueDate,
		Description:     d.Description,
		Reference:       d.Reference,
		Amount:          d.Amount,
		CheckNumber:     d.CheckNumber,
		MatchStatus:     models.MatchStatus(d.MatchStatus),
		MatchedLineID:   d.MatchedLineID,
		MatchedBy:       d.MatchedBy,
		MatchedAt:       d.MatchedAt,
	}
}

// ToDomainBankTransaction converts a model BankTransaction to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:   m.TransactionID,
		StatementID:     m.StatementID,
		TransactionDate: m.TransactionDate,
		ValueDate:       m.ValueDate,
		Description:     m.Description,
		Reference:       m.Reference,
		Amount:          m.Amount,
		CheckNumber:     m.CheckNumber,
		MatchStatus:     domain.MatchStatus(m.MatchStatus),
		MatchedLineID:   m.MatchedLineID,
		MatchedBy:       m.MatchedBy,
		MatchedAt:       m.MatchedAt,
	}
}

// ToDomainBankTransactionSlice converts a slice of model BankTransactions to domain ones
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}
