package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImportBankTransactionRequest defines one statement line as submitted for import.
// The amount is signed: positive for money into the bank account, negative out.
type ImportBankTransactionRequest struct {
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	ValueDate       *time.Time      `json:"valueDate"`
	Description     string          `json:"description" binding:"required"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CheckNumber     string          `json:"checkNumber"`
}

// ImportBankStatementRequest defines the data needed to import a statement into
// a reconciliation session.
type ImportBankStatementRequest struct {
	StatementDate  time.Time                      `json:"statementDate" binding:"required"`
	PeriodStart    time.Time                      `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time                      `json:"periodEnd" binding:"required"`
	OpeningBalance decimal.Decimal                `json:"openingBalance"`
	ClosingBalance decimal.Decimal                `json:"closingBalance"`
	Transactions   []ImportBankTransactionRequest `json:"transactions" binding:"required,min=1,dive"`
}

// BankTransactionResponse defines the data returned for one statement line.
type BankTransactionResponse struct {
	TransactionID   string             `json:"transactionID"`
	StatementID     string             `json:"statementID"`
	TransactionDate time.Time          `json:"transactionDate"`
	ValueDate       *time.Time         `json:"valueDate,omitempty"`
	Description     string             `json:"description"`
	Reference       string             `json:"reference,omitempty"`
	Amount          decimal.Decimal    `json:"amount"`
	CheckNumber     string             `json:"checkNumber,omitempty"`
	MatchStatus     domain.MatchStatus `json:"matchStatus"`
	MatchedLineID   string             `json:"matchedLineID,omitempty"`
	MatchedBy       string             `json:"matchedBy,omitempty"`
	MatchedAt       *time.Time         `json:"matchedAt,omitempty"`
}

// BankStatementResponse defines the data returned for an imported statement.
type BankStatementResponse struct {
	StatementID      string                    `json:"statementID"`
	BankAccountID    string                    `json:"bankAccountID"`
	ReconciliationID string                    `json:"reconciliationID"`
	StatementDate    time.Time                 `json:"statementDate"`
	PeriodStart      time.Time                 `json:"periodStart"`
	PeriodEnd        time.Time                 `json:"periodEnd"`
	OpeningBalance   decimal.Decimal           `json:"openingBalance"`
	ClosingBalance   decimal.Decimal           `json:"closingBalance"`
	Transactions     []BankTransactionResponse `json:"transactions"`
	CreatedAt        time.Time                 `json:"createdAt"`
	CreatedBy        string                    `json:"createdBy"`
}

// ToBankTransactions converts import requests to domain transactions. IDs are
// assigned by the service.
func ToBankTransactions(txns []ImportBankTransactionRequest) []domain.BankTransaction {
	out := make([]domain.BankTransaction, len(txns))
	for i, t := range txns {
		out[i] = domain.BankTransaction{
			TransactionDate: t.TransactionDate,
			ValueDate:       t.ValueDate,
			Description:     t.Description,
			Reference:       t.Reference,
			Amount:          t.Amount,
			CheckNumber:     t.CheckNumber,
		}
	}
	return out
}

// ToBankTransactionResponse converts a domain.BankTransaction to its response DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:   t.TransactionID,
		StatementID:     t.StatementID,
		TransactionDate: t.TransactionDate,
		ValueDate:       t.ValueDate,
		Description:     t.Description,
		Reference:       t.Reference,
		Amount:          t.Amount,
		CheckNumber:     t.CheckNumber,
		MatchStatus:     t.MatchStatus,
		MatchedLineID:   t.MatchedLineID,
		MatchedBy:       t.MatchedBy,
		MatchedAt:       t.MatchedAt,
	}
}

// ToBankStatementResponse converts a domain.BankStatement to its response DTO.
func ToBankStatementResponse(s *domain.BankStatement) BankStatementResponse {
	txns := make([]BankTransactionResponse, len(s.Transactions))
	for i := range s.Transactions {
		txns[i] = ToBankTransactionResponse(&s.Transactions[i])
	}
	return BankStatementResponse{
		StatementID:      s.StatementID,
		BankAccountID:    s.BankAccountID,
		ReconciliationID: s.ReconciliationID,
		StatementDate:    s.StatementDate,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		OpeningBalance:   s.OpeningBalance,
		ClosingBalance:   s.ClosingBalance,
		Transactions:     txns,
		CreatedAt:        s.CreatedAt,
		CreatedBy:        s.CreatedBy,
	}
}
