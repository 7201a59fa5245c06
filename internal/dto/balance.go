package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse defines the data returned for one account's roll-up in
// one fiscal period.
type AccountBalanceResponse struct {
	AccountID      string          `json:"accountID"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	DebitTotal     decimal.Decimal `json:"debitTotal"`
	CreditTotal    decimal.Decimal `json:"creditTotal"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// BalanceCalculationResponse reports the outcome of a balance calculator run.
type BalanceCalculationResponse struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	AccountsProcessed int             `json:"accountsProcessed"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	IsBalanced        bool            `json:"isBalanced"`
}

// ListBalancesResponse wraps the balance rows of one period.
type ListBalancesResponse struct {
	Year     int                      `json:"year"`
	Month    int                      `json:"month"`
	Balances []AccountBalanceResponse `json:"balances"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance to its response DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:      b.AccountID,
		Year:           b.Year,
		Month:          b.Month,
		OpeningBalance: b.OpeningBalance,
		DebitTotal:     b.DebitTotal,
		CreditTotal:    b.CreditTotal,
		ClosingBalance: b.ClosingBalance,
		LastUpdatedAt:  b.LastUpdatedAt,
	}
}

// ToBalanceCalculationResponse converts a calculator summary to its response DTO.
func ToBalanceCalculationResponse(s domain.BalanceCalculationSummary) BalanceCalculationResponse {
	return BalanceCalculationResponse{
		Year:              s.Year,
		Month:             s.Month,
		AccountsProcessed: s.AccountsProcessed,
		TotalDebits:       s.TotalDebits,
		TotalCredits:      s.TotalCredits,
		IsBalanced:        s.IsBalanced,
	}
}

// ToListBalancesResponse converts a period's balance rows to the wrapped response.
func ToListBalancesResponse(year, month int, balances []domain.AccountBalance) ListBalancesResponse {
	rows := make([]AccountBalanceResponse, len(balances))
	for i := range balances {
		rows[i] = ToAccountBalanceResponse(&balances[i])
	}
	return ListBalancesResponse{Year: year, Month: month, Balances: rows}
}
