package domain

import "github.com/shopspring/decimal"

// AccountBalance is one account's roll-up row for one fiscal period. Written and
// overwritten by the balance calculator; one row per (account, year, month).
type AccountBalance struct {
	AccountID      string          `json:"accountID"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	DebitTotal     decimal.Decimal `json:"debitTotal"`
	CreditTotal    decimal.Decimal `json:"creditTotal"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	AuditFields
}

// ComputeClosingBalance applies the signed debit/credit delta to an opening
// balance according to the account's normal-balance side.
func ComputeClosingBalance(opening, debitTotal, creditTotal decimal.Decimal, normalSide TransactionType) decimal.Decimal {
	if normalSide == Debit {
		return opening.Add(debitTotal.Sub(creditTotal))
	}
	return opening.Add(creditTotal.Sub(debitTotal))
}

// BalanceCalculationSummary is the explicit result of a balance calculator run.
// A run that found nothing to do reports zero accounts processed; that is not
// an error.
type BalanceCalculationSummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	AccountsProcessed int             `json:"accountsProcessed"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	IsBalanced        bool            `json:"isBalanced"`
}
