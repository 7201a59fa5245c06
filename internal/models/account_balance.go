package models

import "github.com/shopspring/decimal"

// AccountBalance is one account's roll-up row for one fiscal period.
// Primary key is (account_id, year, month).
type AccountBalance struct {
	AccountID      string          `db:"account_id"`
	Year           int             `db:"year"`
	Month          int             `db:"month"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	DebitTotal     decimal.Decimal `db:"debit_total"`
	CreditTotal    decimal.Decimal `db:"credit_total"`
	ClosingBalance decimal.Decimal `db:"closing_balance"`
	AuditFields
}
