package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a financial account within the chart of accounts.
type Account struct {
	AccountID    string      `db:"account_id"`
	Code         string      `db:"code"` // Unique chart-of-accounts code
	Name         string      `db:"name"`
	AccountType  AccountType `db:"account_type"`
	CurrencyCode string      `db:"currency_code"`
	Description  string      `db:"description"`
	IsActive     bool        `db:"is_active"`
	AuditFields
}
