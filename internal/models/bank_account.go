package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccountStatus indicates the lifecycle state of a bank account.
type BankAccountStatus string

const (
	BankAccountActive   BankAccountStatus = "ACTIVE"
	BankAccountInactive BankAccountStatus = "INACTIVE"
	BankAccountClosed   BankAccountStatus = "CLOSED"
)

// BankAccountType classifies the real-world account product.
type BankAccountType string

const (
	BankAccountChecking    BankAccountType = "CHECKING"
	BankAccountSavings     BankAccountType = "SAVINGS"
	BankAccountMoneyMarket BankAccountType = "MONEY_MARKET"
	BankAccountCreditLine  BankAccountType = "CREDIT_LINE"
)

// BankAccount links a real-world bank account to its ledger cash account and
// carries the reconciliation cursor.
type BankAccount struct {
	BankAccountID         string            `db:"bank_account_id"`
	LedgerAccountID       string            `db:"ledger_account_id"`
	BankName              string            `db:"bank_name"`
	AccountNumber         string            `db:"account_number"`
	AccountType           BankAccountType   `db:"account_type"`
	CurrencyCode          string            `db:"currency_code"`
	Status                BankAccountStatus `db:"status"`
	LastReconciledDate    *time.Time        `db:"last_reconciled_date"`
	LastReconciledBalance decimal.Decimal   `db:"last_reconciled_balance"`
	AuditFields
}
