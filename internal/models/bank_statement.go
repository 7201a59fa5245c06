package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus indicates whether a bank transaction has been matched to a
// ledger line.
type MatchStatus string

const (
	Unmatched MatchStatus = "UNMATCHED"
	Matched   MatchStatus = "MATCHED"
)

// BankStatement is an imported statement header. Immutable once imported.
type BankStatement struct {
	StatementID      string          `db:"statement_id"`
	BankAccountID    string          `db:"bank_account_id"`
	ReconciliationID string          `db:"reconciliation_id"` // Nullable until imported into a session
	StatementDate    time.Time       `db:"statement_date"`
	PeriodStart      time.Time       `db:"period_start"`
	PeriodEnd        time.Time       `db:"period_end"`
	OpeningBalance   decimal.Decimal `db:"opening_balance"`
	ClosingBalance   decimal.Decimal `db:"closing_balance"`
	AuditFields
}

// BankTransaction is a single statement line. Amount is signed: positive for
// money into the bank account, negative out.
type BankTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	StatementID     string          `db:"statement_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	ValueDate       *time.Time      `db:"value_date"`
	Description     string          `db:"description"`
	Reference       string          `db:"reference"`    // Nullable
	Amount          decimal.Decimal `db:"amount"`       // Signed
	CheckNumber     string          `db:"check_number"` // Nullable
	MatchStatus     MatchStatus     `db:"match_status"`
	MatchedLineID   string          `db:"matched_line_id"` // Nullable
	MatchedBy       string          `db:"matched_by"`      // Nullable
	MatchedAt       *time.Time      `db:"matched_at"`
}
