package domain

import (
	"fmt"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MatchStatus indicates whether a bank transaction has been paired with a
// ledger posting.
type MatchStatus string

const (
	Unmatched MatchStatus = "UNMATCHED"
	Matched   MatchStatus = "MATCHED"
)

// BankStatement is an externally supplied statement awaiting reconciliation.
// Statements are immutable once imported.
type BankStatement struct {
	StatementID      string            `json:"statementID"` // Primary Key (UUID)
	BankAccountID    string            `json:"bankAccountID"`
	ReconciliationID string            `json:"reconciliationID"` // Session that imported the statement
	StatementDate    time.Time         `json:"statementDate"`
	PeriodStart      time.Time         `json:"periodStart"`
	PeriodEnd        time.Time         `json:"periodEnd"`
	OpeningBalance   decimal.Decimal   `json:"openingBalance"`
	ClosingBalance   decimal.Decimal   `json:"closingBalance"`
	Transactions     []BankTransaction `json:"transactions"`
	AuditFields
}

// BankTransaction is a single statement line. The signed amount encodes the
// bank-side direction: positive for money into the bank account, negative out.
type BankTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	StatementID     string          `json:"statementID"`
	TransactionDate time.Time       `json:"transactionDate"`
	ValueDate       *time.Time      `json:"valueDate"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"` // Signed
	CheckNumber     string          `json:"checkNumber"`
	MatchStatus     MatchStatus     `json:"matchStatus"`
	MatchedLineID   string          `json:"matchedLineID"`
	MatchedBy       string          `json:"matchedBy"`
	MatchedAt       *time.Time      `json:"matchedAt"`
}

// IsInflow reports whether the transaction moved money into the bank account.
func (t *BankTransaction) IsInflow() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// LedgerDirection returns the posting direction a matching ledger line must
// have on the cash account: inflows debit cash, outflows credit it.
func (t *BankTransaction) LedgerDirection() TransactionType {
	if t.IsInflow() {
		return Debit
	}
	return Credit
}

// MarkMatched pairs the transaction with a journal line. A transaction can be
// matched only once.
func (t *BankTransaction) MarkMatched(lineID, matchedBy string, now time.Time) error {
	if t.MatchStatus == Matched {
		return apperrors.NewStateError("bank transaction", string(Matched), string(Unmatched))
	}
	t.MatchStatus = Matched
	t.MatchedLineID = lineID
	t.MatchedBy = matchedBy
	t.MatchedAt = &now
	return nil
}

// NewBankStatement assembles an immutable statement with its transactions all
// created Unmatched. Transaction ids are assigned by the caller.
func NewBankStatement(statementID, bankAccountID string, statementDate, periodStart, periodEnd time.Time, openingBalance, closingBalance decimal.Decimal, transactions []BankTransaction, createdBy string, now time.Time) (*BankStatement, error) {
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: statement period end precedes period start", apperrors.ErrValidation)
	}
	owned := make([]BankTransaction, len(transactions))
	copy(owned, transactions)
	for i := range owned {
		owned[i].StatementID = statementID
		owned[i].MatchStatus = Unmatched
	}
	return &BankStatement{
		StatementID:    statementID,
		BankAccountID:  bankAccountID,
		StatementDate:  statementDate,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		OpeningBalance: openingBalance,
		ClosingBalance: closingBalance,
		Transactions:   owned,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}
