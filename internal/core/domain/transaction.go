package domain

import "github.com/shopspring/decimal"

// TransactionType indicates whether a journal line is a Debit or a Credit posting.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// JournalLine represents a single posting within a JournalEntry, affecting one account.
// Lines are owned by exactly one entry and become immutable once the entry is posted.
type JournalLine struct {
	LineID          string          `json:"lineID"`    // Primary Key (UUID)
	EntryID         string          `json:"entryID"`   // FK -> JournalEntry.entryID
	AccountID       string          `json:"accountID"` // FK -> Account.accountID (Not Null)
	Amount          decimal.Decimal `json:"amount"`    // Positive value
	TransactionType TransactionType `json:"transactionType"`
	Memo            string          `json:"memo"` // Nullable
}
