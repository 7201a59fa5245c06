package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain events returned by aggregate transitions. The application service
// persists state first, then forwards events to the notification sink; the
// aggregates themselves never publish.

// JournalEntryPosted is raised when a draft entry is posted to the ledger.
type JournalEntryPosted struct {
	EntryID    string    `json:"entryID"`
	EntryDate  time.Time `json:"entryDate"`
	PostedBy   string    `json:"postedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// JournalEntryVoided is raised when a posted entry is voided.
type JournalEntryVoided struct {
	EntryID    string    `json:"entryID"`
	Reason     string    `json:"reason"`
	VoidedBy   string    `json:"voidedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FiscalPeriodClosed is raised when a period stops accepting postings.
type FiscalPeriodClosed struct {
	PeriodID   string    `json:"periodID"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	ClosedBy   string    `json:"closedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FiscalPeriodReopened is raised when a closed period is reopened.
type FiscalPeriodReopened struct {
	PeriodID   string    `json:"periodID"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Reason     string    `json:"reason"`
	ReopenedBy string    `json:"reopenedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FiscalPeriodLocked is raised when a period close becomes permanent.
type FiscalPeriodLocked struct {
	PeriodID   string    `json:"periodID"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	LockedBy   string    `json:"lockedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ReconciliationCompleted is raised when a reconciliation session reaches
// agreement between the adjusted balances.
type ReconciliationCompleted struct {
	ReconciliationID string    `json:"reconciliationID"`
	BankAccountID    string    `json:"bankAccountID"`
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	CompletedBy      string    `json:"completedBy"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// ReconciliationApprovedEvent is raised when a completed reconciliation is
// approved, advancing the bank account's reconciliation cursor.
type ReconciliationApprovedEvent struct {
	ReconciliationID       string          `json:"reconciliationID"`
	BankAccountID          string          `json:"bankAccountID"`
	Year                   int             `json:"year"`
	Month                  int             `json:"month"`
	StatementEndingBalance decimal.Decimal `json:"statementEndingBalance"`
	ApprovedBy             string          `json:"approvedBy"`
	OccurredAt             time.Time       `json:"occurredAt"`
}
