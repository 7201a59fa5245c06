package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
	EntryVoided EntryStatus = "VOIDED"
)

// EntryType classifies how a journal entry originated.
type EntryType string

const (
	EntryManual    EntryType = "MANUAL"
	EntrySystem    EntryType = "SYSTEM"
	EntryAdjusting EntryType = "ADJUSTING"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple journal lines.
type JournalEntry struct {
	EntryID           string      `db:"entry_id"`
	EntryNumber       string      `db:"entry_number"` // Human-facing number, unique
	EntryDate         time.Time   `db:"entry_date"`
	Description       string      `db:"description"`
	Status            EntryStatus `db:"status"`
	EntryType         EntryType   `db:"entry_type"`
	SourceService     string      `db:"source_service"`      // Nullable
	SourceReferenceID string      `db:"source_reference_id"` // Nullable
	PostedAt          *time.Time  `db:"posted_at"`
	PostedBy          string      `db:"posted_by"` // Nullable
	VoidedAt          *time.Time  `db:"voided_at"`
	VoidedBy          string      `db:"voided_by"`   // Nullable
	VoidReason        string      `db:"void_reason"` // Nullable
	AuditFields
}

// TransactionType indicates whether a journal line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// JournalLine represents a single posting within a JournalEntry.
type JournalLine struct {
	LineID          string          `db:"line_id"`
	EntryID         string          `db:"entry_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"` // Positive value
	TransactionType TransactionType `db:"transaction_type"`
	Memo            string          `db:"memo"` // Nullable
}
