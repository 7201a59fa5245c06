package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus indicates the lifecycle state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconciliationCreated    ReconciliationStatus = "CREATED"
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationComplete   ReconciliationStatus = "COMPLETED"
	ReconciliationApproved   ReconciliationStatus = "APPROVED"
)

// ReconcilingItemType classifies a reconciling item.
type ReconcilingItemType string

const (
	OutstandingCheck ReconcilingItemType = "OUTSTANDING_CHECK"
	DepositInTransit ReconcilingItemType = "DEPOSIT_IN_TRANSIT"
	BankFee          ReconcilingItemType = "BANK_FEE"
	BankInterest     ReconcilingItemType = "BANK_INTEREST"
	NSFCheck         ReconcilingItemType = "NSF_CHECK"
	Adjustment       ReconcilingItemType = "ADJUSTMENT"
)

// ReconciliationSide tells which balance a reconciling item adjusts.
type ReconciliationSide string

const (
	BankSide ReconciliationSide = "BANK"
	BookSide ReconciliationSide = "BOOK"
)

// BankReconciliation is one reconciliation session for a (bank account, period).
type BankReconciliation struct {
	ReconciliationID       string               `db:"reconciliation_id"`
	BankAccountID          string               `db:"bank_account_id"`
	Year                   int                  `db:"year"`
	Month                  int                  `db:"month"`
	StatementEndingBalance decimal.Decimal      `db:"statement_ending_balance"`
	BookEndingBalance      decimal.Decimal      `db:"book_ending_balance"`
	AdjustedBankBalance    decimal.Decimal      `db:"adjusted_bank_balance"`
	AdjustedBookBalance    decimal.Decimal      `db:"adjusted_book_balance"`
	MatchedCount           int                  `db:"matched_count"`
	UnmatchedCount         int                  `db:"unmatched_count"`
	DepositsInTransitTotal decimal.Decimal      `db:"deposits_in_transit_total"`
	OutstandingChecksTotal decimal.Decimal      `db:"outstanding_checks_total"`
	BankAdjustmentsTotal   decimal.Decimal      `db:"bank_adjustments_total"`
	BookAdjustmentsTotal   decimal.Decimal      `db:"book_adjustments_total"`
	Status                 ReconciliationStatus `db:"status"`
	CompletedAt            *time.Time           `db:"completed_at"`
	CompletedBy            string               `db:"completed_by"` // Nullable
	ApprovedAt             *time.Time           `db:"approved_at"`
	ApprovedBy             string               `db:"approved_by"` // Nullable
	AuditFields
}

// ReconcilingItem explains part of a bank/book balance difference.
type ReconcilingItem struct {
	ItemID               string              `db:"item_id"`
	ReconciliationID     string              `db:"reconciliation_id"`
	ItemType             ReconcilingItemType `db:"item_type"`
	Side                 ReconciliationSide  `db:"side"`
	Description          string              `db:"description"`
	Amount               decimal.Decimal     `db:"amount"`
	TransactionDate      time.Time           `db:"transaction_date"`
	Reference            string              `db:"reference"` // Nullable
	RequiresJournalEntry bool                `db:"requires_journal_entry"`
	AuditFields
}
