package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
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

// ReconcilingItemType classifies a manually recorded bank/book difference.
type ReconcilingItemType string

const (
	OutstandingCheck ReconcilingItemType = "OUTSTANDING_CHECK"
	DepositInTransit ReconcilingItemType = "DEPOSIT_IN_TRANSIT"
	BankFee          ReconcilingItemType = "BANK_FEE"
	BankInterest     ReconcilingItemType = "BANK_INTEREST"
	NSFCheck         ReconcilingItemType = "NSF_CHECK"
	Adjustment       ReconcilingItemType = "ADJUSTMENT"
)

// ReconciliationSide says which balance an item adjusts: the bank statement
// side or the book (ledger) side.
type ReconciliationSide string

const (
	BankSide ReconciliationSide = "BANK"
	BookSide ReconciliationSide = "BOOK"
)

// Valid reports whether the item type is known.
func (t ReconcilingItemType) Valid() bool {
	switch t {
	case OutstandingCheck, DepositInTransit, BankFee, BankInterest, NSFCheck, Adjustment:
		return true
	}
	return false
}

// DefaultSide returns the balance side an item type adjusts. Adjustment has no
// default; the caller must supply the side explicitly.
func (t ReconcilingItemType) DefaultSide() (ReconciliationSide, bool) {
	switch t {
	case OutstandingCheck, DepositInTransit:
		return BankSide, true
	case BankFee, BankInterest, NSFCheck:
		return BookSide, true
	}
	return "", false
}

// ReconcilingItem explains part of a bank/book balance difference. Items are
// appended while the session is InProgress and immutable thereafter.
type ReconcilingItem struct {
	ItemID               string              `json:"itemID"` // Primary Key (UUID)
	ReconciliationID     string              `json:"reconciliationID"`
	ItemType             ReconcilingItemType `json:"itemType"`
	Side                 ReconciliationSide  `json:"side"`
	Description          string              `json:"description"`
	Amount               decimal.Decimal     `json:"amount"`
	TransactionDate      time.Time           `json:"transactionDate"`
	Reference            string              `json:"reference"`
	RequiresJournalEntry bool                `json:"requiresJournalEntry"`
	AuditFields
}

// NewReconcilingItem validates an item. For Adjustment items the side must be
// supplied; for every other type the side is derived from the type.
func NewReconcilingItem(itemID string, itemType ReconcilingItemType, side ReconciliationSide, description string, amount decimal.Decimal, transactionDate time.Time, reference string, requiresJournalEntry bool, createdBy string, now time.Time) (*ReconcilingItem, error) {
	if !itemType.Valid() {
		return nil, fmt.Errorf("%w: unknown reconciling item type %q", apperrors.ErrValidation, itemType)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: reconciling item description is required", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) && itemType != Adjustment {
		return nil, fmt.Errorf("%w: reconciling item amount must be positive", apperrors.ErrValidation)
	}
	if defaultSide, ok := itemType.DefaultSide(); ok {
		side = defaultSide
	} else if side != BankSide && side != BookSide {
		return nil, fmt.Errorf("%w: adjustment items require a side of BANK or BOOK", apperrors.ErrValidation)
	}
	return &ReconcilingItem{
		ItemID:               itemID,
		ItemType:             itemType,
		Side:                 side,
		Description:          description,
		Amount:               amount,
		TransactionDate:      transactionDate,
		Reference:            reference,
		RequiresJournalEntry: requiresJournalEntry,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// BankReconciliation is one reconciliation session for a (bank account, period)
// pair. Lifecycle:
// Created -> start -> InProgress -> (import/match/autoMatch/addItem)* ->
// calculate -> complete -> Completed -> approve -> Approved.
type BankReconciliation struct {
	ReconciliationID       string               `json:"reconciliationID"` // Primary Key (UUID)
	BankAccountID          string               `json:"bankAccountID"`
	Year                   int                  `json:"year"`
	Month                  int                  `json:"month"`
	StatementEndingBalance decimal.Decimal      `json:"statementEndingBalance"`
	BookEndingBalance      decimal.Decimal      `json:"bookEndingBalance"`
	AdjustedBankBalance    decimal.Decimal      `json:"adjustedBankBalance"`
	AdjustedBookBalance    decimal.Decimal      `json:"adjustedBookBalance"`
	MatchedCount           int                  `json:"matchedCount"`
	UnmatchedCount         int                  `json:"unmatchedCount"`
	DepositsInTransitTotal decimal.Decimal      `json:"depositsInTransitTotal"`
	OutstandingChecksTotal decimal.Decimal      `json:"outstandingChecksTotal"`
	BankAdjustmentsTotal   decimal.Decimal      `json:"bankAdjustmentsTotal"`
	BookAdjustmentsTotal   decimal.Decimal      `json:"bookAdjustmentsTotal"`
	ReconcilingItems       []ReconcilingItem    `json:"reconcilingItems"`
	Status                 ReconciliationStatus `json:"status"`
	CompletedAt            *time.Time           `json:"completedAt"`
	CompletedBy            string               `json:"completedBy"`
	ApprovedAt             *time.Time           `json:"approvedAt"`
	ApprovedBy             string               `json:"approvedBy"`
	AuditFields
}

// NewBankReconciliation creates a session in the Created state.
func NewBankReconciliation(reconciliationID, bankAccountID string, year, month int, statementEndingBalance, bookEndingBalance decimal.Decimal, createdBy string, now time.Time) (*BankReconciliation, error) {
	if strings.TrimSpace(bankAccountID) == "" {
		return nil, fmt.Errorf("%w: bank account id is required", apperrors.ErrValidation)
	}
	if year < 1900 {
		return nil, fmt.Errorf("%w: year must be 1900 or later, got %d", apperrors.ErrValidation, year)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, month)
	}
	return &BankReconciliation{
		ReconciliationID:       reconciliationID,
		BankAccountID:          bankAccountID,
		Year:                   year,
		Month:                  month,
		StatementEndingBalance: statementEndingBalance,
		BookEndingBalance:      bookEndingBalance,
		Status:                 ReconciliationCreated,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// Start moves Created -> InProgress.
func (r *BankReconciliation) Start(startedBy string, now time.Time) error {
	if strings.TrimSpace(startedBy) == "" {
		return ErrActorRequired
	}
	if r.Status != ReconciliationCreated {
		return apperrors.NewStateError("reconciliation", string(r.Status), string(ReconciliationCreated))
	}
	r.Status = ReconciliationInProgress
	r.LastUpdatedAt = now
	r.LastUpdatedBy = startedBy
	return nil
}

// InProgressOnly rejects work outside the InProgress state.
func (r *BankReconciliation) InProgressOnly() error {
	if r.Status != ReconciliationInProgress {
		return apperrors.NewStateError("reconciliation", string(r.Status), string(ReconciliationInProgress))
	}
	return nil
}

// AddItem appends a reconciling item. Legal only while InProgress.
func (r *BankReconciliation) AddItem(item ReconcilingItem, updatedBy string, now time.Time) error {
	if err := r.InProgressOnly(); err != nil {
		return err
	}
	item.ReconciliationID = r.ReconciliationID
	r.ReconcilingItems = append(r.ReconcilingItems, item)
	r.LastUpdatedAt = now
	r.LastUpdatedBy = updatedBy
	return nil
}

// RecordMatchCounts updates the matched/unmatched transaction counters after a
// manual or automatic match pass.
func (r *BankReconciliation) RecordMatchCounts(matched, unmatched int, updatedBy string, now time.Time) {
	r.MatchedCount = matched
	r.UnmatchedCount = unmatched
	r.LastUpdatedAt = now
	r.LastUpdatedBy = updatedBy
}

// Calculate computes the adjusted balances from the reconciling items:
//
//	adjustedBank = statementEnding + deposits in transit - outstanding checks + bank-side adjustments
//	adjustedBook = bookEnding + interest - fees - NSF checks + book-side adjustments
//
// Both are persisted even when they disagree. Legal only while InProgress.
func (r *BankReconciliation) Calculate() error {
	if err := r.InProgressOnly(); err != nil {
		return err
	}
	deposits := decimal.Zero
	checks := decimal.Zero
	bankAdjustments := decimal.Zero
	bookAdjustments := decimal.Zero

	for _, item := range r.ReconcilingItems {
		switch item.ItemType {
		case DepositInTransit:
			deposits = deposits.Add(item.Amount)
		case OutstandingCheck:
			checks = checks.Add(item.Amount)
		case BankInterest:
			bookAdjustments = bookAdjustments.Add(item.Amount)
		case BankFee, NSFCheck:
			bookAdjustments = bookAdjustments.Sub(item.Amount)
		case Adjustment:
			if item.Side == BankSide {
				bankAdjustments = bankAdjustments.Add(item.Amount)
			} else {
				bookAdjustments = bookAdjustments.Add(item.Amount)
			}
		}
	}

	r.DepositsInTransitTotal = deposits
	r.OutstandingChecksTotal = checks
	r.BankAdjustmentsTotal = bankAdjustments
	r.BookAdjustmentsTotal = bookAdjustments
	r.AdjustedBankBalance = r.StatementEndingBalance.Add(deposits).Sub(checks).Add(bankAdjustments)
	r.AdjustedBookBalance = r.BookEndingBalance.Add(bookAdjustments)
	return nil
}

// Discrepancy returns adjustedBank - adjustedBook.
func (r *BankReconciliation) Discrepancy() decimal.Decimal {
	return r.AdjustedBankBalance.Sub(r.AdjustedBookBalance)
}

// Complete recalculates, then moves InProgress -> Completed. A live
// discrepancy beyond AmountEpsilon blocks completion: reconciliation exists to
// reach agreement, so the difference is reported as a validation failure.
func (r *BankReconciliation) Complete(completedBy string, now time.Time) (*ReconciliationCompleted, error) {
	if strings.TrimSpace(completedBy) == "" {
		return nil, ErrActorRequired
	}
	if err := r.Calculate(); err != nil {
		return nil, err
	}
	if diff := r.Discrepancy(); !IsZeroAmount(diff) {
		return nil, fmt.Errorf("%w: adjusted balances differ by %s", apperrors.ErrValidation, diff.String())
	}
	r.Status = ReconciliationComplete
	r.CompletedAt = &now
	r.CompletedBy = completedBy
	r.LastUpdatedAt = now
	r.LastUpdatedBy = completedBy
	return &ReconciliationCompleted{
		ReconciliationID: r.ReconciliationID,
		BankAccountID:    r.BankAccountID,
		Year:             r.Year,
		Month:            r.Month,
		CompletedBy:      completedBy,
		OccurredAt:       now,
	}, nil
}

// Approve moves Completed -> Approved. The caller is responsible for advancing
// the bank account's reconciliation cursor afterwards.
func (r *BankReconciliation) Approve(approvedBy string, now time.Time) (*ReconciliationApprovedEvent, error) {
	if strings.TrimSpace(approvedBy) == "" {
		return nil, ErrActorRequired
	}
	if r.Status != ReconciliationComplete {
		return nil, apperrors.NewStateError("reconciliation", string(r.Status), string(ReconciliationComplete))
	}
	r.Status = ReconciliationApproved
	r.ApprovedAt = &now
	r.ApprovedBy = approvedBy
	r.LastUpdatedAt = now
	r.LastUpdatedBy = approvedBy
	return &ReconciliationApprovedEvent{
		ReconciliationID:       r.ReconciliationID,
		BankAccountID:          r.BankAccountID,
		Year:                   r.Year,
		Month:                  r.Month,
		StatementEndingBalance: r.StatementEndingBalance,
		ApprovedBy:             approvedBy,
		OccurredAt:             now,
	}, nil
}
