package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReconciliationRequest defines the data needed to open a reconciliation
// session for a bank account and period.
type CreateReconciliationRequest struct {
	BankAccountID          string          `json:"bankAccountID" binding:"required"`
	Year                   int             `json:"year" binding:"required,min=1900"`
	Month                  int             `json:"month" binding:"required,min=1,max=12"`
	StatementEndingBalance decimal.Decimal `json:"statementEndingBalance"`
}

// AddReconcilingItemRequest defines the data needed to record a reconciling item.
// Side is required only for ADJUSTMENT items; other types derive it.
type AddReconcilingItemRequest struct {
	ItemType             domain.ReconcilingItemType `json:"itemType" binding:"required,oneof=OUTSTANDING_CHECK DEPOSIT_IN_TRANSIT BANK_FEE BANK_INTEREST NSF_CHECK ADJUSTMENT"`
	Side                 domain.ReconciliationSide  `json:"side" binding:"omitempty,oneof=BANK BOOK"`
	Description          string                     `json:"description" binding:"required"`
	Amount               decimal.Decimal            `json:"amount" binding:"required"`
	TransactionDate      time.Time                  `json:"transactionDate" binding:"required"`
	Reference            string                     `json:"reference"`
	RequiresJournalEntry bool                       `json:"requiresJournalEntry"`
}

// MatchTransactionRequest pairs a bank transaction with a posted journal line.
type MatchTransactionRequest struct {
	TransactionID string `json:"transactionID" binding:"required"`
	LineID        string `json:"lineID" binding:"required"`
}

// ReconcilingItemResponse defines the data returned for a reconciling item.
type ReconcilingItemResponse struct {
	ItemID               string                     `json:"itemID"`
	ReconciliationID     string                     `json:"reconciliationID"`
	ItemType             domain.ReconcilingItemType `json:"itemType"`
	Side                 domain.ReconciliationSide  `json:"side"`
	Description          string                     `json:"description"`
	Amount               decimal.Decimal            `json:"amount"`
	TransactionDate      time.Time                  `json:"transactionDate"`
	Reference            string                     `json:"reference,omitempty"`
	RequiresJournalEntry bool                       `json:"requiresJournalEntry"`
	CreatedAt            time.Time                  `json:"createdAt"`
	CreatedBy            string                     `json:"createdBy"`
}

// ReconciliationResponse defines the data returned for a reconciliation session.
type ReconciliationResponse struct {
	ReconciliationID       string                      `json:"reconciliationID"`
	BankAccountID          string                      `json:"bankAccountID"`
	Year                   int                         `json:"year"`
	Month                  int                         `json:"month"`
	Status                 domain.ReconciliationStatus `json:"status"`
	StatementEndingBalance decimal.Decimal             `json:"statementEndingBalance"`
	BookEndingBalance      decimal.Decimal             `json:"bookEndingBalance"`
	AdjustedBankBalance    decimal.Decimal             `json:"adjustedBankBalance"`
	AdjustedBookBalance    decimal.Decimal             `json:"adjustedBookBalance"`
	Discrepancy            decimal.Decimal             `json:"discrepancy"`
	MatchedCount           int                         `json:"matchedCount"`
	UnmatchedCount         int                         `json:"unmatchedCount"`
	DepositsInTransitTotal decimal.Decimal             `json:"depositsInTransitTotal"`
	OutstandingChecksTotal decimal.Decimal             `json:"outstandingChecksTotal"`
	BankAdjustmentsTotal   decimal.Decimal             `json:"bankAdjustmentsTotal"`
	BookAdjustmentsTotal   decimal.Decimal             `json:"bookAdjustmentsTotal"`
	ReconcilingItems       []ReconcilingItemResponse   `json:"reconcilingItems"`
	CompletedAt            *time.Time                  `json:"completedAt,omitempty"`
	CompletedBy            string                      `json:"completedBy,omitempty"`
	ApprovedAt             *time.Time                  `json:"approvedAt,omitempty"`
	ApprovedBy             string                      `json:"approvedBy,omitempty"`
	CreatedAt              time.Time                   `json:"createdAt"`
	CreatedBy              string                      `json:"createdBy"`
	LastUpdatedAt          time.Time                   `json:"lastUpdatedAt"`
	LastUpdatedBy          string                      `json:"lastUpdatedBy"`
}

// AutoMatchResponse reports the outcome of an automatic matching pass.
type AutoMatchResponse struct {
	ReconciliationID string `json:"reconciliationID"`
	MatchedCount     int    `json:"matchedCount"`
	UnmatchedCount   int    `json:"unmatchedCount"`
	ProposalsApplied int    `json:"proposalsApplied"`
}

// ListReconciliationsResponse wraps a bank account's reconciliation sessions.
type ListReconciliationsResponse struct {
	Reconciliations []ReconciliationResponse `json:"reconciliations"`
}

// ToReconcilingItemResponse converts a domain.ReconcilingItem to its response DTO.
func ToReconcilingItemResponse(item *domain.ReconcilingItem) ReconcilingItemResponse {
	return ReconcilingItemResponse{
		ItemID:               item.ItemID,
		ReconciliationID:     item.ReconciliationID,
		ItemType:             item.ItemType,
		Side:                 item.Side,
		Description:          item.Description,
		Amount:               item.Amount,
		TransactionDate:      item.TransactionDate,
		Reference:            item.Reference,
		RequiresJournalEntry: item.RequiresJournalEntry,
		CreatedAt:            item.CreatedAt,
		CreatedBy:            item.CreatedBy,
	}
}

// ToReconciliationResponse converts a domain.BankReconciliation to its response DTO.
func ToReconciliationResponse(r *domain.BankReconciliation) ReconciliationResponse {
	items := make([]ReconcilingItemResponse, len(r.ReconcilingItems))
	for i := range r.ReconcilingItems {
		items[i] = ToReconcilingItemResponse(&r.ReconcilingItems[i])
	}
	return ReconciliationResponse{
		ReconciliationID:       r.ReconciliationID,
		BankAccountID:          r.BankAccountID,
		Year:                   r.Year,
		Month:                  r.Month,
		Status:                 r.Status,
		StatementEndingBalance: r.StatementEndingBalance,
		BookEndingBalance:      r.BookEndingBalance,
		AdjustedBankBalance:    r.AdjustedBankBalance,
		AdjustedBookBalance:    r.AdjustedBookBalance,
		Discrepancy:            r.Discrepancy(),
		MatchedCount:           r.MatchedCount,
		UnmatchedCount:         r.UnmatchedCount,
		DepositsInTransitTotal: r.DepositsInTransitTotal,
		OutstandingChecksTotal: r.OutstandingChecksTotal,
		BankAdjustmentsTotal:   r.BankAdjustmentsTotal,
		BookAdjustmentsTotal:   r.BookAdjustmentsTotal,
		ReconcilingItems:       items,
		CompletedAt:            r.CompletedAt,
		CompletedBy:            r.CompletedBy,
		ApprovedAt:             r.ApprovedAt,
		ApprovedBy:             r.ApprovedBy,
		CreatedAt:              r.CreatedAt,
		CreatedBy:              r.CreatedBy,
		LastUpdatedAt:          r.LastUpdatedAt,
		LastUpdatedBy:          r.LastUpdatedBy,
	}
}

// ToReconciliationResponses converts a slice of sessions to response DTOs.
func ToReconciliationResponses(recons []domain.BankReconciliation) []ReconciliationResponse {
	responses := make([]ReconciliationResponse, len(recons))
	for i := range recons {
		responses[i] = ToReconciliationResponse(&recons[i])
	}
	return responses
}
