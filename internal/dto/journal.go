package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest defines one line of a journal entry as submitted by clients.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Memo      string          `json:"memo"`
}

// CreateJournalEntryRequest defines the data needed to create a new draft entry.
type CreateJournalEntryRequest struct {
	EntryDate         time.Time            `json:"entryDate" binding:"required"`
	Description       string               `json:"description" binding:"required"`
	Lines             []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	EntryType         domain.EntryType     `json:"entryType" binding:"omitempty,oneof=MANUAL SYSTEM ADJUSTING"` // Optional, defaults to MANUAL
	EntryNumber       string               `json:"entryNumber"`       // Optional, generated when empty
	SourceService     string               `json:"sourceService"`     // Producer name for SYSTEM entries
	SourceReferenceID string               `json:"sourceReferenceID"` // Upstream document reference
}

// UpdateJournalEntryRequest defines the data allowed for updating a draft entry.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateJournalEntryRequest struct {
	Description *string              `json:"description"`
	EntryDate   *time.Time           `json:"entryDate"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// VoidJournalEntryRequest carries the mandatory reason for voiding a posted entry.
type VoidJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// JournalLineResponse defines the data returned for one entry line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         time.Time             `json:"entryDate"`
	Description       string                `json:"description"`
	Status            domain.EntryStatus    `json:"status"`
	EntryType         domain.EntryType      `json:"entryType"`
	Lines             []JournalLineResponse `json:"lines"`
	TotalDebits       decimal.Decimal       `json:"totalDebits"`
	TotalCredits      decimal.Decimal       `json:"totalCredits"`
	SourceService     string                `json:"sourceService,omitempty"`
	SourceReferenceID string                `json:"sourceReferenceID,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          string                `json:"postedBy,omitempty"`
	VoidedAt          *time.Time            `json:"voidedAt,omitempty"`
	VoidedBy          string                `json:"voidedBy,omitempty"`
	VoidReason        string                `json:"voidReason,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of entries with the token for the next page.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToJournalLines converts request lines to domain lines. IDs are assigned by the service.
func ToJournalLines(lines []JournalLineRequest) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalLine{
			AccountID:       l.AccountID,
			Amount:          l.Amount,
			TransactionType: domain.TransactionType(l.Type),
			Memo:            l.Memo,
		}
	}
	return out
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Amount:    l.Amount,
			Type:      string(l.TransactionType),
			Memo:      l.Memo,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		Status:            e.Status,
		EntryType:         e.EntryType,
		Lines:             lines,
		TotalDebits:       e.TotalDebits(),
		TotalCredits:      e.TotalCredits(),
		SourceService:     e.SourceService,
		SourceReferenceID: e.SourceReferenceID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		VoidedAt:          e.VoidedAt,
		VoidedBy:          e.VoidedBy,
		VoidReason:        e.VoidReason,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries to response DTOs.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
