package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the data needed to open a new period.
type CreateFiscalPeriodRequest struct {
	Year  int `json:"year" binding:"required,min=1900"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ReopenFiscalPeriodRequest carries the mandatory reason for reopening a closed period.
type ReopenFiscalPeriodRequest struct {
	Reason string `json:"reason" binding:"required,min=10"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Status        domain.PeriodStatus `json:"status"`
	ClosedAt      *time.Time          `json:"closedAt,omitempty"`
	ClosedBy      string              `json:"closedBy,omitempty"`
	ReopenedAt    *time.Time          `json:"reopenedAt,omitempty"`
	ReopenedBy    string              `json:"reopenedBy,omitempty"`
	ReopenReason  string              `json:"reopenReason,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ListFiscalPeriodsParams defines query parameters for listing periods.
type ListFiscalPeriodsParams struct {
	Year *int `form:"year"` // Optional filter
}

// ListFiscalPeriodsResponse wraps the list of periods.
type ListFiscalPeriodsResponse struct {
	Periods []FiscalPeriodResponse `json:"periods"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its response DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:      p.PeriodID,
		Year:          p.Year,
		Month:         p.Month,
		Status:        p.Status,
		ClosedAt:      p.ClosedAt,
		ClosedBy:      p.ClosedBy,
		ReopenedAt:    p.ReopenedAt,
		ReopenedBy:    p.ReopenedBy,
		ReopenReason:  p.ReopenReason,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToFiscalPeriodResponses converts a slice of periods to response DTOs.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	responses := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return responses
}
