package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
)

// PeriodStatus indicates the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

var (
	ErrReopenReasonTooShort = fmt.Errorf("%w: reopen reason must be at least 10 characters", apperrors.ErrValidation)
	ErrActorRequired        = fmt.Errorf("%w: actor id is required", apperrors.ErrValidation)
)

// FiscalPeriod gates which (year, month) accept journal postings.
// Lifecycle: Open -> Closed -> Locked, with a Closed -> Open escape hatch.
// Locked is terminal.
type FiscalPeriod struct {
	PeriodID     string       `json:"periodID"` // Primary Key (UUID)
	Year         int          `json:"year"`
	Month        int          `json:"month"` // 1..12
	Status       PeriodStatus `json:"status"`
	ClosedAt     *time.Time   `json:"closedAt"`
	ClosedBy     string       `json:"closedBy"`
	ReopenedAt   *time.Time   `json:"reopenedAt"`
	ReopenedBy   string       `json:"reopenedBy"`
	ReopenReason string       `json:"reopenReason"`
	AuditFields
}

// NewFiscalPeriod creates an Open period after validating the (year, month) range.
func NewFiscalPeriod(periodID string, year, month int, createdBy string, now time.Time) (*FiscalPeriod, error) {
	if year < 1900 {
		return nil, fmt.Errorf("%w: year must be 1900 or later, got %d", apperrors.ErrValidation, year)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, month)
	}
	return &FiscalPeriod{
		PeriodID: periodID,
		Year:     year,
		Month:    month,
		Status:   PeriodOpen,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// CanPostEntries is true only while the period is Open.
func (p *FiscalPeriod) CanPostEntries() bool { return p.Status == PeriodOpen }

// Close freezes the period against new postings. Legal only from Open.
func (p *FiscalPeriod) Close(closedBy string, now time.Time) (*FiscalPeriodClosed, error) {
	if strings.TrimSpace(closedBy) == "" {
		return nil, ErrActorRequired
	}
	if p.Status != PeriodOpen {
		return nil, apperrors.NewStateError("fiscal period", string(p.Status), string(PeriodOpen))
	}
	p.Status = PeriodClosed
	p.ClosedAt = &now
	p.ClosedBy = closedBy
	p.LastUpdatedAt = now
	p.LastUpdatedBy = closedBy
	return &FiscalPeriodClosed{
		PeriodID:   p.PeriodID,
		Year:       p.Year,
		Month:      p.Month,
		ClosedBy:   closedBy,
		OccurredAt: now,
	}, nil
}

// Reopen reverses a close. Legal only from Closed, never from Locked, and
// requires a reason of at least 10 characters. Close audit fields are cleared
// so a later close stamps fresh values.
func (p *FiscalPeriod) Reopen(reopenedBy string, reason string, now time.Time) (*FiscalPeriodReopened, error) {
	if strings.TrimSpace(reopenedBy) == "" {
		return nil, ErrActorRequired
	}
	if len(strings.TrimSpace(reason)) < 10 {
		return nil, ErrReopenReasonTooShort
	}
	if p.Status != PeriodClosed {
		return nil, apperrors.NewStateError("fiscal period", string(p.Status), string(PeriodClosed))
	}
	p.Status = PeriodOpen
	p.ClosedAt = nil
	p.ClosedBy = ""
	p.ReopenedAt = &now
	p.ReopenedBy = reopenedBy
	p.ReopenReason = reason
	p.LastUpdatedAt = now
	p.LastUpdatedBy = reopenedBy
	return &FiscalPeriodReopened{
		PeriodID:   p.PeriodID,
		Year:       p.Year,
		Month:      p.Month,
		Reason:     reason,
		ReopenedBy: reopenedBy,
		OccurredAt: now,
	}, nil
}

// Lock makes the close permanent. Legal only from Closed. Terminal.
func (p *FiscalPeriod) Lock(lockedBy string, now time.Time) (*FiscalPeriodLocked, error) {
	if strings.TrimSpace(lockedBy) == "" {
		return nil, ErrActorRequired
	}
	if p.Status != PeriodClosed {
		return nil, apperrors.NewStateError("fiscal period", string(p.Status), string(PeriodClosed))
	}
	p.Status = PeriodLocked
	p.LastUpdatedAt = now
	p.LastUpdatedBy = lockedBy
	return &FiscalPeriodLocked{
		PeriodID:   p.PeriodID,
		Year:       p.Year,
		Month:      p.Month,
		LockedBy:   lockedBy,
		OccurredAt: now,
	}, nil
}

// Previous returns the adjacent earlier (year, month), rolling the year boundary.
func (p *FiscalPeriod) Previous() (int, int) {
	return PreviousPeriod(p.Year, p.Month)
}

// Next returns the adjacent later (year, month), rolling the year boundary.
func (p *FiscalPeriod) Next() (int, int) {
	return NextPeriod(p.Year, p.Month)
}

// PreviousPeriod returns the (year, month) immediately before the given one.
func PreviousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextPeriod returns the (year, month) immediately after the given one.
func NextPeriod(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PeriodPrecedes reports whether (aYear, aMonth) is strictly before (bYear, bMonth).
func PeriodPrecedes(aYear, aMonth, bYear, bMonth int) bool {
	if aYear != bYear {
		return aYear < bYear
	}
	return aMonth < bMonth
}
