package models

import "time"

// PeriodStatus indicates the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FiscalPeriod represents one calendar month of the accounting calendar.
// Unique on (year, month).
type FiscalPeriod struct {
	PeriodID     string       `db:"period_id"`
	Year         int          `db:"year"`
	Month        int          `db:"month"`
	Status       PeriodStatus `db:"status"`
	ClosedAt     *time.Time   `db:"closed_at"`
	ClosedBy     string       `db:"closed_by"` // Nullable
	ReopenedAt   *time.Time   `db:"reopened_at"`
	ReopenedBy   string       `db:"reopened_by"`   // Nullable
	ReopenReason string       `db:"reopen_reason"` // Nullable
	AuditFields
}
