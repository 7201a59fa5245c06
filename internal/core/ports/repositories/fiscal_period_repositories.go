package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal periods.
type FiscalPeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodByYearMonth retrieves the single period row for (year, month).
	FindPeriodByYearMonth(ctx context.Context, year, month int) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves periods, optionally restricted to one year,
	// ordered by (year, month).
	ListPeriods(ctx context.Context, year *int) ([]domain.FiscalPeriod, error)

	// FindOpenPeriods retrieves all currently Open periods. This is always a
	// live query against storage, never a cached value.
	FindOpenPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)

	// HasClosedPeriodBefore reports whether any period strictly earlier than
	// (year, month) has ever been closed or locked. Drives the balance
	// calculator's prior-period policy.
	HasClosedPeriodBefore(ctx context.Context, year, month int) (bool, error)
}

// FiscalPeriodWriter defines write operations for fiscal periods.
type FiscalPeriodWriter interface {
	// SavePeriod persists a new period. A second row for the same
	// (year, month) fails with ErrDuplicate.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus persists a lifecycle transition as a conditional
	// update keyed on the expected current status.
	UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod, expected domain.PeriodStatus) error
}

// FiscalPeriodRepositoryFacade combines all fiscal-period repository interfaces.
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
