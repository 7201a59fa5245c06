package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// FiscalPeriodReaderSvc defines read operations for fiscal periods.
type FiscalPeriodReaderSvc interface {
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	GetPeriodByYearMonth(ctx context.Context, year, month int) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, params dto.ListFiscalPeriodsParams) (*dto.ListFiscalPeriodsResponse, error)

	// ListOpenPeriods retrieves every currently Open period straight from
	// storage. Open status changes over time, so this is never cached.
	ListOpenPeriods(ctx context.Context) (*dto.ListFiscalPeriodsResponse, error)
}

// FiscalPeriodWriterSvc defines lifecycle operations for fiscal periods.
type FiscalPeriodWriterSvc interface {
	// CreatePeriod opens a new period for (year, month). Fails with a
	// duplicate error if the period already exists.
	CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)

	// EnsurePeriod returns the period for (year, month), creating it Open when
	// no row exists yet. An existing period comes back unchanged whatever its
	// status; ensure never reopens.
	EnsurePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)

	// ClosePeriod freezes an open period and triggers the balance calculation
	// for it. Only one of two concurrent close attempts succeeds.
	ClosePeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.FiscalPeriod, error)

	// ReopenPeriod reverses a close with a mandatory reason. Locked periods
	// never reopen.
	ReopenPeriod(ctx context.Context, periodID string, reason string, requestingUserID string) (*domain.FiscalPeriod, error)

	// LockPeriod makes a close permanent.
	LockPeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.FiscalPeriod, error)
}

// FiscalPeriodSvcFacade combines all fiscal-period service interfaces.
type FiscalPeriodSvcFacade interface {
	FiscalPeriodReaderSvc
	FiscalPeriodWriterSvc
}
