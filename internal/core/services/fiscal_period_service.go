package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// fiscalPeriodService manages the period calendar. Closing a period also runs
// the balance calculator for it, as two separate steps: the close commits
// first, then the roll-up runs. A failed roll-up leaves the period closed and
// can be re-run through the balance service.
type fiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
	calculator portssvc.BalanceCalculatorSvc
	publisher  portssvc.EventPublisher
}

// NewFiscalPeriodService creates a new fiscal period service.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade, calculator portssvc.BalanceCalculatorSvc, publisher portssvc.EventPublisher) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{
		periodRepo: periodRepo,
		calculator: calculator,
		publisher:  publisher,
	}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

// CreatePeriod opens a new period for (year, month).
func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	now := time.Now().UTC()
	period, err := domain.NewFiscalPeriod(uuid.NewString(), req.Year, req.Month, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.SavePeriod(ctx, *period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: fiscal period %04d-%02d already exists", apperrors.ErrDuplicate, req.Year, req.Month)
		}
		s.LogError(ctx, err, "Failed to save fiscal period", slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("period_id", period.PeriodID), slog.Int("year", period.Year), slog.Int("month", period.Month))
	return period, nil
}

// EnsurePeriod returns the period for (year, month), creating it Open on
// demand. Existing rows come back as they are, Closed and Locked included.
func (s *fiscalPeriodService) EnsurePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByYearMonth(ctx, req.Year, req.Month)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up fiscal period", slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, fmt.Errorf("failed to find fiscal period %04d-%02d: %w", req.Year, req.Month, err)
	}

	now := time.Now().UTC()
	created, err := domain.NewFiscalPeriod(uuid.NewString(), req.Year, req.Month, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.SavePeriod(ctx, *created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the creation race; the winner's row is the period.
			return s.GetPeriodByYearMonth(ctx, req.Year, req.Month)
		}
		s.LogError(ctx, err, "Failed to save fiscal period", slog.Int("year", req.Year), slog.Int("month", req.Month))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period ensured", slog.String("period_id", created.PeriodID), slog.Int("year", created.Year), slog.Int("month", created.Month))
	return created, nil
}

// GetPeriodByID retrieves a period by id.
func (s *fiscalPeriodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fiscal period", slog.String("period_id", periodID))
		}
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}
	return period, nil
}

// GetPeriodByYearMonth retrieves the period row for (year, month).
func (s *fiscalPeriodService) GetPeriodByYearMonth(ctx context.Context, year, month int) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByYearMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %04d-%02d: %w", year, month, err)
	}
	return period, nil
}

// ListPeriods retrieves periods, optionally filtered by year.
func (s *fiscalPeriodService) ListPeriods(ctx context.Context, params dto.ListFiscalPeriodsParams) (*dto.ListFiscalPeriodsResponse, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, params.Year)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods")
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	return &dto.ListFiscalPeriodsResponse{Periods: dto.ToFiscalPeriodResponses(periods)}, nil
}

// ListOpenPeriods retrieves every currently Open period as a live query.
func (s *fiscalPeriodService) ListOpenPeriods(ctx context.Context) (*dto.ListFiscalPeriodsResponse, error) {
	periods, err := s.periodRepo.FindOpenPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open fiscal periods")
		return nil, fmt.Errorf("failed to list open fiscal periods: %w", err)
	}
	return &dto.ListFiscalPeriodsResponse{Periods: dto.ToFiscalPeriodResponses(periods)}, nil
}

// ClosePeriod freezes an open period against postings, then runs the balance
// roll-up for it. The close is a conditional status update: of two concurrent
// attempts exactly one wins, the other gets a state conflict.
func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}

	event, err := period.Close(requestingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, *period, domain.PeriodOpen); err != nil {
		s.LogError(ctx, err, "Failed to close fiscal period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to close fiscal period: %w", err)
	}

	s.publisher.Publish(ctx, "fiscal_period.closed", event)
	s.LogInfo(ctx, "Fiscal period closed", slog.String("period_id", periodID), slog.Int("year", period.Year), slog.Int("month", period.Month))

	if _, err := s.calculator.CalculateForPeriod(ctx, period.Year, period.Month, requestingUserID); err != nil {
		// The close already committed; the roll-up is idempotent and can be
		// re-run through the balance endpoint.
		s.LogError(ctx, err, "Balance calculation failed after period close", slog.String("period_id", periodID))
	}

	return period, nil
}

// ReopenPeriod reverses a close with a mandatory reason. Locked periods never reopen.
func (s *fiscalPeriodService) ReopenPeriod(ctx context.Context, periodID string, reason string, requestingUserID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}

	event, err := period.Reopen(requestingUserID, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, *period, domain.PeriodClosed); err != nil {
		s.LogError(ctx, err, "Failed to reopen fiscal period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to reopen fiscal period: %w", err)
	}

	s.publisher.Publish(ctx, "fiscal_period.reopened", event)
	s.LogInfo(ctx, "Fiscal period reopened", slog.String("period_id", periodID), slog.String("reason", reason))
	return period, nil
}

// LockPeriod makes a close permanent.
func (s *fiscalPeriodService) LockPeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}

	event, err := period.Lock(requestingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, *period, domain.PeriodClosed); err != nil {
		s.LogError(ctx, err, "Failed to lock fiscal period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to lock fiscal period: %w", err)
	}

	s.publisher.Publish(ctx, "fiscal_period.locked", event)
	s.LogInfo(ctx, "Fiscal period locked", slog.String("period_id", periodID))
	return period, nil
}
