package domain_test

import (
	"testing"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenPeriod(t *testing.T, year, month int) *domain.FiscalPeriod {
	t.Helper()
	period, err := domain.NewFiscalPeriod("period-1", year, month, "admin", time.Now().UTC())
	require.NoError(t, err)
	return period
}

func TestNewFiscalPeriod_Validation(t *testing.T) {
	now := time.Now().UTC()

	_, err := domain.NewFiscalPeriod("p", 1899, 1, "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewFiscalPeriod("p", 2025, 0, "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewFiscalPeriod("p", 2025, 13, "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	period, err := domain.NewFiscalPeriod("p", 2025, 1, "admin", now)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, period.Status)
	assert.True(t, period.CanPostEntries())
}

func TestFiscalPeriod_TransitionTable(t *testing.T) {
	now := time.Now().UTC()

	t.Run("open close succeeds", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		event, err := period.Close("closer", now)
		require.NoError(t, err)
		assert.Equal(t, domain.PeriodClosed, period.Status)
		assert.Equal(t, "closer", period.ClosedBy)
		assert.NotNil(t, period.ClosedAt)
		assert.False(t, period.CanPostEntries())
		assert.Equal(t, 2025, event.Year)
	})

	t.Run("closed close fails", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Close("closer", now)
		require.NoError(t, err)
		_, err = period.Close("closer", now)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("closed reopen clears close audit", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Close("closer", now)
		require.NoError(t, err)

		event, err := period.Reopen("reopener", "posting correction needed", now)
		require.NoError(t, err)
		assert.Equal(t, domain.PeriodOpen, period.Status)
		assert.Nil(t, period.ClosedAt)
		assert.Empty(t, period.ClosedBy)
		assert.Equal(t, "reopener", period.ReopenedBy)
		assert.Equal(t, "posting correction needed", event.Reason)

		// a later close stamps fresh values
		_, err = period.Close("second-closer", now)
		require.NoError(t, err)
		assert.Equal(t, "second-closer", period.ClosedBy)
	})

	t.Run("reopen requires ten character reason", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Close("closer", now)
		require.NoError(t, err)
		_, err = period.Reopen("reopener", "too short", now)
		assert.ErrorIs(t, err, domain.ErrReopenReasonTooShort)
	})

	t.Run("open reopen fails", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Reopen("reopener", "needs a correction", now)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("closed lock succeeds and is terminal", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Close("closer", now)
		require.NoError(t, err)
		_, err = period.Lock("locker", now)
		require.NoError(t, err)
		assert.Equal(t, domain.PeriodLocked, period.Status)

		_, err = period.Reopen("reopener", "needs a correction", now)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		_, err = period.Lock("locker", now)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("open lock fails", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Lock("locker", now)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("transitions require an actor", func(t *testing.T) {
		period := newOpenPeriod(t, 2025, 1)
		_, err := period.Close("  ", now)
		assert.ErrorIs(t, err, domain.ErrActorRequired)
	})
}

func TestFiscalPeriod_PreviousNext(t *testing.T) {
	tests := []struct {
		year, month         int
		prevYear, prevMonth int
		nextYear, nextMonth int
	}{
		{2025, 6, 2025, 5, 2025, 7},
		{2025, 1, 2024, 12, 2025, 2},
		{2025, 12, 2025, 11, 2026, 1},
	}

	for _, tt := range tests {
		period := newOpenPeriod(t, tt.year, tt.month)

		py, pm := period.Previous()
		assert.Equal(t, tt.prevYear, py)
		assert.Equal(t, tt.prevMonth, pm)

		ny, nm := period.Next()
		assert.Equal(t, tt.nextYear, ny)
		assert.Equal(t, tt.nextMonth, nm)

		// previous().next() and next().previous() are both identity
		ry, rm := domain.NextPeriod(py, pm)
		assert.Equal(t, tt.year, ry)
		assert.Equal(t, tt.month, rm)
		ry, rm = domain.PreviousPeriod(ny, nm)
		assert.Equal(t, tt.year, ry)
		assert.Equal(t, tt.month, rm)
	}
}

func TestPeriodPrecedes(t *testing.T) {
	assert.True(t, domain.PeriodPrecedes(2024, 12, 2025, 1))
	assert.False(t, domain.PeriodPrecedes(2025, 1, 2024, 12))
	assert.True(t, domain.PeriodPrecedes(2025, 1, 2025, 2))
	assert.False(t, domain.PeriodPrecedes(2025, 2, 2025, 2))
}
