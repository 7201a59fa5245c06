package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	"github.com/openbooks/ledger_app/internal/models"
	"github.com/openbooks/ledger_app/internal/utils/mapping"
)

type PgxFiscalPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepositoryFacade {
	return &PgxFiscalPeriodRepository{pool: pool}
}

// Ensure PgxFiscalPeriodRepository implements portsrepo.FiscalPeriodRepositoryFacade
var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

const periodColumns = `period_id, year, month, status, closed_at, closed_by, reopened_at, reopened_by, reopen_reason,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	var closedBy, reopenedBy, reopenReason sql.NullString
	err := row.Scan(
		&m.PeriodID,
		&m.Year,
		&m.Month,
		&m.Status,
		&m.ClosedAt,
		&closedBy,
		&m.ReopenedAt,
		&reopenedBy,
		&reopenReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.ClosedBy = textFromNull(closedBy)
	m.ReopenedBy = textFromNull(reopenedBy)
	m.ReopenReason = textFromNull(reopenReason)
	return m, nil
}

// SavePeriod persists a new period. A second row for the same (year, month)
// fails with ErrDuplicate.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.Year,
		m.Month,
		m.Status,
		m.ClosedAt,
		textOrNull(m.ClosedBy),
		m.ReopenedAt,
		textOrNull(m.ReopenedBy),
		textOrNull(m.ReopenReason),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fiscal period %d-%02d already exists", apperrors.ErrDuplicate, m.Year, m.Month)
		}
		return fmt.Errorf("failed to save fiscal period %s: %w", m.PeriodID, err)
	}
	return nil
}

// UpdatePeriodStatus persists a lifecycle transition as a conditional update
// keyed on the expected current status.
func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod, expected domain.PeriodStatus) error {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		UPDATE fiscal_periods
		SET status = $2, closed_at = $3, closed_by = $4, reopened_at = $5, reopened_by = $6, reopen_reason = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE period_id = $1 AND status = $10;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.Status,
		m.ClosedAt,
		textOrNull(m.ClosedBy),
		m.ReopenedAt,
		textOrNull(m.ReopenedBy),
		textOrNull(m.ReopenReason),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.PeriodStatus(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of fiscal period %s: %w", m.PeriodID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx, `SELECT status FROM fiscal_periods WHERE period_id = $1;`, m.PeriodID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to re-read fiscal period %s: %w", m.PeriodID, err)
		}
		return apperrors.NewStateError("fiscal period", status, string(expected))
	}
	return nil
}

// FindPeriodByID retrieves a period by its unique identifier.
func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`

	m, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period by ID %s: %w", periodID, err)
	}

	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// FindPeriodByYearMonth retrieves the single period row for (year, month).
func (r *PgxFiscalPeriodRepository) FindPeriodByYearMonth(ctx context.Context, year, month int) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE year = $1 AND month = $2;`

	m, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period %d-%02d: %w", year, month, err)
	}

	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// ListPeriods retrieves periods ordered by (year, month), optionally
// restricted to one year.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, year *int) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE ($1::int IS NULL OR year = $1)
		ORDER BY year, month;
	`
	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	defer rows.Close()

	return collectPeriods(rows)
}

// FindOpenPeriods retrieves all currently Open periods, always from storage.
func (r *PgxFiscalPeriodRepository) FindOpenPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE status = $1
		ORDER BY year, month;
	`
	rows, err := r.pool.Query(ctx, query, models.PeriodOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list open fiscal periods: %w", err)
	}
	defer rows.Close()

	return collectPeriods(rows)
}

func collectPeriods(rows pgx.Rows) ([]domain.FiscalPeriod, error) {
	var periods []domain.FiscalPeriod
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainFiscalPeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading fiscal period rows: %w", err)
	}
	return periods, nil
}

// HasClosedPeriodBefore reports whether any period strictly earlier than
// (year, month) has ever been closed or locked. A closed_at timestamp
// survives reopening, so reopened periods still count.
func (r *PgxFiscalPeriodRepository) HasClosedPeriodBefore(ctx context.Context, year, month int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fiscal_periods
			WHERE (year < $1 OR (year = $1 AND month < $2))
			  AND (status IN ($3, $4) OR closed_at IS NOT NULL)
		);
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, year, month, models.PeriodClosed, models.PeriodLocked).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check closed periods before %d-%02d: %w", year, month, err)
	}
	return exists, nil
}
