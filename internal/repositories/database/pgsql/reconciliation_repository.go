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

type PgxReconciliationRepository struct {
	pool *pgxpool.Pool
}

// newPgxReconciliationRepository creates a new repository for reconciliation
// sessions and their reconciling items.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{pool: pool}
}

// Ensure PgxReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, bank_account_id, year, month, statement_ending_balance, book_ending_balance,
	adjusted_bank_balance, adjusted_book_balance, matched_count, unmatched_count,
	deposits_in_transit_total, outstanding_checks_total, bank_adjustments_total, book_adjustments_total,
	status, completed_at, completed_by, approved_at, approved_by,
	created_at, created_by, last_updated_at, last_updated_by`

const reconcilingItemColumns = `item_id, reconciliation_id, item_type, side, description, amount, transaction_date,
	reference, requires_journal_entry, created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (models.BankReconciliation, error) {
	var m models.BankReconciliation
	var completedBy, approvedBy sql.NullString
	err := row.Scan(
		&m.ReconciliationID,
		&m.BankAccountID,
		&m.Year,
		&m.Month,
		&m.StatementEndingBalance,
		&m.BookEndingBalance,
		&m.AdjustedBankBalance,
		&m.AdjustedBookBalance,
		&m.MatchedCount,
		&m.UnmatchedCount,
		&m.DepositsInTransitTotal,
		&m.OutstandingChecksTotal,
		&m.BankAdjustmentsTotal,
		&m.BookAdjustmentsTotal,
		&m.Status,
		&m.CompletedAt,
		&completedBy,
		&m.ApprovedAt,
		&approvedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.CompletedBy = textFromNull(completedBy)
	m.ApprovedBy = textFromNull(approvedBy)
	return m, nil
}

func scanReconcilingItem(row pgx.Row) (models.ReconcilingItem, error) {
	var m models.ReconcilingItem
	var reference sql.NullString
	err := row.Scan(
		&m.ItemID,
		&m.ReconciliationID,
		&m.ItemType,
		&m.Side,
		&m.Description,
		&m.Amount,
		&m.TransactionDate,
		&reference,
		&m.RequiresJournalEntry,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.Reference = textFromNull(reference)
	return m, nil
}

// SaveReconciliation inserts a new reconciliation session.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error {
	m := mapping.ToModelBankReconciliation(recon)

	query := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ReconciliationID,
		m.BankAccountID,
		m.Year,
		m.Month,
		m.StatementEndingBalance,
		m.BookEndingBalance,
		m.AdjustedBankBalance,
		m.AdjustedBookBalance,
		m.MatchedCount,
		m.UnmatchedCount,
		m.DepositsInTransitTotal,
		m.OutstandingChecksTotal,
		m.BankAdjustmentsTotal,
		m.BookAdjustmentsTotal,
		m.Status,
		m.CompletedAt,
		textOrNull(m.CompletedBy),
		m.ApprovedAt,
		textOrNull(m.ApprovedBy),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reconciliation %s already exists", apperrors.ErrDuplicate, m.ReconciliationID)
		}
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}
	return nil
}

// UpdateReconciliationStatus persists a lifecycle transition as a conditional
// update keyed on the expected current status.
func (r *PgxReconciliationRepository) UpdateReconciliationStatus(ctx context.Context, recon domain.BankReconciliation, expected domain.ReconciliationStatus) error {
	m := mapping.ToModelBankReconciliation(recon)

	query := `
		UPDATE bank_reconciliations
		SET status = $2, completed_at = $3, completed_by = $4, approved_at = $5, approved_by = $6,
		    adjusted_bank_balance = $7, adjusted_book_balance = $8,
		    deposits_in_transit_total = $9, outstanding_checks_total = $10,
		    bank_adjustments_total = $11, book_adjustments_total = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE reconciliation_id = $1 AND status = $15;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.ReconciliationID,
		m.Status,
		m.CompletedAt,
		textOrNull(m.CompletedBy),
		m.ApprovedAt,
		textOrNull(m.ApprovedBy),
		m.AdjustedBankBalance,
		m.AdjustedBookBalance,
		m.DepositsInTransitTotal,
		m.OutstandingChecksTotal,
		m.BankAdjustmentsTotal,
		m.BookAdjustmentsTotal,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.ReconciliationStatus(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of reconciliation %s: %w", m.ReconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx, `SELECT status FROM bank_reconciliations WHERE reconciliation_id = $1;`, m.ReconciliationID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to re-read reconciliation %s: %w", m.ReconciliationID, err)
		}
		return apperrors.NewStateError("reconciliation", status, string(expected))
	}
	return nil
}

// UpdateReconciliationTotals persists recomputed adjusted balances and match
// counters without touching the status.
func (r *PgxReconciliationRepository) UpdateReconciliationTotals(ctx context.Context, recon domain.BankReconciliation) error {
	m := mapping.ToModelBankReconciliation(recon)

	query := `
		UPDATE bank_reconciliations
		SET statement_ending_balance = $2, book_ending_balance = $3,
		    adjusted_bank_balance = $4, adjusted_book_balance = $5,
		    matched_count = $6, unmatched_count = $7,
		    deposits_in_transit_total = $8, outstanding_checks_total = $9,
		    bank_adjustments_total = $10, book_adjustments_total = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE reconciliation_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.ReconciliationID,
		m.StatementEndingBalance,
		m.BookEndingBalance,
		m.AdjustedBankBalance,
		m.AdjustedBookBalance,
		m.MatchedCount,
		m.UnmatchedCount,
		m.DepositsInTransitTotal,
		m.OutstandingChecksTotal,
		m.BankAdjustmentsTotal,
		m.BookAdjustmentsTotal,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update totals of reconciliation %s: %w", m.ReconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveReconcilingItem inserts one reconciling item.
func (r *PgxReconciliationRepository) SaveReconcilingItem(ctx context.Context, item domain.ReconcilingItem) error {
	m := mapping.ToModelReconcilingItem(item)

	query := `
		INSERT INTO reconciling_items (` + reconcilingItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ItemID,
		m.ReconciliationID,
		m.ItemType,
		m.Side,
		m.Description,
		m.Amount,
		m.TransactionDate,
		textOrNull(m.Reference),
		m.RequiresJournalEntry,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reconciling item %s already exists", apperrors.ErrDuplicate, m.ItemID)
		}
		return fmt.Errorf("failed to save reconciling item %s: %w", m.ItemID, err)
	}
	return nil
}

// DeleteReconcilingItem removes one item from a session.
func (r *PgxReconciliationRepository) DeleteReconcilingItem(ctx context.Context, reconciliationID, itemID string) error {
	query := `DELETE FROM reconciling_items WHERE reconciliation_id = $1 AND item_id = $2;`

	tag, err := r.pool.Exec(ctx, query, reconciliationID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete reconciling item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReconciliationByID retrieves a session together with its reconciling items.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE reconciliation_id = $1;`

	m, err := scanReconciliation(r.pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation by ID %s: %w", reconciliationID, err)
	}

	recon := mapping.ToDomainBankReconciliation(m)
	items, err := r.findItemsByReconciliationID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	recon.ReconcilingItems = items
	return &recon, nil
}

// FindActiveByBankAccountAndPeriod retrieves the non-approved session for a
// bank account and period, if one exists. At most one can be active at a time.
func (r *PgxReconciliationRepository) FindActiveByBankAccountAndPeriod(ctx context.Context, bankAccountID string, year, month int) (*domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE bank_account_id = $1 AND year = $2 AND month = $3 AND status <> $4
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanReconciliation(r.pool.QueryRow(ctx, query, bankAccountID, year, month, models.ReconciliationApproved))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active reconciliation for bank account %s in %d-%02d: %w", bankAccountID, year, month, err)
	}

	recon := mapping.ToDomainBankReconciliation(m)
	items, err := r.findItemsByReconciliationID(ctx, recon.ReconciliationID)
	if err != nil {
		return nil, err
	}
	recon.ReconcilingItems = items
	return &recon, nil
}

// ListReconciliationsByBankAccount retrieves sessions for a bank account,
// newest period first, without their items.
func (r *PgxReconciliationRepository) ListReconciliationsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE bank_account_id = $1
		ORDER BY year DESC, month DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	var recons []domain.BankReconciliation
	for rows.Next() {
		m, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		recons = append(recons, mapping.ToDomainBankReconciliation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading reconciliation rows: %w", err)
	}
	return recons, nil
}

func (r *PgxReconciliationRepository) findItemsByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconcilingItem, error) {
	query := `
		SELECT ` + reconcilingItemColumns + `
		FROM reconciling_items
		WHERE reconciliation_id = $1
		ORDER BY transaction_date, item_id;
	`
	rows, err := r.pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciling items for %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	var items []domain.ReconcilingItem
	for rows.Next() {
		m, err := scanReconcilingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciling item row: %w", err)
		}
		items = append(items, mapping.ToDomainReconcilingItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading reconciling item rows: %w", err)
	}
	return items, nil
}
