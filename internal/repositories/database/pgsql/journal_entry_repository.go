package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	"github.com/openbooks/ledger_app/internal/models"
	"github.com/openbooks/ledger_app/internal/utils/mapping"
	"github.com/openbooks/ledger_app/internal/utils/pagination"
)

type PgxJournalEntryRepository struct {
	BaseRepository
}

// newPgxJournalEntryRepository creates a new repository for journal entry and line data.
func newPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryWithTx {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalEntryRepository implements portsrepo.JournalEntryRepositoryWithTx
var _ portsrepo.JournalEntryRepositoryWithTx = (*PgxJournalEntryRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, description, status, entry_type,
	source_service, source_reference_id, posted_at, posted_by, voided_at, voided_by, void_reason,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var sourceService, sourceRefID, postedBy, voidedBy, voidReason sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.EntryType,
		&sourceService,
		&sourceRefID,
		&m.PostedAt,
		&postedBy,
		&m.VoidedAt,
		&voidedBy,
		&voidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.SourceService = textFromNull(sourceService)
	m.SourceReferenceID = textFromNull(sourceRefID)
	m.PostedBy = textFromNull(postedBy)
	m.VoidedBy = textFromNull(voidedBy)
	m.VoidReason = textFromNull(voidReason)
	return m, nil
}

// SaveEntry persists a new draft entry together with its lines, atomically.
func (r *PgxJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	m := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.Status,
		m.EntryType,
		textOrNull(m.SourceService),
		textOrNull(m.SourceReferenceID),
		m.PostedAt,
		textOrNull(m.PostedBy),
		m.VoidedAt,
		textOrNull(m.VoidedBy),
		textOrNull(m.VoidReason),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s or its entry number already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, amount, transaction_type, memo)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.Amount,
			ml.TransactionType,
			textOrNull(ml.Memo),
		)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// UpdateDraftEntry rewrites the mutable fields and lines of a draft entry.
// The update is conditional on the stored status still being Draft.
func (r *PgxJournalEntryRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	m := mapping.ToModelJournalEntry(entry)
	updateQuery := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $6;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.EntryDraft,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMissedUpdate(ctx, m.EntryID, string(domain.EntryDraft))
	}

	// Rewrite the line set wholesale; draft lines carry no downstream references.
	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for journal entry "+m.EntryID, err)
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus persists a lifecycle transition as a conditional update
// keyed on the expected current status. A lost race surfaces as a StateError.
func (r *PgxJournalEntryRepository) UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry, expected domain.EntryStatus) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = $2, posted_at = $3, posted_by = $4, voided_at = $5, voided_by = $6, void_reason = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE entry_id = $1 AND status = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.Status,
		m.PostedAt,
		textOrNull(m.PostedBy),
		m.VoidedAt,
		textOrNull(m.VoidedBy),
		textOrNull(m.VoidReason),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.EntryStatus(expected),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of journal entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMissedUpdate(ctx, m.EntryID, string(expected))
	}
	return nil
}

// DeleteDraftEntry removes a draft entry and its lines, conditional on the
// stored status still being Draft.
func (r *PgxJournalEntryRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for journal entry "+entryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = $2;`, entryID, models.EntryDraft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMissedUpdate(ctx, entryID, string(domain.EntryDraft))
	}

	return r.Commit(ctx, tx)
}

// explainMissedUpdate distinguishes a missing row from a lost status race
// after a conditional update touched zero rows.
func (r *PgxJournalEntryRepository) explainMissedUpdate(ctx context.Context, entryID, required string) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to re-read journal entry "+entryID, err)
	}
	return apperrors.NewStateError("journal entry", status, required)
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry by ID %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

// ListEntries retrieves entries newest first with their lines, using
// token-based pagination over (entry_date, created_at).
func (r *PgxJournalEntryRepository) ListEntries(ctx context.Context, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	if limit <= 0 {
		limit = 20
	}

	var cursorDate, cursorCreated time.Time
	haveCursor := false
	if nextToken != "" {
		var err error
		cursorDate, cursorCreated, err = pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		haveCursor = true
	}

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ($1 = false OR (entry_date, created_at) < ($2, $3))
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, haveCursor, cursorDate, cursorCreated, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed reading journal entry rows: %w", err)
	}

	token := ""
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token = pagination.EncodeToken(last.EntryDate, last.CreatedAt)
	}

	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i := range entries {
			ids[i] = entries[i].EntryID
		}
		linesByEntry, err := r.findLinesByEntryIDs(ctx, ids)
		if err != nil {
			return nil, "", err
		}
		for i := range entries {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
	}

	return entries, token, nil
}

func (r *PgxJournalEntryRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, amount, transaction_type, memo
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var m models.JournalLine
		var memo sql.NullString
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Amount, &m.TransactionType, &memo); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		m.Memo = textFromNull(memo)
		result[m.EntryID] = append(result[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal line rows: %w", err)
	}
	return result, nil
}

// FindPostedLinesInPeriod retrieves every line belonging to a Posted entry
// whose entry date falls inside the given (year, month).
func (r *PgxJournalEntryRepository) FindPostedLinesInPeriod(ctx context.Context, year, month int) ([]domain.JournalLine, error) {
	periodStart, periodEnd := monthBounds(year, month)

	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.amount, l.transaction_type, l.memo
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = $1 AND e.entry_date >= $2 AND e.entry_date < $3
		ORDER BY e.entry_date, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, models.EntryPosted, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var m models.JournalLine
		var memo sql.NullString
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Amount, &m.TransactionType, &memo); err != nil {
			return nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		m.Memo = textFromNull(memo)
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading posted line rows: %w", err)
	}
	return lines, nil
}

// FindUnmatchedPostedLines retrieves posted lines on the given ledger account
// in the period that no bank transaction has consumed yet.
func (r *PgxJournalEntryRepository) FindUnmatchedPostedLines(ctx context.Context, accountID string, year, month int) ([]domain.LedgerLineSnapshot, error) {
	periodStart, periodEnd := monthBounds(year, month)

	query := `
		SELECT l.line_id, l.account_id, l.transaction_type, l.amount, e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = $1
		  AND l.account_id = $2
		  AND e.entry_date >= $3 AND e.entry_date < $4
		  AND NOT EXISTS (
			SELECT 1 FROM bank_transactions bt
			WHERE bt.matched_line_id = l.line_id AND bt.match_status = $5
		  )
		ORDER BY e.entry_date, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, models.EntryPosted, accountID, periodStart, periodEnd, models.Matched)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmatched posted lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var snapshots []domain.LedgerLineSnapshot
	for rows.Next() {
		var s domain.LedgerLineSnapshot
		var txnType models.TransactionType
		if err := rows.Scan(&s.LineID, &s.AccountID, &txnType, &s.Amount, &s.EntryDate); err != nil {
			return nil, fmt.Errorf("failed to scan unmatched line row: %w", err)
		}
		s.TransactionType = domain.TransactionType(txnType)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading unmatched line rows: %w", err)
	}
	return snapshots, nil
}

// monthBounds returns the UTC half-open interval [start, end) covering the month.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
