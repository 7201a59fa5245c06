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

type PgxBankStatementRepository struct {
	BaseRepository
}

// newPgxBankStatementRepository creates a new repository for imported bank
// statements and their transactions.
func newPgxBankStatementRepository(pool *pgxpool.Pool) portsrepo.BankStatementRepositoryFacade {
	return &PgxBankStatementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBankStatementRepository implements portsrepo.BankStatementRepositoryFacade
var _ portsrepo.BankStatementRepositoryFacade = (*PgxBankStatementRepository)(nil)

const statementColumns = `statement_id, bank_account_id, reconciliation_id, statement_date, period_start, period_end,
	opening_balance, closing_balance, created_at, created_by, last_updated_at, last_updated_by`

const bankTxnColumns = `transaction_id, statement_id, transaction_date, value_date, description, reference, amount,
	check_number, match_status, matched_line_id, matched_by, matched_at`

func scanBankStatement(row pgx.Row) (models.BankStatement, error) {
	var m models.BankStatement
	var reconciliationID sql.NullString
	err := row.Scan(
		&m.StatementID,
		&m.BankAccountID,
		&reconciliationID,
		&m.StatementDate,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.ReconciliationID = textFromNull(reconciliationID)
	return m, nil
}

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	var reference, checkNumber, matchedLineID, matchedBy sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.StatementID,
		&m.TransactionDate,
		&m.ValueDate,
		&m.Description,
		&reference,
		&m.Amount,
		&checkNumber,
		&m.MatchStatus,
		&matchedLineID,
		&matchedBy,
		&m.MatchedAt,
	)
	if err != nil {
		return m, err
	}
	m.Reference = textFromNull(reference)
	m.CheckNumber = textFromNull(checkNumber)
	m.MatchedLineID = textFromNull(matchedLineID)
	m.MatchedBy = textFromNull(matchedBy)
	return m, nil
}

// SaveStatement persists a statement header and all of its transactions
// atomically.
func (r *PgxBankStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	m := mapping.ToModelBankStatement(statement)
	stmtQuery := `
		INSERT INTO bank_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, stmtQuery,
		m.StatementID,
		m.BankAccountID,
		textOrNull(m.ReconciliationID),
		m.StatementDate,
		m.PeriodStart,
		m.PeriodEnd,
		m.OpeningBalance,
		m.ClosingBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank statement %s already exists", apperrors.ErrDuplicate, m.StatementID)
		}
		return apperrors.NewAppError(500, "failed to insert bank statement "+m.StatementID, err)
	}

	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, txn := range statement.Transactions {
		mt := mapping.ToModelBankTransaction(txn)
		batch.Queue(txnQuery,
			mt.TransactionID,
			mt.StatementID,
			mt.TransactionDate,
			mt.ValueDate,
			mt.Description,
			textOrNull(mt.Reference),
			mt.Amount,
			textOrNull(mt.CheckNumber),
			mt.MatchStatus,
			textOrNull(mt.MatchedLineID),
			textOrNull(mt.MatchedBy),
			mt.MatchedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert transactions for statement "+m.StatementID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateTransactionMatch persists a match (or unmatch) as a conditional
// update keyed on the expected current match status. A lost race surfaces as
// a StateError so a line is never consumed twice.
func (r *PgxBankStatementRepository) UpdateTransactionMatch(ctx context.Context, txn domain.BankTransaction, expected domain.MatchStatus) error {
	m := mapping.ToModelBankTransaction(txn)

	query := `
		UPDATE bank_transactions
		SET match_status = $2, matched_line_id = $3, matched_by = $4, matched_at = $5
		WHERE transaction_id = $1 AND match_status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.MatchStatus,
		textOrNull(m.MatchedLineID),
		textOrNull(m.MatchedBy),
		m.MatchedAt,
		models.MatchStatus(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update match for bank transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.Pool.QueryRow(ctx, `SELECT match_status FROM bank_transactions WHERE transaction_id = $1;`, m.TransactionID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to re-read bank transaction %s: %w", m.TransactionID, err)
		}
		return apperrors.NewStateError("bank transaction", status, string(expected))
	}
	return nil
}

// FindStatementByID retrieves a statement together with its transactions.
func (r *PgxBankStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE statement_id = $1;`

	m, err := scanBankStatement(r.Pool.QueryRow(ctx, query, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank statement by ID %s: %w", statementID, err)
	}

	stmt := mapping.ToDomainBankStatement(m)
	txns, err := r.findTransactionsByStatementIDs(ctx, []string{statementID})
	if err != nil {
		return nil, err
	}
	stmt.Transactions = txns[statementID]
	return &stmt, nil
}

// FindTransactionByID retrieves a single statement line.
func (r *PgxBankStatementRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE transaction_id = $1;`

	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// FindStatementsByReconciliationID retrieves the statements imported into one
// reconciliation session, each with its transactions.
func (r *PgxBankStatementRepository) FindStatementsByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.BankStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statements
		WHERE reconciliation_id = $1
		ORDER BY statement_date, statement_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements for reconciliation %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	var statements []domain.BankStatement
	for rows.Next() {
		m, err := scanBankStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank statement row: %w", err)
		}
		statements = append(statements, mapping.ToDomainBankStatement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank statement rows: %w", err)
	}

	if len(statements) > 0 {
		ids := make([]string, len(statements))
		for i := range statements {
			ids[i] = statements[i].StatementID
		}
		txnsByStatement, err := r.findTransactionsByStatementIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range statements {
			statements[i].Transactions = txnsByStatement[statements[i].StatementID]
		}
	}

	return statements, nil
}

func (r *PgxBankStatementRepository) findTransactionsByStatementIDs(ctx context.Context, statementIDs []string) (map[string][]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTxnColumns + `
		FROM bank_transactions
		WHERE statement_id = ANY($1)
		ORDER BY transaction_date, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, statementIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.BankTransaction, len(statementIDs))
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		result[m.StatementID] = append(result[m.StatementID], mapping.ToDomainBankTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank transaction rows: %w", err)
	}
	return result, nil
}
