package pgsql

import (
	"context"
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

type PgxBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxBalanceRepository creates a new repository for per-period account balances.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.AccountBalanceRepositoryFacade {
	return &PgxBalanceRepository{pool: pool}
}

// Ensure PgxBalanceRepository implements portsrepo.AccountBalanceRepositoryFacade
var _ portsrepo.AccountBalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

const balanceColumns = `account_id, year, month, opening_balance, debit_total, credit_total, closing_balance,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccountBalance(row pgx.Row) (models.AccountBalance, error) {
	var m models.AccountBalance
	err := row.Scan(
		&m.AccountID,
		&m.Year,
		&m.Month,
		&m.OpeningBalance,
		&m.DebitTotal,
		&m.CreditTotal,
		&m.ClosingBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindBalance retrieves the balance row for one account in one period.
func (r *PgxBalanceRepository) FindBalance(ctx context.Context, accountID string, year, month int) (*domain.AccountBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_balances WHERE account_id = $1 AND year = $2 AND month = $3;`

	m, err := scanAccountBalance(r.pool.QueryRow(ctx, query, accountID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance for account %s in %d-%02d: %w", accountID, year, month, err)
	}

	bal := mapping.ToDomainAccountBalance(m)
	return &bal, nil
}

// ListBalancesForPeriod retrieves every balance row computed for a period,
// ordered by the account's chart-of-accounts code.
func (r *PgxBalanceRepository) ListBalancesForPeriod(ctx context.Context, year, month int) ([]domain.AccountBalance, error) {
	query := `
		SELECT b.account_id, b.year, b.month, b.opening_balance, b.debit_total, b.credit_total, b.closing_balance,
		       b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
		FROM account_balances b
		JOIN accounts a ON a.account_id = b.account_id
		WHERE b.year = $1 AND b.month = $2
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	var balances []domain.AccountBalance
	for rows.Next() {
		m, err := scanAccountBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, mapping.ToDomainAccountBalance(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading balance rows: %w", err)
	}
	return balances, nil
}

// UpsertBalances writes the balance rows for a calculator run. Re-running a
// calculation overwrites prior rows for the same (account, year, month).
func (r *PgxBalanceRepository) UpsertBalances(ctx context.Context, balances []domain.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}

	query := `
		INSERT INTO account_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (account_id, year, month) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
		    debit_total = EXCLUDED.debit_total,
		    credit_total = EXCLUDED.credit_total,
		    closing_balance = EXCLUDED.closing_balance,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, bal := range balances {
		m := mapping.ToModelAccountBalance(bal)
		batch.Queue(query,
			m.AccountID,
			m.Year,
			m.Month,
			m.OpeningBalance,
			m.DebitTotal,
			m.CreditTotal,
			m.ClosingBalance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to upsert %d balance rows: %w", len(balances), err)
	}
	return nil
}
