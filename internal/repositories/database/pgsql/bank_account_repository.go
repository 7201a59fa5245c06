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

type PgxBankAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxBankAccountRepository creates a new repository for bank account data.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{pool: pool}
}

// Ensure PgxBankAccountRepository implements portsrepo.BankAccountRepositoryFacade
var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

const bankAccountColumns = `bank_account_id, ledger_account_id, bank_name, account_number, account_type, currency_code,
	status, last_reconciled_date, last_reconciled_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.LedgerAccountID,
		&m.BankName,
		&m.AccountNumber,
		&m.AccountType,
		&m.CurrencyCode,
		&m.Status,
		&m.LastReconciledDate,
		&m.LastReconciledBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.BankAccountID,
		m.LedgerAccountID,
		m.BankName,
		m.AccountNumber,
		m.AccountType,
		m.CurrencyCode,
		m.Status,
		m.LastReconciledDate,
		m.LastReconciledBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// UpdateBankAccount rewrites the mutable fields and reconciliation cursor of
// an existing bank account.
func (r *PgxBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)

	query := `
		UPDATE bank_accounts
		SET bank_name = $2, account_number = $3, account_type = $4,
		    last_reconciled_date = $5, last_reconciled_balance = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE bank_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.BankAccountID,
		m.BankName,
		m.AccountNumber,
		m.AccountType,
		m.LastReconciledDate,
		m.LastReconciledBalance,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account %s: %w", m.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateBankAccountStatus persists a lifecycle transition as a conditional
// update keyed on the expected current status.
func (r *PgxBankAccountRepository) UpdateBankAccountStatus(ctx context.Context, account domain.BankAccount, expected domain.BankAccountStatus) error {
	m := mapping.ToModelBankAccount(account)

	query := `
		UPDATE bank_accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1 AND status = $5;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.BankAccountID,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		models.BankAccountStatus(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of bank account %s: %w", m.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx, `SELECT status FROM bank_accounts WHERE bank_account_id = $1;`, m.BankAccountID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to re-read bank account %s: %w", m.BankAccountID, err)
		}
		return apperrors.NewStateError("bank account", status, string(expected))
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	m, err := scanBankAccount(r.pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account by ID %s: %w", bankAccountID, err)
	}

	acc := mapping.ToDomainBankAccount(m)
	return &acc, nil
}

// ListBankAccounts retrieves bank accounts ordered by bank name. When
// activeOnly is true, inactive and closed accounts are excluded.
func (r *PgxBankAccountRepository) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE ($1 = false OR status = $2)
		ORDER BY bank_name, account_number;
	`
	rows, err := r.pool.Query(ctx, query, activeOnly, models.BankAccountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainBankAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank account rows: %w", err)
	}
	return accounts, nil
}
