package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// AccountBalanceReader defines read operations for per-period account balances.
type AccountBalanceReader interface {
	// FindBalance retrieves the balance row for one account in one period.
	FindBalance(ctx context.Context, accountID string, year, month int) (*domain.AccountBalance, error)

	// ListBalancesForPeriod retrieves every balance row computed for a period,
	// ordered by account code.
	ListBalancesForPeriod(ctx context.Context, year, month int) ([]domain.AccountBalance, error)
}

// AccountBalanceWriter defines write operations for per-period account balances.
type AccountBalanceWriter interface {
	// UpsertBalances replaces the balance rows for the period the rows belong
	// to. Re-running a calculation overwrites prior results rather than
	// duplicating them.
	UpsertBalances(ctx context.Context, balances []domain.AccountBalance) error
}

// AccountBalanceRepositoryFacade combines all balance repository interfaces.
type AccountBalanceRepositoryFacade interface {
	AccountBalanceReader
	AccountBalanceWriter
}
