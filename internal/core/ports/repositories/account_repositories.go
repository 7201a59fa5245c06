package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// AccountReader defines read operations for ledger accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	// ListAccounts retrieves accounts ordered by code using token pagination.
	ListAccounts(ctx context.Context, limit int, nextToken string) ([]domain.Account, string, error)
}

// AccountWriter defines write operations for ledger accounts.
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate code fails with ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
