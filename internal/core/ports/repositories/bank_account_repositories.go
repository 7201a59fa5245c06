package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// BankAccountReader defines read operations for bank accounts.
type BankAccountReader interface {
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	// ListBankAccounts retrieves bank accounts ordered by name. When
	// activeOnly is true, inactive and closed accounts are excluded.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank accounts.
type BankAccountWriter interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error

	// UpdateBankAccountStatus persists a lifecycle transition as a conditional
	// update keyed on the expected current status.
	UpdateBankAccountStatus(ctx context.Context, account domain.BankAccount, expected domain.BankAccountStatus) error
}

// BankAccountRepositoryFacade combines all bank-account repository interfaces.
type BankAccountRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
}
