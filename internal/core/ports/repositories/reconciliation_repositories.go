package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation sessions.
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a session together with its
	// reconciling items.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)

	// FindActiveByBankAccountAndPeriod retrieves the non-approved session for
	// a bank account and period, if one exists.
	FindActiveByBankAccountAndPeriod(ctx context.Context, bankAccountID string, year, month int) (*domain.BankReconciliation, error)

	// ListReconciliationsByBankAccount retrieves sessions for a bank account,
	// newest period first.
	ListReconciliationsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.BankReconciliation, error)
}

// ReconciliationWriter defines write operations for reconciliation sessions.
type ReconciliationWriter interface {
	SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error

	// UpdateReconciliationStatus persists a lifecycle transition as a
	// conditional update keyed on the expected current status.
	UpdateReconciliationStatus(ctx context.Context, recon domain.BankReconciliation, expected domain.ReconciliationStatus) error

	// UpdateReconciliationTotals persists recomputed adjusted balances and
	// match counters without touching the status.
	UpdateReconciliationTotals(ctx context.Context, recon domain.BankReconciliation) error

	SaveReconcilingItem(ctx context.Context, item domain.ReconcilingItem) error
	DeleteReconcilingItem(ctx context.Context, reconciliationID, itemID string) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
