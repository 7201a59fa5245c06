package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// BankStatementReader defines read operations for imported bank statements.
type BankStatementReader interface {
	// FindStatementByID retrieves a statement together with its transactions.
	FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// FindStatementsByReconciliationID retrieves the statements imported into
	// one reconciliation session, each with its transactions.
	FindStatementsByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.BankStatement, error)
}

// BankStatementWriter defines write operations for imported bank statements.
type BankStatementWriter interface {
	// SaveStatement persists a statement and all of its transactions.
	SaveStatement(ctx context.Context, statement domain.BankStatement) error

	// UpdateTransactionMatch persists a match (or unmatch) as a conditional
	// update keyed on the expected current match status.
	UpdateTransactionMatch(ctx context.Context, txn domain.BankTransaction, expected domain.MatchStatus) error
}

// BankStatementRepositoryFacade combines all statement repository interfaces.
type BankStatementRepositoryFacade interface {
	BankStatementReader
	BankStatementWriter
}
