package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// ReconciliationReaderSvc defines read operations for reconciliation sessions.
type ReconciliationReaderSvc interface {
	GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)
	ListReconciliationsByBankAccount(ctx context.Context, bankAccountID string) (*dto.ListReconciliationsResponse, error)
	ListStatements(ctx context.Context, reconciliationID string) ([]domain.BankStatement, error)
}

// ReconciliationWriterSvc defines the reconciliation workflow operations.
type ReconciliationWriterSvc interface {
	// CreateReconciliation opens a session for a bank account and period and
	// moves it straight to InProgress. A second active session for the same
	// (bank account, period) fails with a conflict.
	CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.BankReconciliation, error)

	// ImportStatement records a bank statement and its transactions into an
	// in-progress session.
	ImportStatement(ctx context.Context, reconciliationID string, req dto.ImportBankStatementRequest, requestingUserID string) (*domain.BankStatement, error)

	// MatchTransaction manually pairs one bank transaction with one posted
	// journal line. Each side can be consumed at most once.
	MatchTransaction(ctx context.Context, reconciliationID string, req dto.MatchTransactionRequest, requestingUserID string) error

	// AutoMatch runs the deterministic matcher over the session's unmatched
	// transactions and applies the resulting proposals.
	AutoMatch(ctx context.Context, reconciliationID string, requestingUserID string) (*dto.AutoMatchResponse, error)

	// AddReconcilingItem records a manual bank/book difference.
	AddReconcilingItem(ctx context.Context, reconciliationID string, req dto.AddReconcilingItemRequest, requestingUserID string) (*domain.ReconcilingItem, error)

	// RemoveReconcilingItem deletes a mis-entered item from an in-progress
	// session. Items on completed or approved sessions are immutable.
	RemoveReconcilingItem(ctx context.Context, reconciliationID string, itemID string, requestingUserID string) error

	// Calculate recomputes the adjusted balances from the session's items and
	// persists them, agreeing or not.
	Calculate(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error)

	// Complete moves the session to Completed. A live discrepancy beyond the
	// balance epsilon blocks completion.
	Complete(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error)

	// Approve finalises a completed session and advances the bank account's
	// reconciliation cursor.
	Approve(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error)
}

// ReconciliationSvcFacade combines all reconciliation service interfaces.
type ReconciliationSvcFacade interface {
	ReconciliationReaderSvc
	ReconciliationWriterSvc
}
