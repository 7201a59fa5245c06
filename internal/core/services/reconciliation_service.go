package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// reconciliationService drives the bank reconciliation workflow: session
// lifecycle, statement import, manual and automatic matching, reconciling
// items, and the calculate/complete/approve chain.
type reconciliationService struct {
	BaseService
	reconRepo       portsrepo.ReconciliationRepositoryFacade
	statementRepo   portsrepo.BankStatementRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	journalRepo     portsrepo.JournalEntryReader
	balanceRepo     portsrepo.AccountBalanceReader
	publisher       portssvc.EventPublisher
	toleranceDays   int
}

// NewReconciliationService creates a new reconciliation service. toleranceDays
// bounds the auto matcher's date window; zero or negative falls back to the
// default.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	statementRepo portsrepo.BankStatementRepositoryFacade,
	bankAccountRepo portsrepo.BankAccountRepositoryFacade,
	journalRepo portsrepo.JournalEntryReader,
	balanceRepo portsrepo.AccountBalanceReader,
	publisher portssvc.EventPublisher,
	toleranceDays int,
) portssvc.ReconciliationSvcFacade {
	if toleranceDays <= 0 {
		toleranceDays = domain.DefaultMatchDateToleranceDays
	}
	return &reconciliationService{
		reconRepo:       reconRepo,
		statementRepo:   statementRepo,
		bankAccountRepo: bankAccountRepo,
		journalRepo:     journalRepo,
		balanceRepo:     balanceRepo,
		publisher:       publisher,
		toleranceDays:   toleranceDays,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateReconciliation opens a session for a bank account and period and moves
// it straight to InProgress. The book ending balance is seeded from the ledger
// account's balance roll-up for the period, zero when none has been computed.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.BankReconciliation, error) {
	bankAccount, err := s.bankAccountRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}
	if !bankAccount.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is not active", apperrors.ErrValidation, req.BankAccountID)
	}

	existing, err := s.reconRepo.FindActiveByBankAccountAndPeriod(ctx, req.BankAccountID, req.Year, req.Month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for an active reconciliation: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: reconciliation %s is already active for bank account %s in %04d-%02d",
			apperrors.ErrConflict, existing.ReconciliationID, req.BankAccountID, req.Year, req.Month)
	}

	bookEnding := decimal.Zero
	balance, err := s.balanceRepo.FindBalance(ctx, bankAccount.LedgerAccountID, req.Year, req.Month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch book balance for account %s: %w", bankAccount.LedgerAccountID, err)
	}
	if balance != nil {
		bookEnding = balance.ClosingBalance
	}

	now := time.Now().UTC()
	recon, err := domain.NewBankReconciliation(uuid.NewString(), req.BankAccountID, req.Year, req.Month, req.StatementEndingBalance, bookEnding, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := recon.Start(creatorUserID, now); err != nil {
		return nil, err
	}

	if err := s.reconRepo.SaveReconciliation(ctx, *recon); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation", slog.String("bank_account_id", req.BankAccountID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	s.LogInfo(ctx, "Reconciliation created", slog.String("reconciliation_id", recon.ReconciliationID),
		slog.String("bank_account_id", req.BankAccountID), slog.Int("year", req.Year), slog.Int("month", req.Month))
	return recon, nil
}

// GetReconciliationByID retrieves a session with its items.
func (s *reconciliationService) GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find reconciliation", slog.String("reconciliation_id", reconciliationID))
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	return recon, nil
}

// ListReconciliationsByBankAccount retrieves a bank account's sessions.
func (s *reconciliationService) ListReconciliationsByBankAccount(ctx context.Context, bankAccountID string) (*dto.ListReconciliationsResponse, error) {
	recons, err := s.reconRepo.ListReconciliationsByBankAccount(ctx, bankAccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliations", slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return &dto.ListReconciliationsResponse{Reconciliations: dto.ToReconciliationResponses(recons)}, nil
}

// ListStatements retrieves the statements imported into a session.
func (s *reconciliationService) ListStatements(ctx context.Context, reconciliationID string) ([]domain.BankStatement, error) {
	statements, err := s.statementRepo.FindStatementsByReconciliationID(ctx, reconciliationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statements", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to list statements for reconciliation %s: %w", reconciliationID, err)
	}
	return statements, nil
}

// ImportStatement records a bank statement and its transactions into an
// in-progress session. Statements are immutable once imported.
func (s *reconciliationService) ImportStatement(ctx context.Context, reconciliationID string, req dto.ImportBankStatementRequest, requestingUserID string) (*domain.BankStatement, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if err := recon.InProgressOnly(); err != nil {
		return nil, err
	}

	txns := dto.ToBankTransactions(req.Transactions)
	for i := range txns {
		txns[i].TransactionID = uuid.NewString()
	}

	now := time.Now().UTC()
	statement, err := domain.NewBankStatement(uuid.NewString(), recon.BankAccountID, req.StatementDate, req.PeriodStart, req.PeriodEnd, req.OpeningBalance, req.ClosingBalance, txns, requestingUserID, now)
	if err != nil {
		return nil, err
	}
	statement.ReconciliationID = reconciliationID

	if err := s.statementRepo.SaveStatement(ctx, *statement); err != nil {
		s.LogError(ctx, err, "Failed to save bank statement", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save bank statement: %w", err)
	}

	if err := s.refreshMatchCounts(ctx, recon, requestingUserID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Bank statement imported", slog.String("statement_id", statement.StatementID),
		slog.String("reconciliation_id", reconciliationID), slog.Int("transactions", len(statement.Transactions)))
	return statement, nil
}

// unmatchedLines loads the matchable posted lines for a session: unmatched
// lines on the bank's ledger account in the session period.
func (s *reconciliationService) unmatchedLines(ctx context.Context, recon *domain.BankReconciliation) ([]domain.LedgerLineSnapshot, error) {
	bankAccount, err := s.bankAccountRepo.FindBankAccountByID(ctx, recon.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", recon.BankAccountID, err)
	}
	lines, err := s.journalRepo.FindUnmatchedPostedLines(ctx, bankAccount.LedgerAccountID, recon.Year, recon.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched posted lines: %w", err)
	}
	return lines, nil
}

// refreshMatchCounts recounts the session's matched/unmatched transactions
// across all imported statements and persists the totals.
func (s *reconciliationService) refreshMatchCounts(ctx context.Context, recon *domain.BankReconciliation, requestingUserID string) error {
	statements, err := s.statementRepo.FindStatementsByReconciliationID(ctx, recon.ReconciliationID)
	if err != nil {
		return fmt.Errorf("failed to list statements for reconciliation %s: %w", recon.ReconciliationID, err)
	}
	matched, unmatched := 0, 0
	for _, statement := range statements {
		for _, txn := range statement.Transactions {
			if txn.MatchStatus == domain.Matched {
				matched++
			} else {
				unmatched++
			}
		}
	}
	recon.RecordMatchCounts(matched, unmatched, requestingUserID, time.Now().UTC())
	if err := s.reconRepo.UpdateReconciliationTotals(ctx, *recon); err != nil {
		return fmt.Errorf("failed to persist match counts: %w", err)
	}
	return nil
}

// MatchTransaction manually pairs one bank transaction with one posted journal
// line. The line must be an unmatched posted line on the bank's ledger account
// in the session period; the transaction must belong to the session and still
// be unmatched. One of two concurrent matches against either side wins, the
// other gets a state conflict.
func (s *reconciliationService) MatchTransaction(ctx context.Context, reconciliationID string, req dto.MatchTransactionRequest, requestingUserID string) error {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if err := recon.InProgressOnly(); err != nil {
		return err
	}

	txn, err := s.statementRepo.FindTransactionByID(ctx, req.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to find bank transaction %s: %w", req.TransactionID, err)
	}
	statement, err := s.statementRepo.FindStatementByID(ctx, txn.StatementID)
	if err != nil {
		return fmt.Errorf("failed to find statement %s: %w", txn.StatementID, err)
	}
	if statement.ReconciliationID != reconciliationID {
		return fmt.Errorf("%w: transaction %s does not belong to reconciliation %s", apperrors.ErrValidation, req.TransactionID, reconciliationID)
	}

	lines, err := s.unmatchedLines(ctx, recon)
	if err != nil {
		return err
	}
	found := false
	for _, line := range lines {
		if line.LineID == req.LineID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: line %s is not an unmatched posted line on the reconciled account", apperrors.ErrValidation, req.LineID)
	}

	if err := txn.MarkMatched(req.LineID, requestingUserID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.statementRepo.UpdateTransactionMatch(ctx, *txn, domain.Unmatched); err != nil {
		s.LogError(ctx, err, "Failed to persist match", slog.String("transaction_id", req.TransactionID))
		return fmt.Errorf("failed to persist match: %w", err)
	}

	if err := s.refreshMatchCounts(ctx, recon, requestingUserID); err != nil {
		return err
	}

	s.LogInfo(ctx, "Bank transaction matched", slog.String("transaction_id", req.TransactionID), slog.String("line_id", req.LineID))
	return nil
}

// AutoMatch runs the deterministic matcher over the session's unmatched
// transactions and applies the resulting proposals. Ambiguous transactions are
// left alone; re-running after more postings arrive picks up the stragglers.
func (s *reconciliationService) AutoMatch(ctx context.Context, reconciliationID string, requestingUserID string) (*dto.AutoMatchResponse, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if err := recon.InProgressOnly(); err != nil {
		return nil, err
	}

	statements, err := s.statementRepo.FindStatementsByReconciliationID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements for reconciliation %s: %w", reconciliationID, err)
	}
	transactions := make([]domain.BankTransaction, 0)
	for _, statement := range statements {
		transactions = append(transactions, statement.Transactions...)
	}

	lines, err := s.unmatchedLines(ctx, recon)
	if err != nil {
		return nil, err
	}

	result := domain.AutoMatch(transactions, lines, s.toleranceDays)

	now := time.Now().UTC()
	applied := 0
	byID := make(map[string]*domain.BankTransaction, len(transactions))
	for i := range transactions {
		byID[transactions[i].TransactionID] = &transactions[i]
	}
	for _, proposal := range result.Proposals {
		txn := byID[proposal.TransactionID]
		if err := txn.MarkMatched(proposal.LineID, requestingUserID, now); err != nil {
			return nil, err
		}
		if err := s.statementRepo.UpdateTransactionMatch(ctx, *txn, domain.Unmatched); err != nil {
			s.LogError(ctx, err, "Failed to persist auto match", slog.String("transaction_id", proposal.TransactionID))
			return nil, fmt.Errorf("failed to persist auto match: %w", err)
		}
		applied++
	}

	if err := s.refreshMatchCounts(ctx, recon, requestingUserID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Auto match finished", slog.String("reconciliation_id", reconciliationID),
		slog.Int("applied", applied), slog.Int("unmatched", recon.UnmatchedCount))
	return &dto.AutoMatchResponse{
		ReconciliationID: reconciliationID,
		MatchedCount:     recon.MatchedCount,
		UnmatchedCount:   recon.UnmatchedCount,
		ProposalsApplied: applied,
	}, nil
}

// AddReconcilingItem records a manual bank/book difference on an in-progress session.
func (s *reconciliationService) AddReconcilingItem(ctx context.Context, reconciliationID string, req dto.AddReconcilingItemRequest, requestingUserID string) (*domain.ReconcilingItem, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	now := time.Now().UTC()
	item, err := domain.NewReconcilingItem(uuid.NewString(), req.ItemType, req.Side, req.Description, req.Amount, req.TransactionDate, req.Reference, req.RequiresJournalEntry, requestingUserID, now)
	if err != nil {
		return nil, err
	}
	if err := recon.AddItem(*item, requestingUserID, now); err != nil {
		return nil, err
	}
	item.ReconciliationID = reconciliationID

	if err := s.reconRepo.SaveReconcilingItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to save reconciling item", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save reconciling item: %w", err)
	}

	s.LogInfo(ctx, "Reconciling item added", slog.String("item_id", item.ItemID),
		slog.String("reconciliation_id", reconciliationID), slog.String("item_type", string(item.ItemType)))
	return item, nil
}

// RemoveReconcilingItem deletes a mis-entered item. Legal only while the
// session is still in progress; older sessions keep their items for audit.
func (s *reconciliationService) RemoveReconcilingItem(ctx context.Context, reconciliationID string, itemID string, requestingUserID string) error {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if err := recon.InProgressOnly(); err != nil {
		return err
	}

	if err := s.reconRepo.DeleteReconcilingItem(ctx, reconciliationID, itemID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: reconciling item %s", apperrors.ErrNotFound, itemID)
		}
		s.LogError(ctx, err, "Failed to delete reconciling item", slog.String("reconciliation_id", reconciliationID), slog.String("item_id", itemID))
		return fmt.Errorf("failed to delete reconciling item: %w", err)
	}

	s.LogInfo(ctx, "Reconciling item removed", slog.String("item_id", itemID), slog.String("reconciliation_id", reconciliationID))
	return nil
}

// Calculate recomputes the adjusted balances from the session's items and
// persists them, agreeing or not.
func (s *reconciliationService) Calculate(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	if err := recon.Calculate(); err != nil {
		return nil, err
	}

	if err := s.reconRepo.UpdateReconciliationTotals(ctx, *recon); err != nil {
		s.LogError(ctx, err, "Failed to persist calculated balances", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to persist calculated balances: %w", err)
	}

	s.LogInfo(ctx, "Reconciliation calculated", slog.String("reconciliation_id", reconciliationID),
		slog.String("discrepancy", recon.Discrepancy().String()))
	return recon, nil
}

// Complete moves the session to Completed. A live discrepancy beyond the
// balance epsilon blocks completion.
func (s *reconciliationService) Complete(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	event, err := recon.Complete(requestingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.reconRepo.UpdateReconciliationTotals(ctx, *recon); err != nil {
		return nil, fmt.Errorf("failed to persist calculated balances: %w", err)
	}
	if err := s.reconRepo.UpdateReconciliationStatus(ctx, *recon, domain.ReconciliationInProgress); err != nil {
		s.LogError(ctx, err, "Failed to complete reconciliation", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	s.publisher.Publish(ctx, "reconciliation.completed", event)
	s.LogInfo(ctx, "Reconciliation completed", slog.String("reconciliation_id", reconciliationID))
	return recon, nil
}

// Approve finalises a completed session and advances the bank account's
// reconciliation cursor to the end of the session period with the statement
// ending balance.
func (s *reconciliationService) Approve(ctx context.Context, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	now := time.Now().UTC()
	event, err := recon.Approve(requestingUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.reconRepo.UpdateReconciliationStatus(ctx, *recon, domain.ReconciliationComplete); err != nil {
		s.LogError(ctx, err, "Failed to approve reconciliation", slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to approve reconciliation: %w", err)
	}

	bankAccount, err := s.bankAccountRepo.FindBankAccountByID(ctx, recon.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", recon.BankAccountID, err)
	}
	// Last day of the session period.
	reconciledAt := time.Date(recon.Year, time.Month(recon.Month)+1, 0, 0, 0, 0, 0, time.UTC)
	if err := bankAccount.RecordReconciliation(recon.StatementEndingBalance, reconciledAt, requestingUserID, now); err != nil {
		return nil, err
	}
	if err := s.bankAccountRepo.UpdateBankAccount(ctx, *bankAccount); err != nil {
		s.LogError(ctx, err, "Failed to advance reconciliation cursor", slog.String("bank_account_id", recon.BankAccountID))
		return nil, fmt.Errorf("failed to advance reconciliation cursor: %w", err)
	}

	s.publisher.Publish(ctx, "reconciliation.approved", event)
	s.LogInfo(ctx, "Reconciliation approved", slog.String("reconciliation_id", reconciliationID),
		slog.String("approved_by", requestingUserID))
	return recon, nil
}
