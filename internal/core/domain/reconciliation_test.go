package domain_test

import (
	"testing"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInProgressRecon(t *testing.T, statementEnd, bookEnd float64) *domain.BankReconciliation {
	t.Helper()
	now := time.Now().UTC()
	recon, err := domain.NewBankReconciliation("recon-1", "bank-1", 2025, 1, decimal.NewFromFloat(statementEnd), decimal.NewFromFloat(bookEnd), "preparer", now)
	require.NoError(t, err)
	require.NoError(t, recon.Start("preparer", now))
	return recon
}

func item(t *testing.T, itemType domain.ReconcilingItemType, amount float64) domain.ReconcilingItem {
	t.Helper()
	it, err := domain.NewReconcilingItem("item-"+string(itemType), itemType, "", string(itemType), decimal.NewFromFloat(amount), time.Now().UTC(), "", false, "preparer", time.Now().UTC())
	require.NoError(t, err)
	return *it
}

func TestBankReconciliation_StartOnlyFromCreated(t *testing.T) {
	now := time.Now().UTC()
	recon, err := domain.NewBankReconciliation("recon-1", "bank-1", 2025, 1, decimal.Zero, decimal.Zero, "preparer", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationCreated, recon.Status)

	require.NoError(t, recon.Start("preparer", now))
	assert.Equal(t, domain.ReconciliationInProgress, recon.Status)

	assert.ErrorIs(t, recon.Start("preparer", now), apperrors.ErrConflict)
}

func TestReconcilingItem_SideDerivation(t *testing.T) {
	now := time.Now().UTC()

	check, err := domain.NewReconcilingItem("i1", domain.OutstandingCheck, "", "check 1001", decimal.NewFromInt(100), now, "1001", false, "preparer", now)
	require.NoError(t, err)
	assert.Equal(t, domain.BankSide, check.Side)

	fee, err := domain.NewReconcilingItem("i2", domain.BankFee, "", "monthly fee", decimal.NewFromInt(15), now, "", true, "preparer", now)
	require.NoError(t, err)
	assert.Equal(t, domain.BookSide, fee.Side)

	// adjustments need an explicit side
	_, err = domain.NewReconcilingItem("i3", domain.Adjustment, "", "correction", decimal.NewFromInt(5), now, "", false, "preparer", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	adj, err := domain.NewReconcilingItem("i4", domain.Adjustment, domain.BankSide, "correction", decimal.NewFromInt(5), now, "", false, "preparer", now)
	require.NoError(t, err)
	assert.Equal(t, domain.BankSide, adj.Side)

	_, err = domain.NewReconcilingItem("i5", "BOGUS", "", "x", decimal.NewFromInt(5), now, "", false, "preparer", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBankReconciliation_Calculate(t *testing.T) {
	// statement end 10,000; book end 9,385.
	// bank side: +500 deposit in transit, -1,200 outstanding check -> 9,300.
	// book side: +25 interest, -90 fee, -20 NSF -> 9,300.
	recon := newInProgressRecon(t, 10000, 9385)
	now := time.Now().UTC()

	require.NoError(t, recon.AddItem(item(t, domain.DepositInTransit, 500), "preparer", now))
	require.NoError(t, recon.AddItem(item(t, domain.OutstandingCheck, 1200), "preparer", now))
	require.NoError(t, recon.AddItem(item(t, domain.BankInterest, 25), "preparer", now))
	require.NoError(t, recon.AddItem(item(t, domain.BankFee, 90), "preparer", now))
	require.NoError(t, recon.AddItem(item(t, domain.NSFCheck, 20), "preparer", now))

	require.NoError(t, recon.Calculate())
	assert.True(t, recon.AdjustedBankBalance.Equal(decimal.NewFromInt(9300)), recon.AdjustedBankBalance.String())
	assert.True(t, recon.AdjustedBookBalance.Equal(decimal.NewFromInt(9300)), recon.AdjustedBookBalance.String())
	assert.True(t, recon.DepositsInTransitTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, recon.OutstandingChecksTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, domain.IsZeroAmount(recon.Discrepancy()))
}

func TestBankReconciliation_CalculatePersistsDisagreement(t *testing.T) {
	recon := newInProgressRecon(t, 10000, 9000)
	require.NoError(t, recon.Calculate())
	assert.True(t, recon.AdjustedBankBalance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, recon.AdjustedBookBalance.Equal(decimal.NewFromInt(9000)))
	assert.False(t, domain.IsZeroAmount(recon.Discrepancy()))
}

func TestBankReconciliation_CompleteBlocksOnDiscrepancy(t *testing.T) {
	recon := newInProgressRecon(t, 10000, 9000)
	_, err := recon.Complete("preparer", time.Now().UTC())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, domain.ReconciliationInProgress, recon.Status)
}

func TestBankReconciliation_CompleteThenApprove(t *testing.T) {
	recon := newInProgressRecon(t, 10000, 10000)
	now := time.Now().UTC()

	completed, err := recon.Complete("preparer", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationComplete, recon.Status)
	assert.Equal(t, "preparer", completed.CompletedBy)

	// items are frozen after completion
	err = recon.AddItem(item(t, domain.BankFee, 10), "preparer", now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	approved, err := recon.Approve("approver", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationApproved, recon.Status)
	assert.True(t, approved.StatementEndingBalance.Equal(decimal.NewFromInt(10000)))

	// approving twice fails
	_, err = recon.Approve("approver", now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestBankReconciliation_ApproveRequiresCompleted(t *testing.T) {
	recon := newInProgressRecon(t, 100, 100)
	_, err := recon.Approve("approver", time.Now().UTC())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestBankTransaction_MarkMatchedOnce(t *testing.T) {
	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID:   "txn-1",
		TransactionDate: now,
		Amount:          decimal.NewFromInt(100),
		MatchStatus:     domain.Unmatched,
	}
	require.NoError(t, txn.MarkMatched("line-1", "matcher", now))
	assert.Equal(t, domain.Matched, txn.MatchStatus)
	assert.Equal(t, "line-1", txn.MatchedLineID)

	assert.ErrorIs(t, txn.MarkMatched("line-2", "matcher", now), apperrors.ErrConflict)
}

func bankTxn(id string, amount float64, date time.Time) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:   id,
		TransactionDate: date,
		Amount:          decimal.NewFromFloat(amount),
		MatchStatus:     domain.Unmatched,
	}
}

func ledgerLine(id string, txType domain.TransactionType, amount float64, date time.Time) domain.LedgerLineSnapshot {
	return domain.LedgerLineSnapshot{
		LineID:          id,
		TransactionType: txType,
		Amount:          decimal.NewFromFloat(amount),
		EntryDate:       date,
	}
}

func TestAutoMatch_PicksClosestWithinTolerance(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.BankTransaction{bankTxn("txn-1", 150000, txnDate)}
	lines := []domain.LedgerLineSnapshot{
		ledgerLine("line-close", domain.Debit, 150000, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)),
		ledgerLine("line-far", domain.Debit, 150000, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	result := domain.AutoMatch(txns, lines, 3)
	require.Len(t, result.Proposals, 1)
	assert.Equal(t, "txn-1", result.Proposals[0].TransactionID)
	assert.Equal(t, "line-close", result.Proposals[0].LineID)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 0, result.UnmatchedCount)
}

func TestAutoMatch_AllCandidatesOutsideTolerance(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.BankTransaction{bankTxn("txn-1", 150000, txnDate)}
	lines := []domain.LedgerLineSnapshot{
		ledgerLine("line-a", domain.Debit, 150000, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)),
		ledgerLine("line-b", domain.Debit, 150000, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)),
	}

	result := domain.AutoMatch(txns, lines, 3)
	assert.Empty(t, result.Proposals)
	assert.Equal(t, 1, result.UnmatchedCount)
}

func TestAutoMatch_TiedCandidatesStayUnmatched(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.BankTransaction{bankTxn("txn-1", 150000, txnDate)}
	lines := []domain.LedgerLineSnapshot{
		ledgerLine("line-before", domain.Debit, 150000, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)),
		ledgerLine("line-after", domain.Debit, 150000, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)),
	}

	result := domain.AutoMatch(txns, lines, 3)
	assert.Empty(t, result.Proposals)
	assert.Equal(t, 1, result.UnmatchedCount)
}

func TestAutoMatch_DirectionAndAmountMustAgree(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	// outflow of 200 needs a credit line of exactly 200
	txns := []domain.BankTransaction{bankTxn("txn-out", -200, txnDate)}
	lines := []domain.LedgerLineSnapshot{
		ledgerLine("line-debit", domain.Debit, 200, txnDate),
		ledgerLine("line-wrong-amount", domain.Credit, 200.01, txnDate),
		ledgerLine("line-right", domain.Credit, 200, txnDate),
	}

	result := domain.AutoMatch(txns, lines, 3)
	require.Len(t, result.Proposals, 1)
	assert.Equal(t, "line-right", result.Proposals[0].LineID)
}

func TestAutoMatch_LineConsumedOnlyOnce(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.BankTransaction{
		bankTxn("txn-1", 100, txnDate),
		bankTxn("txn-2", 100, txnDate),
	}
	lines := []domain.LedgerLineSnapshot{
		ledgerLine("line-1", domain.Debit, 100, txnDate),
	}

	result := domain.AutoMatch(txns, lines, 3)
	require.Len(t, result.Proposals, 1)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)
}

func TestAutoMatch_AlreadyMatchedTransactionsSkipped(t *testing.T) {
	txnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	matched := bankTxn("txn-1", 100, txnDate)
	matched.MatchStatus = domain.Matched
	txns := []domain.BankTransaction{matched}
	lines := []domain.LedgerLineSnapshot{ledgerLine("line-1", domain.Debit, 100, txnDate)}

	result := domain.AutoMatch(txns, lines, 3)
	assert.Empty(t, result.Proposals)
	assert.Equal(t, 1, result.MatchedCount)
}
