package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// balanceService computes and serves per-period account balance roll-ups.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.AccountBalanceRepositoryFacade
	journalRepo portsrepo.JournalEntryReader
	accountRepo portsrepo.AccountReader
	periodRepo  portsrepo.FiscalPeriodReader
}

// NewBalanceService creates a new balance service.
func NewBalanceService(balanceRepo portsrepo.AccountBalanceRepositoryFacade, journalRepo portsrepo.JournalEntryReader, accountRepo portsrepo.AccountReader, periodRepo portsrepo.FiscalPeriodReader) portssvc.BalanceSvcFacade {
	return &balanceService{
		balanceRepo: balanceRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance retrieves one account's roll-up for one period.
func (s *balanceService) GetBalance(ctx context.Context, accountID string, year, month int) (*domain.AccountBalance, error) {
	balance, err := s.balanceRepo.FindBalance(ctx, accountID, year, month)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account balance", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find balance for account %s in %04d-%02d: %w", accountID, year, month, err)
	}
	return balance, nil
}

// ListBalancesForPeriod retrieves every balance row computed for a period.
func (s *balanceService) ListBalancesForPeriod(ctx context.Context, year, month int) (*dto.ListBalancesResponse, error) {
	balances, err := s.balanceRepo.ListBalancesForPeriod(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list balances", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to list balances for %04d-%02d: %w", year, month, err)
	}
	resp := dto.ToListBalancesResponse(year, month, balances)
	return &resp, nil
}

// CalculateForPeriod aggregates posted lines into per-account balance rows for
// (year, month). Opening balances carry forward from the previous period's
// closing balances; accounts with no history open at zero. When an earlier
// period has already closed, missing prior-period rows are a validation
// failure rather than a silent zero start. Prior-period rows
// with no activity this month still roll forward so closing balances chain
// across periods. The run is idempotent: rows from an earlier run are
// overwritten, never duplicated. Finding nothing to process is an ordinary
// outcome reported as zero accounts.
func (s *balanceService) CalculateForPeriod(ctx context.Context, year, month int, requestingUserID string) (*domain.BalanceCalculationSummary, error) {
	lines, err := s.journalRepo.FindPostedLinesInPeriod(ctx, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch posted lines for balance calculation", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to fetch posted lines for %04d-%02d: %w", year, month, err)
	}

	type accountTotals struct {
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	totals := make(map[string]accountTotals)
	grandDebits := decimal.Zero
	grandCredits := decimal.Zero

	for _, line := range lines {
		t := totals[line.AccountID]
		if line.TransactionType == domain.Debit {
			t.debit = t.debit.Add(line.Amount)
			grandDebits = grandDebits.Add(line.Amount)
		} else {
			t.credit = t.credit.Add(line.Amount)
			grandCredits = grandCredits.Add(line.Amount)
		}
		totals[line.AccountID] = t
	}

	prevYear, prevMonth := domain.PreviousPeriod(year, month)
	priorBalances, err := s.balanceRepo.ListBalancesForPeriod(ctx, prevYear, prevMonth)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to fetch prior period balances", slog.Int("year", prevYear), slog.Int("month", prevMonth))
		return nil, fmt.Errorf("failed to fetch balances for %04d-%02d: %w", prevYear, prevMonth, err)
	}
	priorByAccount := make(map[string]domain.AccountBalance, len(priorBalances))
	for _, b := range priorBalances {
		priorByAccount[b.AccountID] = b
	}

	// Periods chain on each other: once any earlier period has closed, the
	// previous period's balances must exist before this one can be computed.
	// Only the ledger's very first period starts from zero with no prior rows.
	if len(priorByAccount) == 0 {
		hasEarlier, err := s.periodRepo.HasClosedPeriodBefore(ctx, year, month)
		if err != nil {
			s.LogError(ctx, err, "Failed to check for earlier closed periods", slog.Int("year", year), slog.Int("month", month))
			return nil, fmt.Errorf("failed to check for closed periods before %04d-%02d: %w", year, month, err)
		}
		if hasEarlier {
			return nil, fmt.Errorf("%w: balances for %04d-%02d have not been calculated; run the balance calculation for the prior period first", apperrors.ErrValidation, prevYear, prevMonth)
		}
	}

	// Union of accounts active this period and accounts carrying a balance in.
	accountIDs := make([]string, 0, len(totals)+len(priorByAccount))
	seen := make(map[string]bool, len(totals)+len(priorByAccount))
	for id := range totals {
		seen[id] = true
		accountIDs = append(accountIDs, id)
	}
	for id := range priorByAccount {
		if !seen[id] {
			seen[id] = true
			accountIDs = append(accountIDs, id)
		}
	}
	sort.Strings(accountIDs)

	if len(accountIDs) == 0 {
		s.LogInfo(ctx, "Balance calculation found nothing to process", slog.Int("year", year), slog.Int("month", month))
		return &domain.BalanceCalculationSummary{
			Year:         year,
			Month:        month,
			TotalDebits:  decimal.Zero,
			TotalCredits: decimal.Zero,
			IsBalanced:   true,
		}, nil
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for balance calculation")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	now := time.Now().UTC()
	balances := make([]domain.AccountBalance, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		account, found := accounts[accountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s referenced by posted lines", apperrors.ErrNotFound, accountID)
		}

		opening := decimal.Zero
		if prior, ok := priorByAccount[accountID]; ok {
			opening = prior.ClosingBalance
		}
		t := totals[accountID]
		balances = append(balances, domain.AccountBalance{
			AccountID:      accountID,
			Year:           year,
			Month:          month,
			OpeningBalance: opening,
			DebitTotal:     t.debit,
			CreditTotal:    t.credit,
			ClosingBalance: domain.ComputeClosingBalance(opening, t.debit, t.credit, account.AccountType.NormalSide()),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		})
	}

	if err := s.balanceRepo.UpsertBalances(ctx, balances); err != nil {
		s.LogError(ctx, err, "Failed to persist balance rows", slog.Int("year", year), slog.Int("month", month))
		return nil, fmt.Errorf("failed to persist balances for %04d-%02d: %w", year, month, err)
	}

	summary := &domain.BalanceCalculationSummary{
		Year:              year,
		Month:             month,
		AccountsProcessed: len(balances),
		TotalDebits:       grandDebits,
		TotalCredits:      grandCredits,
		IsBalanced:        domain.AmountsEqual(grandDebits, grandCredits),
	}
	if !summary.IsBalanced {
		s.LogError(ctx, fmt.Errorf("period debits %s do not equal credits %s", grandDebits, grandCredits),
			"Balance calculation found an unbalanced period", slog.Int("year", year), slog.Int("month", month))
	} else {
		s.LogInfo(ctx, "Balance calculation finished",
			slog.Int("year", year), slog.Int("month", month), slog.Int("accounts", len(balances)))
	}
	return summary, nil
}
