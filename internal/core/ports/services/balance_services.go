package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// BalanceReaderSvc defines read operations for per-period account balances.
type BalanceReaderSvc interface {
	// GetBalance retrieves one account's roll-up for one period.
	GetBalance(ctx context.Context, accountID string, year, month int) (*domain.AccountBalance, error)

	// ListBalancesForPeriod retrieves every balance row computed for a period.
	ListBalancesForPeriod(ctx context.Context, year, month int) (*dto.ListBalancesResponse, error)
}

// BalanceCalculatorSvc defines the roll-up operation run at period close.
type BalanceCalculatorSvc interface {
	// CalculateForPeriod aggregates posted lines into per-account balance
	// rows for (year, month), overwriting any rows from a prior run. The
	// summary reports whether total debits equal total credits within the
	// balance epsilon.
	CalculateForPeriod(ctx context.Context, year, month int, requestingUserID string) (*domain.BalanceCalculationSummary, error)
}

// BalanceSvcFacade combines all balance-related service interfaces.
type BalanceSvcFacade interface {
	BalanceReaderSvc
	BalanceCalculatorSvc
}
