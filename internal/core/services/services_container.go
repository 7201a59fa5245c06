package services

import (
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	publisher := NewLogEventPublisher()

	container.Account = NewAccountService(repos.AccountRepo, cfg.DefaultCurrency)

	// The balance service must exist before the fiscal period service: closing
	// a period triggers the balance roll-up.
	container.Balance = NewBalanceService(repos.BalanceRepo, repos.JournalRepo, repos.AccountRepo, repos.FiscalPeriodRepo)
	container.FiscalPeriod = NewFiscalPeriodService(repos.FiscalPeriodRepo, container.Balance, publisher)

	container.Journal = NewJournalService(repos.JournalRepo, repos.FiscalPeriodRepo, repos.AccountRepo, publisher)

	container.BankAccount = NewBankAccountService(repos.BankAccountRepo, repos.AccountRepo, cfg.DefaultCurrency)
	container.Reconciliation = NewReconciliationService(
		repos.ReconciliationRepo,
		repos.BankStatementRepo,
		repos.BankAccountRepo,
		repos.JournalRepo,
		repos.BalanceRepo,
		publisher,
		cfg.AutoMatchDateToleranceDays,
	)

	return container
}
