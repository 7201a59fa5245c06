package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo        AccountRepositoryFacade
	JournalRepo        JournalEntryRepositoryWithTx
	FiscalPeriodRepo   FiscalPeriodRepositoryFacade
	BalanceRepo        AccountBalanceRepositoryFacade
	BankAccountRepo    BankAccountRepositoryFacade
	BankStatementRepo  BankStatementRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
}
