package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalEntryRepository(dbPool)
	fiscalPeriodRepo := newPgxFiscalPeriodRepository(dbPool)
	balanceRepo := newPgxBalanceRepository(dbPool)
	bankAccountRepo := newPgxBankAccountRepository(dbPool)
	bankStatementRepo := newPgxBankStatementRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:        accountRepo,
		JournalRepo:        journalRepo,
		FiscalPeriodRepo:   fiscalPeriodRepo,
		BalanceRepo:        balanceRepo,
		BankAccountRepo:    bankAccountRepo,
		BankStatementRepo:  bankStatementRepo,
		ReconciliationRepo: reconciliationRepo,
	}
}
