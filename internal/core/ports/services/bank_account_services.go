package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// BankAccountReaderSvc defines read operations for bank accounts.
type BankAccountReaderSvc interface {
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, params dto.ListBankAccountsParams) (*dto.ListBankAccountsResponse, error)
}

// BankAccountWriterSvc defines write and lifecycle operations for bank accounts.
type BankAccountWriterSvc interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, requestingUserID string) (*domain.BankAccount, error)
	DeactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error)
	ReactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error)
	CloseBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error)
}

// BankAccountSvcFacade combines all bank-account service interfaces.
type BankAccountSvcFacade interface {
	BankAccountReaderSvc
	BankAccountWriterSvc
}
