package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for ledger accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
}

// AccountWriterSvc defines write operations for ledger accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
