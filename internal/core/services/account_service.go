package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	defaultCurrency string
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, defaultCurrency string) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:     accountRepo,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new chart-of-accounts entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	currencyCode := req.CurrencyCode
	if currencyCode == "" {
		currencyCode = s.defaultCurrency
	}

	now := time.Now().UTC()
	account, err := domain.NewAccount(uuid.NewString(), req.Code, req.Name, req.AccountType, currencyCode, req.Description, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves a token-paginated page of accounts.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &dto.ListAccountsResponse{
		Accounts:  dto.ToListAccountResponse(accounts),
		NextToken: nextToken,
	}, nil
}

// UpdateAccount changes the mutable fields of an account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}
