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

// bankAccountService manages bank account registration and lifecycle.
type bankAccountService struct {
	BaseService
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	accountRepo     portsrepo.AccountReader
	defaultCurrency string
}

// NewBankAccountService creates a new bank account service.
func NewBankAccountService(bankAccountRepo portsrepo.BankAccountRepositoryFacade, accountRepo portsrepo.AccountReader, defaultCurrency string) portssvc.BankAccountSvcFacade {
	return &bankAccountService{
		bankAccountRepo: bankAccountRepo,
		accountRepo:     accountRepo,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

// CreateBankAccount registers a bank account linked to an existing, active
// asset ledger account.
func (s *bankAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	ledger, err := s.accountRepo.FindAccountByID(ctx, req.LedgerAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, req.LedgerAccountID)
		}
		return nil, fmt.Errorf("failed to find ledger account %s: %w", req.LedgerAccountID, err)
	}
	if !ledger.IsActive {
		return nil, fmt.Errorf("%w: ledger account %s is inactive", apperrors.ErrValidation, req.LedgerAccountID)
	}
	if ledger.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: ledger account %s must be an asset account", apperrors.ErrValidation, req.LedgerAccountID)
	}

	currencyCode := req.CurrencyCode
	if currencyCode == "" {
		currencyCode = s.defaultCurrency
	}

	now := time.Now().UTC()
	account, err := domain.NewBankAccount(uuid.NewString(), req.LedgerAccountID, req.BankName, req.AccountNumber, req.AccountType, currencyCode, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.bankAccountRepo.SaveBankAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to save bank account", slog.String("bank_name", req.BankName))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", account.BankAccountID), slog.String("ledger_account_id", account.LedgerAccountID))
	return account, nil
}

// GetBankAccountByID retrieves a bank account.
func (s *bankAccountService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID))
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return account, nil
}

// ListBankAccounts retrieves bank accounts, optionally active only.
func (s *bankAccountService) ListBankAccounts(ctx context.Context, params dto.ListBankAccountsParams) (*dto.ListBankAccountsResponse, error) {
	accounts, err := s.bankAccountRepo.ListBankAccounts(ctx, params.ActiveOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts")
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	return &dto.ListBankAccountsResponse{BankAccounts: dto.ToBankAccountResponses(accounts)}, nil
}

// UpdateBankAccount changes the mutable fields of a bank account.
func (s *bankAccountService) UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, requestingUserID string) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}

	if err := account.UpdateDetails(req.BankName, req.AccountNumber, req.AccountType, requestingUserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.bankAccountRepo.UpdateBankAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update bank account", slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to update bank account: %w", err)
	}

	s.LogInfo(ctx, "Bank account updated", slog.String("bank_account_id", bankAccountID))
	return account, nil
}

// transitionBankAccount applies a lifecycle change and persists it conditionally
// on the status the aggregate was loaded with.
func (s *bankAccountService) transitionBankAccount(ctx context.Context, bankAccountID string, requestingUserID string, apply func(*domain.BankAccount, string, time.Time) error) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	expected := account.Status

	if err := apply(account, requestingUserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.bankAccountRepo.UpdateBankAccountStatus(ctx, *account, expected); err != nil {
		s.LogError(ctx, err, "Failed to change bank account status", slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to change bank account status: %w", err)
	}

	s.LogInfo(ctx, "Bank account status changed", slog.String("bank_account_id", bankAccountID), slog.String("status", string(account.Status)))
	return account, nil
}

// DeactivateBankAccount moves an active account to inactive.
func (s *bankAccountService) DeactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error) {
	return s.transitionBankAccount(ctx, bankAccountID, requestingUserID, (*domain.BankAccount).Deactivate)
}

// ReactivateBankAccount moves an inactive account back to active.
func (s *bankAccountService) ReactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error) {
	return s.transitionBankAccount(ctx, bankAccountID, requestingUserID, (*domain.BankAccount).Reactivate)
}

// CloseBankAccount closes an account permanently.
func (s *bankAccountService) CloseBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) (*domain.BankAccount, error) {
	return s.transitionBankAccount(ctx, bankAccountID, requestingUserID, (*domain.BankAccount).Close)
}
