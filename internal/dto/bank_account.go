package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	LedgerAccountID string                 `json:"ledgerAccountID" binding:"required"`
	BankName        string                 `json:"bankName" binding:"required"`
	AccountNumber   string                 `json:"accountNumber" binding:"required"`
	AccountType     domain.BankAccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS MONEY_MARKET CREDIT_LINE"`
	CurrencyCode    string                 `json:"currencyCode" binding:"omitempty,currencycode"` // Optional, defaults to the configured currency
}

// UpdateBankAccountRequest defines the data allowed for updating a bank account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateBankAccountRequest struct {
	BankName      *string                 `json:"bankName"`
	AccountNumber *string                 `json:"accountNumber"`
	AccountType   *domain.BankAccountType `json:"accountType" binding:"omitempty,oneof=CHECKING SAVINGS MONEY_MARKET CREDIT_LINE"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID         string                   `json:"bankAccountID"`
	LedgerAccountID       string                   `json:"ledgerAccountID"`
	BankName              string                   `json:"bankName"`
	AccountNumber         string                   `json:"accountNumber"`
	AccountType           domain.BankAccountType   `json:"accountType"`
	CurrencyCode          string                   `json:"currencyCode"`
	Status                domain.BankAccountStatus `json:"status"`
	LastReconciledDate    *time.Time               `json:"lastReconciledDate,omitempty"`
	LastReconciledBalance decimal.Decimal          `json:"lastReconciledBalance"`
	CreatedAt             time.Time                `json:"createdAt"`
	CreatedBy             string                   `json:"createdBy"`
	LastUpdatedAt         time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy         string                   `json:"lastUpdatedBy"`
}

// ListBankAccountsParams defines query parameters for listing bank accounts.
type ListBankAccountsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

// ListBankAccountsResponse wraps the list of bank accounts.
type ListBankAccountsResponse struct {
	BankAccounts []BankAccountResponse `json:"bankAccounts"`
}

// ToBankAccountResponse converts a domain.BankAccount to its response DTO.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:         b.BankAccountID,
		LedgerAccountID:       b.LedgerAccountID,
		BankName:              b.BankName,
		AccountNumber:         b.AccountNumber,
		AccountType:           b.AccountType,
		CurrencyCode:          b.CurrencyCode,
		Status:                b.Status,
		LastReconciledDate:    b.LastReconciledDate,
		LastReconciledBalance: b.LastReconciledBalance,
		CreatedAt:             b.CreatedAt,
		CreatedBy:             b.CreatedBy,
		LastUpdatedAt:         b.LastUpdatedAt,
		LastUpdatedBy:         b.LastUpdatedBy,
	}
}

// ToBankAccountResponses converts a slice of bank accounts to response DTOs.
func ToBankAccountResponses(accounts []domain.BankAccount) []BankAccountResponse {
	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToBankAccountResponse(&accounts[i])
	}
	return responses
}
