package dto

import (
	"time"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
type CreateAccountRequest struct {
	Code         string             `json:"code" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,currencycode"` // Optional, defaults to the configured currency
	Description  string             `json:"description"`  // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	NormalSide    string             `json:"normalSide"`
	CurrencyCode  string             `json:"currencyCode"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListAccountsResponse wraps a page of accounts with the token for the next page.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalSide:    string(acc.AccountType.NormalSide()),
		CurrencyCode:  acc.CurrencyCode,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
