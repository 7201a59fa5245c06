package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide returns the account's normal-balance side: the direction in which
// its balance naturally grows. Assets and Expenses grow on the debit side,
// Liabilities, Equity and Revenue on the credit side.
func (t AccountType) NormalSide() TransactionType {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Valid reports whether the account type is one of the five known types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a chart-of-accounts entry. The ledger engine consumes it as a
// read model: the normal-balance side drives balance sign arithmetic.
type Account struct {
	AccountID    string      `json:"accountID"` // Primary Key (UUID)
	Code         string      `json:"code"`      // Human-facing account code, e.g. "1010"
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	Description  string      `json:"description"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}

// NewAccount validates required fields and returns an active account.
func NewAccount(accountID, code, name string, accountType AccountType, currencyCode, description, createdBy string, now time.Time) (*Account, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	if strings.TrimSpace(currencyCode) == "" {
		return nil, fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	return &Account{
		AccountID:    accountID,
		Code:         code,
		Name:         name,
		AccountType:  accountType,
		CurrencyCode: currencyCode,
		Description:  description,
		IsActive:     true,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}
