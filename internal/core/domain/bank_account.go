package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BankAccountStatus indicates the lifecycle state of a bank account.
type BankAccountStatus string

const (
	BankAccountActive   BankAccountStatus = "ACTIVE"
	BankAccountInactive BankAccountStatus = "INACTIVE"
	BankAccountClosed   BankAccountStatus = "CLOSED"
)

// BankAccountType classifies the account at the bank.
type BankAccountType string

const (
	BankAccountChecking    BankAccountType = "CHECKING"
	BankAccountSavings     BankAccountType = "SAVINGS"
	BankAccountMoneyMarket BankAccountType = "MONEY_MARKET"
	BankAccountCreditLine  BankAccountType = "CREDIT_LINE"
)

// BankAccount links a real-world bank account to its ledger cash account and
// carries the reconciliation cursor (last reconciled period and balance).
type BankAccount struct {
	BankAccountID         string            `json:"bankAccountID"` // Primary Key (UUID)
	LedgerAccountID       string            `json:"ledgerAccountID"`
	BankName              string            `json:"bankName"`
	AccountNumber         string            `json:"accountNumber"`
	AccountType           BankAccountType   `json:"accountType"`
	CurrencyCode          string            `json:"currencyCode"`
	Status                BankAccountStatus `json:"status"`
	LastReconciledDate    *time.Time        `json:"lastReconciledDate"`
	LastReconciledBalance decimal.Decimal   `json:"lastReconciledBalance"`
	AuditFields
}

// NewBankAccount validates required fields and returns an Active bank account.
func NewBankAccount(bankAccountID, ledgerAccountID, bankName, accountNumber string, accountType BankAccountType, currencyCode, createdBy string, now time.Time) (*BankAccount, error) {
	required := map[string]string{
		"ledger account id": ledgerAccountID,
		"bank name":         bankName,
		"account number":    accountNumber,
		"account type":      string(accountType),
		"currency code":     currencyCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", apperrors.ErrValidation, field)
		}
	}
	return &BankAccount{
		BankAccountID:   bankAccountID,
		LedgerAccountID: ledgerAccountID,
		BankName:        bankName,
		AccountNumber:   accountNumber,
		AccountType:     accountType,
		CurrencyCode:    currencyCode,
		Status:          BankAccountActive,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

// IsActive is true only in the Active state.
func (b *BankAccount) IsActive() bool { return b.Status == BankAccountActive }

func (b *BankAccount) rejectIfClosed() error {
	if b.Status == BankAccountClosed {
		return apperrors.NewStateError("bank account", string(BankAccountClosed), "not "+string(BankAccountClosed))
	}
	return nil
}

// UpdateDetails changes bank name, account number or account type. Closed
// accounts reject all updates; bankName and accountNumber may never become empty.
func (b *BankAccount) UpdateDetails(bankName, accountNumber *string, accountType *BankAccountType, updatedBy string, now time.Time) error {
	if err := b.rejectIfClosed(); err != nil {
		return err
	}
	if bankName != nil {
		if strings.TrimSpace(*bankName) == "" {
			return fmt.Errorf("%w: bank name cannot be empty", apperrors.ErrValidation)
		}
		b.BankName = *bankName
	}
	if accountNumber != nil {
		if strings.TrimSpace(*accountNumber) == "" {
			return fmt.Errorf("%w: account number cannot be empty", apperrors.ErrValidation)
		}
		b.AccountNumber = *accountNumber
	}
	if accountType != nil {
		b.AccountType = *accountType
	}
	b.LastUpdatedAt = now
	b.LastUpdatedBy = updatedBy
	return nil
}

// RecordReconciliation advances the reconciliation cursor after an approved
// reconciliation. Fails on Closed accounts.
func (b *BankAccount) RecordReconciliation(balance decimal.Decimal, reconciledAt time.Time, updatedBy string, now time.Time) error {
	if err := b.rejectIfClosed(); err != nil {
		return err
	}
	b.LastReconciledDate = &reconciledAt
	b.LastReconciledBalance = balance
	b.LastUpdatedAt = now
	if updatedBy != "" {
		b.LastUpdatedBy = updatedBy
	}
	return nil
}

// Deactivate moves Active -> Inactive.
func (b *BankAccount) Deactivate(updatedBy string, now time.Time) error {
	if err := b.rejectIfClosed(); err != nil {
		return err
	}
	if b.Status != BankAccountActive {
		return apperrors.NewStateError("bank account", string(b.Status), string(BankAccountActive))
	}
	b.Status = BankAccountInactive
	b.LastUpdatedAt = now
	b.LastUpdatedBy = updatedBy
	return nil
}

// Reactivate moves Inactive -> Active.
func (b *BankAccount) Reactivate(updatedBy string, now time.Time) error {
	if err := b.rejectIfClosed(); err != nil {
		return err
	}
	if b.Status != BankAccountInactive {
		return apperrors.NewStateError("bank account", string(b.Status), string(BankAccountInactive))
	}
	b.Status = BankAccountActive
	b.LastUpdatedAt = now
	b.LastUpdatedBy = updatedBy
	return nil
}

// Close is terminal. Closing an already-closed account fails.
func (b *BankAccount) Close(updatedBy string, now time.Time) error {
	if err := b.rejectIfClosed(); err != nil {
		return err
	}
	b.Status = BankAccountClosed
	b.LastUpdatedAt = now
	b.LastUpdatedBy = updatedBy
	return nil
}

// NeedsReconciliation reports whether the account still needs a reconciliation
// for the given period: true when never reconciled or when the cursor precedes
// the period; false once reconciled within (or after) it, and false
// unconditionally for non-Active accounts.
func (b *BankAccount) NeedsReconciliation(year, month int) bool {
	if !b.IsActive() {
		return false
	}
	if b.LastReconciledDate == nil {
		return true
	}
	lastYear, lastMonth := b.LastReconciledDate.Year(), int(b.LastReconciledDate.Month())
	return PeriodPrecedes(lastYear, lastMonth, year, month)
}
