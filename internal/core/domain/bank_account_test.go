package domain_test

import (
	"testing"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveBankAccount(t *testing.T) *domain.BankAccount {
	t.Helper()
	acct, err := domain.NewBankAccount("bank-1", "acc-1010", "First National", "123456789", domain.BankAccountChecking, "USD", "admin", time.Now().UTC())
	require.NoError(t, err)
	return acct
}

func TestNewBankAccount_RequiredFields(t *testing.T) {
	now := time.Now().UTC()

	_, err := domain.NewBankAccount("bank-1", "", "First National", "123", domain.BankAccountChecking, "USD", "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewBankAccount("bank-1", "acc-1010", "  ", "123", domain.BankAccountChecking, "USD", "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewBankAccount("bank-1", "acc-1010", "First National", "123", domain.BankAccountChecking, "", "admin", now)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	acct, err := domain.NewBankAccount("bank-1", "acc-1010", "First National", "123", domain.BankAccountChecking, "USD", "admin", now)
	require.NoError(t, err)
	assert.Equal(t, domain.BankAccountActive, acct.Status)
	assert.True(t, acct.IsActive())
}

func TestBankAccount_Lifecycle(t *testing.T) {
	now := time.Now().UTC()
	acct := newActiveBankAccount(t)

	require.NoError(t, acct.Deactivate("admin", now))
	assert.Equal(t, domain.BankAccountInactive, acct.Status)
	assert.False(t, acct.IsActive())

	// deactivating twice fails
	assert.ErrorIs(t, acct.Deactivate("admin", now), apperrors.ErrConflict)

	require.NoError(t, acct.Reactivate("admin", now))
	assert.True(t, acct.IsActive())

	require.NoError(t, acct.Close("admin", now))
	assert.Equal(t, domain.BankAccountClosed, acct.Status)

	// closed is terminal for everything
	assert.ErrorIs(t, acct.Close("admin", now), apperrors.ErrConflict)
	assert.ErrorIs(t, acct.Deactivate("admin", now), apperrors.ErrConflict)
	assert.ErrorIs(t, acct.Reactivate("admin", now), apperrors.ErrConflict)
	name := "Other Bank"
	assert.ErrorIs(t, acct.UpdateDetails(&name, nil, nil, "admin", now), apperrors.ErrConflict)
	assert.ErrorIs(t, acct.RecordReconciliation(decimal.NewFromInt(100), now, "admin", now), apperrors.ErrConflict)
}

func TestBankAccount_UpdateDetails(t *testing.T) {
	now := time.Now().UTC()
	acct := newActiveBankAccount(t)

	empty := " "
	assert.ErrorIs(t, acct.UpdateDetails(&empty, nil, nil, "admin", now), apperrors.ErrValidation)
	assert.ErrorIs(t, acct.UpdateDetails(nil, &empty, nil, "admin", now), apperrors.ErrValidation)

	name := "Second National"
	number := "987654321"
	accountType := domain.BankAccountSavings
	require.NoError(t, acct.UpdateDetails(&name, &number, &accountType, "admin", now))
	assert.Equal(t, "Second National", acct.BankName)
	assert.Equal(t, "987654321", acct.AccountNumber)
	assert.Equal(t, domain.BankAccountSavings, acct.AccountType)
}

func TestBankAccount_NeedsReconciliation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("never reconciled", func(t *testing.T) {
		acct := newActiveBankAccount(t)
		assert.True(t, acct.NeedsReconciliation(2025, 1))
	})

	t.Run("false immediately after reconciliation within the period", func(t *testing.T) {
		acct := newActiveBankAccount(t)
		reconciledAt := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		require.NoError(t, acct.RecordReconciliation(decimal.NewFromInt(5000), reconciledAt, "approver", now))
		assert.False(t, acct.NeedsReconciliation(2025, 1))
		assert.True(t, acct.NeedsReconciliation(2025, 2))
	})

	t.Run("cursor preceding the period", func(t *testing.T) {
		acct := newActiveBankAccount(t)
		reconciledAt := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		require.NoError(t, acct.RecordReconciliation(decimal.NewFromInt(5000), reconciledAt, "approver", now))
		assert.True(t, acct.NeedsReconciliation(2025, 1))
	})

	t.Run("false for non-active accounts regardless of history", func(t *testing.T) {
		acct := newActiveBankAccount(t)
		require.NoError(t, acct.Deactivate("admin", now))
		assert.False(t, acct.NeedsReconciliation(2025, 1))

		closed := newActiveBankAccount(t)
		require.NoError(t, closed.Close("admin", now))
		assert.False(t, closed.NeedsReconciliation(2025, 1))
	})
}
