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

func line(accountID string, txType domain.TransactionType, amount float64) domain.JournalLine {
	return domain.JournalLine{
		LineID:          accountID + "-" + string(txType),
		AccountID:       accountID,
		TransactionType: txType,
		Amount:          decimal.NewFromFloat(amount),
	}
}

func newDraftEntry(t *testing.T) *domain.JournalEntry {
	t.Helper()
	entry, err := domain.NewJournalEntry(domain.NewJournalEntryInput{
		EntryDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Invoice 42 revenue",
		Lines: []domain.JournalLine{
			line("acc-1010", domain.Debit, 1000000),
			line("acc-4010", domain.Credit, 1000000),
		},
	}, "entry-1", "user-1", time.Now().UTC())
	require.NoError(t, err)
	return entry
}

func TestNewJournalEntry_Validation(t *testing.T) {
	now := time.Now().UTC()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		description string
		lines       []domain.JournalLine
		wantErr     error
	}{
		{
			name:        "balanced two line entry accepted",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 100),
				line("b", domain.Credit, 100),
			},
		},
		{
			name:        "multi line entry balanced within epsilon",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 50.005),
				line("b", domain.Debit, 50),
				line("c", domain.Credit, 100),
			},
		},
		{
			name:        "single line rejected",
			description: "ok",
			lines:       []domain.JournalLine{line("a", domain.Debit, 100)},
			wantErr:     domain.ErrEntryTooFewLines,
		},
		{
			name:        "missing credit side rejected",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 50),
				line("b", domain.Debit, 50),
			},
			wantErr: domain.ErrEntryMissingCredit,
		},
		{
			name:        "missing debit side rejected",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Credit, 50),
				line("b", domain.Credit, 50),
			},
			wantErr: domain.ErrEntryMissingDebit,
		},
		{
			name:        "unbalanced totals rejected",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 100),
				line("b", domain.Credit, 99.5),
			},
			wantErr: domain.ErrEntryUnbalanced,
		},
		{
			name:        "non positive amount rejected",
			description: "ok",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 0),
				line("b", domain.Credit, 0),
			},
			wantErr: domain.ErrEntryAmountNotPositive,
		},
		{
			name:        "empty description rejected",
			description: "   ",
			lines: []domain.JournalLine{
				line("a", domain.Debit, 100),
				line("b", domain.Credit, 100),
			},
			wantErr: domain.ErrEntryDescriptionEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := domain.NewJournalEntry(domain.NewJournalEntryInput{
				EntryDate:   date,
				Description: tt.description,
				Lines:       tt.lines,
			}, "entry-1", "user-1", now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.EntryDraft, entry.Status)
			assert.Equal(t, domain.EntryManual, entry.EntryType)
			assert.NotEmpty(t, entry.EntryNumber)
			for _, l := range entry.Lines {
				assert.Equal(t, "entry-1", l.EntryID)
			}
		})
	}
}

func TestJournalEntry_Totals(t *testing.T) {
	entry := newDraftEntry(t)
	assert.True(t, entry.TotalDebits().Equal(decimal.NewFromInt(1000000)))
	assert.True(t, entry.TotalCredits().Equal(decimal.NewFromInt(1000000)))
}

func TestJournalEntry_PostThenVoidTwice(t *testing.T) {
	entry := newDraftEntry(t)
	now := time.Now().UTC()

	event, err := entry.Post("poster", now)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPosted, entry.Status)
	assert.Equal(t, "poster", entry.PostedBy)
	assert.Equal(t, entry.EntryID, event.EntryID)

	// second post fails
	_, err = entry.Post("poster", now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	voided, err := entry.Void("voider", "duplicate entry", now)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryVoided, entry.Status)
	assert.Equal(t, "duplicate entry", voided.Reason)

	_, err = entry.Void("voider", "again", now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var stateErr *apperrors.StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(domain.EntryVoided), stateErr.Current)
	assert.Equal(t, string(domain.EntryPosted), stateErr.Required)
}

func TestJournalEntry_VoidRequiresReason(t *testing.T) {
	entry := newDraftEntry(t)
	now := time.Now().UTC()
	_, err := entry.Post("poster", now)
	require.NoError(t, err)

	_, err = entry.Void("voider", "no", now)
	assert.ErrorIs(t, err, domain.ErrVoidReasonTooShort)
	assert.Equal(t, domain.EntryPosted, entry.Status)
}

func TestJournalEntry_VoidingDraftFails(t *testing.T) {
	entry := newDraftEntry(t)
	_, err := entry.Void("voider", "mistake", time.Now().UTC())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestJournalEntry_EditOnlyWhileDraft(t *testing.T) {
	entry := newDraftEntry(t)
	now := time.Now().UTC()

	desc := "updated description"
	require.NoError(t, entry.UpdateDetails(&desc, nil, "editor", now))
	assert.Equal(t, desc, entry.Description)

	newLines := []domain.JournalLine{
		line("a", domain.Debit, 250),
		line("b", domain.Credit, 250),
	}
	require.NoError(t, entry.UpdateLines(newLines, "editor", now))
	assert.Len(t, entry.Lines, 2)

	// unbalanced replacement is rejected and leaves lines untouched
	err := entry.UpdateLines([]domain.JournalLine{
		line("a", domain.Debit, 250),
		line("b", domain.Credit, 100),
	}, "editor", now)
	assert.ErrorIs(t, err, domain.ErrEntryUnbalanced)
	assert.True(t, entry.Lines[0].Amount.Equal(decimal.NewFromInt(250)))

	_, err = entry.Post("poster", now)
	require.NoError(t, err)

	assert.ErrorIs(t, entry.UpdateDetails(&desc, nil, "editor", now), domain.ErrOnlyDraftEditable)
	assert.ErrorIs(t, entry.UpdateLines(newLines, "editor", now), domain.ErrOnlyDraftEditable)
}

func TestJournalEntry_Capabilities(t *testing.T) {
	entry := newDraftEntry(t)
	assert.True(t, entry.CanEdit())
	assert.True(t, entry.CanDelete())
	assert.True(t, entry.CanPost())
	assert.False(t, entry.CanVoid())

	now := time.Now().UTC()
	_, err := entry.Post("poster", now)
	require.NoError(t, err)
	assert.False(t, entry.CanEdit())
	assert.False(t, entry.CanPost())
	assert.True(t, entry.CanVoid())

	_, err = entry.Void("voider", "wrong period", now)
	require.NoError(t, err)
	assert.False(t, entry.CanVoid())
}
