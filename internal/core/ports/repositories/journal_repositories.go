package repositories

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entries and their lines.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries using token-based pagination.
	ListEntries(ctx context.Context, limit int, nextToken string) ([]domain.JournalEntry, string, error)

	// FindPostedLinesInPeriod retrieves every line belonging to a Posted entry
	// whose entry date falls inside the given (year, month). Used by the
	// balance calculator.
	FindPostedLinesInPeriod(ctx context.Context, year, month int) ([]domain.JournalLine, error)

	// FindUnmatchedPostedLines retrieves posted lines on the given ledger
	// account not yet consumed by any reconciliation match, as snapshots
	// carrying their entry dates. Used by the auto matcher.
	FindUnmatchedPostedLines(ctx context.Context, accountID string, year, month int) ([]domain.LedgerLineSnapshot, error)
}

// JournalEntryWriter defines write operations for journal entries.
type JournalEntryWriter interface {
	// SaveEntry persists a new draft entry together with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateDraftEntry rewrites the mutable fields and lines of a draft entry.
	// The update is conditional on the stored status still being Draft; a lost
	// race surfaces as a StateError, a missing row as ErrNotFound.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus persists a lifecycle transition as a conditional
	// update keyed on the expected current status.
	UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry, expected domain.EntryStatus) error

	// DeleteDraftEntry removes a draft entry and its lines, conditional on
	// the stored status still being Draft.
	DeleteDraftEntry(ctx context.Context, entryID string) error
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}

// JournalEntryRepositoryWithTx extends the facade with transaction control.
type JournalEntryRepositoryWithTx interface {
	JournalEntryRepositoryFacade
	TransactionManager
}
