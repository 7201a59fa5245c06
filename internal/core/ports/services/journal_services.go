package services

import (
	"context"

	"github.com/openbooks/ledger_app/internal/core/domain"
	"github.com/openbooks/ledger_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a token-paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateEntry persists a new draft entry with its lines.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry updates details and/or lines of a draft entry.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry entirely.
	DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error

	// PostEntry transitions a draft entry to posted. Fails unless the entry's
	// fiscal period is open.
	PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// VoidEntry transitions a posted entry to voided with a mandatory reason.
	VoidEntry(ctx context.Context, entryID string, reason string, requestingUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
