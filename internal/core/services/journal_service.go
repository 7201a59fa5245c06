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

// journalService provides journal entry operations: draft bookkeeping plus the
// post/void transitions gated by the fiscal-period calendar.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalEntryRepositoryWithTx
	periodRepo  portsrepo.FiscalPeriodReader
	accountRepo portsrepo.AccountReader
	publisher   portssvc.EventPublisher
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalEntryRepositoryWithTx, periodRepo portsrepo.FiscalPeriodReader, accountRepo portsrepo.AccountReader, publisher portssvc.EventPublisher) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateAccounts checks that every referenced account exists and is active.
func (s *journalService) validateAccounts(ctx context.Context, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// requireOpenPeriod fails unless the fiscal period containing date exists and
// accepts postings. This is always a live read; period status is never cached.
func (s *journalService) requireOpenPeriod(ctx context.Context, date time.Time) error {
	year, month := date.Year(), int(date.Month())
	period, err := s.periodRepo.FindPeriodByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no fiscal period exists for %04d-%02d", apperrors.ErrValidation, year, month)
		}
		return fmt.Errorf("failed to look up fiscal period for %04d-%02d: %w", year, month, err)
	}
	if !period.CanPostEntries() {
		return fmt.Errorf("%w: fiscal period %04d-%02d is not open", apperrors.ErrValidation, year, month)
	}
	return nil
}

// CreateEntry validates and persists a new draft entry with its lines.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	lines := dto.ToJournalLines(req.Lines)
	for i := range lines {
		lines[i].LineID = uuid.NewString()
	}

	now := time.Now().UTC()
	entry, err := domain.NewJournalEntry(domain.NewJournalEntryInput{
		EntryDate:         req.EntryDate,
		Description:       req.Description,
		Lines:             lines,
		EntryType:         req.EntryType,
		EntryNumber:       req.EntryNumber,
		SourceService:     req.SourceService,
		SourceReferenceID: req.SourceReferenceID,
	}, uuid.NewString(), creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.validateAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry")
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a token-paginated page of entries.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// UpdateEntry updates details and/or lines of a draft entry.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	if err := entry.UpdateDetails(req.Description, req.EntryDate, requestingUserID, now); err != nil {
		return nil, err
	}
	if req.Lines != nil {
		lines := dto.ToJournalLines(req.Lines)
		for i := range lines {
			lines[i].LineID = uuid.NewString()
		}
		if err := entry.UpdateLines(lines, requestingUserID, now); err != nil {
			return nil, err
		}
		if err := s.validateAccounts(ctx, entry.Lines); err != nil {
			return nil, err
		}
	}

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteEntry removes a draft entry entirely.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if !entry.CanDelete() {
		return apperrors.NewStateError("journal entry", string(entry.Status), string(domain.EntryDraft))
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", requestingUserID))
	return nil
}

// PostEntry transitions a draft entry to posted. The entry's fiscal period must
// be open and every referenced account active. Exactly one of two concurrent
// post attempts wins; the loser gets a state conflict from the repository.
func (s *journalService) PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	if err := s.requireOpenPeriod(ctx, entry.EntryDate); err != nil {
		return nil, err
	}
	if err := s.validateAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	event, err := entry.Post(requestingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateEntryStatus(ctx, *entry, domain.EntryDraft); err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	s.publisher.Publish(ctx, "journal_entry.posted", event)
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("posted_by", requestingUserID))
	return entry, nil
}

// VoidEntry transitions a posted entry to voided with a mandatory reason. The
// entry's fiscal period must still be open: voiding changes period totals.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, reason string, requestingUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	if err := s.requireOpenPeriod(ctx, entry.EntryDate); err != nil {
		return nil, err
	}

	event, err := entry.Void(requestingUserID, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateEntryStatus(ctx, *entry, domain.EntryPosted); err != nil {
		s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void journal entry: %w", err)
	}

	s.publisher.Publish(ctx, "journal_entry.voided", event)
	s.LogInfo(ctx, "Journal entry voided", slog.String("entry_id", entryID), slog.String("voided_by", requestingUserID))
	return entry, nil
}
