package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
	EntryVoided EntryStatus = "VOIDED"
)

// EntryType classifies where a journal entry came from.
type EntryType string

const (
	EntryManual    EntryType = "MANUAL"
	EntrySystem    EntryType = "SYSTEM"
	EntryAdjusting EntryType = "ADJUSTING"
)

// Named validation failures for journal entry structure. Each wraps
// apperrors.ErrValidation so callers can test the kind with errors.Is.
var (
	ErrEntryTooFewLines       = fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	ErrEntryMissingDebit      = fmt.Errorf("%w: journal entry must have at least one debit line", apperrors.ErrValidation)
	ErrEntryMissingCredit     = fmt.Errorf("%w: journal entry must have at least one credit line", apperrors.ErrValidation)
	ErrEntryUnbalanced        = fmt.Errorf("%w: journal entry debits do not equal credits", apperrors.ErrValidation)
	ErrEntryAmountNotPositive = fmt.Errorf("%w: journal line amount must be positive", apperrors.ErrValidation)
	ErrEntryDescriptionEmpty  = fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
	ErrVoidReasonTooShort     = fmt.Errorf("%w: void reason must be at least 3 characters", apperrors.ErrValidation)

	// ErrOnlyDraftEditable guards structural edits after an entry leaves Draft.
	ErrOnlyDraftEditable = fmt.Errorf("%w: only draft entries can be edited", apperrors.ErrConflict)
)

// JournalEntry represents a single, balanced financial event composed of multiple lines.
// Lifecycle: Draft -> Posted -> Voided. Posted and Voided entries reject structural edits.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`     // Primary Key (UUID)
	EntryNumber       string        `json:"entryNumber"` // Human-facing number, unique
	EntryDate         time.Time     `json:"entryDate"`   // Date the event occurred
	Description       string        `json:"description"`
	Lines             []JournalLine `json:"lines"`
	Status            EntryStatus   `json:"status"`
	EntryType         EntryType     `json:"entryType"`
	SourceService     string        `json:"sourceService"`     // Set for SYSTEM entries
	SourceReferenceID string        `json:"sourceReferenceID"` // Upstream document reference
	PostedAt          *time.Time    `json:"postedAt"`
	PostedBy          string        `json:"postedBy"`
	VoidedAt          *time.Time    `json:"voidedAt"`
	VoidedBy          string        `json:"voidedBy"`
	VoidReason        string        `json:"voidReason"`
	AuditFields
}

// NewJournalEntryInput carries the caller-supplied fields for a new draft entry.
type NewJournalEntryInput struct {
	EntryDate         time.Time
	Description       string
	Lines             []JournalLine
	EntryType         EntryType
	EntryNumber       string
	SourceService     string
	SourceReferenceID string
}

// NewJournalEntry validates the structure and returns a Draft entry, or the named
// ValidationError describing the violated rule. Line ownership is assigned here.
func NewJournalEntry(in NewJournalEntryInput, entryID string, createdBy string, now time.Time) (*JournalEntry, error) {
	if err := ValidateEntryLines(in.Lines); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, ErrEntryDescriptionEmpty
	}

	entryType := in.EntryType
	if entryType == "" {
		entryType = EntryManual
	}
	entryNumber := in.EntryNumber
	if entryNumber == "" {
		entryNumber = defaultEntryNumber(entryID)
	}

	entry := &JournalEntry{
		EntryID:           entryID,
		EntryNumber:       entryNumber,
		EntryDate:         in.EntryDate,
		Description:       in.Description,
		Status:            EntryDraft,
		EntryType:         entryType,
		SourceService:     in.SourceService,
		SourceReferenceID: in.SourceReferenceID,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
	entry.adoptLines(in.Lines)
	return entry, nil
}

// defaultEntryNumber derives a short human-facing number from the entry id.
func defaultEntryNumber(entryID string) string {
	trimmed := strings.ReplaceAll(entryID, "-", "")
	if len(trimmed) > 8 {
		trimmed = trimmed[:8]
	}
	return "JE-" + strings.ToUpper(trimmed)
}

func (e *JournalEntry) adoptLines(lines []JournalLine) {
	owned := make([]JournalLine, len(lines))
	copy(owned, lines)
	for i := range owned {
		owned[i].EntryID = e.EntryID
	}
	e.Lines = owned
}

// ValidateEntryLines checks the double-entry structure of a line set: at least two
// lines, at least one debit and one credit, every amount positive, and debit and
// credit totals equal within AmountEpsilon.
func ValidateEntryLines(lines []JournalLine) error {
	if len(lines) < 2 {
		return ErrEntryTooFewLines
	}

	debits := decimal.Zero
	credits := decimal.Zero
	hasDebit := false
	hasCredit := false
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: account %s", ErrEntryAmountNotPositive, line.AccountID)
		}
		switch line.TransactionType {
		case Debit:
			hasDebit = true
			debits = debits.Add(line.Amount)
		case Credit:
			hasCredit = true
			credits = credits.Add(line.Amount)
		default:
			return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, line.TransactionType)
		}
	}
	if !hasDebit {
		return ErrEntryMissingDebit
	}
	if !hasCredit {
		return ErrEntryMissingCredit
	}
	if !AmountsEqual(debits, credits) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, debits.String(), credits.String())
	}
	return nil
}

// TotalDebits sums the debit lines. Derived, never stored.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.TransactionType == Debit {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// TotalCredits sums the credit lines. Derived, never stored.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.TransactionType == Credit {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// CanEdit reports whether structural edits are legal in the current state.
func (e *JournalEntry) CanEdit() bool { return e.Status == EntryDraft }

// CanDelete reports whether the entry may be removed entirely.
func (e *JournalEntry) CanDelete() bool { return e.Status == EntryDraft }

// CanPost reports whether the entry is eligible for posting.
func (e *JournalEntry) CanPost() bool { return e.Status == EntryDraft }

// CanVoid reports whether the entry is eligible for voiding.
func (e *JournalEntry) CanVoid() bool { return e.Status == EntryPosted }

// UpdateDetails changes the description and/or entry date of a Draft entry.
func (e *JournalEntry) UpdateDetails(description *string, entryDate *time.Time, updatedBy string, now time.Time) error {
	if !e.CanEdit() {
		return ErrOnlyDraftEditable
	}
	if description != nil {
		if strings.TrimSpace(*description) == "" {
			return ErrEntryDescriptionEmpty
		}
		e.Description = *description
	}
	if entryDate != nil {
		e.EntryDate = *entryDate
	}
	e.LastUpdatedAt = now
	e.LastUpdatedBy = updatedBy
	return nil
}

// UpdateLines replaces the line set of a Draft entry after re-validating balance.
func (e *JournalEntry) UpdateLines(lines []JournalLine, updatedBy string, now time.Time) error {
	if !e.CanEdit() {
		return ErrOnlyDraftEditable
	}
	if err := ValidateEntryLines(lines); err != nil {
		return err
	}
	e.adoptLines(lines)
	e.LastUpdatedAt = now
	e.LastUpdatedBy = updatedBy
	return nil
}

// Post transitions Draft -> Posted and stamps the posting audit fields.
func (e *JournalEntry) Post(postedBy string, now time.Time) (*JournalEntryPosted, error) {
	if strings.TrimSpace(postedBy) == "" {
		return nil, fmt.Errorf("%w: posting actor is required", apperrors.ErrValidation)
	}
	if e.Status != EntryDraft {
		return nil, apperrors.NewStateError("journal entry", string(e.Status), string(EntryDraft))
	}
	e.Status = EntryPosted
	e.PostedAt = &now
	e.PostedBy = postedBy
	e.LastUpdatedAt = now
	e.LastUpdatedBy = postedBy
	return &JournalEntryPosted{
		EntryID:    e.EntryID,
		EntryDate:  e.EntryDate,
		PostedBy:   postedBy,
		OccurredAt: now,
	}, nil
}

// Void transitions Posted -> Voided. The reason is mandatory and must carry at
// least 3 characters.
func (e *JournalEntry) Void(voidedBy string, reason string, now time.Time) (*JournalEntryVoided, error) {
	if strings.TrimSpace(voidedBy) == "" {
		return nil, fmt.Errorf("%w: voiding actor is required", apperrors.ErrValidation)
	}
	if len(strings.TrimSpace(reason)) < 3 {
		return nil, ErrVoidReasonTooShort
	}
	if e.Status != EntryPosted {
		return nil, apperrors.NewStateError("journal entry", string(e.Status), string(EntryPosted))
	}
	e.Status = EntryVoided
	e.VoidedAt = &now
	e.VoidedBy = voidedBy
	e.VoidReason = reason
	e.LastUpdatedAt = now
	e.LastUpdatedBy = voidedBy
	return &JournalEntryVoided{
		EntryID:    e.EntryID,
		Reason:     reason,
		VoidedBy:   voidedBy,
		OccurredAt: now,
	}, nil
}
