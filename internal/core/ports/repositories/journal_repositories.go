package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalFilter narrows a journal entry listing.
type JournalFilter struct {
	Status    *domain.JournalStatus
	EntryType *domain.EntryType
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	NextToken *string
}

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID returns the entry with its lines.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindJournalEntryByNumber returns the entry with its lines.
	FindJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListJournalEntries returns entries newest first, without lines, plus a token for the next page.
	ListJournalEntries(ctx context.Context, filter JournalFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveJournalEntry inserts a draft entry and its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// FindJournalEntryForUpdate locks the entry row and returns it with its lines.
	FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// MarkPosted moves a DRAFT entry to POSTED.
	MarkPosted(ctx context.Context, entryID string, userID string, at time.Time) error

	// MarkReversed moves a POSTED entry to REVERSED and links the reversing entry.
	MarkReversed(ctx context.Context, entryID string, reversedByID string, userID string, at time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
