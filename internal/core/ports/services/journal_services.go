package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetJournalEntry retrieves an entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetJournalEntryByNumber retrieves an entry by its JE-YYYYMMDD-NNNN number.
	GetJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries, newest first.
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the journal entry state machine
type JournalWriterSvc interface {
	// CreateJournalEntry validates and stores a DRAFT entry.
	CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostJournalEntry moves a DRAFT entry to POSTED and writes the ledger.
	PostJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// CreateAndPostJournalEntry creates and posts an entry in one transaction.
	CreateAndPostJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a mirror entry and marks the original REVERSED.
	ReverseJournalEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
