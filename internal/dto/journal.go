package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a new journal entry. Exactly one of Debit or Credit must be non-zero.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// SourceDocumentRequest links a new entry to the collaborator record that produced it.
type SourceDocumentRequest struct {
	Type domain.SourceDocumentType `json:"type" binding:"required"`
	ID   string                    `json:"id" binding:"required"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
type CreateJournalEntryRequest struct {
	EntryDate      time.Time              `json:"entryDate" binding:"required"`
	EntryType      domain.EntryType       `json:"entryType"` // Optional, defaults to GENERAL
	Description    string                 `json:"description" binding:"required"`
	Reference      string                 `json:"reference"`
	Notes          string                 `json:"notes"`
	Tags           []string               `json:"tags"`
	SourceDocument *SourceDocumentRequest `json:"sourceDocument"`
	FiscalPeriod   *domain.FiscalPeriod   `json:"fiscalPeriod"` // Optional, derived from entryDate
	Lines          []JournalLineRequest   `json:"lines" binding:"required,min=2,dive"`
}

// ReverseJournalEntryRequest defines the optional inputs of a reversal.
type ReverseJournalEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate"` // Defaults to today
	Description  string     `json:"description"`  // Defaults to "Reversal of <entry number>"
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    string  `form:"status"`
	EntryType string  `form:"entryType"`
	DateFrom  string  `form:"dateFrom"`
	DateTo    string  `form:"dateTo"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID        string                 `json:"entryID"`
	EntryNumber    string                 `json:"entryNumber"`
	EntryDate      string                 `json:"entryDate"`
	EntryType      domain.EntryType       `json:"entryType"`
	Description    string                 `json:"description"`
	Reference      string                 `json:"reference,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	SourceDocument *domain.SourceDocument `json:"sourceDocument,omitempty"`
	FiscalPeriod   domain.FiscalPeriod    `json:"fiscalPeriod"`
	Status         domain.JournalStatus   `json:"status"`
	TotalDebit     decimal.Decimal        `json:"totalDebit"`
	TotalCredit    decimal.Decimal        `json:"totalCredit"`
	IsBalanced     bool                   `json:"isBalanced"`
	ReversalOfID   *string                `json:"reversalOfID,omitempty"`
	ReversedByID   *string                `json:"reversedByID,omitempty"`
	PostedAt       *time.Time             `json:"postedAt,omitempty"`
	PostedBy       *string                `json:"postedBy,omitempty"`
	Lines          []JournalLineResponse  `json:"lines,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return JournalEntryResponse{
		EntryID:        e.EntryID,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate.Format(DateLayout),
		EntryType:      e.EntryType,
		Description:    e.Description,
		Reference:      e.Reference,
		Notes:          e.Notes,
		Tags:           e.Tags,
		SourceDocument: e.SourceDocument,
		FiscalPeriod:   e.FiscalPeriod,
		Status:         e.Status,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		IsBalanced:     e.IsBalanced,
		ReversalOfID:   e.ReversalOfID,
		ReversedByID:   e.ReversedByID,
		PostedAt:       e.PostedAt,
		PostedBy:       e.PostedBy,
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := ListJournalEntriesResponse{
		Entries:   make([]JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		res.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
