package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry (without lines)
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:       d.EntryID,
		EntryNumber:   d.EntryNumber,
		EntryDate:     d.EntryDate,
		EntryType:     string(d.EntryType),
		Description:   d.Description,
		Reference:     nullableString(d.Reference),
		Notes:         nullableString(d.Notes),
		Tags:          d.Tags,
		FiscalYear:    d.FiscalPeriod.Year,
		FiscalMonth:   d.FiscalPeriod.Month,
		FiscalQuarter: d.FiscalPeriod.Quarter,
		TotalDebit:    d.TotalDebit,
		TotalCredit:   d.TotalCredit,
		Status:        string(d.Status),
		ReversalOfID:  d.ReversalOfID,
		ReversedByID:  d.ReversedByID,
		PostedAt:      d.PostedAt,
		PostedBy:      d.PostedBy,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if d.SourceDocument != nil {
		docType := string(d.SourceDocument.Type)
		m.SourceDocumentType = &docType
		m.SourceDocumentID = nullableString(d.SourceDocument.ID)
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry.
// The balanced flag is derived from the stored totals.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		EntryType:   domain.EntryType(m.EntryType),
		Description: m.Description,
		Reference:   stringValue(m.Reference),
		Notes:       stringValue(m.Notes),
		Tags:        m.Tags,
		FiscalPeriod: domain.FiscalPeriod{
			Year:    m.FiscalYear,
			Month:   m.FiscalMonth,
			Quarter: m.FiscalQuarter,
		},
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		IsBalanced:   domain.WithinTolerance(m.TotalDebit, m.TotalCredit),
		Status:       domain.JournalStatus(m.Status),
		ReversalOfID: m.ReversalOfID,
		ReversedByID: m.ReversedByID,
		PostedAt:     m.PostedAt,
		PostedBy:     m.PostedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceDocumentType != nil {
		d.SourceDocument = &domain.SourceDocument{
			Type: domain.SourceDocumentType(*m.SourceDocumentType),
			ID:   stringValue(m.SourceDocumentID),
		}
	}
	if lines != nil {
		d.Lines = make([]domain.JournalLine, len(lines))
		for i, l := range lines {
			d.Lines[i] = ToDomainJournalLine(l)
		}
	}
	return d
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		LineNumber:     d.LineNumber,
		AccountID:      d.AccountID,
		Description:    nullableString(d.Description),
		Debit:          d.Debit,
		Credit:         d.Credit,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		LineNumber:     m.LineNumber,
		AccountID:      m.AccountID,
		Description:    stringValue(m.Description),
		Debit:          m.Debit,
		Credit:         m.Credit,
	}
}
