package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelLedgerRow converts a domain LedgerRow to a model LedgerRow
func ToModelLedgerRow(d domain.LedgerRow) models.LedgerRow {
	return models.LedgerRow{
		RowID:          d.RowID,
		Seq:            d.Seq,
		AccountID:      d.AccountID,
		JournalEntryID: d.JournalEntryID,
		EntryNumber:    d.EntryNumber,
		EntryDate:      d.EntryDate,
		Description:    nullableString(d.Description),
		Debit:          d.Debit,
		Credit:         d.Credit,
		FiscalYear:     d.FiscalPeriod.Year,
		FiscalMonth:    d.FiscalPeriod.Month,
		FiscalQuarter:  d.FiscalPeriod.Quarter,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainLedgerRow converts a model LedgerRow to a domain LedgerRow
func ToDomainLedgerRow(m models.LedgerRow) domain.LedgerRow {
	return domain.LedgerRow{
		RowID:          m.RowID,
		Seq:            m.Seq,
		AccountID:      m.AccountID,
		JournalEntryID: m.JournalEntryID,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate,
		Description:    stringValue(m.Description),
		Debit:          m.Debit,
		Credit:         m.Credit,
		FiscalPeriod: domain.FiscalPeriod{
			Year:    m.FiscalYear,
			Month:   m.FiscalMonth,
			Quarter: m.FiscalQuarter,
		},
		CreatedAt: m.CreatedAt,
	}
}
