package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{name: "debit only", line: domain.JournalLine{AccountID: "a", Debit: d("10")}},
		{name: "credit only", line: domain.JournalLine{AccountID: "a", Credit: d("10")}},
		{name: "both sides", line: domain.JournalLine{AccountID: "a", Debit: d("10"), Credit: d("5")}, wantErr: true},
		{name: "neither side", line: domain.JournalLine{AccountID: "a"}, wantErr: true},
		{name: "negative debit", line: domain.JournalLine{AccountID: "a", Debit: d("-10")}, wantErr: true},
		{name: "missing account", line: domain.JournalLine{Debit: d("10")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalEntry_RecalculateUsesTolerance(t *testing.T) {
	entry := domain.JournalEntry{Lines: []domain.JournalLine{
		{AccountID: "cash", Debit: d("100.004")},
		{AccountID: "rev", Credit: d("100")},
	}}
	entry.Recalculate()
	assert.True(t, entry.IsBalanced)
	assert.True(t, entry.TotalDebit.Equal(d("100.004")))

	entry.Lines[0].Debit = d("100.02")
	entry.Recalculate()
	assert.False(t, entry.IsBalanced)
}

func TestJournalEntry_StateTransitions(t *testing.T) {
	entry := domain.JournalEntry{EntryNumber: "JE-20240115-0001", Status: domain.Draft, IsBalanced: true}
	assert.NoError(t, entry.CanPost())
	assert.Error(t, entry.CanReverse())

	entry.IsBalanced = false
	assert.Error(t, entry.CanPost())

	entry.Status = domain.Posted
	entry.IsBalanced = true
	assert.Error(t, entry.CanPost())
	assert.NoError(t, entry.CanReverse())

	reversedBy := "other"
	entry.ReversedByID = &reversedBy
	assert.Error(t, entry.CanReverse())

	entry.Status = domain.Reversed
	assert.Error(t, entry.CanPost())
	assert.Error(t, entry.CanReverse())
}

func TestJournalEntry_ReversalLinesSwapSides(t *testing.T) {
	entry := domain.JournalEntry{Lines: []domain.JournalLine{
		{LineNumber: 1, AccountID: "cash", Debit: d("100"), Credit: decimal.Zero},
		{LineNumber: 2, AccountID: "rev", Debit: decimal.Zero, Credit: d("100")},
	}}

	lines := entry.ReversalLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "cash", lines[0].AccountID)
	assert.True(t, lines[0].Credit.Equal(d("100")))
	assert.True(t, lines[0].Debit.IsZero())
	assert.Equal(t, domain.Credit, lines[0].Side())
	assert.True(t, lines[1].Debit.Equal(d("100")))
	assert.Equal(t, domain.Debit, lines[1].Side())
}

func TestFiscalPeriodFor(t *testing.T) {
	tests := []struct {
		date    time.Time
		quarter int
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 4},
	}
	for _, tt := range tests {
		p := domain.FiscalPeriodFor(tt.date)
		assert.Equal(t, tt.date.Year(), p.Year)
		assert.Equal(t, int(tt.date.Month()), p.Month)
		assert.Equal(t, tt.quarter, p.Quarter, tt.date.String())
	}
}

func TestFormatEntryNumber(t *testing.T) {
	day := time.Date(2024, 2, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "JE-20240201-0007", domain.FormatEntryNumber(day, 7))
	assert.Equal(t, "JE-20240201-12345", domain.FormatEntryNumber(day, 12345))
}

func TestJournalEntry_AccountIDsDistinct(t *testing.T) {
	entry := domain.JournalEntry{Lines: []domain.JournalLine{
		{AccountID: "b"}, {AccountID: "a"}, {AccountID: "b"},
	}}
	assert.Equal(t, []string{"b", "a"}, entry.AccountIDs())
}
