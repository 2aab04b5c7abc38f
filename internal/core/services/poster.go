package services

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/platform/idgen"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// ledgerPoster owns the two write paths shared by the journal and bank services:
// storing a validated draft and posting it into the ledger. Both expect to run
// inside a transaction started by the caller.
type ledgerPoster struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerWriter
	sequencer   portsrepo.EntrySequencer
}

// createEntry validates a prepared draft, fills its identity and derived fields and saves it.
// The caller sets the lines, date, type, description and source document.
func (p *ledgerPoster) createEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	if strings.TrimSpace(entry.Description) == "" {
		return apperrors.NewValidationError("description is required")
	}
	if entry.EntryDate.IsZero() {
		return apperrors.NewValidationError("entry date is required")
	}
	if entry.EntryType == "" {
		entry.EntryType = domain.EntryGeneral
	}
	if !entry.EntryType.IsValid() {
		return apperrors.NewValidationError("invalid entry type %q", entry.EntryType)
	}
	if doc := entry.SourceDocument; doc != nil {
		if !doc.Type.IsValid() {
			return apperrors.NewValidationError("invalid source document type %q", doc.Type)
		}
		if doc.ID == "" && doc.Type != domain.SourceManual {
			return apperrors.NewValidationError("source document id is required for %s", doc.Type)
		}
	}

	for i := range entry.Lines {
		entry.Lines[i].LineNumber = i + 1
	}
	if err := accounting.ValidateJournalLines(entry.Lines); err != nil {
		return apperrors.NewValidationError("%s", err.Error())
	}

	accounts, err := p.accountRepo.FindAccountsByIDs(ctx, entry.AccountIDs())
	if err != nil {
		p.LogError(ctx, err, "Failed to load entry accounts")
		return err
	}
	manual := entry.SourceDocument.IsManual()
	for _, id := range entry.AccountIDs() {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewValidationError("account %s not found", id)
		}
		if !acc.IsActive {
			return apperrors.NewValidationError("account %s (%s) is inactive", acc.Code, acc.Name)
		}
		if manual && !acc.AllowManualEntry {
			return apperrors.NewValidationError("account %s (%s) does not allow manual entries", acc.Code, acc.Name)
		}
	}

	now := p.Now()
	entry.EntryDate = domain.StartOfDay(entry.EntryDate)
	if entry.FiscalPeriod.IsZero() {
		entry.FiscalPeriod = domain.FiscalPeriodFor(entry.EntryDate)
	} else if err := validateFiscalPeriod(&entry.FiscalPeriod); err != nil {
		return err
	}

	seq, err := p.sequencer.NextEntrySequence(ctx, now)
	if err != nil {
		p.LogError(ctx, err, "Failed to allocate entry number")
		return err
	}

	entry.EntryID = idgen.NewUUID()
	entry.EntryNumber = domain.FormatEntryNumber(now, seq)
	entry.Status = domain.Draft
	for i := range entry.Lines {
		entry.Lines[i].LineID = idgen.NewUUID()
		entry.Lines[i].JournalEntryID = entry.EntryID
	}
	entry.Recalculate()
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := p.journalRepo.SaveJournalEntry(ctx, *entry); err != nil {
		p.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entry.EntryNumber))
		return err
	}
	p.LogDebug(ctx, "Journal entry saved as draft",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	return nil
}

// postEntry moves a DRAFT entry to POSTED: it locks the entry and its accounts,
// appends one ledger row per line and adjusts the cached balances.
func (p *ledgerPoster) postEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := p.journalRepo.FindJournalEntryForUpdate(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := entry.CanPost(); err != nil {
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, err.Error(), nil)
	}

	accounts, err := p.accountRepo.FindAccountsByIDsForUpdate(ctx, entry.AccountIDs())
	if err != nil {
		return nil, err
	}
	for _, id := range entry.AccountIDs() {
		acc, ok := accounts[id]
		if !ok {
			return nil, apperrors.NewValidationError("account %s not found", id)
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError("account %s (%s) is inactive", acc.Code, acc.Name)
		}
	}

	deltas, err := accounting.BalanceDeltas(entry.Lines, accounts)
	if err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}

	now := p.Now()
	rows := ledgerRowsFor(entry, now)
	if err := p.ledgerRepo.InsertLedgerRows(ctx, rows); err != nil {
		p.LogError(ctx, err, "Failed to insert ledger rows", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := p.accountRepo.ApplyBalanceDeltas(ctx, deltas, userID, now); err != nil {
		p.LogError(ctx, err, "Failed to apply balance deltas", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := p.journalRepo.MarkPosted(ctx, entryID, userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return entry, nil
}

func ledgerRowsFor(entry *domain.JournalEntry, now time.Time) []domain.LedgerRow {
	rows := make([]domain.LedgerRow, len(entry.Lines))
	for i, l := range entry.Lines {
		description := l.Description
		if description == "" {
			description = entry.Description
		}
		rows[i] = domain.LedgerRow{
			RowID:          idgen.NewULID(),
			AccountID:      l.AccountID,
			JournalEntryID: entry.EntryID,
			EntryNumber:    entry.EntryNumber,
			EntryDate:      entry.EntryDate,
			Description:    description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			FiscalPeriod:   entry.FiscalPeriod,
			CreatedAt:      now,
		}
	}
	return rows
}

func validateFiscalPeriod(p *domain.FiscalPeriod) error {
	if p.Year < 1900 || p.Month < 1 || p.Month > 12 {
		return apperrors.NewValidationError("invalid fiscal period %d-%02d", p.Year, p.Month)
	}
	expected := (p.Month + 2) / 3
	if p.Quarter == 0 {
		p.Quarter = expected
	}
	if p.Quarter != expected {
		return apperrors.NewValidationError("fiscal quarter %d does not match month %d", p.Quarter, p.Month)
	}
	return nil
}
