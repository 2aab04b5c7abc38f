package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

const maxJournalPageSize = 100

// journalService implements the JournalSvcFacade interface
type journalService struct {
	*ledgerPoster
	txManager portsrepo.TransactionManager
}

// NewJournalService creates the journal entry service.
func NewJournalService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.JournalSvcFacade {
	return &journalService{
		ledgerPoster: newLedgerPoster(repos, opts),
		txManager:    repos.TxManager,
	}
}

func newLedgerPoster(repos portsrepo.RepositoryProvider, opts []Option) *ledgerPoster {
	return &ledgerPoster{
		BaseService: newBaseService(opts),
		journalRepo: repos.JournalRepo,
		accountRepo: repos.AccountRepo,
		ledgerRepo:  repos.LedgerRepo,
		sequencer:   repos.Sequencer,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) GetJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByNumber(ctx, entryNumber)
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry by number", slog.String("entry_number", entryNumber))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := portsrepo.JournalFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > maxJournalPageSize {
		filter.Limit = maxJournalPageSize
	}

	if params.Status != "" {
		status := domain.JournalStatus(strings.ToUpper(params.Status))
		switch status {
		case domain.Draft, domain.Posted, domain.Reversed, domain.Void:
		default:
			return nil, apperrors.NewValidationError("invalid status %q", params.Status)
		}
		filter.Status = &status
	}
	if params.EntryType != "" {
		entryType := domain.EntryType(strings.ToUpper(params.EntryType))
		if !entryType.IsValid() {
			return nil, apperrors.NewValidationError("invalid entry type %q", params.EntryType)
		}
		filter.EntryType = &entryType
	}

	var err error
	if filter.DateFrom, err = dto.ParseOptionalDate(params.DateFrom); err != nil {
		return nil, apperrors.NewValidationError("dateFrom: %s", err.Error())
	}
	if filter.DateTo, err = dto.ParseOptionalDate(params.DateTo); err != nil {
		return nil, apperrors.NewValidationError("dateTo: %s", err.Error())
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperrors.NewValidationError("dateFrom must not be after dateTo")
	}

	entries, nextToken, err := s.journalRepo.ListJournalEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, err
	}
	res := dto.ToListJournalEntriesResponse(entries, nextToken)
	return &res, nil
}

func (s *journalService) CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry := entryFromRequest(req)
	if err := s.createEntry(ctx, entry, userID); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

func (s *journalService) PostJournalEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		posted, err = s.postEntry(txCtx, entryID, userID)
		return err
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrInvalidState, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber))
	s.Publish(ctx, domain.EventJournalPosted, posted.EntryID, userID, postedPayload(posted))
	return posted, nil
}

func (s *journalService) CreateAndPostJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry := entryFromRequest(req)
	var posted *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.createEntry(txCtx, entry, userID); err != nil {
			return err
		}
		var err error
		posted, err = s.postEntry(txCtx, entry.EntryID, userID)
		return err
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrValidation, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to create and post journal entry")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created and posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber))
	s.Publish(ctx, domain.EventJournalPosted, posted.EntryID, userID, postedPayload(posted))
	return posted, nil
}

func (s *journalService) ReverseJournalEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	var original, reversal *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		original, err = s.journalRepo.FindJournalEntryForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		if err := original.CanReverse(); err != nil {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, err.Error(), nil)
		}

		reversalDate := s.Now()
		if req.ReversalDate != nil {
			reversalDate = *req.ReversalDate
		}
		description := strings.TrimSpace(req.Description)
		if description == "" {
			description = fmt.Sprintf("Reversal of %s", original.EntryNumber)
		}

		originalID := original.EntryID
		draft := &domain.JournalEntry{
			EntryDate:      reversalDate,
			EntryType:      original.EntryType,
			Description:    description,
			Reference:      original.EntryNumber,
			Tags:           original.Tags,
			SourceDocument: original.SourceDocument,
			Lines:          original.ReversalLines(),
			ReversalOfID:   &originalID,
		}
		if err := s.createEntry(txCtx, draft, userID); err != nil {
			return err
		}
		if reversal, err = s.postEntry(txCtx, draft.EntryID, userID); err != nil {
			return err
		}
		return s.journalRepo.MarkReversed(txCtx, original.EntryID, reversal.EntryID, userID, s.Now())
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrInvalidState, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_id", reversal.EntryID))
	s.Publish(ctx, domain.EventJournalReversed, original.EntryID, userID, map[string]string{
		"entryNumber":         original.EntryNumber,
		"reversalEntryID":     reversal.EntryID,
		"reversalEntryNumber": reversal.EntryNumber,
	})
	return reversal, nil
}

func entryFromRequest(req dto.CreateJournalEntryRequest) *domain.JournalEntry {
	entry := &domain.JournalEntry{
		EntryDate:   req.EntryDate,
		EntryType:   domain.EntryType(strings.ToUpper(string(req.EntryType))),
		Description: strings.TrimSpace(req.Description),
		Reference:   req.Reference,
		Notes:       req.Notes,
		Tags:        req.Tags,
		Lines:       make([]domain.JournalLine, len(req.Lines)),
	}
	if req.SourceDocument != nil {
		entry.SourceDocument = &domain.SourceDocument{Type: req.SourceDocument.Type, ID: req.SourceDocument.ID}
	}
	if req.FiscalPeriod != nil {
		entry.FiscalPeriod = *req.FiscalPeriod
	}
	for i, l := range req.Lines {
		entry.Lines[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return entry
}

func postedPayload(e *domain.JournalEntry) map[string]any {
	return map[string]any{
		"entryNumber": e.EntryNumber,
		"entryDate":   e.EntryDate.Format(dto.DateLayout),
		"entryType":   e.EntryType,
		"totalDebit":  e.TotalDebit,
		"totalCredit": e.TotalCredit,
	}
}
