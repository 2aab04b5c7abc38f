package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `entry_id, entry_number, entry_date, entry_type, description, reference, notes, tags,
	source_document_type, source_document_id, fiscal_year, fiscal_month, fiscal_quarter,
	total_debit, total_credit, status, reversal_of_id, reversed_by_id, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_entry_id, line_number, account_id, description, debit, credit`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournalEntry(row scanner) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.EntryType,
		&m.Description,
		&m.Reference,
		&m.Notes,
		&m.Tags,
		&m.SourceDocumentType,
		&m.SourceDocumentID,
		&m.FiscalYear,
		&m.FiscalMonth,
		&m.FiscalQuarter,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJournalEntry inserts the entry header and its lines in one batch.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);`,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.EntryType,
		m.Description,
		m.Reference,
		m.Notes,
		m.Tags,
		m.SourceDocumentType,
		m.SourceDocumentID,
		m.FiscalYear,
		m.FiscalMonth,
		m.FiscalQuarter,
		m.TotalDebit,
		m.TotalCredit,
		m.Status,
		m.ReversalOfID,
		m.ReversedByID,
		m.PostedAt,
		m.PostedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	lineQuery := `INSERT INTO journal_lines (` + journalLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, line := range entry.Lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, ml.LineID, m.EntryID, ml.LineNumber, ml.AccountID, ml.Description, ml.Debit, ml.Credit)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to insert journal entry "+m.EntryNumber)
	}
	return nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, where string, arg any, lock bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE ` + where
	if lock {
		query += ` FOR UPDATE`
	}
	m, err := scanJournalEntry(r.db(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find journal entry %v", arg))
	}

	lines, err := r.findLines(ctx, m.EntryID)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines)
	return &entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, entryID string) ([]models.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_entry_id = $1 ORDER BY line_number;`
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, mapPgError(err, "failed to query lines of journal entry "+entryID)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.JournalEntryID, &l.LineNumber, &l.AccountID, &l.Description, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return lines, nil
}

// FindJournalEntryByID returns the entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "entry_id = $1", entryID, false)
}

// FindJournalEntryByNumber returns the entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "entry_number = $1", entryNumber, false)
}

// FindJournalEntryForUpdate locks the entry row for the rest of the transaction.
func (r *PgxJournalRepository) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "entry_id = $1", entryID, true)
}

// ListJournalEntries returns entries ordered by entry_date DESC, entry_number DESC.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conds := []string{"TRUE"}
	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		conds = append(conds, "status = "+next(string(*filter.Status)))
	}
	if filter.EntryType != nil {
		conds = append(conds, "entry_type = "+next(string(*filter.EntryType)))
	}
	if filter.DateFrom != nil {
		conds = append(conds, "entry_date >= "+next(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conds = append(conds, "entry_date <= "+next(*filter.DateTo))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastNumber, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		// Tuple comparison keeps the cursor stable across equal dates.
		conds = append(conds, fmt.Sprintf("(entry_date, entry_number) < (%s, %s)", next(lastDate), next(lastNumber)))
	}

	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY entry_date DESC, entry_number DESC LIMIT ` + next(fetchLimit)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list journal entries")
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextToken *string
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryNumber)
		nextToken = &token
		modelEntries = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m, nil)
	}
	return entries, nextToken, nil
}

// MarkPosted moves a DRAFT entry to POSTED.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, entryID, at, userID)
	if err != nil {
		return mapPgError(err, "failed to mark journal entry posted "+entryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(422, "journal entry "+entryID+" is not a draft", nil)
	}
	return nil
}

// MarkReversed moves a POSTED entry to REVERSED and links the reversing entry.
func (r *PgxJournalRepository) MarkReversed(ctx context.Context, entryID string, reversedByID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversed_by_id IS NULL;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, entryID, reversedByID, at, userID)
	if err != nil {
		return mapPgError(err, "failed to mark journal entry reversed "+entryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(422, "journal entry "+entryID+" is not posted or already reversed", nil)
	}
	return nil
}
