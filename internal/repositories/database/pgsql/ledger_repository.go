package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `l.row_id, l.seq, l.account_id, l.journal_entry_id, l.entry_number, l.entry_date, l.description,
	l.debit, l.credit, l.fiscal_year, l.fiscal_month, l.fiscal_quarter, l.created_at`

// PgxLedgerRepository reads and appends the general ledger.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerRow(row scanner, extra ...any) (domain.LedgerRow, error) {
	var m models.LedgerRow
	dest := []any{
		&m.RowID,
		&m.Seq,
		&m.AccountID,
		&m.JournalEntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.FiscalYear,
		&m.FiscalMonth,
		&m.FiscalQuarter,
		&m.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.LedgerRow{}, err
	}
	return mapping.ToDomainLedgerRow(m), nil
}

// windowClause renders the entry_date bounds of a window as SQL conditions.
func windowClause(window domain.DateRange, args *[]any) string {
	conds := []string{}
	if !window.From.IsZero() {
		*args = append(*args, window.From)
		conds = append(conds, "l.entry_date >= $"+strconv.Itoa(len(*args)))
	}
	if !window.To.IsZero() {
		*args = append(*args, window.To)
		conds = append(conds, "l.entry_date <= $"+strconv.Itoa(len(*args)))
	}
	if len(conds) == 0 {
		return "TRUE"
	}
	return strings.Join(conds, " AND ")
}

// InsertLedgerRows appends one row per posted line. seq is assigned by the database.
func (r *PgxLedgerRepository) InsertLedgerRows(ctx context.Context, rows []domain.LedgerRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO ledger_rows (row_id, account_id, journal_entry_id, entry_number, entry_date, description,
			debit, credit, fiscal_year, fiscal_month, fiscal_quarter, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, row := range rows {
		m := mapping.ToModelLedgerRow(row)
		batch.Queue(query,
			m.RowID,
			m.AccountID,
			m.JournalEntryID,
			m.EntryNumber,
			m.EntryDate,
			m.Description,
			m.Debit,
			m.Credit,
			m.FiscalYear,
			m.FiscalMonth,
			m.FiscalQuarter,
			m.CreatedAt,
		)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to insert ledger rows")
	}
	return nil
}

// SumBalances returns debit/credit sums per account for rows dated inside window.
func (r *PgxLedgerRepository) SumBalances(ctx context.Context, window domain.DateRange) (map[string]domain.BalanceSums, error) {
	args := []any{}
	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0), COUNT(*)
		FROM ledger_rows l
		WHERE ` + windowClause(window, &args) + `
		GROUP BY l.account_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to sum ledger balances")
	}
	defer rows.Close()

	sums := make(map[string]domain.BalanceSums)
	for rows.Next() {
		var s domain.BalanceSums
		if err := rows.Scan(&s.AccountID, &s.Debit, &s.Credit, &s.RowCount); err != nil {
			return nil, fmt.Errorf("error scanning balance sums: %w", err)
		}
		sums[s.AccountID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance sums: %w", err)
	}
	return sums, nil
}

// SumAccount returns the debit/credit sums of one account inside window.
func (r *PgxLedgerRepository) SumAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.BalanceSums, error) {
	args := []any{accountID}
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0), COUNT(*)
		FROM ledger_rows l
		WHERE l.account_id = $1 AND ` + windowClause(window, &args) + `;`

	s := domain.BalanceSums{AccountID: accountID}
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&s.Debit, &s.Credit, &s.RowCount); err != nil {
		return domain.BalanceSums{}, mapPgError(err, "failed to sum ledger rows of account "+accountID)
	}
	return s, nil
}

// ListAccountRows returns an account's rows ordered by entry date then insertion sequence.
func (r *PgxLedgerRepository) ListAccountRows(ctx context.Context, accountID string, window domain.DateRange) ([]domain.LedgerRow, error) {
	args := []any{accountID}
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_rows l
		WHERE l.account_id = $1 AND ` + windowClause(window, &args) + `
		ORDER BY l.entry_date ASC, l.seq ASC;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list ledger rows of account "+accountID)
	}
	defer rows.Close()

	result := []domain.LedgerRow{}
	for rows.Next() {
		row, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ledger row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return result, nil
}

// ListGeneralLedger returns a filtered page ordered by entry date desc then sequence desc.
// Totals cover every row matching the filter, not just the page.
func (r *PgxLedgerRepository) ListGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	conds := []string{"TRUE"}
	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Account != "" {
		p := next(filter.Account)
		conds = append(conds, fmt.Sprintf("(a.code = %s OR a.account_id = %s OR a.name ILIKE '%%' || %s || '%%')", p, p, p))
	}
	if filter.EntryNumber != "" {
		conds = append(conds, "l.entry_number ILIKE "+next(filter.EntryNumber+"%"))
	}
	if filter.Search != "" {
		p := next("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(l.description ILIKE %s OR l.entry_number ILIKE %s OR a.name ILIKE %s)", p, p, p))
	}
	if filter.DateFrom != nil {
		conds = append(conds, "l.entry_date >= "+next(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conds = append(conds, "l.entry_date <= "+next(*filter.DateTo))
	}
	where := strings.Join(conds, " AND ")

	page := &domain.GeneralLedgerPage{Lines: []domain.GeneralLedgerLine{}}
	totalsQuery := `SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM ledger_rows l JOIN accounts a ON a.account_id = l.account_id WHERE ` + where
	if err := r.db(ctx).QueryRow(ctx, totalsQuery, args...).Scan(&page.TotalDebit, &page.TotalCredit); err != nil {
		return nil, mapPgError(err, "failed to total general ledger")
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastSeq, err := pagination.DecodeSeqToken(*filter.NextToken)
		if err != nil {
			return nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		where += fmt.Sprintf(" AND (l.entry_date, l.seq) < (%s, %s)", next(lastDate), next(lastSeq))
	}

	query := `SELECT ` + ledgerColumns + `, a.code, a.name, a.account_type
		FROM ledger_rows l JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + where + `
		ORDER BY l.entry_date DESC, l.seq DESC
		LIMIT ` + next(limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list general ledger")
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.GeneralLedgerLine
		var accountType string
		row, err := scanLedgerRow(rows, &line.AccountCode, &line.AccountName, &accountType)
		if err != nil {
			return nil, fmt.Errorf("error scanning general ledger row: %w", err)
		}
		line.LedgerRow = row
		line.AccountType = domain.AccountType(accountType)
		page.Lines = append(page.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating general ledger rows: %w", err)
	}

	if len(page.Lines) > limit {
		last := page.Lines[limit-1]
		token := pagination.EncodeSeqToken(last.EntryDate, last.Seq)
		page.NextToken = &token
		page.Lines = page.Lines[:limit]
	}
	return page, nil
}

// AccountActivity summarizes an account's postings in a fiscal month.
func (r *PgxLedgerRepository) AccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM ledger_rows
		WHERE account_id = $1 AND fiscal_year = $2 AND fiscal_month = $3;
	`
	activity := &domain.AccountActivity{AccountID: accountID, Year: year, Month: month}
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, accountID, year, month).Scan(&debit, &credit, &activity.TransactionCount); err != nil {
		return nil, mapPgError(err, "failed to summarize activity of account "+accountID)
	}
	activity.TotalDebit = debit
	activity.TotalCredit = credit
	activity.NetActivity = debit.Sub(credit)
	return activity, nil
}
