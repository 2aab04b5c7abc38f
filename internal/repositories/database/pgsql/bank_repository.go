package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bankAccountColumns = `bank_account_id, name, bank_name, account_number_masked, currency_code, ledger_account_id,
	opening_balance, current_balance, is_primary, is_active, requires_reconciliation, reconciliation_frequency,
	next_reconciliation_due, last_statement_date, last_statement_balance, version,
	created_at, created_by, last_updated_at, last_updated_by`

const bankTransactionColumns = `transaction_id, bank_account_id, transaction_date, description, amount, transaction_type,
	reference, is_reconciled, reconciled_at, reconciliation_id, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const reconciliationColumns = `reconciliation_id, bank_account_id, statement_start_date, statement_end_date,
	statement_balance, book_balance, difference, deposits, withdrawals, bank_fees, interest_earned, notes,
	status, completed_at, completed_by, reconciled_count, created_at, created_by, last_updated_at, last_updated_by`

// signedAmountSQL mirrors domain.BankTransactionType.BalanceEffect.
const signedAmountSQL = `CASE WHEN transaction_type IN ('DEPOSIT', 'INTEREST') THEN amount ELSE -amount END`

// PgxBankRepository persists bank accounts, their transactions and reconciliations.
type PgxBankRepository struct {
	BaseRepository
}

func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

func scanBankAccount(row scanner) (domain.BankAccount, error) {
	var m models.BankAccount
	var lastBalance decimal.NullDecimal
	err := row.Scan(
		&m.BankAccountID,
		&m.Name,
		&m.BankName,
		&m.AccountNumberMasked,
		&m.CurrencyCode,
		&m.LedgerAccountID,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.IsPrimary,
		&m.IsActive,
		&m.RequiresReconciliation,
		&m.ReconciliationFrequency,
		&m.NextReconciliationDue,
		&m.LastStatementDate,
		&lastBalance,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankAccount{}, err
	}
	if lastBalance.Valid {
		m.LastStatementBalance = &lastBalance.Decimal
	}
	return mapping.ToDomainBankAccount(m), nil
}

func scanBankTransaction(row scanner) (domain.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.BankAccountID,
		&m.TransactionDate,
		&m.Description,
		&m.Amount,
		&m.TransactionType,
		&m.Reference,
		&m.IsReconciled,
		&m.ReconciledAt,
		&m.ReconciliationID,
		&m.JournalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankTransaction{}, err
	}
	return mapping.ToDomainBankTransaction(m), nil
}

func scanReconciliation(row scanner) (domain.Reconciliation, error) {
	var m models.Reconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.BankAccountID,
		&m.StatementStartDate,
		&m.StatementEndDate,
		&m.StatementBalance,
		&m.BookBalance,
		&m.Difference,
		&m.Deposits,
		&m.Withdrawals,
		&m.BankFees,
		&m.InterestEarned,
		&m.Notes,
		&m.Status,
		&m.CompletedAt,
		&m.CompletedBy,
		&m.ReconciledCount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Reconciliation{}, err
	}
	return mapping.ToDomainReconciliation(m), nil
}

func collectRows[T any](rows pgx.Rows, scan func(scanner) (T, error), what string) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", what, err)
	}
	return out, nil
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`

	var lastBalance decimal.NullDecimal
	if m.LastStatementBalance != nil {
		lastBalance = decimal.NewNullDecimal(*m.LastStatementBalance)
	}
	_, err := r.db(ctx).Exec(ctx, query,
		m.BankAccountID,
		m.Name,
		m.BankName,
		m.AccountNumberMasked,
		m.CurrencyCode,
		m.LedgerAccountID,
		m.OpeningBalance,
		m.CurrentBalance,
		m.IsPrimary,
		m.IsActive,
		m.RequiresReconciliation,
		m.ReconciliationFrequency,
		m.NextReconciliationDue,
		m.LastStatementDate,
		lastBalance,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save bank account "+m.Name)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	acc, err := scanBankAccount(r.db(ctx).QueryRow(ctx, query, bankAccountID))
	if err != nil {
		return nil, mapPgError(err, "failed to find bank account "+bankAccountID)
	}
	return &acc, nil
}

// ListBankAccounts lists bank accounts, primary first.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts
		WHERE ($1 OR is_active = TRUE)
		ORDER BY is_primary DESC, name;`
	rows, err := r.db(ctx).Query(ctx, query, includeInactive)
	if err != nil {
		return nil, mapPgError(err, "failed to list bank accounts")
	}
	return collectRows(rows, scanBankAccount, "bank account")
}

// ListBankAccountsDueForReconciliation lists active accounts whose next reconciliation is due at now.
func (r *PgxBankRepository) ListBankAccountsDueForReconciliation(ctx context.Context, now time.Time) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts
		WHERE is_active = TRUE AND requires_reconciliation = TRUE
		  AND next_reconciliation_due IS NOT NULL AND next_reconciliation_due <= $1
		ORDER BY next_reconciliation_due, name;`
	rows, err := r.db(ctx).Query(ctx, query, now)
	if err != nil {
		return nil, mapPgError(err, "failed to list bank accounts due for reconciliation")
	}
	return collectRows(rows, scanBankAccount, "bank account")
}

// UpdateBankBalance applies delta only if the row is still at expectedVersion.
func (r *PgxBankRepository) UpdateBankBalance(ctx context.Context, bankAccountID string, delta decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	query := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $2, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE bank_account_id = $1 AND version = $3;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, bankAccountID, delta, expectedVersion, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update bank balance "+bankAccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("bank account %s changed concurrently: %w", bankAccountID, apperrors.ErrConflict)
	}
	return nil
}

// UpdateReconciliationSchedule stores the next due date and, when given, the last statement.
func (r *PgxBankRepository) UpdateReconciliationSchedule(ctx context.Context, bankAccountID string, nextDue *time.Time, lastStatementDate *time.Time, lastStatementBalance *decimal.Decimal, userID string, now time.Time) error {
	var lastBalance decimal.NullDecimal
	if lastStatementBalance != nil {
		lastBalance = decimal.NewNullDecimal(*lastStatementBalance)
	}
	query := `
		UPDATE bank_accounts
		SET next_reconciliation_due = $2,
		    last_statement_date = COALESCE($3, last_statement_date),
		    last_statement_balance = COALESCE($4, last_statement_balance),
		    last_updated_at = $5, last_updated_by = $6
		WHERE bank_account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, bankAccountID, nextDue, lastStatementDate, lastBalance, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update reconciliation schedule "+bankAccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("bank account", bankAccountID)
	}
	return nil
}

// FindPrimaryBankAccount retrieves the active primary bank account.
func (r *PgxBankRepository) FindPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE is_primary = TRUE AND is_active = TRUE LIMIT 1;`
	acc, err := scanBankAccount(r.db(ctx).QueryRow(ctx, query))
	if err != nil {
		return nil, mapPgError(err, "failed to find primary bank account")
	}
	return &acc, nil
}

// UpdateBankAccount stores the editable settings of a bank account.
// Balances, the account number and the version are never touched here.
func (r *PgxBankRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `
		UPDATE bank_accounts
		SET name = $2, bank_name = $3, ledger_account_id = $4, is_primary = $5, is_active = $6,
		    requires_reconciliation = $7, reconciliation_frequency = $8, next_reconciliation_due = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE bank_account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.BankAccountID,
		m.Name,
		m.BankName,
		m.LedgerAccountID,
		m.IsPrimary,
		m.IsActive,
		m.RequiresReconciliation,
		m.ReconciliationFrequency,
		m.NextReconciliationDue,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update bank account "+m.BankAccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("bank account", m.BankAccountID)
	}
	return nil
}

// ClearPrimaryBankAccounts unsets the primary flag on every account except exceptID.
func (r *PgxBankRepository) ClearPrimaryBankAccounts(ctx context.Context, exceptID string, userID string, now time.Time) error {
	query := `
		UPDATE bank_accounts
		SET is_primary = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE is_primary = TRUE AND bank_account_id <> $1;
	`
	if _, err := r.db(ctx).Exec(ctx, query, exceptID, now, userID); err != nil {
		return mapPgError(err, "failed to clear primary bank accounts")
	}
	return nil
}

// SaveBankTransaction inserts a bank transaction.
func (r *PgxBankRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	m := mapping.ToModelBankTransaction(txn)
	query := `INSERT INTO bank_transactions (` + bankTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID,
		m.BankAccountID,
		m.TransactionDate,
		m.Description,
		m.Amount,
		m.TransactionType,
		m.Reference,
		m.IsReconciled,
		m.ReconciledAt,
		m.ReconciliationID,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save bank transaction")
	}
	return nil
}

// FindBankTransactionByID retrieves a bank transaction by its ID.
func (r *PgxBankRepository) FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE transaction_id = $1;`
	txn, err := scanBankTransaction(r.db(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapPgError(err, "failed to find bank transaction "+transactionID)
	}
	return &txn, nil
}

// ListBankTransactions lists an account's transactions, newest first.
func (r *PgxBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, filter portsrepo.BankTransactionFilter) ([]domain.BankTransaction, error) {
	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions
		WHERE bank_account_id = $1
		  AND ($2::date IS NULL OR transaction_date >= $2)
		  AND ($3::date IS NULL OR transaction_date <= $3)
		  AND (NOT $4 OR is_reconciled = FALSE)
		ORDER BY transaction_date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, max(filter.Offset, 0))
	}
	rows, err := r.db(ctx).Query(ctx, query, bankAccountID, filter.DateFrom, filter.DateTo, filter.UnreconciledOnly)
	if err != nil {
		return nil, mapPgError(err, "failed to list bank transactions of "+bankAccountID)
	}
	return collectRows(rows, scanBankTransaction, "bank transaction")
}

// DeleteBankTransaction removes a transaction that is neither reconciled nor posted.
func (r *PgxBankRepository) DeleteBankTransaction(ctx context.Context, transactionID string) error {
	query := `DELETE FROM bank_transactions WHERE transaction_id = $1 AND is_reconciled = FALSE AND journal_entry_id IS NULL;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, transactionID)
	if err != nil {
		return mapPgError(err, "failed to delete bank transaction "+transactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(422, "bank transaction "+transactionID+" is reconciled, posted or missing", nil)
	}
	return nil
}

// MarkTransactionReconciled stamps one unreconciled transaction.
func (r *PgxBankRepository) MarkTransactionReconciled(ctx context.Context, transactionID string, reconciliationID string, at time.Time) error {
	query := `
		UPDATE bank_transactions
		SET is_reconciled = TRUE, reconciled_at = $3, reconciliation_id = $2, last_updated_at = $3
		WHERE transaction_id = $1 AND is_reconciled = FALSE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, transactionID, reconciliationID, at)
	if err != nil {
		return mapPgError(err, "failed to reconcile bank transaction "+transactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(422, "bank transaction "+transactionID+" is already reconciled", nil)
	}
	return nil
}

// MarkTransactionsReconciledInPeriod stamps every unreconciled transaction dated within [start, end].
func (r *PgxBankRepository) MarkTransactionsReconciledInPeriod(ctx context.Context, bankAccountID string, start, end time.Time, reconciliationID string, at time.Time) (int, error) {
	query := `
		UPDATE bank_transactions
		SET is_reconciled = TRUE, reconciled_at = $5, reconciliation_id = $4, last_updated_at = $5
		WHERE bank_account_id = $1 AND is_reconciled = FALSE
		  AND transaction_date >= $2 AND transaction_date <= $3;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, bankAccountID, start, end, reconciliationID, at)
	if err != nil {
		return 0, mapPgError(err, "failed to reconcile bank transactions of "+bankAccountID)
	}
	return int(cmdTag.RowsAffected()), nil
}

// LinkJournalEntry records the general ledger entry a transaction was posted as.
func (r *PgxBankRepository) LinkJournalEntry(ctx context.Context, transactionID string, journalEntryID string) error {
	query := `UPDATE bank_transactions SET journal_entry_id = $2 WHERE transaction_id = $1 AND journal_entry_id IS NULL;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, transactionID, journalEntryID)
	if err != nil {
		return mapPgError(err, "failed to link bank transaction "+transactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("bank transaction %s is already posted: %w", transactionID, apperrors.ErrConflict)
	}
	return nil
}

// SumBankTransactions returns the signed total and count of transactions dated on or before upTo.
func (r *PgxBankRepository) SumBankTransactions(ctx context.Context, bankAccountID string, upTo *time.Time, unreconciledOnly bool) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(` + signedAmountSQL + `), 0), COUNT(*)
		FROM bank_transactions
		WHERE bank_account_id = $1
		  AND ($2::date IS NULL OR transaction_date <= $2)
		  AND (NOT $3 OR is_reconciled = FALSE);
	`
	var total decimal.Decimal
	var count int
	if err := r.db(ctx).QueryRow(ctx, query, bankAccountID, upTo, unreconciledOnly).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, mapPgError(err, "failed to sum bank transactions of "+bankAccountID)
	}
	return total, count, nil
}

// SaveReconciliation inserts a reconciliation session.
func (r *PgxBankRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(rec)
	query := `INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.ReconciliationID,
		m.BankAccountID,
		m.StatementStartDate,
		m.StatementEndDate,
		m.StatementBalance,
		m.BookBalance,
		m.Difference,
		m.Deposits,
		m.Withdrawals,
		m.BankFees,
		m.InterestEarned,
		m.Notes,
		m.Status,
		m.CompletedAt,
		m.CompletedBy,
		m.ReconciledCount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save reconciliation")
	}
	return nil
}

func (r *PgxBankRepository) findReconciliation(ctx context.Context, reconciliationID string, lock bool) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE reconciliation_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rec, err := scanReconciliation(r.db(ctx).QueryRow(ctx, query, reconciliationID))
	if err != nil {
		return nil, mapPgError(err, "failed to find reconciliation "+reconciliationID)
	}
	return &rec, nil
}

// FindReconciliationByID retrieves a reconciliation.
func (r *PgxBankRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	return r.findReconciliation(ctx, reconciliationID, false)
}

// FindReconciliationForUpdate retrieves and locks a reconciliation.
func (r *PgxBankRepository) FindReconciliationForUpdate(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	return r.findReconciliation(ctx, reconciliationID, true)
}

// UpdateReconciliation stores the mutable fields of a reconciliation.
func (r *PgxBankRepository) UpdateReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(rec)
	query := `
		UPDATE bank_reconciliations
		SET book_balance = $2, difference = $3, status = $4, completed_at = $5, completed_by = $6,
		    reconciled_count = $7, last_updated_at = $8, last_updated_by = $9, statement_balance = $10
		WHERE reconciliation_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.ReconciliationID,
		m.BookBalance,
		m.Difference,
		m.Status,
		m.CompletedAt,
		m.CompletedBy,
		m.ReconciledCount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.StatementBalance,
	)
	if err != nil {
		return mapPgError(err, "failed to update reconciliation "+m.ReconciliationID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reconciliation", m.ReconciliationID)
	}
	return nil
}

// ListReconciliations lists an account's reconciliations, latest statement first.
func (r *PgxBankRepository) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations
		WHERE bank_account_id = $1
		ORDER BY statement_end_date DESC, created_at DESC;`
	rows, err := r.db(ctx).Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, mapPgError(err, "failed to list reconciliations of "+bankAccountID)
	}
	return collectRows(rows, scanReconciliation, "reconciliation")
}

// LatestReconciliation returns the most recent completed reconciliation, or ErrNotFound.
func (r *PgxBankRepository) LatestReconciliation(ctx context.Context, bankAccountID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations
		WHERE bank_account_id = $1 AND status = 'RECONCILED'
		ORDER BY statement_end_date DESC, completed_at DESC
		LIMIT 1;`
	rec, err := scanReconciliation(r.db(ctx).QueryRow(ctx, query, bankAccountID))
	if err != nil {
		return nil, mapPgError(err, "failed to find latest reconciliation of "+bankAccountID)
	}
	return &rec, nil
}
