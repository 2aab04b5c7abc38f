package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

const accountColumns = `account_id, code, name, account_type, subtype, normal_balance, report_category,
	cash_flow_role, parent_account_id, level, description, currency_code, is_system_account,
	allow_manual_entry, is_active, balance, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row scanner) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Subtype,
		&m.NormalBalance,
		&m.ReportCategory,
		&m.CashFlowRole,
		&m.ParentAccountID,
		&m.Level,
		&m.Description,
		&m.CurrencyCode,
		&m.IsSystemAccount,
		&m.AllowManualEntry,
		&m.IsActive,
		&m.Balance,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) (map[string]domain.Account, error) {
	defer rows.Close()
	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accountsMap, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`

	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Subtype,
		m.NormalBalance,
		m.ReportCategory,
		m.CashFlowRole,
		m.ParentAccountID,
		m.Level,
		m.Description,
		m.CurrencyCode,
		m.IsSystemAccount,
		m.AllowManualEntry,
		m.IsActive,
		m.Balance,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save account "+m.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "failed to find account "+accountID)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapPgError(err, "failed to find account with code "+code)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
// Missing IDs are simply absent from the map; callers check completeness.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.db(ctx).Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query accounts by IDs")
	}
	return collectAccounts(rows)
}

// ListAccounts retrieves accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE ($1::text IS NULL OR account_type = $1)
		  AND ($2 OR is_active = TRUE)
		  AND ($3::text IS NULL OR parent_account_id = $3)
		ORDER BY code`
	args := []any{nil, filter.IncludeInactive, nil}
	if filter.AccountType != nil {
		args[0] = string(*filter.AccountType)
	}
	if filter.ParentAccountID != nil {
		args[2] = *filter.ParentAccountID
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates an existing account's descriptive fields.
// Type, normal balance, code and balance are never touched here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, description = $3, subtype = $4, report_category = $5, cash_flow_role = $6,
		    allow_manual_entry = $7, last_updated_at = $8, last_updated_by = $9
		WHERE account_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Description,
		m.Subtype,
		m.ReportCategory,
		m.CashFlowRole,
		m.AllowManualEntry,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update account "+m.AccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", m.AccountID)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return mapPgError(err, "failed to deactivate account "+accountID)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		_, findErr := r.FindAccountByID(ctx, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return findErr
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return apperrors.NewAppError(422, "account "+accountID+" is already inactive", nil)
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the account rows in ascending id order so that
// concurrent posters touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := r.db(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, mapPgError(err, "failed to lock accounts for update")
	}
	return collectAccounts(rows)
}

// ApplyBalanceDeltas adds each delta to the cached balance and bumps the row version.
func (r *PgxAccountRepository) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	return r.batchBalanceUpdate(ctx, `
		UPDATE accounts
		SET balance = balance + $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`, deltas, userID, now)
}

// OverwriteBalances replaces cached balances with values recomputed from the ledger.
func (r *PgxAccountRepository) OverwriteBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	return r.batchBalanceUpdate(ctx, `
		UPDATE accounts
		SET balance = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`, balances, userID, now)
}

func (r *PgxAccountRepository) batchBalanceUpdate(ctx context.Context, query string, values map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(values) == 0 {
		return nil
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, values[id], now, userID, id)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	for _, id := range ids {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return mapPgError(err, "failed to update balance of account "+id)
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return apperrors.NewNotFoundError("account", id)
		}
	}
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to close balance update batch")
	}
	return nil
}
