package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LedgerWriter appends ledger rows. Rows are never updated or deleted.
type LedgerWriter interface {
	InsertLedgerRows(ctx context.Context, rows []domain.LedgerRow) error
}

// LedgerReader aggregates and lists ledger rows.
type LedgerReader interface {
	// SumBalances returns debit/credit sums per account for rows dated inside window.
	// A zero window.From means since inception.
	SumBalances(ctx context.Context, window domain.DateRange) (map[string]domain.BalanceSums, error)

	// SumAccount returns the debit/credit sums of one account inside window.
	SumAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.BalanceSums, error)

	// ListAccountRows returns an account's rows ordered by entry date then insertion sequence.
	ListAccountRows(ctx context.Context, accountID string, window domain.DateRange) ([]domain.LedgerRow, error)

	// ListGeneralLedger returns a filtered page ordered by entry date desc then sequence desc.
	ListGeneralLedger(ctx context.Context, filter domain.GeneralLedgerFilter) (*domain.GeneralLedgerPage, error)

	// AccountActivity summarizes an account's postings in a fiscal month.
	AccountActivity(ctx context.Context, accountID string, year, month int) (*domain.AccountActivity, error)
}

// LedgerRepositoryFacade combines ledger reads and writes.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
