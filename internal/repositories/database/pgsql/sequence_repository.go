package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxEntrySequencer keeps the daily entry counter in the entry_sequences table.
// The upsert is atomic, so concurrent callers never receive the same value.
type PgxEntrySequencer struct {
	BaseRepository
}

// NewPgxEntrySequencer creates the Postgres-backed entry counter.
func NewPgxEntrySequencer(pool *pgxpool.Pool) portsrepo.EntrySequencer {
	return &PgxEntrySequencer{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntrySequencer = (*PgxEntrySequencer)(nil)

// NextEntrySequence increments and returns the counter for day's UTC date.
func (s *PgxEntrySequencer) NextEntrySequence(ctx context.Context, day time.Time) (int64, error) {
	query := `
		INSERT INTO entry_sequences (day, last_value) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_value = entry_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := s.db(ctx).QueryRow(ctx, query, domain.StartOfDay(day)).Scan(&value); err != nil {
		return 0, mapPgError(err, "failed to advance entry sequence")
	}
	return value, nil
}
