package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres-backed repository. The sequencer and
// publisher are left to the caller, which picks them from configuration.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:   newPgxTxManager(dbPool),
		AccountRepo: newPgxAccountRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		BankRepo:    newPgxBankRepository(dbPool),
		Sequencer:   NewPgxEntrySequencer(dbPool),
	}
}
