package commands

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/events"
	"github.com/SscSPs/ledger_engine/internal/platform/sequence"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// engine is the wired application: pool, optional redis, publisher and services.
type engine struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	publisher portsrepo.EventPublisher
	services  *portssvc.ServiceContainer
}

// openEngine connects to the configured backends and builds the service container.
func openEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	e := &engine{pool: pool}

	if cfg.EntrySequenceBackend == config.SequenceBackendRedis || cfg.EventPublisher == config.PublisherRedis {
		e.rdb = sequence.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := e.rdb.Ping(ctx).Err(); err != nil {
			e.Close(logger)
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Redis connection established.", slog.String("addr", cfg.RedisAddr))
	}

	repos := pgsql.NewRepositoryProvider(pool)
	if cfg.EntrySequenceBackend == config.SequenceBackendRedis {
		repos.Sequencer = sequence.NewRedisEntrySequencer(e.rdb)
	}

	e.publisher, err = events.NewPublisher(cfg, e.rdb)
	if err != nil {
		e.Close(logger)
		return nil, err
	}
	repos.Publisher = e.publisher

	logger.Info("Engine wired",
		slog.String("entry_sequence_backend", cfg.EntrySequenceBackend),
		slog.String("event_publisher", cfg.EventPublisher))

	e.services = services.NewServiceContainer(cfg, repos)
	return e, nil
}

// Close releases every backend connection. It is safe on a partially opened engine.
func (e *engine) Close(logger *slog.Logger) {
	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}
	if e.rdb != nil {
		if err := e.rdb.Close(); err != nil {
			logger.Error("Failed to close redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(e.pool)
}
