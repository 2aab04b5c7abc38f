package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// EventPublisher delivers committed domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
