// Package events delivers committed ledger events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// Encode renders the wire form shared by every publisher.
func Encode(event domain.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	return payload, nil
}

// NewPublisher builds the publisher selected by EVENT_PUBLISHER. rdb is only
// required for the redis publisher.
func NewPublisher(cfg *config.Config, rdb *redis.Client) (portsrepo.EventPublisher, error) {
	switch cfg.EventPublisher {
	case config.PublisherKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka publisher requires KAFKA_BROKERS and KAFKA_TOPIC")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.PublisherRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis publisher requires a redis client")
		}
		return NewRedisPublisher(rdb, cfg.RedisEventsChannel), nil
	default:
		return NoopPublisher{}, nil
	}
}

// NoopPublisher drops events after logging them at debug level.
type NoopPublisher struct{}

var _ portsrepo.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, event domain.Event) error {
	middleware.GetLoggerFromCtx(ctx).Debug("Event not published, no publisher configured",
		"event_type", event.Type, "aggregate_id", event.AggregateID)
	return nil
}

func (NoopPublisher) Close() error { return nil }
