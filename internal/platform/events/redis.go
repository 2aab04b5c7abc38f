package events

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out over a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

var _ portsrepo.EventPublisher = (*RedisPublisher)(nil)

func (p *RedisPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, p.channel, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (p *RedisPublisher) Close() error {
	return nil
}
