// Package sequence provides alternative backends for the daily entry number counter.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// keyTTL keeps a day's counter alive past midnight in every timezone.
const keyTTL = 48 * time.Hour

// RedisEntrySequencer keeps the daily counter in Redis using INCR.
type RedisEntrySequencer struct {
	client redis.Cmdable
	prefix string
}

// NewRedisEntrySequencer creates a Redis-backed entry counter.
func NewRedisEntrySequencer(client redis.Cmdable) *RedisEntrySequencer {
	return &RedisEntrySequencer{client: client, prefix: "ledger:entry-seq:"}
}

var _ portsrepo.EntrySequencer = (*RedisEntrySequencer)(nil)

// Key returns the Redis key holding day's counter.
func (s *RedisEntrySequencer) Key(day time.Time) string {
	return s.prefix + domain.StartOfDay(day).Format("20060102")
}

// NextEntrySequence increments and returns the counter for day's UTC date.
func (s *RedisEntrySequencer) NextEntrySequence(ctx context.Context, day time.Time) (int64, error) {
	key := s.Key(day)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, keyTTL)
		return nil
	})
	if err != nil {
		return 0, apperrors.NewAppError(500, fmt.Sprintf("failed to advance entry sequence %s", key), err)
	}
	return incr.Val(), nil
}

// NewRedisClient builds a client from connection settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
