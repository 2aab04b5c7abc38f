package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/idgen"
)

// BaseService provides common functionality for all services
type BaseService struct {
	publisher portsrepo.EventPublisher
	now       func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Now returns the service clock in UTC.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// Publish emits an event for a committed change. Delivery failures are logged only.
func (s *BaseService) Publish(ctx context.Context, eventType domain.EventType, aggregateID, actor string, payload any) {
	if s.publisher == nil {
		return
	}
	event := domain.Event{
		EventID:     idgen.NewULID(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  s.Now(),
		Actor:       actor,
		Payload:     payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("aggregate_id", aggregateID))
	}
}

// isExpected reports errors that are normal outcomes and not worth an error log.
func isExpected(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// withRetry runs fn again while it fails with a retryable conflict, up to attempts times in total.
func (s *BaseService) withRetry(ctx context.Context, attempts int, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !apperrors.IsRetryable(err) || attempt >= attempts {
			return err
		}
		s.LogDebug(ctx, "Retrying after concurrent modification",
			slog.String("operation", op),
			slog.Int("attempt", attempt))
	}
}
