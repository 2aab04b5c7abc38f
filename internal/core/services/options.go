package services

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithPublisher sets the publisher used for post-commit events.
func WithPublisher(p portsrepo.EventPublisher) Option {
	return func(s *BaseService) {
		s.publisher = p
	}
}

// WithClock overrides the service clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) {
		s.now = now
	}
}

func newBaseService(opts []Option) BaseService {
	var base BaseService
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
