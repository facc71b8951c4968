package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ResourceCounterFunc returns the current usage of a resource in a workspace.
// It runs on every limit check.
type ResourceCounterFunc func(ctx context.Context, workspaceID uuid.UUID) (int64, error)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReplayGuard sets the guard that binds a payment reference to one order.
func WithReplayGuard(g PaymentReferenceGuard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithObserver receives activation and rejection events.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithCounter registers the usage counter for res. Panics when a counter for
// res is already registered.
func WithCounter(res Resource, fn ResourceCounterFunc) Option {
	return func(s *Service) {
		if fn == nil {
			return
		}
		if _, exists := s.counters[res]; exists {
			panic("billing: counter for resource " + string(res) + " already registered")
		}
		s.counters[res] = fn
	}
}
