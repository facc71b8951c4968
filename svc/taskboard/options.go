package taskboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LimitChecker rejects one more resource for a workspace, usually with a
// limit-exceeded error from the billing service.
type LimitChecker func(ctx context.Context, workspaceID uuid.UUID) error

// Option configures a Service.
type Option func(*Service)

// WithTaskLimit is consulted before a task is created, with the workspace
// that owns the target project.
func WithTaskLimit(fn LimitChecker) Option {
	return func(s *Service) {
		s.taskLimit = fn
	}
}

// WithProjectLimit is consulted before a project is created.
func WithProjectLimit(fn LimitChecker) Option {
	return func(s *Service) {
		s.projectLimit = fn
	}
}

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
