package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/taskflow/pkg/logger"
)

var ErrInvalidSweepSchedule = errors.New("billing: invalid order sweep schedule")

// Sweeper expires abandoned orders on a cron schedule.
type Sweeper struct {
	svc  *Service
	ttl  time.Duration
	cron *cron.Cron
	log  *slog.Logger
}

// NewSweeper schedules svc.ExpireStale(ttl). schedule accepts standard cron
// expressions and descriptors such as "@every 10m".
func NewSweeper(svc *Service, ttl time.Duration, schedule string, log *slog.Logger) (*Sweeper, error) {
	if svc == nil {
		panic("billing: service is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &Sweeper{
		svc:  svc,
		ttl:  ttl,
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With(logger.Component("order_sweeper")),
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.SweepOnce(context.Background()) }); err != nil {
		return nil, errors.Join(ErrInvalidSweepSchedule, err)
	}
	return s, nil
}

// SweepOnce runs one expiry pass.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.svc.ExpireStale(ctx, s.ttl)
	if err != nil {
		s.log.ErrorContext(ctx, "order sweep failed", logger.Error(err))
		return 0
	}
	return n
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running sweep to finish.
func (s *Sweeper) Run(ctx context.Context) error {
	s.cron.Start()
	s.log.InfoContext(ctx, "order sweeper started", slog.Duration("ttl", s.ttl))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.InfoContext(ctx, "order sweeper stopped")
	return nil
}
