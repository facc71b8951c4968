package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/handler"
	"github.com/dmitrymomot/taskflow/migrations"
	billingmod "github.com/dmitrymomot/taskflow/modules/billing"
	tasksmod "github.com/dmitrymomot/taskflow/modules/tasks"
	"github.com/dmitrymomot/taskflow/pkg/httpserver"
	"github.com/dmitrymomot/taskflow/pkg/jwt"
	"github.com/dmitrymomot/taskflow/pkg/logger"
	"github.com/dmitrymomot/taskflow/pkg/metrics"
	"github.com/dmitrymomot/taskflow/pkg/pg"
	"github.com/dmitrymomot/taskflow/pkg/redis"
	"github.com/dmitrymomot/taskflow/pkg/requestid"
	"github.com/dmitrymomot/taskflow/pkg/signature"
	"github.com/dmitrymomot/taskflow/svc/billing"
	billingpg "github.com/dmitrymomot/taskflow/svc/billing/pgstore"
	"github.com/dmitrymomot/taskflow/svc/taskboard"
	taskpg "github.com/dmitrymomot/taskflow/svc/taskboard/pgstore"
)

const readinessTimeout = 3 * time.Second

// app holds the wired services of one server process.
type app struct {
	log     *slog.Logger
	router  http.Handler
	billing *billing.Service
	sweeper *billing.Sweeper
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, s settings, log *slog.Logger) (*app, error) {
	a := &app{log: log}
	var checks []httpserver.Check

	var (
		billingStore billing.Store
		taskStore    taskboard.Store
	)
	switch {
	case s.PG != nil:
		pool, err := pg.Connect(ctx, *s.PG)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		if err := pg.Migrate(ctx, pool, migrations.FS, ".", s.PG.MigrationsTable, log); err != nil {
			a.Close()
			return nil, err
		}
		billingStore = billingpg.New(pool)
		taskStore = taskpg.New(pool)
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	default:
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		billingStore = billing.NewMemoryStore()
		taskStore = taskboard.NewMemoryStore()
	}

	replayGuard := billing.NewMemoryReplayGuard()
	if s.Redis != nil {
		client, err := redis.Connect(ctx, *s.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		replayGuard = billing.NewRedisReplayGuard(client, s.Billing.ReplayTTL)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	catalog, err := billing.NewCatalog(ctx, s.Billing.PlansSource(), s.Billing.Currency, s.Billing.DefaultPlanID)
	if err != nil {
		a.Close()
		return nil, err
	}
	verifier, err := signature.NewHMAC(s.Billing.GatewaySecret)
	if err != nil {
		a.Close()
		return nil, err
	}
	tokens, err := jwt.NewFromString(s.App.JWTSigningKey, jwt.WithIssuer(s.App.Name))
	if err != nil {
		a.Close()
		return nil, err
	}

	m := metrics.New(nil)
	a.billing = billing.NewService(catalog, billingStore, verifier,
		billing.WithLogger(log),
		billing.WithObserver(m),
		billing.WithReplayGuard(replayGuard),
		billing.WithCounter(billing.ResourceProjects, taskStore.CountProjectsByWorkspace),
		billing.WithCounter(billing.ResourceTasks, taskStore.CountByWorkspace),
	)
	board := taskboard.NewService(taskStore,
		taskboard.WithLogger(log),
		taskboard.WithProjectLimit(func(ctx context.Context, ws uuid.UUID) error {
			return a.billing.CanCreate(ctx, ws, billing.ResourceProjects)
		}),
		taskboard.WithTaskLimit(func(ctx context.Context, ws uuid.UUID) error {
			return a.billing.CanCreate(ctx, ws, billing.ResourceTasks)
		}),
	)

	if s.Billing.OrderTTL > 0 {
		a.sweeper, err = billing.NewSweeper(a.billing, s.Billing.OrderTTL, s.Billing.SweepSchedule, log)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	auth := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service: tokens,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.DebugContext(r.Context(), "request rejected", logger.Error(err))
			handler.WriteError(w, handler.Classify(handler.ErrUnauthorized))
		},
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer, m.Middleware)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, handler.Classify(handler.ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, handler.Classify(handler.ErrMethodNotAllowed))
	})

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, readinessTimeout, checks...))
	r.Handle("/metrics", m.Handler())

	r.Mount("/v1/billing", billingmod.Router(billingmod.RouterOptions{Service: a.billing, Logger: log, Auth: auth}))
	r.Mount("/v1", tasksmod.Router(tasksmod.RouterOptions{Service: board, Logger: log, Auth: auth}))

	a.router = r
	return a, nil
}
