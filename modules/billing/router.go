// Package billing mounts the plan activation workflow over HTTP+JSON.
package billing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/handler"
	"github.com/dmitrymomot/taskflow/pkg/logger"
	billingsvc "github.com/dmitrymomot/taskflow/svc/billing"
)

// Service is the subset of *billingsvc.Service used by the router.
type Service interface {
	ListPlans(ctx context.Context) []billingsvc.Plan
	ActivatePlan(ctx context.Context, workspaceID uuid.UUID, planID string) (*billingsvc.Activation, error)
	VerifyPayment(ctx context.Context, in billingsvc.VerifyPaymentInput) (*billingsvc.Subscription, error)
	GetOrder(ctx context.Context, workspaceID, orderID uuid.UUID) (*billingsvc.Order, error)
	CancelOrder(ctx context.Context, workspaceID, orderID uuid.UUID) (*billingsvc.Order, error)
	CurrentSubscription(ctx context.Context, workspaceID uuid.UUID) (*billingsvc.Subscription, error)
	SubscriptionHistory(ctx context.Context, workspaceID uuid.UUID) ([]billingsvc.Subscription, error)
	Usage(ctx context.Context, workspaceID uuid.UUID) (*billingsvc.Usage, error)
}

type RouterOptions struct {
	Service Service
	Logger  *slog.Logger
	// Auth guards every route except the public plan list.
	Auth func(http.Handler) http.Handler
}

// Router builds the billing routes.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/v1/billing", billing.Router(billing.RouterOptions{
//	    Service: billingSvc,
//	    Logger:  log,
//	    Auth:    jwt.Middleware(tokens),
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Service == nil {
		panic("billing module: service is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{svc: opts.Service, errs: handler.NewErrorHandler(log.With(logger.Component("billing_http")))}

	r := chi.NewRouter()
	r.Get("/plans", wrap(h.errs, h.listPlans))

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Post("/orders", wrap(h.errs, h.createOrder, jsonBody))
		r.Post("/payments/verify", wrap(h.errs, h.verifyPayment, jsonBody))

		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Get("/subscription", wrap(h.errs, h.currentSubscription, pathParams))
			r.Get("/subscriptions", wrap(h.errs, h.subscriptionHistory, pathParams))
			r.Get("/usage", wrap(h.errs, h.usage, pathParams))
			r.Get("/orders/{orderID}", wrap(h.errs, h.getOrder, pathParams))
			r.Post("/orders/{orderID}/cancel", wrap(h.errs, h.cancelOrder, pathParams))
		})
	})

	return r
}

func wrap[R any](eh handler.ErrorHandler[handler.Context], fn handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(fn,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](eh),
	)
}
