package billing

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/pkg/logger"
)

// SignatureVerifier authenticates (orderID, paymentReference) pairs issued by
// the payment gateway. *signature.HMAC implements it.
type SignatureVerifier interface {
	Verify(orderID, paymentReference, signature string) error
}

// Service runs the plan activation workflow. It keeps no state between calls.
type Service struct {
	catalog  *Catalog
	ledger   *Ledger
	store    Store
	verifier SignatureVerifier
	guard    PaymentReferenceGuard
	observer Observer
	counters map[Resource]ResourceCounterFunc
	log      *slog.Logger
	now      func() time.Time
}

// NewService panics when a required dependency is nil.
func NewService(catalog *Catalog, store Store, verifier SignatureVerifier, opts ...Option) *Service {
	if catalog == nil {
		panic("billing: catalog is required")
	}
	if store == nil {
		panic("billing: store is required")
	}
	if verifier == nil {
		panic("billing: signature verifier is required")
	}

	s := &Service{
		catalog:  catalog,
		store:    store,
		verifier: verifier,
		guard:    NewMemoryReplayGuard(),
		observer: noopObserver{},
		counters: make(map[Resource]ResourceCounterFunc),
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("billing"))
	s.ledger = NewLedger(catalog, store, s.now)
	return s
}

// Catalog returns the plan catalog the service prices orders from.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Ledger returns the order ledger backing the service.
func (s *Service) Ledger() *Ledger { return s.ledger }

// ListPlans returns the public plans in display order.
func (s *Service) ListPlans(ctx context.Context) []Plan {
	return s.catalog.ListPlans(ctx)
}

// ActivatePlan starts a plan change. Free plans are committed right away;
// paid plans return the order that VerifyPayment must confirm.
func (s *Service) ActivatePlan(ctx context.Context, workspaceID uuid.UUID, planID string) (*Activation, error) {
	plan, err := s.catalog.OrderablePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.CreateOrder(ctx, workspaceID, plan.ID)
	if err != nil {
		return nil, err
	}

	if order.Amount > 0 {
		s.log.InfoContext(ctx, "order awaiting payment",
			logger.WorkspaceID(workspaceID), logger.OrderID(order.ID), logger.PlanID(plan.ID))
		return &Activation{Order: order}, nil
	}

	sub, err := s.commit(ctx, order, plan, "", BranchFree)
	if err != nil {
		return nil, err
	}
	order, err = s.store.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &Activation{Order: order, Subscription: sub}, nil
}

// VerifyPayment checks a gateway confirmation and commits the subscription.
// The signature is verified before anything is written. Orders for plans that
// were retired after the order was placed fail with ErrPlanNotFound.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*Subscription, error) {
	order, err := s.ledger.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	attrs := []any{logger.WorkspaceID(in.WorkspaceID), logger.OrderID(in.OrderID)}

	if order.WorkspaceID != in.WorkspaceID || order.PlanID != in.PlanID {
		s.reject(ctx, RejectOrderMismatch, slog.LevelWarn, "payment confirmation does not match order", attrs...)
		return nil, ErrOrderMismatch
	}

	plan, err := s.catalog.OrderablePlan(ctx, order.PlanID)
	if err != nil {
		return nil, err
	}

	if err := s.verifier.Verify(order.ID.String(), in.PaymentReference, in.Signature); err != nil {
		s.reject(ctx, RejectSignature, slog.LevelWarn, "payment signature rejected", append(attrs, logger.Error(err))...)
		return nil, errors.Join(ErrSignatureInvalid, err)
	}

	if err := s.guard.Claim(ctx, in.PaymentReference, order.ID); err != nil {
		if errors.Is(err, ErrPaymentReferenceReuse) {
			s.reject(ctx, RejectReplayedRef, slog.LevelWarn, "payment reference replayed", attrs...)
		}
		return nil, err
	}

	sub, err := s.commit(ctx, order, plan, in.PaymentReference, BranchPaid)
	if errors.Is(err, ErrOrderNotPayable) {
		s.reject(ctx, RejectOrderNotPayable, slog.LevelInfo, "order already settled", attrs...)
	}
	return sub, err
}

// CancelOrder abandons an unpaid order of the workspace.
func (s *Service) CancelOrder(ctx context.Context, workspaceID, orderID uuid.UUID) (*Order, error) {
	order, err := s.ledger.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.WorkspaceID != workspaceID {
		return nil, ErrOrderNotFound
	}
	return s.ledger.Cancel(ctx, orderID)
}

// GetOrder returns an order of the workspace. Orders of other workspaces are
// reported as not found.
func (s *Service) GetOrder(ctx context.Context, workspaceID, orderID uuid.UUID) (*Order, error) {
	order, err := s.ledger.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.WorkspaceID != workspaceID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CurrentSubscription returns nil, nil when the workspace has none.
func (s *Service) CurrentSubscription(ctx context.Context, workspaceID uuid.UUID) (*Subscription, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrInvalidWorkspace
	}
	sub, err := s.store.ActiveSubscription(ctx, workspaceID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, nil
	}
	return sub, err
}

// SubscriptionHistory returns every subscription of the workspace, newest
// first.
func (s *Service) SubscriptionHistory(ctx context.Context, workspaceID uuid.UUID) ([]Subscription, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrInvalidWorkspace
	}
	return s.store.ListSubscriptions(ctx, workspaceID)
}

// EffectivePlan is the plan snapshot of the live subscription, or the default
// free plan when there is none or its period has ended.
func (s *Service) EffectivePlan(ctx context.Context, workspaceID uuid.UUID) (Plan, error) {
	sub, err := s.CurrentSubscription(ctx, workspaceID)
	if err != nil {
		return Plan{}, err
	}
	if sub.Live(s.now()) {
		return sub.Plan, nil
	}
	return s.catalog.DefaultPlan(), nil
}

// CanCreate fails with ErrLimitExceeded when creating one more res would go
// over the effective plan's cap.
func (s *Service) CanCreate(ctx context.Context, workspaceID uuid.UUID, res Resource) error {
	plan, err := s.EffectivePlan(ctx, workspaceID)
	if err != nil {
		return err
	}
	limit, limited := plan.Limit(res)
	if !limited {
		return nil
	}

	counter, ok := s.counters[res]
	if !ok {
		return errors.Join(ErrNoCounterRegistered, errors.New(string(res)))
	}
	current, err := counter(ctx, workspaceID)
	if err != nil {
		return errors.Join(ErrFailedToCountUsage, err)
	}
	if current >= limit {
		return ErrLimitExceeded
	}
	return nil
}

// Usage reports every resource that is capped by the effective plan or has a
// registered counter.
func (s *Service) Usage(ctx context.Context, workspaceID uuid.UUID) (*Usage, error) {
	plan, err := s.EffectivePlan(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(plan.Limits)+len(s.counters))
	for res := range plan.Limits {
		resources = append(resources, res)
	}
	for res := range s.counters {
		if !slices.Contains(resources, res) {
			resources = append(resources, res)
		}
	}

	usage := &Usage{Plan: plan, Resources: make(map[Resource]UsageInfo, len(resources))}
	for _, res := range resources {
		var info UsageInfo
		if limit, ok := plan.Limit(res); ok {
			info.Limit = &limit
		}
		if counter, ok := s.counters[res]; ok {
			n, err := counter(ctx, workspaceID)
			if err != nil {
				return nil, errors.Join(ErrFailedToCountUsage, err)
			}
			info.Current = n
		}
		usage.Resources[res] = info
	}
	return usage, nil
}

// ExpireStale expires created orders older than olderThan.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.ledger.ExpireStale(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.InfoContext(ctx, "expired stale orders", slog.Int64("count", n))
		s.observer.OrdersExpired(ctx, n)
	}
	return n, nil
}

// commit settles the order and swaps the workspace's active subscription in
// one store unit of work.
func (s *Service) commit(ctx context.Context, order *Order, plan Plan, ref, branch string) (*Subscription, error) {
	start := s.now().UTC()
	sub, err := s.store.Commit(ctx, CommitRequest{
		OrderID:          order.ID,
		PaymentReference: ref,
		At:               start,
		Subscription: &Subscription{
			ID:                 uuid.New(),
			WorkspaceID:        order.WorkspaceID,
			PlanID:             plan.ID,
			Plan:               plan,
			Status:             SubscriptionActive,
			OrderID:            order.ID,
			PaymentReference:   ref,
			CurrentPeriodStart: start,
			CurrentPeriodEnd:   start.AddDate(0, 1, 0),
			CreatedAt:          start,
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription committed",
		logger.WorkspaceID(sub.WorkspaceID),
		logger.SubscriptionID(sub.ID),
		logger.OrderID(order.ID),
		logger.PlanID(plan.ID),
		slog.String("branch", branch),
	)
	s.observer.ActivationCommitted(ctx, plan.ID, branch)
	return sub, nil
}

func (s *Service) reject(ctx context.Context, reason string, level slog.Level, msg string, attrs ...any) {
	s.log.Log(ctx, level, msg, append(attrs, slog.String("reason", reason))...)
	s.observer.PaymentRejected(ctx, reason)
}
