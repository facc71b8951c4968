package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger creates and settles orders. It never touches subscriptions.
type Ledger struct {
	catalog *Catalog
	orders  OrderStore
	now     func() time.Time
}

// NewLedger returns a Ledger pricing orders from catalog. It panics on nil
// dependencies.
func NewLedger(catalog *Catalog, orders OrderStore, now func() time.Time) *Ledger {
	if catalog == nil {
		panic("billing: catalog is required")
	}
	if orders == nil {
		panic("billing: order store is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{catalog: catalog, orders: orders, now: now}
}

// CreateOrder prices a new order from the plan. Only public plans can be
// ordered. Concurrent calls for the same workspace produce independent orders.
func (l *Ledger) CreateOrder(ctx context.Context, workspaceID uuid.UUID, planID string) (*Order, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrInvalidWorkspace
	}
	plan, err := l.catalog.OrderablePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	order := &Order{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		PlanID:      plan.ID,
		Amount:      plan.Price.Amount,
		Currency:    l.catalog.Currency(),
		Status:      OrderCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.orders.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// GetOrder returns an order by id, or ErrOrderNotFound.
func (l *Ledger) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidOrderID
	}
	return l.orders.GetOrder(ctx, id)
}

// MarkPaid moves an order from created to paid. A second call fails with
// ErrOrderNotPayable. The activation workflow settles orders through
// SubscriptionStore.Commit instead, so the payment and the subscription
// change land together.
func (l *Ledger) MarkPaid(ctx context.Context, id uuid.UUID, paymentReference string) (*Order, error) {
	return l.transition(ctx, id, OrderPaid, paymentReference)
}

// Cancel abandons an order that was never paid.
func (l *Ledger) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	return l.transition(ctx, id, OrderCancelled, "")
}

// ExpireStale expires created orders older than olderThan.
func (l *Ledger) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	now := l.now().UTC()
	return l.orders.ExpireOrders(ctx, now.Add(-olderThan), now)
}

func (l *Ledger) transition(ctx context.Context, id uuid.UUID, to OrderStatus, ref string) (*Order, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidOrderID
	}
	return l.orders.TransitionOrder(ctx, OrderTransition{
		OrderID:          id,
		From:             OrderCreated,
		To:               to,
		PaymentReference: ref,
		At:               l.now().UTC(),
	})
}
