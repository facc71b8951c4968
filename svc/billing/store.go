package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStore persists orders. Status changes are compare-and-swap: only a
// caller that observes the order in from may move it to to.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *Order) error
	// GetOrder returns ErrOrderNotFound for unknown ids.
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	// TransitionOrder returns ErrOrderNotFound for unknown ids and
	// ErrOrderNotPayable when the order is not in from.
	TransitionOrder(ctx context.Context, req OrderTransition) (*Order, error)
	// ExpireOrders moves every created order older than createdBefore to
	// expired and returns how many were moved.
	ExpireOrders(ctx context.Context, createdBefore, now time.Time) (int64, error)
}

// OrderTransition is a conditional status change.
type OrderTransition struct {
	OrderID          uuid.UUID
	From             OrderStatus
	To               OrderStatus
	PaymentReference string
	At               time.Time
}

// SubscriptionStore persists subscriptions.
type SubscriptionStore interface {
	// ActiveSubscription returns ErrSubscriptionNotFound when the workspace
	// has no active subscription.
	ActiveSubscription(ctx context.Context, workspaceID uuid.UUID) (*Subscription, error)
	// ListSubscriptions returns every subscription of a workspace, newest first.
	ListSubscriptions(ctx context.Context, workspaceID uuid.UUID) ([]Subscription, error)
	// Commit runs as one unit of work, isolated per workspace:
	//   1. the order moves created -> paid (ErrOrderNotPayable otherwise),
	//   2. the workspace's active subscription, if any, becomes cancelled,
	//   3. req.Subscription is inserted as active.
	// Nothing is written when any step fails.
	Commit(ctx context.Context, req CommitRequest) (*Subscription, error)
}

// CommitRequest is the unit of work applied by SubscriptionStore.Commit.
type CommitRequest struct {
	OrderID          uuid.UUID
	PaymentReference string
	At               time.Time
	Subscription     *Subscription
}

// Store is the full persistence contract of the Service.
type Store interface {
	OrderStore
	SubscriptionStore
}
