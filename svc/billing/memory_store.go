package billing

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps orders and subscriptions in process memory. One mutex
// guards both, so Commit is a single critical section.
type MemoryStore struct {
	mu            sync.RWMutex
	orders        map[uuid.UUID]*Order
	subscriptions map[uuid.UUID][]*Subscription
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:        make(map[uuid.UUID]*Order),
		subscriptions: make(map[uuid.UUID][]*Subscription),
	}
}

func (s *MemoryStore) InsertOrder(_ context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id uuid.UUID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryStore) TransitionOrder(_ context.Context, req OrderTransition) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.transitionLocked(req)
	if err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (s *MemoryStore) ExpireOrders(_ context.Context, createdBefore, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, o := range s.orders {
		if o.Status == OrderCreated && o.CreatedAt.Before(createdBefore) {
			o.Status = OrderExpired
			o.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ActiveSubscription(_ context.Context, workspaceID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions[workspaceID] {
		if sub.Status == SubscriptionActive {
			return sub.Clone(), nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (s *MemoryStore) ListSubscriptions(_ context.Context, workspaceID uuid.UUID) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := s.subscriptions[workspaceID]
	out := make([]Subscription, 0, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		out = append(out, *subs[i].Clone())
	}
	slices.SortStableFunc(out, func(a, b Subscription) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out, nil
}

func (s *MemoryStore) Commit(_ context.Context, req CommitRequest) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[req.OrderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.Status != OrderCreated {
		return nil, ErrOrderNotPayable
	}

	wsID := req.Subscription.WorkspaceID
	var current *Subscription
	for _, sub := range s.subscriptions[wsID] {
		if sub.Status == SubscriptionActive {
			current = sub
			break
		}
	}
	if current != nil {
		if err := SubscriptionTransitions.Transition(current.Status, SubscriptionCancelled); err != nil {
			return nil, err
		}
	}

	// all checks done, apply
	if _, err := s.transitionLocked(OrderTransition{
		OrderID:          req.OrderID,
		From:             OrderCreated,
		To:               OrderPaid,
		PaymentReference: req.PaymentReference,
		At:               req.At,
	}); err != nil {
		return nil, err
	}
	if current != nil {
		at := req.At
		current.Status = SubscriptionCancelled
		current.CancelledAt = &at
	}

	sub := req.Subscription.Clone()
	sub.Status = SubscriptionActive
	s.subscriptions[wsID] = append(s.subscriptions[wsID], sub)
	return sub.Clone(), nil
}

func (s *MemoryStore) transitionLocked(req OrderTransition) (*Order, error) {
	o, ok := s.orders[req.OrderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.Status != req.From || OrderTransitions.Transition(o.Status, req.To) != nil {
		return nil, ErrOrderNotPayable
	}

	o.Status = req.To
	o.UpdatedAt = req.At
	if req.To == OrderPaid {
		at := req.At
		o.PaidAt = &at
		o.PaymentReference = req.PaymentReference
	}
	return o, nil
}
