package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/svc/billing"
)

func insertOrder(t *testing.T, store *billing.MemoryStore, ws uuid.UUID, at time.Time) *billing.Order {
	t.Helper()
	o := &billing.Order{
		ID:          uuid.New(),
		WorkspaceID: ws,
		PlanID:      billing.PlanPro,
		Amount:      49900,
		Currency:    "INR",
		Status:      billing.OrderCreated,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, store.InsertOrder(context.Background(), o))
	return o
}

func commitRequest(o *billing.Order, ref string, at time.Time) billing.CommitRequest {
	return billing.CommitRequest{
		OrderID:          o.ID,
		PaymentReference: ref,
		At:               at,
		Subscription: &billing.Subscription{
			ID:                 uuid.New(),
			WorkspaceID:        o.WorkspaceID,
			PlanID:             o.PlanID,
			Status:             billing.SubscriptionActive,
			OrderID:            o.ID,
			PaymentReference:   ref,
			CurrentPeriodStart: at,
			CurrentPeriodEnd:   at.AddDate(0, 1, 0),
			CreatedAt:          at,
		},
	}
}

func TestMemoryStore_Commit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("supersedes the active subscription", func(t *testing.T) {
		t.Parallel()
		store := billing.NewMemoryStore()
		ws := uuid.New()

		first := insertOrder(t, store, ws, now)
		sub1, err := store.Commit(ctx, commitRequest(first, "pay_1", now))
		require.NoError(t, err)

		later := now.Add(time.Hour)
		second := insertOrder(t, store, ws, later)
		sub2, err := store.Commit(ctx, commitRequest(second, "pay_2", later))
		require.NoError(t, err)

		active, err := store.ActiveSubscription(ctx, ws)
		require.NoError(t, err)
		assert.Equal(t, sub2.ID, active.ID)

		history, err := store.ListSubscriptions(ctx, ws)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, sub2.ID, history[0].ID)
		assert.Equal(t, sub1.ID, history[1].ID)
		assert.Equal(t, billing.SubscriptionCancelled, history[1].Status)
		require.NotNil(t, history[1].CancelledAt)
		assert.Equal(t, later, *history[1].CancelledAt)

		o, err := store.GetOrder(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.OrderPaid, o.Status)
		assert.Equal(t, "pay_2", o.PaymentReference)
	})

	t.Run("settled order writes nothing", func(t *testing.T) {
		t.Parallel()
		store := billing.NewMemoryStore()
		ws := uuid.New()
		order := insertOrder(t, store, ws, now)

		_, err := store.Commit(ctx, commitRequest(order, "pay_1", now))
		require.NoError(t, err)
		_, err = store.Commit(ctx, commitRequest(order, "pay_1", now))
		assert.ErrorIs(t, err, billing.ErrOrderNotPayable)

		history, err := store.ListSubscriptions(ctx, ws)
		require.NoError(t, err)
		assert.Len(t, history, 1)
		assert.Equal(t, billing.SubscriptionActive, history[0].Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		t.Parallel()
		store := billing.NewMemoryStore()
		_, err := store.Commit(ctx, commitRequest(&billing.Order{ID: uuid.New(), WorkspaceID: uuid.New()}, "", now))
		assert.ErrorIs(t, err, billing.ErrOrderNotFound)
	})

	t.Run("concurrent commits keep one active subscription", func(t *testing.T) {
		t.Parallel()
		store := billing.NewMemoryStore()
		ws := uuid.New()

		const n = 32
		orders := make([]*billing.Order, n)
		for i := range orders {
			orders[i] = insertOrder(t, store, ws, now)
		}

		var wg sync.WaitGroup
		for i := range orders {
			wg.Add(1)
			go func(o *billing.Order) {
				defer wg.Done()
				_, err := store.Commit(ctx, commitRequest(o, "", now))
				assert.NoError(t, err)
			}(orders[i])
		}
		wg.Wait()

		history, err := store.ListSubscriptions(ctx, ws)
		require.NoError(t, err)
		require.Len(t, history, n)

		active := 0
		for _, s := range history {
			if s.Status == billing.SubscriptionActive {
				active++
			}
		}
		assert.Equal(t, 1, active)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := billing.NewMemoryStore()
	order := insertOrder(t, store, uuid.New(), time.Now())

	order.Status = billing.OrderPaid
	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.OrderCreated, got.Status)

	got.Amount = 1
	again, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(49900), again.Amount)
}
