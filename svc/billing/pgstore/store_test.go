package pgstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/pkg/apperr"
	"github.com/dmitrymomot/taskflow/pkg/pg/pgtest"
	"github.com/dmitrymomot/taskflow/pkg/signature"
	"github.com/dmitrymomot/taskflow/svc/billing"
	"github.com/dmitrymomot/taskflow/svc/billing/pgstore"
)

func TestStore(t *testing.T) {
	pool := pgtest.New(t)
	ctx := context.Background()

	store := pgstore.New(pool)
	catalog, err := billing.NewCatalog(ctx, billing.NewInMemSource(billing.DefaultPlans("INR")...), "INR", billing.PlanFree)
	require.NoError(t, err)
	signer, err := signature.NewHMAC("secret")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	svc := billing.NewService(catalog, store, signer, billing.WithClock(func() time.Time { return now }))

	verify := func(t *testing.T, o *billing.Order, ref string) (*billing.Subscription, error) {
		t.Helper()
		sig, err := signer.Sign(o.ID.String(), ref)
		require.NoError(t, err)
		return svc.VerifyPayment(ctx, billing.VerifyPaymentInput{
			WorkspaceID:      o.WorkspaceID,
			PlanID:           o.PlanID,
			OrderID:          o.ID,
			PaymentReference: ref,
			Signature:        sig,
		})
	}

	t.Run("free then paid activation", func(t *testing.T) {
		ws := uuid.New()

		free, err := svc.ActivatePlan(ctx, ws, billing.PlanFree)
		require.NoError(t, err)
		require.NotNil(t, free.Subscription)
		assert.Equal(t, billing.OrderPaid, free.Order.Status)

		act, err := svc.ActivatePlan(ctx, ws, billing.PlanPro)
		require.NoError(t, err)
		require.True(t, act.AwaitingPayment())

		sub, err := verify(t, act.Order, "pay_"+uuid.NewString())
		require.NoError(t, err)

		current, err := svc.CurrentSubscription(ctx, ws)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, current.ID)
		assert.Equal(t, "Pro", current.Plan.Name)
		assert.Equal(t, int64(5000), current.Plan.Limits[billing.ResourceTasks])
		assert.True(t, now.Equal(current.CurrentPeriodStart))
		assert.True(t, now.AddDate(0, 1, 0).Equal(current.CurrentPeriodEnd))

		history, err := svc.SubscriptionHistory(ctx, ws)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, billing.SubscriptionCancelled, history[1].Status)
		require.NotNil(t, history[1].CancelledAt)

		_, err = verify(t, act.Order, "pay_again")
		assert.True(t, apperr.IsInvalidState(err))
	})

	t.Run("transition order compare and swap", func(t *testing.T) {
		ws := uuid.New()
		act, err := svc.ActivatePlan(ctx, ws, billing.PlanPro)
		require.NoError(t, err)

		paid, err := svc.Ledger().MarkPaid(ctx, act.Order.ID, "pay_cas")
		require.NoError(t, err)
		assert.Equal(t, billing.OrderPaid, paid.Status)
		assert.Equal(t, "pay_cas", paid.PaymentReference)
		require.NotNil(t, paid.PaidAt)
		assert.True(t, now.Equal(*paid.PaidAt))

		_, err = svc.Ledger().MarkPaid(ctx, act.Order.ID, "pay_cas")
		assert.ErrorIs(t, err, billing.ErrOrderNotPayable)

		_, err = svc.Ledger().MarkPaid(ctx, uuid.New(), "pay_cas")
		assert.ErrorIs(t, err, billing.ErrOrderNotFound)
	})

	t.Run("expire stale orders", func(t *testing.T) {
		ws := uuid.New()
		old := &billing.Order{
			ID: uuid.New(), WorkspaceID: ws, PlanID: billing.PlanPro, Amount: 49900, Currency: "INR",
			Status: billing.OrderCreated, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
		}
		require.NoError(t, store.InsertOrder(ctx, old))

		n, err := svc.ExpireStale(ctx, time.Hour)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		got, err := store.GetOrder(ctx, old.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.OrderExpired, got.Status)

		_, err = verify(t, old, "pay_expired")
		assert.ErrorIs(t, err, billing.ErrOrderNotPayable)
	})

	t.Run("concurrent commits keep one active subscription", func(t *testing.T) {
		ws := uuid.New()
		const n = 10
		orders := make([]*billing.Order, n)
		for i := range orders {
			act, err := svc.ActivatePlan(ctx, ws, billing.PlanPro)
			require.NoError(t, err)
			orders[i] = act.Order
		}

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for _, o := range orders {
			wg.Add(1)
			go func(o *billing.Order) {
				defer wg.Done()
				_, err := verify(t, o, "pay_"+o.ID.String())
				errs <- err
			}(o)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		history, err := svc.SubscriptionHistory(ctx, ws)
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

	t.Run("workspace without subscription", func(t *testing.T) {
		_, err := store.ActiveSubscription(ctx, uuid.New())
		assert.ErrorIs(t, err, billing.ErrSubscriptionNotFound)

		history, err := store.ListSubscriptions(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
