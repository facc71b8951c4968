package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/pkg/signature"
	"github.com/dmitrymomot/taskflow/svc/billing"
)

const gatewaySecret = "test-gateway-secret"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingObserver struct {
	mu          sync.Mutex
	activations []string
	rejections  []string
	expired     int64
}

func (o *recordingObserver) ActivationCommitted(_ context.Context, planID, branch string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.activations = append(o.activations, planID+"/"+branch)
}

func (o *recordingObserver) PaymentRejected(_ context.Context, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejections = append(o.rejections, reason)
}

func (o *recordingObserver) OrdersExpired(_ context.Context, n int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.expired += n
}

type fixture struct {
	svc      *billing.Service
	store    *billing.MemoryStore
	signer   *signature.HMAC
	clock    *clock
	observer *recordingObserver
}

func newFixture(t *testing.T, opts ...billing.Option) *fixture {
	t.Helper()

	catalog, err := billing.NewCatalog(context.Background(),
		billing.NewInMemSource(billing.DefaultPlans("INR")...), "INR", billing.PlanFree)
	require.NoError(t, err)

	signer, err := signature.NewHMAC(gatewaySecret)
	require.NoError(t, err)

	f := &fixture{
		store:    billing.NewMemoryStore(),
		signer:   signer,
		clock:    newClock(),
		observer: &recordingObserver{},
	}
	opts = append([]billing.Option{
		billing.WithClock(f.clock.Now),
		billing.WithObserver(f.observer),
	}, opts...)
	f.svc = billing.NewService(catalog, f.store, signer, opts...)
	return f
}

func (f *fixture) sign(t *testing.T, order *billing.Order, ref string) string {
	t.Helper()
	sig, err := f.signer.Sign(order.ID.String(), ref)
	require.NoError(t, err)
	return sig
}

func (f *fixture) verifyInput(t *testing.T, order *billing.Order, ref string) billing.VerifyPaymentInput {
	t.Helper()
	return billing.VerifyPaymentInput{
		WorkspaceID:      order.WorkspaceID,
		PlanID:           order.PlanID,
		OrderID:          order.ID,
		PaymentReference: ref,
		Signature:        f.sign(t, order, ref),
	}
}
