package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/svc/billing"
)

func TestReplayGuards(t *testing.T) {
	t.Parallel()

	guards := map[string]func(t *testing.T) billing.PaymentReferenceGuard{
		"memory": func(*testing.T) billing.PaymentReferenceGuard {
			return billing.NewMemoryReplayGuard()
		},
		"redis": func(t *testing.T) billing.PaymentReferenceGuard {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return billing.NewRedisReplayGuard(client, time.Hour)
		},
	}

	for name, newGuard := range guards {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			guard := newGuard(t)
			orderA, orderB := uuid.New(), uuid.New()

			require.NoError(t, guard.Claim(ctx, "pay_1", orderA))
			assert.NoError(t, guard.Claim(ctx, "pay_1", orderA), "same order may retry")
			assert.ErrorIs(t, guard.Claim(ctx, "pay_1", orderB), billing.ErrPaymentReferenceReuse)
			assert.NoError(t, guard.Claim(ctx, "pay_2", orderB))
		})
	}
}

func TestRedisReplayGuard_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	guard := billing.NewRedisReplayGuard(client, time.Minute)
	require.NoError(t, guard.Claim(ctx, "pay_1", uuid.New()))
	assert.True(t, mr.Exists("billing:payment_ref:pay_1"))

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, guard.Claim(ctx, "pay_1", uuid.New()))
}

func TestRedisReplayGuard_ConnectionError(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	guard := billing.NewRedisReplayGuard(client, time.Minute)
	err := guard.Claim(context.Background(), "pay_1", uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, billing.ErrPaymentReferenceReuse)
}

func TestNewRedisReplayGuard_NilClient(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { billing.NewRedisReplayGuard(nil, time.Minute) })
}
