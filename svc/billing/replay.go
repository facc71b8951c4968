package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PaymentReferenceGuard binds a gateway payment reference to one order.
// Claim succeeds when ref is unbound or already bound to orderID, and fails
// with ErrPaymentReferenceReuse when it is bound to another order.
type PaymentReferenceGuard interface {
	Claim(ctx context.Context, ref string, orderID uuid.UUID) error
}

type memoryReplayGuard struct {
	mu    sync.Mutex
	claim map[string]uuid.UUID
}

// NewMemoryReplayGuard keeps claims in process memory for the life of the
// process.
func NewMemoryReplayGuard() PaymentReferenceGuard {
	return &memoryReplayGuard{claim: make(map[string]uuid.UUID)}
}

func (g *memoryReplayGuard) Claim(_ context.Context, ref string, orderID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if owner, ok := g.claim[ref]; ok && owner != orderID {
		return ErrPaymentReferenceReuse
	}
	g.claim[ref] = orderID
	return nil
}

const replayKeyPrefix = "billing:payment_ref:"

type redisReplayGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisReplayGuard stores claims in Redis with SET NX so every instance of
// the service sees the same bindings. Claims expire after ttl; zero keeps
// them forever.
func NewRedisReplayGuard(client redis.UniversalClient, ttl time.Duration) PaymentReferenceGuard {
	if client == nil {
		panic("billing: redis client is required")
	}
	return &redisReplayGuard{client: client, ttl: ttl}
}

func (g *redisReplayGuard) Claim(ctx context.Context, ref string, orderID uuid.UUID) error {
	key := replayKeyPrefix + ref
	ok, err := g.client.SetNX(ctx, key, orderID.String(), g.ttl).Result()
	if err != nil {
		return fmt.Errorf("claim payment reference: %w", err)
	}
	if ok {
		return nil
	}

	owner, err := g.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// expired between SETNX and GET
		return g.Claim(ctx, ref, orderID)
	case err != nil:
		return fmt.Errorf("read payment reference claim: %w", err)
	case owner != orderID.String():
		return ErrPaymentReferenceReuse
	}
	return nil
}
