package billing

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Resource is a countable workspace resource capped by plan limits.
type Resource string

const (
	ResourceProjects Resource = "projects"
	ResourceTasks    Resource = "tasks"
	ResourceMembers  Resource = "members"
)

// Money is an amount in the currency's minor unit.
type Money struct {
	Amount   int64  `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderPaid      OrderStatus = "paid"
	OrderExpired   OrderStatus = "expired"
	OrderCancelled OrderStatus = "cancelled"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Activation branches, used as metric labels.
const (
	BranchFree = "free"
	BranchPaid = "paid"
)

// Order is a priced intent to subscribe a workspace to a plan. Amount and
// Currency are fixed at creation.
type Order struct {
	ID               uuid.UUID   `json:"id"`
	WorkspaceID      uuid.UUID   `json:"workspace_id"`
	PlanID           string      `json:"plan_id"`
	Amount           int64       `json:"amount"`
	Currency         string      `json:"currency"`
	Status           OrderStatus `json:"status"`
	PaymentReference string      `json:"payment_reference,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	PaidAt           *time.Time  `json:"paid_at,omitempty"`
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return &c
}

// Subscription records which plan a workspace is on. Plan is a snapshot taken
// at activation time.
type Subscription struct {
	ID                 uuid.UUID          `json:"id"`
	WorkspaceID        uuid.UUID          `json:"workspace_id"`
	PlanID             string             `json:"plan_id"`
	Plan               Plan               `json:"plan"`
	Status             SubscriptionStatus `json:"status"`
	OrderID            uuid.UUID          `json:"order_id"`
	PaymentReference   string             `json:"payment_reference,omitempty"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CreatedAt          time.Time          `json:"created_at"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
}

func (s *Subscription) Clone() *Subscription {
	if s == nil {
		return nil
	}
	c := *s
	c.Plan = s.Plan.Clone()
	if s.CancelledAt != nil {
		t := *s.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

// Live reports whether s is active and its period has not ended at now.
func (s *Subscription) Live(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && now.Before(s.CurrentPeriodEnd)
}

// Activation is the outcome of ActivatePlan. Exactly one of Subscription
// (free plans) and a pending Order (paid plans) describes the next step;
// Order is always set.
type Activation struct {
	Order        *Order        `json:"order"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// AwaitingPayment reports whether the caller must confirm payment.
func (a *Activation) AwaitingPayment() bool {
	return a != nil && a.Subscription == nil
}

// VerifyPaymentInput is the gateway confirmation for an order.
type VerifyPaymentInput struct {
	WorkspaceID      uuid.UUID
	PlanID           string
	OrderID          uuid.UUID
	PaymentReference string
	Signature        string
}

// UsageInfo is the current count and cap of one resource. A nil Limit means
// unlimited.
type UsageInfo struct {
	Current int64  `json:"current"`
	Limit   *int64 `json:"limit"`
}

// Usage is the effective plan of a workspace with per-resource usage.
type Usage struct {
	Plan      Plan                   `json:"plan"`
	Resources map[Resource]UsageInfo `json:"resources"`
}

func cloneLimits(m map[Resource]int64) map[Resource]int64 {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
