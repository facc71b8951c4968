package billing

import "github.com/dmitrymomot/taskflow/pkg/statemachine"

// OrderTransitions allows an order to leave created exactly once.
var OrderTransitions = statemachine.NewTable(OrderCreated, OrderPaid, OrderExpired, OrderCancelled).
	Allow(OrderCreated, OrderPaid, OrderExpired, OrderCancelled)

// SubscriptionTransitions lets an active subscription be superseded or run out.
var SubscriptionTransitions = statemachine.NewTable(SubscriptionActive, SubscriptionCancelled, SubscriptionExpired).
	Allow(SubscriptionActive, SubscriptionCancelled, SubscriptionExpired)
