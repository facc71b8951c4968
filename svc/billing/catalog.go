package billing

import (
	"context"
	"errors"
)

// Catalog is the immutable, validated set of plans. It is safe for
// concurrent use without locking.
type Catalog struct {
	plans         []Plan
	index         map[string]int
	currency      string
	defaultPlanID string
}

// NewCatalog loads plans from src and validates them.
func NewCatalog(ctx context.Context, src PlansSource, currency, defaultPlanID string) (*Catalog, error) {
	if src == nil {
		panic("billing: plans source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if err := validatePlans(plans, currency, defaultPlanID); err != nil {
		return nil, err
	}

	c := &Catalog{
		plans:         make([]Plan, len(plans)),
		index:         make(map[string]int, len(plans)),
		currency:      currency,
		defaultPlanID: defaultPlanID,
	}
	for i, p := range plans {
		c.plans[i] = p.Clone()
		c.index[p.ID] = i
	}
	return c, nil
}

// ListPlans returns the public plans in display order.
func (c *Catalog) ListPlans(_ context.Context) []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		if p.Public {
			out = append(out, p.Clone())
		}
	}
	return out
}

// GetPlan returns any plan by id, public or not.
func (c *Catalog) GetPlan(_ context.Context, id string) (Plan, error) {
	i, ok := c.index[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return c.plans[i].Clone(), nil
}

// OrderablePlan returns a plan that new orders may be placed for. Plans that
// are not public are retired and reported as ErrPlanNotFound.
func (c *Catalog) OrderablePlan(ctx context.Context, id string) (Plan, error) {
	plan, err := c.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if !plan.Public {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// DefaultPlan is the free plan of workspaces without a live subscription.
func (c *Catalog) DefaultPlan() Plan {
	return c.plans[c.index[c.defaultPlanID]].Clone()
}

// Currency is the currency every order is priced in.
func (c *Catalog) Currency() string {
	return c.currency
}
