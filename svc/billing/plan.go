package billing

import (
	"errors"
	"fmt"
)

// Plan is a priced tier with optional resource caps. A resource missing from
// Limits is unlimited.
type Plan struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description"`
	Price       Money              `json:"price" yaml:"price"`
	Limits      map[Resource]int64 `json:"limits,omitempty" yaml:"limits"`
	Public      bool               `json:"public" yaml:"public"`
}

// IsFree reports whether the plan is priced at zero.
func (p Plan) IsFree() bool {
	return p.Price.Amount == 0
}

// Limit returns the cap for res and false when res is unlimited.
func (p Plan) Limit(res Resource) (int64, bool) {
	v, ok := p.Limits[res]
	return v, ok
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	p.Limits = cloneLimits(p.Limits)
	return p
}

// validatePlans checks a catalog definition. Every plan is priced in currency
// and defaultPlanID must name a free plan.
func validatePlans(plans []Plan, currency, defaultPlanID string) error {
	if len(plans) == 0 {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("no plans defined"))
	}
	if currency == "" {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("billing currency is required"))
	}

	seen := make(map[string]struct{}, len(plans))
	var errs []error
	for i, p := range plans {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("plan #%d: empty id", i))
			continue
		case p.Name == "":
			errs = append(errs, fmt.Errorf("plan %q: empty name", p.ID))
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("plan %q: duplicate id", p.ID))
		}
		seen[p.ID] = struct{}{}

		if p.Price.Amount < 0 {
			errs = append(errs, fmt.Errorf("plan %q: negative price", p.ID))
		}
		if p.Price.Currency != currency {
			errs = append(errs, fmt.Errorf("plan %q: currency %q does not match billing currency %q", p.ID, p.Price.Currency, currency))
		}
		for res, limit := range p.Limits {
			if limit < 0 {
				errs = append(errs, fmt.Errorf("plan %q: negative limit for %s", p.ID, res))
			}
		}
	}

	def, ok := findPlan(plans, defaultPlanID)
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("default plan %q not defined", defaultPlanID))
	case !def.IsFree():
		errs = append(errs, fmt.Errorf("default plan %q must be free", defaultPlanID))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidPlanConfiguration}, errs...)...)
	}
	return nil
}

func findPlan(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
