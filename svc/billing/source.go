package billing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlansSource loads plan definitions in display order.
type PlansSource interface {
	Load(ctx context.Context) ([]Plan, error)
}

type inMemSource struct {
	plans []Plan
}

// NewInMemSource serves a fixed list of plans. The input is copied.
func NewInMemSource(plans ...Plan) PlansSource {
	cp := make([]Plan, len(plans))
	for i, p := range plans {
		cp[i] = p.Clone()
	}
	return &inMemSource{plans: cp}
}

func (s *inMemSource) Load(_ context.Context) ([]Plan, error) {
	out := make([]Plan, len(s.plans))
	for i, p := range s.plans {
		out[i] = p.Clone()
	}
	return out, nil
}

type yamlSource struct {
	path     string
	currency string
}

// NewYAMLSource reads plans from a YAML file:
//
//	plans:
//	  - id: free
//	    name: Free
//	    price: {amount: 0}
//	    limits: {projects: 3, tasks: 100, members: 3}
//	    public: true
//
// A price without currency inherits the given default currency.
func NewYAMLSource(path, currency string) PlansSource {
	return &yamlSource{path: path, currency: currency}
}

type yamlPlans struct {
	Plans []Plan `yaml:"plans"`
}

func (s *yamlSource) Load(_ context.Context) ([]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var doc yamlPlans
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plans file %s: %w", s.path, err)
	}
	if len(doc.Plans) == 0 {
		return nil, errors.New("plans file defines no plans")
	}

	for i := range doc.Plans {
		if doc.Plans[i].Price.Currency == "" {
			doc.Plans[i].Price.Currency = s.currency
		}
	}
	return doc.Plans, nil
}

// Default plan ids.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// DefaultPlans returns the built-in Free and Pro tiers priced in currency.
func DefaultPlans(currency string) []Plan {
	return []Plan{
		{
			ID:          PlanFree,
			Name:        "Free",
			Description: "For individuals getting started",
			Price:       Money{Amount: 0, Currency: currency},
			Limits: map[Resource]int64{
				ResourceProjects: 3,
				ResourceTasks:    100,
				ResourceMembers:  3,
			},
			Public: true,
		},
		{
			ID:          PlanPro,
			Name:        "Pro",
			Description: "For growing teams",
			Price:       Money{Amount: 49900, Currency: currency},
			Limits: map[Resource]int64{
				ResourceProjects: 50,
				ResourceTasks:    5000,
				ResourceMembers:  20,
			},
			Public: true,
		},
	}
}
