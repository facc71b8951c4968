package billing

import (
	"time"
)

// Config is the billing section of the service environment.
type Config struct {
	Currency      string        `env:"BILLING_CURRENCY" envDefault:"INR"`
	DefaultPlanID string        `env:"BILLING_DEFAULT_PLAN" envDefault:"free"`
	PlansFile     string        `env:"BILLING_PLANS_FILE"`
	GatewaySecret string        `env:"BILLING_GATEWAY_SECRET,required"`
	OrderTTL      time.Duration `env:"BILLING_ORDER_TTL" envDefault:"0s"`
	SweepSchedule string        `env:"BILLING_SWEEP_SCHEDULE" envDefault:"@every 10m"`
	ReplayTTL     time.Duration `env:"BILLING_REPLAY_TTL" envDefault:"720h"`
}

// PlansSource returns the YAML source when PlansFile is set and the built-in
// plans otherwise.
func (c Config) PlansSource() PlansSource {
	if c.PlansFile != "" {
		return NewYAMLSource(c.PlansFile, c.Currency)
	}
	return NewInMemSource(DefaultPlans(c.Currency)...)
}
