package config

import (
	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/observability"
	"github.com/kbukum/mdpsolve/server"
)

const (
	// ServiceName names the service in logs, traces and config search paths.
	ServiceName = "mdpsolve"
	// EnvPrefix marks environment variables that override file values,
	// e.g. MDPSOLVE_SOLVER_DISCOUNT_FACTOR.
	EnvPrefix = "MDPSOLVE"
)

// Config is the full service configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Solver        mdp.Options          `yaml:"solver" mapstructure:"solver"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Defaults returns the viper defaults for keys whose zero value is
// meaningful, so an absent key and an explicit zero stay distinct.
func Defaults() map[string]any {
	opts := mdp.DefaultOptions()
	return map[string]any{
		"name":                         ServiceName,
		"solver.discount_factor":       opts.DiscountFactor,
		"solver.tolerance":             opts.Tolerance,
		"solver.max_iterations":        opts.MaxIterations,
		"solver.max_policy_iterations": opts.MaxPolicyIterations,
		"solver.objective":             string(opts.Objective),
		"solver.probability_epsilon":   opts.ProbabilityEpsilon,
	}
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Solver.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section and returns the first failure.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// Load reads the service configuration from path, or from the standard
// search locations when path is empty, then applies defaults and validates.
func Load(path string, opts ...LoaderOption) (*Config, error) {
	base := []LoaderOption{WithEnvPrefix(EnvPrefix), WithDefaults(Defaults())}
	if path != "" {
		base = append(base, WithConfigFile(path))
	}

	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, append(base, opts...)...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
