package mdp

import (
	"fmt"
	"strings"

	"github.com/kbukum/mdpsolve/validation"
)

// Objective selects whether the greedy step maximizes or minimizes.
type Objective string

const (
	Maximize Objective = "max"
	Minimize Objective = "min"
)

// ParseObjective accepts "max"/"maximize" and "min"/"minimize", case-insensitively.
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximize", "":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	default:
		return "", fmt.Errorf("unknown objective %q", s)
	}
}

// better reports whether q should replace best under the objective.
// Equal values never replace, so the earliest candidate wins ties.
func (o Objective) better(q, best float64) bool {
	if o == Minimize {
		return q < best
	}
	return q > best
}

// Default solver parameters.
const (
	DefaultDiscountFactor      = 1.0
	DefaultTolerance           = 0.001
	DefaultMaxIterations       = 100
	DefaultMaxPolicyIterations = 1000
	DefaultProbabilityEpsilon  = 1e-9
)

// Options are the solver parameters.
type Options struct {
	// DiscountFactor multiplies successor values in every backup.
	DiscountFactor float64 `yaml:"discount_factor" mapstructure:"discount_factor" json:"discount_factor" validate:"gt=0,lte=1"`
	// Tolerance stops value iteration once the largest change in a sweep drops below it.
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance" json:"tolerance" validate:"gt=0"`
	// MaxIterations caps value-iteration sweeps per policy iteration.
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations" json:"max_iterations" validate:"min=1"`
	// MaxPolicyIterations caps the outer loop; 0 means unbounded.
	MaxPolicyIterations int `yaml:"max_policy_iterations" mapstructure:"max_policy_iterations" json:"max_policy_iterations" validate:"min=0"`
	// Objective picks maximize or minimize.
	Objective Objective `yaml:"objective" mapstructure:"objective" json:"objective" validate:"oneof=max min"`
	// ProbabilityEpsilon bounds how far a chance distribution may sum from 1.0.
	ProbabilityEpsilon float64 `yaml:"probability_epsilon" mapstructure:"probability_epsilon" json:"probability_epsilon" validate:"gte=0,lt=1"`
}

// DefaultOptions returns the default solver parameters.
func DefaultOptions() Options {
	return Options{
		DiscountFactor:      DefaultDiscountFactor,
		Tolerance:           DefaultTolerance,
		MaxIterations:       DefaultMaxIterations,
		MaxPolicyIterations: DefaultMaxPolicyIterations,
		Objective:           Maximize,
		ProbabilityEpsilon:  DefaultProbabilityEpsilon,
	}
}

// ApplyDefaults fills zero-valued fields. MaxPolicyIterations and
// ProbabilityEpsilon keep an explicit zero.
func (o *Options) ApplyDefaults() {
	if o.DiscountFactor == 0 {
		o.DiscountFactor = DefaultDiscountFactor
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Objective == "" {
		o.Objective = Maximize
	}
}

// Validate checks the parameters, returning an INVALID_INPUT error.
func (o Options) Validate() error {
	return validation.Validate(o)
}
