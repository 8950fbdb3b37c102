package endpoint

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/observability"
)

func TestOptionsFromQuery(t *testing.T) {
	base := mdp.DefaultOptions()

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, o mdp.Options)
	}{
		{"empty keeps base", "", func(t *testing.T, o mdp.Options) {
			if o != base {
				t.Errorf("expected base options, got %+v", o)
			}
		}},
		{"discount and tolerance", "df=0.9&tol=0.01", func(t *testing.T, o mdp.Options) {
			if o.DiscountFactor != 0.9 || o.Tolerance != 0.01 {
				t.Errorf("unexpected %+v", o)
			}
		}},
		{"iteration caps", "iter=7&max_policy_iter=0", func(t *testing.T, o mdp.Options) {
			if o.MaxIterations != 7 || o.MaxPolicyIterations != 0 {
				t.Errorf("unexpected %+v", o)
			}
		}},
		{"epsilon", "epsilon=0", func(t *testing.T, o mdp.Options) {
			if o.ProbabilityEpsilon != 0 {
				t.Errorf("expected exact sums, got %v", o.ProbabilityEpsilon)
			}
		}},
		{"objective", "objective=Minimize", func(t *testing.T, o mdp.Options) {
			if o.Objective != mdp.Minimize {
				t.Errorf("expected min, got %s", o.Objective)
			}
		}},
		{"min flag", "min=true", func(t *testing.T, o mdp.Options) {
			if o.Objective != mdp.Minimize {
				t.Errorf("expected min, got %s", o.Objective)
			}
		}},
		{"min false", "min=false", func(t *testing.T, o mdp.Options) {
			if o.Objective != mdp.Maximize {
				t.Errorf("expected max, got %s", o.Objective)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatal(err)
			}
			o, err := OptionsFromQuery(q, base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, o)
		})
	}
}

func TestOptionsFromQueryMinOverridesBase(t *testing.T) {
	base := mdp.DefaultOptions()
	base.Objective = mdp.Minimize

	tests := []struct {
		query string
		want  mdp.Objective
	}{
		{"min=false", mdp.Maximize},
		{"min=0", mdp.Maximize},
		{"min=true", mdp.Minimize},
		{"", mdp.Minimize},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tc.query)
			o, err := OptionsFromQuery(q, base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Objective != tc.want {
				t.Errorf("expected %s, got %s", tc.want, o.Objective)
			}
		})
	}
}

func TestOptionsFromQueryErrors(t *testing.T) {
	for _, query := range []string{
		"df=abc",
		"df=0",
		"df=1.5",
		"tol=-1",
		"iter=x",
		"iter=0",
		"max_policy_iter=-2",
		"epsilon=2",
		"objective=sideways",
		"min=perhaps",
	} {
		t.Run(query, func(t *testing.T) {
			q, _ := url.ParseQuery(query)
			if _, err := OptionsFromQuery(q, mdp.DefaultOptions()); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestSolverCheck(t *testing.T) {
	h := SolverCheck(mdp.DefaultOptions()).CheckHealth(context.Background())
	if h.Status != observability.HealthStatusUp {
		t.Errorf("expected up, got %s: %s", h.Status, h.Message)
	}
	if h.Name != "solver" {
		t.Errorf("expected name solver, got %s", h.Name)
	}
}

func TestSolverCheckMinimize(t *testing.T) {
	opts := mdp.DefaultOptions()
	opts.Objective = mdp.Minimize
	h := SolverCheck(opts).CheckHealth(context.Background())
	if h.Status != observability.HealthStatusUp {
		t.Errorf("expected up, got %s: %s", h.Status, h.Message)
	}
}

func TestSolverCheckDegradedOnUnexpectedPick(t *testing.T) {
	h := solverCheck(mdp.DefaultOptions(), selfCheckGraph, "C").CheckHealth(context.Background())
	if h.Status != observability.HealthStatusDegraded {
		t.Fatalf("expected degraded, got %s", h.Status)
	}
	if !strings.Contains(h.Message, `expected A -> C, got "B"`) {
		t.Errorf("unexpected message %q", h.Message)
	}
}

func TestSolverCheckDown(t *testing.T) {
	opts := mdp.DefaultOptions()
	opts.MaxIterations = 0
	h := SolverCheck(opts).CheckHealth(context.Background())
	if h.Status != observability.HealthStatusDown {
		t.Errorf("expected down for invalid options, got %s", h.Status)
	}
}
