package mdp

import (
	"context"
	"math"
	"time"

	"github.com/kbukum/mdpsolve/errors"
)

// Policy maps every decision node to the edge it currently intends.
type Policy map[string]string

// Values maps every node to its estimated value.
type Values map[string]float64

// Equal reports whether both policies choose the same edge for every node.
func (p Policy) Equal(o Policy) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// IterationStats describes one completed policy iteration.
type IterationStats struct {
	Iteration int
	Sweeps    int
	Delta     float64
	Changed   int
}

type iterationHook func(IterationStats)

// InitialPolicy picks the first edge of every decision node.
func (g *Graph) InitialPolicy() Policy {
	p := make(Policy)
	for _, n := range g.DecisionNodes() {
		p[n.Name] = n.Edges[0]
	}
	return p
}

// SeedValues returns each node's reward, the zero-sweep baseline.
func (g *Graph) SeedValues() Values {
	v := make(Values, len(g.order))
	for name, n := range g.nodes {
		v[name] = n.Reward
	}
	return v
}

// ApplyPolicy redistributes the transition probabilities of every decision
// node named in p.
func (g *Graph) ApplyPolicy(p Policy) {
	for name, edge := range p {
		if n, ok := g.nodes[name]; ok && n.Decision {
			n.Redistribute(edge)
		}
	}
}

// ValueIteration runs synchronous Bellman backups starting from v against
// the current transition probabilities. It stops after a sweep whose largest
// change is below the tolerance, or after MaxIterations sweeps, and returns
// the last computed values together with the number of sweeps and the final
// delta. v is not modified.
func (g *Graph) ValueIteration(ctx context.Context, v Values, opts Options) (Values, int, float64, error) {
	cur := v
	next := v
	var delta float64
	sweeps := 0

	for sweeps < opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, sweeps, delta, err
		}

		next = make(Values, len(g.order))
		delta = 0
		for _, name := range g.order {
			nv := g.nodes[name].backup(opts.DiscountFactor, cur)
			next[name] = nv
			delta = math.Max(delta, math.Abs(nv-cur[name]))
		}
		sweeps++

		if delta < opts.Tolerance {
			break
		}
		cur = next
	}
	return next, sweeps, delta, nil
}

// ImprovePolicy picks, for every decision node, the edge with the best
// expected value under v. Ties keep the earliest edge.
func (g *Graph) ImprovePolicy(v Values, objective Objective) Policy {
	p := make(Policy)
	for _, n := range g.DecisionNodes() {
		best := n.Edges[0]
		bestQ := n.expectedValue(best, v)
		for _, c := range n.Edges[1:] {
			if q := n.expectedValue(c, v); objective.better(q, bestQ) {
				best, bestQ = c, q
			}
		}
		p[n.Name] = best
	}
	return p
}

// Solve runs policy iteration from the initial policy.
func (g *Graph) Solve(ctx context.Context, opts Options) (*Result, error) {
	return g.SolveFrom(ctx, g.InitialPolicy(), opts)
}

// SolveFrom runs policy iteration starting from the given policy. Decision
// nodes missing from start fall back to their first edge.
func (g *Graph) SolveFrom(ctx context.Context, start Policy, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return g.solve(ctx, start, opts, nil)
}

func (g *Graph) solve(ctx context.Context, start Policy, opts Options, hook iterationHook) (*Result, error) {
	begin := time.Now()

	policy := g.InitialPolicy()
	for name, edge := range start {
		if n, ok := g.nodes[name]; ok && n.Decision {
			if _, known := n.Probs[edge]; known {
				policy[name] = edge
			}
		}
	}

	values := g.SeedValues()
	totalSweeps := 0

	for iter := 1; ; iter++ {
		if opts.MaxPolicyIterations > 0 && iter > opts.MaxPolicyIterations {
			return nil, errors.NotConverged(opts.MaxPolicyIterations).
				WithDetail("policy", policy)
		}

		g.ApplyPolicy(policy)

		var (
			sweeps int
			delta  float64
			err    error
		)
		values, sweeps, delta, err = g.ValueIteration(ctx, values, opts)
		if err != nil {
			if appErr := errors.FromContext("solve", err); appErr != nil {
				return nil, appErr
			}
			return nil, err
		}
		totalSweeps += sweeps

		next := g.ImprovePolicy(values, opts.Objective)
		if hook != nil {
			hook(IterationStats{
				Iteration: iter,
				Sweeps:    sweeps,
				Delta:     delta,
				Changed:   changedCount(policy, next),
			})
		}

		if next.Equal(policy) {
			return newResult(g, policy, values, iter, totalSweeps, time.Since(begin)), nil
		}
		policy = next
	}
}

func changedCount(a, b Policy) int {
	n := 0
	for k, v := range a {
		if b[k] != v {
			n++
		}
	}
	return n
}
