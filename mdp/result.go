package mdp

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"
)

// Result is a converged policy with its value function.
type Result struct {
	RunID            string
	Policy           Policy
	Values           Values
	PolicyIterations int
	Sweeps           int
	Duration         time.Duration

	// branching is the edge count of every decision node.
	branching map[string]int
}

func newResult(g *Graph, policy Policy, values Values, iterations, sweeps int, d time.Duration) *Result {
	branching := make(map[string]int, len(policy))
	for name := range policy {
		branching[name] = len(g.nodes[name].Edges)
	}
	return &Result{
		Policy:           policy,
		Values:           values,
		PolicyIterations: iterations,
		Sweeps:           sweeps,
		Duration:         d,
		branching:        branching,
	}
}

// PolicyLines returns "src -> edge" for every decision node with a real
// choice (more than one edge), sorted.
func (r *Result) PolicyLines() []string {
	lines := make([]string, 0, len(r.Policy))
	for src, dst := range r.Policy {
		if r.branching[src] > 1 {
			lines = append(lines, src+" -> "+dst)
		}
	}
	sort.Strings(lines)
	return lines
}

// ValueEntries returns "name=value" with three decimals for every node, sorted.
func (r *Result) ValueEntries() []string {
	entries := make([]string, 0, len(r.Values))
	for name, v := range r.Values {
		entries = append(entries, fmt.Sprintf("%s=%.3f", name, v))
	}
	sort.Strings(entries)
	return entries
}

// Format writes the policy lines, a blank separator, then all value entries
// on one space-separated line.
func (r *Result) Format(w io.Writer) error {
	var b strings.Builder
	for _, line := range r.PolicyLines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Join(r.ValueEntries(), " "))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the Format output.
func (r *Result) String() string {
	var b strings.Builder
	_ = r.Format(&b)
	return b.String()
}

// Report is the serializable form of a Result.
type Report struct {
	RunID            string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Policy           map[string]string  `json:"policy" yaml:"policy"`
	Values           map[string]float64 `json:"values" yaml:"values"`
	PolicyIterations int                `json:"policy_iterations" yaml:"policy_iterations"`
	Sweeps           int                `json:"sweeps" yaml:"sweeps"`
	DurationMs       int64              `json:"duration_ms" yaml:"duration_ms"`
}

// Report returns the serializable form with values rounded to three decimals.
func (r *Result) Report() Report {
	values := make(map[string]float64, len(r.Values))
	for name, v := range r.Values {
		values[name] = math.Round(v*1000) / 1000
	}
	policy := make(map[string]string, len(r.Policy))
	for k, v := range r.Policy {
		policy[k] = v
	}
	return Report{
		RunID:            r.RunID,
		Policy:           policy,
		Values:           values,
		PolicyIterations: r.PolicyIterations,
		Sweeps:           r.Sweeps,
		DurationMs:       r.Duration.Milliseconds(),
	}
}
