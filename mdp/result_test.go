package mdp

import (
	"context"
	"strings"
	"testing"
)

func TestFormatScenario(t *testing.T) {
	g := mustParse(t, scenario)
	res, err := g.Solve(context.Background(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var b strings.Builder
	if err := res.Format(&b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A -> B\n\nA=8.000 B=10.000 C=0.000\n"
	if b.String() != want {
		t.Errorf("Format() = %q, want %q", b.String(), want)
	}
	if res.String() != want {
		t.Errorf("String() = %q, want %q", res.String(), want)
	}
}

func TestPolicyLinesSkipSingleEdgeNodes(t *testing.T) {
	g := mustParse(t, "A : [B]\nB : [C, D]\nD = 1\n")
	res, err := g.Solve(context.Background(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := res.PolicyLines()
	if len(lines) != 1 || lines[0] != "B -> D" {
		t.Errorf("expected only B -> D, got %v", lines)
	}
	if _, ok := res.Policy["A"]; !ok {
		t.Error("expected single-edge decision node in policy")
	}
}

func TestValueEntriesSorted(t *testing.T) {
	res := &Result{Values: Values{"b": 1, "a10": -0.5, "a2": 2.0004}}

	got := strings.Join(res.ValueEntries(), " ")
	want := "a10=-0.500 a2=2.000 b=1.000"
	if got != want {
		t.Errorf("ValueEntries() = %q, want %q", got, want)
	}
}

func TestFormatWithoutDecisions(t *testing.T) {
	res := &Result{Values: Values{"A": 1}}
	if got := res.String(); got != "\nA=1.000\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestReport(t *testing.T) {
	g := mustParse(t, "A : [B, C]\nA % 0.3 0.7\nB = 1\nC = 0\n")
	res, err := g.Solve(context.Background(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res.RunID = "run-1"

	rep := res.Report()
	if rep.RunID != "run-1" {
		t.Errorf("expected run id, got %q", rep.RunID)
	}
	if rep.Values["A"] != 0.3 {
		t.Errorf("expected rounded value 0.3, got %v", rep.Values["A"])
	}
	if rep.PolicyIterations != res.PolicyIterations || rep.Sweeps != res.Sweeps {
		t.Errorf("expected counters copied, got %+v", rep)
	}

	rep.Values["A"] = 99
	if res.Values["A"] == 99 {
		t.Error("expected report to own its maps")
	}
}
