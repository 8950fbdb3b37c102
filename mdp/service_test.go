package mdp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/observability"
)

func newTestSolver(t *testing.T, opts Options, buf *bytes.Buffer) *Solver {
	t.Helper()
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "mdpsolve", buf)
	metrics, err := observability.NewSolverMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := NewSolver(opts, log, metrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewSolverRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Tolerance = 0

	_, err := NewSolver(opts, nil, nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSolverNilCollaborators(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := s.SolveReader(context.Background(), strings.NewReader(scenario))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Policy["A"] != "B" {
		t.Errorf("expected A -> B, got %s", res.Policy["A"])
	}
}

func TestSolverAssignsRunID(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSolver(t, DefaultOptions(), &buf)

	res, err := s.SolveReader(context.Background(), strings.NewReader(scenario))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a generated run id")
	}

	lines := logLines(t, &buf)
	if len(lines) == 0 {
		t.Fatal("expected log output")
	}
	for _, l := range lines {
		if l[logger.FieldRunID] != res.RunID {
			t.Errorf("expected every line tagged with run id %s, got %v", res.RunID, l)
		}
	}
}

func TestSolverKeepsCallerRunID(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSolver(t, DefaultOptions(), &buf)
	ctx := logger.ContextWithRunID(context.Background(), "caller-run")

	res, err := s.SolveReader(ctx, strings.NewReader(scenario))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID != "caller-run" {
		t.Errorf("expected caller run id, got %q", res.RunID)
	}
}

func TestSolverLogsIterations(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Objective = Minimize
	s := newTestSolver(t, opts, &buf)

	if _, err := s.SolveReader(context.Background(), strings.NewReader(scenario)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var iterations int
	var finished bool
	for _, l := range logLines(t, &buf) {
		switch l["message"] {
		case "policy iteration":
			iterations++
		case "solve finished":
			finished = true
			if l["policy_iterations"] != float64(2) {
				t.Errorf("expected policy_iterations 2, got %v", l["policy_iterations"])
			}
		}
	}
	if iterations != 2 {
		t.Errorf("expected 2 iteration log lines, got %d", iterations)
	}
	if !finished {
		t.Error("expected completion log line")
	}
}

func TestSolverTracesRun(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	}()

	s, err := NewSolver(DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.SolveReader(context.Background(), strings.NewReader(scenario)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := map[string]int{}
	for _, span := range exporter.GetSpans() {
		names[span.Name]++
		if span.Name == observability.SpanSolve && len(span.Events) != 1 {
			t.Errorf("expected one iteration event, got %d", len(span.Events))
		}
	}
	if names[observability.SpanParse] != 1 || names[observability.SpanSolve] != 1 {
		t.Errorf("expected one parse and one solve span, got %v", names)
	}
}

func TestSolverSolveFile(t *testing.T) {
	s, err := NewSolver(DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := s.SolveFile(context.Background(), filepath.Join("testdata", "scenario.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.String(); got != "A -> B\n\nA=8.000 B=10.000 C=0.000\n" {
		t.Errorf("unexpected output %q", got)
	}

	_, err = s.SolveFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSolverUsesProbabilityEpsilon(t *testing.T) {
	opts := DefaultOptions()
	opts.ProbabilityEpsilon = 0
	s, err := NewSolver(opts, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.SolveReader(context.Background(), strings.NewReader("A : [B, C, D]\nA % 0.2 0.7 0.1\n"))
	if !errors.HasCode(err, errors.ErrCodeInvalidDistribution) {
		t.Errorf("expected INVALID_DISTRIBUTION, got %v", err)
	}
}

func TestSolverReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Objective = Minimize
	opts.MaxPolicyIterations = 1
	s := newTestSolver(t, opts, &buf)

	_, err := s.SolveReader(context.Background(), strings.NewReader(scenario))
	if !errors.HasCode(err, errors.ErrCodeNotConverged) {
		t.Fatalf("expected NOT_CONVERGED, got %v", err)
	}
	if !strings.Contains(buf.String(), "solve failed") {
		t.Errorf("expected failure log line, got %s", buf.String())
	}
}
