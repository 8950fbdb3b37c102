package mdp

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/observability"
)

// Solver runs policy iteration with fixed options, tracing and logging every
// run and recording its metrics.
type Solver struct {
	opts    Options
	log     *logger.Logger
	metrics *observability.SolverMetrics
}

// NewSolver validates opts and returns a Solver. log is normally the "mdp"
// component logger; log and metrics may be nil.
func NewSolver(opts Options, log *logger.Logger, metrics *observability.SolverMetrics) (*Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Solver{opts: opts, log: log, metrics: metrics}, nil
}

// Options returns the solver's parameters.
func (s *Solver) Options() Options { return s.opts }

// Parse builds a graph from r under a parse span.
func (s *Solver) Parse(ctx context.Context, r io.Reader) (*Graph, error) {
	ctx, runID := ensureRunID(ctx)
	_, op := observability.StartOperation(ctx, observability.SpanParse, runID)
	g, err := Parse(r, WithProbabilityEpsilon(s.opts.ProbabilityEpsilon))
	if err != nil {
		op.End(err)
		s.log.WithContext(ctx).WithError(err).Warn("graph rejected")
		return nil, err
	}
	st := g.Stats()
	op.End(nil,
		attribute.Int(observability.AttrNodes, st.Nodes),
		attribute.Int(observability.AttrDecisionNodes, st.Decision),
	)
	s.log.WithContext(ctx).Debug("graph built", logger.Fields(
		"nodes", st.Nodes,
		"decision_nodes", st.Decision,
		"chance_nodes", st.Chance,
		"terminal_nodes", st.Terminal,
	))
	return g, nil
}

// Solve runs policy iteration on g from its initial policy.
func (s *Solver) Solve(ctx context.Context, g *Graph) (*Result, error) {
	ctx, runID := ensureRunID(ctx)
	ctx, op := observability.StartOperation(ctx, observability.SpanSolve, runID,
		attribute.String(observability.AttrObjective, string(s.opts.Objective)),
		attribute.Float64(observability.AttrDiscountFactor, s.opts.DiscountFactor),
		attribute.Float64(observability.AttrTolerance, s.opts.Tolerance),
		attribute.Int(observability.AttrNodes, g.Len()),
	)
	log := s.log.WithContext(ctx)
	log.Debug("solve started", logger.Fields(
		"objective", string(s.opts.Objective),
		"discount_factor", s.opts.DiscountFactor,
		"tolerance", s.opts.Tolerance,
		"max_iterations", s.opts.MaxIterations,
	))

	hook := func(st IterationStats) {
		op.Span().AddEvent(observability.SpanPolicyIteration, trace.WithAttributes(
			attribute.Int("iteration", st.Iteration),
			attribute.Int("sweeps", st.Sweeps),
			attribute.Float64("delta", st.Delta),
			attribute.Int("changed", st.Changed),
		))
		log.Debug("policy iteration", logger.Fields(
			logger.FieldIteration, st.Iteration,
			"sweeps", st.Sweeps,
			"delta", st.Delta,
			"changed", st.Changed,
		))
	}

	res, err := g.solve(ctx, g.InitialPolicy(), s.opts, hook)

	var iterations, sweeps int
	if res != nil {
		iterations, sweeps = res.PolicyIterations, res.Sweeps
		res.RunID = runID
	}
	elapsed := op.End(err,
		attribute.Int(observability.AttrPolicyIterations, iterations),
		attribute.Int(observability.AttrSweeps, sweeps),
	)
	s.metrics.RecordSolve(ctx, string(s.opts.Objective), observability.Status(err), iterations, sweeps, elapsed)

	if err != nil {
		log.WithError(err).Error("solve failed", logger.DurationFields("solve", elapsed))
		return nil, err
	}
	log.Info("solve finished", logger.MergeWithDuration(logger.Fields(
		"policy_iterations", iterations,
		"sweeps", sweeps,
	), elapsed))
	return res, nil
}

// SolveReader parses r and solves the resulting graph under one run ID.
func (s *Solver) SolveReader(ctx context.Context, r io.Reader) (*Result, error) {
	ctx, _ = ensureRunID(ctx)
	g, err := s.Parse(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx, g)
}

// ParseFile opens path and builds the graph it describes.
func (s *Solver) ParseFile(ctx context.Context, path string) (*Graph, error) {
	ctx, _ = ensureRunID(ctx)
	f, err := openGraph(path)
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("graph file unavailable", logger.Fields(logger.FieldPath, path))
		return nil, err
	}
	defer f.Close()
	return s.Parse(ctx, f)
}

// SolveFile parses the graph at path and solves it.
func (s *Solver) SolveFile(ctx context.Context, path string) (*Result, error) {
	ctx, _ = ensureRunID(ctx)
	g, err := s.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx, g)
}

// ensureRunID returns ctx carrying a run ID, generating one if absent.
func ensureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := logger.RunIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return logger.ContextWithRunID(ctx, id), id
}
