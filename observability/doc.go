// Package observability provides OpenTelemetry tracing and metrics for
// solver runs and the HTTP front end.
//
// Setup installs OTLP exporters according to Config:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "mdpsolve", version.Version)
//	defer shutdown(ctx)
//
// Operations wrap a span and its timing:
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanSolve, runID)
//	elapsed := op.End(err)
//
// Solver metrics are nil-safe:
//
//	m, err := observability.NewSolverMetrics(observability.Meter("mdpsolve"))
//	m.RecordSolve(ctx, "max", "ok", iterations, sweeps, elapsed)
//
// Health checks:
//
//	health := observability.CheckAll(ctx, "mdpsolve", version.Version, checkers...)
package observability
