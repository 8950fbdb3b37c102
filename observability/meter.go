package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/mdpsolve/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// SolverMetrics holds the instruments recorded by solver runs and the HTTP
// front end. A nil *SolverMetrics records nothing.
type SolverMetrics struct {
	solveTotal       metric.Int64Counter
	solveDuration    metric.Float64Histogram
	sweeps           metric.Int64Histogram
	policyIterations metric.Int64Histogram
	requestTotal     metric.Int64Counter
	requestDuration  metric.Float64Histogram
	requestActive    metric.Int64UpDownCounter
}

// NewSolverMetrics creates metric instruments on the given meter.
func NewSolverMetrics(meter metric.Meter) (*SolverMetrics, error) {
	solveTotal, err := meter.Int64Counter("mdp.solve.total",
		metric.WithDescription("Total number of solver runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mdp.solve.total counter: %w", err)
	}

	solveDuration, err := meter.Float64Histogram("mdp.solve.duration",
		metric.WithDescription("Duration of solver runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mdp.solve.duration histogram: %w", err)
	}

	sweeps, err := meter.Int64Histogram("mdp.value_iteration.sweeps",
		metric.WithDescription("Value-iteration sweeps per solver run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mdp.value_iteration.sweeps histogram: %w", err)
	}

	policyIterations, err := meter.Int64Histogram("mdp.policy_iteration.iterations",
		metric.WithDescription("Policy iterations per solver run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mdp.policy_iteration.iterations histogram: %w", err)
	}

	requestTotal, err := meter.Int64Counter("http.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.request.active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.request.active gauge: %w", err)
	}

	return &SolverMetrics{
		solveTotal:       solveTotal,
		solveDuration:    solveDuration,
		sweeps:           sweeps,
		policyIterations: policyIterations,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestActive:    requestActive,
	}, nil
}

// RecordSolve records one finished solver run. status is "ok" or an error code.
func (m *SolverMetrics) RecordSolve(ctx context.Context, objective, status string, policyIterations, sweeps int, duration time.Duration) {
	if m == nil {
		return
	}
	m.solveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("objective", objective),
		attribute.String("status", status),
	))
	m.solveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("objective", objective),
	))
	if status == "ok" {
		m.sweeps.Record(ctx, int64(sweeps))
		m.policyIterations.Record(ctx, int64(policyIterations))
	}
}

// RecordRequestStart increments the in-flight request count.
func (m *SolverMetrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
func (m *SolverMetrics) RecordRequestEnd(ctx context.Context, route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
	))
}
