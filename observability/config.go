package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kbukum/mdpsolve/validation"
)

// Config controls OTLP export of solver traces and metrics.
// Both exporters are off by default; spans and instruments then go to the
// global no-op providers.
type Config struct {
	TracingEnabled bool          `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool          `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		UnitInterval("sample_rate", c.SampleRate).
		Custom(c.Interval >= 0, "interval", "must not be negative").
		Custom(!(c.TracingEnabled || c.MetricsEnabled) || c.Endpoint != "", "endpoint", "is required when an exporter is enabled").
		Err()
}

// ShutdownFunc flushes and stops whatever Setup started.
type ShutdownFunc func(context.Context) error

// Setup installs the OTLP tracer and meter providers enabled in cfg.
// The returned ShutdownFunc is never nil.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion string) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return stderrors.Join(errs...)
	}

	if cfg.TracingEnabled {
		tp, err := InitTracer(ctx, TracerConfig{
			ServiceName:    serviceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Endpoint,
			Insecure:       cfg.Insecure,
			SampleRate:     cfg.SampleRate,
		})
		if err != nil {
			return shutdown, fmt.Errorf("tracing: %w", err)
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, &MeterConfig{
			ServiceName:    serviceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Endpoint,
			Insecure:       cfg.Insecure,
			Interval:       cfg.Interval,
		})
		if err != nil {
			return shutdown, fmt.Errorf("metrics: %w", err)
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}
