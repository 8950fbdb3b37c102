package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/mdpsolve/config"
	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/observability"
	"github.com/kbukum/mdpsolve/version"
)

// app carries what every subcommand needs once the root has loaded the
// configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg      *config.Config
	log      *logger.Logger
	metrics  *observability.SolverMetrics
	shutdown observability.ShutdownFunc
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "mdpsolve",
		Short: "Solve Markov decision processes with policy iteration",
		Long: `mdpsolve reads a graph of decision, chance and terminal nodes and computes
the policy that maximizes (or minimizes) the expected discounted reward.

Running mdpsolve with a file and no command is the same as "mdpsolve solve".`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.InvalidInput("flags", err.Error()).WithCause(err)
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: search ./config.yml and cmd/mdpsolve/config.yml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newSolveCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration, then starts logging and telemetry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.Logging
	if a.logLevel != "" {
		lc.Level = strings.ToLower(a.logLevel)
	}
	logger.Init(&lc)
	if err := lc.Validate(); err != nil {
		return errors.InvalidInput("log-level", err.Error())
	}
	if lc.Output == "stderr" {
		logger.SetGlobalLogger(logger.NewWithWriter(&lc, lc.ServiceName, a.stderr))
	}
	logger.RegisterDefaults()
	a.log = logger.Get(logger.ComponentCLI)

	shutdown, err := observability.Setup(cmd.Context(), cfg.Observability, cfg.Name, version.Get().Version)
	a.shutdown = shutdown
	if err != nil {
		return errors.Internal(err)
	}

	metrics, err := observability.NewSolverMetrics(observability.Meter(config.ServiceName))
	if err != nil {
		a.log.Warn("Solver metrics unavailable", logger.ErrorFields("metrics", err))
	}
	a.metrics = metrics

	a.log.Debug("Configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"tracing", cfg.Observability.TracingEnabled,
		"metrics", cfg.Observability.MetricsEnabled,
	))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown == nil {
		return nil
	}
	if err := a.shutdown(context.WithoutCancel(cmd.Context())); err != nil {
		a.log.Warn("Telemetry shutdown failed", logger.ErrorFields("shutdown", err))
	}
	return nil
}

// subcommands lists the names that stop normalizeArgs from inserting "solve".
var subcommands = map[string]bool{
	"solve": true, "validate": true, "serve": true, "version": true,
	"help": true, "completion": true, "__complete": true,
	"-h": true, "--help": true,
}

// legacyFlags maps single-dash spellings to their flag names.
var legacyFlags = map[string]string{
	"-df":   "--df",
	"-tol":  "--tol",
	"-iter": "--iter",
	"-min":  "--min",
}

// normalizeArgs rewrites single-dash flags such as "-df .9" to "--df .9"
// and makes solve the default command when no other command is named.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	named := false
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if flag, ok := legacyFlags[name]; ok {
			arg = flag
			if hasValue {
				arg += "=" + value
			}
		}
		if subcommands[arg] {
			named = true
		}
		out = append(out, arg)
	}
	if len(out) > 0 && !named {
		out = append([]string{"solve"}, out...)
	}
	return out
}
