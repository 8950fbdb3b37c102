package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/validation"
)

type solveFlags struct {
	discount            float64
	tolerance           float64
	maxIterations       int
	maxPolicyIterations int
	epsilon             float64
	minimize            bool
	output              string
}

func newSolveCmd(a *app) *cobra.Command {
	var f solveFlags

	cmd := &cobra.Command{
		Use:   "solve [flags] FILE",
		Short: "Compute the optimal policy and state values for a graph",
		Example: `  mdpsolve solve --df 0.9 --tol 0.0001 maze.txt
  mdpsolve -df .9 -min maze.txt
  mdpsolve solve --output json maze.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pickInput(args)
			if err != nil {
				return err
			}
			if err := validation.New().OneOf("output", f.output, outputFormats).Err(); err != nil {
				return err
			}
			opts, err := solverOptions(cmd, a.cfg.Solver, f)
			if err != nil {
				return err
			}

			s, err := mdp.NewSolver(opts, logger.Get(logger.ComponentMDP), a.metrics)
			if err != nil {
				return err
			}
			res, err := s.SolveFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			return writeResult(a.stdout, res, f.output)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.discount, "df", mdp.DefaultDiscountFactor, "discount factor in (0, 1]")
	fl.Float64Var(&f.tolerance, "tol", mdp.DefaultTolerance, "value iteration stops when the largest change is below this")
	fl.IntVar(&f.maxIterations, "iter", mdp.DefaultMaxIterations, "maximum value iteration sweeps per policy iteration")
	fl.IntVar(&f.maxPolicyIterations, "max-policy-iter", mdp.DefaultMaxPolicyIterations, "maximum policy iterations, 0 for no limit")
	fl.Float64Var(&f.epsilon, "epsilon", mdp.DefaultProbabilityEpsilon, "allowed distance of a chance distribution sum from 1.0")
	fl.BoolVar(&f.minimize, "min", false, "minimize instead of maximize")
	fl.StringVarP(&f.output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

// solverOptions overlays the flags the user set on the configured options.
func solverOptions(cmd *cobra.Command, base mdp.Options, f solveFlags) (mdp.Options, error) {
	opts := base
	fl := cmd.Flags()
	if fl.Changed("df") {
		opts.DiscountFactor = f.discount
	}
	if fl.Changed("tol") {
		opts.Tolerance = f.tolerance
	}
	if fl.Changed("iter") {
		opts.MaxIterations = f.maxIterations
	}
	if fl.Changed("max-policy-iter") {
		opts.MaxPolicyIterations = f.maxPolicyIterations
	}
	if fl.Changed("epsilon") {
		opts.ProbabilityEpsilon = f.epsilon
	}
	if fl.Changed("min") {
		opts.Objective = mdp.Maximize
		if f.minimize {
			opts.Objective = mdp.Minimize
		}
	}
	if err := opts.Validate(); err != nil {
		return base, err
	}
	return opts, nil
}

// pickInput chooses the graph file: the first argument ending in .txt,
// otherwise the first argument.
func pickInput(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.InvalidInput("file", "a graph file is required")
	}
	for _, arg := range args {
		if strings.EqualFold(filepath.Ext(arg), ".txt") {
			return arg, nil
		}
	}
	return args[0], nil
}
