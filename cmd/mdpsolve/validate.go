package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/mdp"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		dump    bool
		epsilon float64
	)

	cmd := &cobra.Command{
		Use:   "validate [flags] FILE",
		Short: "Build and validate a graph without solving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pickInput(args)
			if err != nil {
				return err
			}
			opts := a.cfg.Solver
			if cmd.Flags().Changed("epsilon") {
				opts.ProbabilityEpsilon = epsilon
			}

			s, err := mdp.NewSolver(opts, logger.Get(logger.ComponentMDP), a.metrics)
			if err != nil {
				return err
			}
			g, err := s.ParseFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			st := g.Stats()
			fmt.Fprintf(a.stdout, "%s: valid, %d nodes (%d decision, %d chance, %d terminal)\n",
				path, st.Nodes, st.Decision, st.Chance, st.Terminal)
			if dump {
				return g.Dump(a.stdout)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print every node after validation")
	cmd.Flags().Float64Var(&epsilon, "epsilon", mdp.DefaultProbabilityEpsilon, "allowed distance of a chance distribution sum from 1.0")
	return cmd
}
