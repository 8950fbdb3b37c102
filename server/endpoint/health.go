package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/observability"
)

// Health reports service health from the given checkers. A component that
// is down turns the response into a 503.
func Health(serviceName, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckAll(c.Request.Context(), serviceName, version, checkers...)

		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}

// selfCheckGraph has one decision node whose best edge is B when maximizing
// and C when minimizing.
const selfCheckGraph = "A : [B, C]\nA % 0.8\nB = 1\n"

// SolverCheck solves a two-edge graph with opts and reports whether A picks
// the edge the configured objective expects. A wrong pick is degraded; a
// parse or solve failure is down.
func SolverCheck(opts mdp.Options) observability.HealthChecker {
	want := "B"
	if opts.Objective == mdp.Minimize {
		want = "C"
	}
	return solverCheck(opts, selfCheckGraph, want)
}

func solverCheck(opts mdp.Options, graph, want string) observability.HealthChecker {
	return observability.HealthCheckerFunc(func(ctx context.Context) observability.Health {
		h := observability.Health{Name: "solver", Status: observability.HealthStatusUp}

		g, err := mdp.Parse(strings.NewReader(graph), mdp.WithProbabilityEpsilon(opts.ProbabilityEpsilon))
		if err == nil {
			var res *mdp.Result
			if res, err = g.Solve(ctx, opts); err == nil {
				if got := res.Policy["A"]; len(res.Policy) != 1 || got != want {
					h.Status = observability.HealthStatusDegraded
					h.Message = fmt.Sprintf("expected A -> %s, got %q", want, got)
				}
			}
		}
		if err != nil {
			h.Status = observability.HealthStatusDown
			h.Message = err.Error()
		}
		return h
	})
}
