package endpoint

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/logger"
	"github.com/kbukum/mdpsolve/mdp"
	"github.com/kbukum/mdpsolve/observability"
	"github.com/kbukum/mdpsolve/validation"
)

// Solver serves graph solving and validation over HTTP. Each request may
// override the base options through query parameters.
type Solver struct {
	base    mdp.Options
	log     *logger.Logger
	metrics *observability.SolverMetrics
}

// NewSolver returns a Solver using base as the default options.
func NewSolver(base mdp.Options, log *logger.Logger, metrics *observability.SolverMetrics) *Solver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Solver{base: base, log: log, metrics: metrics}
}

// Solve handles POST /v1/solve. The body is a graph description; the
// response is the policy report as JSON, or the plain-text listing when
// format=text.
func (h *Solver) Solve(c *gin.Context) {
	s, body, ok := h.prepare(c)
	if !ok {
		return
	}

	res, err := s.SolveReader(c.Request.Context(), bytes.NewReader(body))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, res.String())
		return
	}
	RespondOK(c, res.Report())
}

// ValidateResponse is the body of a successful validation.
type ValidateResponse struct {
	Valid bool      `json:"valid"`
	Stats mdp.Stats `json:"stats"`
	Dump  string    `json:"dump,omitempty"`
}

// Validate handles POST /v1/validate: it builds the graph without solving.
// dump=true includes the per-node listing.
func (h *Solver) Validate(c *gin.Context) {
	s, body, ok := h.prepare(c)
	if !ok {
		return
	}

	g, err := s.Parse(c.Request.Context(), bytes.NewReader(body))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	resp := ValidateResponse{Valid: true, Stats: g.Stats()}
	if dump, _ := strconv.ParseBool(c.Query("dump")); dump {
		var b strings.Builder
		if err := g.Dump(&b); err != nil {
			RespondWithError(c, errors.Internal(err))
			return
		}
		resp.Dump = b.String()
	}
	RespondOK(c, resp)
}

// prepare resolves the request options and reads the body. On failure the
// error response has already been written.
func (h *Solver) prepare(c *gin.Context) (*mdp.Solver, []byte, bool) {
	opts, err := OptionsFromQuery(c.Request.URL.Query(), h.base)
	if err != nil {
		RespondWithError(c, err)
		return nil, nil, false
	}
	s, err := mdp.NewSolver(opts, h.log, h.metrics)
	if err != nil {
		RespondWithError(c, err)
		return nil, nil, false
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			RespondWithError(c, errors.TooLarge(tooLarge.Limit))
		} else {
			RespondWithError(c, errors.InvalidInput("body", "could not read request body").WithCause(err))
		}
		return nil, nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		RespondWithError(c, errors.InvalidInput("body", "graph description is required"))
		return nil, nil, false
	}
	return s, body, true
}

// OptionsFromQuery overlays the query parameters df, tol, iter,
// max_policy_iter, epsilon, objective and min onto base.
func OptionsFromQuery(q url.Values, base mdp.Options) (mdp.Options, error) {
	opts := base
	v := validation.New()

	parseFloat := func(key string, dst *float64) {
		if raw := q.Get(key); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			v.Custom(err == nil, key, "must be a number")
			if err == nil {
				*dst = f
			}
		}
	}
	parseInt := func(key string, dst *int) {
		if raw := q.Get(key); raw != "" {
			n, err := strconv.Atoi(raw)
			v.Custom(err == nil, key, "must be an integer")
			if err == nil {
				*dst = n
			}
		}
	}

	parseFloat("df", &opts.DiscountFactor)
	parseFloat("tol", &opts.Tolerance)
	parseInt("iter", &opts.MaxIterations)
	parseInt("max_policy_iter", &opts.MaxPolicyIterations)
	parseFloat("epsilon", &opts.ProbabilityEpsilon)

	if raw := q.Get("objective"); raw != "" {
		obj, err := mdp.ParseObjective(raw)
		v.OneOf("objective", strings.ToLower(strings.TrimSpace(raw)), []string{"max", "maximize", "min", "minimize"})
		if err == nil {
			opts.Objective = obj
		}
	}
	if raw := q.Get("min"); raw != "" {
		minimize, err := strconv.ParseBool(raw)
		v.Custom(err == nil, "min", "must be a boolean")
		if err == nil {
			opts.Objective = mdp.Maximize
			if minimize {
				opts.Objective = mdp.Minimize
			}
		}
	}

	if err := v.Err(); err != nil {
		return base, err
	}
	if err := opts.Validate(); err != nil {
		return base, err
	}
	return opts, nil
}
