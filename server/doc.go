// Package server exposes the solver over HTTP using Gin with h2c support.
//
// Routes:
//
//   - POST /v1/solve: solve the graph in the request body; query parameters
//     df, tol, iter, max_policy_iter, epsilon, objective and min override the
//     configured solver options, format=text returns the plain listing
//   - POST /v1/validate: build the graph without solving; dump=true adds
//     the per-node listing
//   - GET /health: component health including a solver self-check
//   - GET /version: build information
//
// Every request passes through recovery, run-ID, tracing and metrics,
// body-size and logging middleware (server/middleware).
package server
