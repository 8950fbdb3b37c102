// Package errors provides the structured error type shared by the graph
// builder, the solver, and the CLI and HTTP boundaries.
//
// Every failure carries a machine-readable ErrorCode. Build failures
// (malformed record, invalid terminal, cardinality mismatch, invalid
// distribution) are fatal; the boundary decides how to surface them, either
// as a process exit code (ExitCode) or an HTTP status (AppError.HTTPStatus).
package errors
