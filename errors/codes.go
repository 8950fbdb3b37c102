package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph build errors. Each is fatal: no partial graph is ever solved.
const (
	// ErrCodeMalformedRecord indicates an input line matches no record form.
	ErrCodeMalformedRecord ErrorCode = "MALFORMED_RECORD"
	// ErrCodeInvalidTerminal indicates a node without edges was given a probability.
	ErrCodeInvalidTerminal ErrorCode = "INVALID_TERMINAL"
	// ErrCodeCardinalityMismatch indicates a chance node's probability and edge counts differ.
	ErrCodeCardinalityMismatch ErrorCode = "CARDINALITY_MISMATCH"
	// ErrCodeInvalidDistribution indicates probabilities that do not form a distribution.
	ErrCodeInvalidDistribution ErrorCode = "INVALID_DISTRIBUTION"
)

// Solver errors
const (
	// ErrCodeNotConverged indicates policy iteration hit its outer iteration cap.
	ErrCodeNotConverged ErrorCode = "NOT_CONVERGED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates invalid parameters or usage.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates a missing input resource such as a graph file.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout indicates the solve was cancelled or ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure such as an I/O error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:  true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// Process exit codes reported by the CLI boundary.
const (
	ExitOK                  = 0
	ExitInternal            = 1
	ExitUsage               = 2
	ExitMalformedRecord     = 3
	ExitInvalidTerminal     = 4
	ExitCardinalityMismatch = 5
	ExitInvalidDistribution = 6
	ExitNotConverged        = 7
)

var exitCodes = map[ErrorCode]int{
	ErrCodeMalformedRecord:     ExitMalformedRecord,
	ErrCodeInvalidTerminal:     ExitInvalidTerminal,
	ErrCodeCardinalityMismatch: ExitCardinalityMismatch,
	ErrCodeInvalidDistribution: ExitInvalidDistribution,
	ErrCodeNotConverged:        ExitNotConverged,
	ErrCodeInvalidInput:        ExitUsage,
	ErrCodeNotFound:            ExitUsage,
}

// ExitCodeFor returns the process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitInternal
}
