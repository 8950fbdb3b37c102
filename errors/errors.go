package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Graph build errors ---

// MalformedRecord creates an error for an input line that matches no record form
// or whose payload cannot be parsed.
func MalformedRecord(line int, text, reason string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedRecord, Message: fmt.Sprintf("line %d does not follow the expected format: %s", line, reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"line": line, "text": text},
	}
}

// InvalidTerminal creates an error for a node without edges that was given a probability.
func InvalidTerminal(node string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidTerminal, Message: fmt.Sprintf("%s has no edges (terminal node) but probability given", node),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": node},
	}
}

// CardinalityMismatch creates an error for a chance node whose edge and probability counts differ.
func CardinalityMismatch(node string, edges []string, probs []float64) *AppError {
	return &AppError{
		Code: ErrCodeCardinalityMismatch,
		Message: fmt.Sprintf("number of edges does not match number of probabilities for %s | edge list: %v | prob list: %v",
			node, edges, probs),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": node, "edges": edges, "probabilities": probs},
	}
}

// InvalidDistribution creates an error for probabilities that do not form a distribution.
func InvalidDistribution(node string, edges []string, probs []float64, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidDistribution,
		Message: fmt.Sprintf("%s for %s | edge list: %v | prob list: %v",
			reason, node, edges, probs),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": node, "edges": edges, "probabilities": probs},
	}
}

// --- Solver errors ---

// NotConverged creates an error for a policy iteration that hit its outer cap.
func NotConverged(iterations int) *AppError {
	return &AppError{
		Code: ErrCodeNotConverged, Message: fmt.Sprintf("policy did not stabilize after %d policy iterations", iterations),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"policy_iterations": iterations},
	}
}

// --- Input errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// TooLarge creates an error for a request body over the configured limit.
func TooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Request body exceeds %d bytes.", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit_bytes": limit},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Timeout creates a new AppError for an operation that was cancelled or timed out.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("The %s was cancelled before it finished.", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// FromContext converts a context error into a Timeout AppError.
// Returns nil if err is not a context cancellation or deadline error.
func FromContext(operation string, err error) *AppError {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return Timeout(operation, err)
	}
	return nil
}
