package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/mdpsolve/errors"
)

// Operation tracks the span and timing of one traced unit of work.
type Operation struct {
	Name      string
	RunID     string
	StartTime time.Time

	span trace.Span
}

type operationKey struct{}

// StartOperation opens a span named name and stores the Operation in the
// returned context.
func StartOperation(ctx context.Context, name, runID string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{
			attribute.String(AttrOperationName, name),
			attribute.String(AttrRunID, runID),
		}, attrs...)...,
	))
	op := &Operation{Name: name, RunID: runID, StartTime: time.Now(), span: span}
	return context.WithValue(ctx, operationKey{}, op), op
}

// OperationFromContext returns the Operation started on ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// Span returns the operation's span.
func (op *Operation) Span() trace.Span { return op.span }

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration { return time.Since(op.StartTime) }

// Status returns "ok" for a nil error, the AppError code otherwise.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return string(errors.ErrCodeInternal)
}

// End closes the span, recording err if non-nil, and returns the elapsed time.
func (op *Operation) End(err error, attrs ...attribute.KeyValue) time.Duration {
	d := op.Duration()
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.span.SetAttributes(
			attribute.String(AttrErrorCode, Status(err)),
			attribute.String(AttrErrorMessage, err.Error()),
		)
	}
	op.span.SetAttributes(attrs...)
	op.span.SetAttributes(
		attribute.String(AttrStatus, Status(err)),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	op.span.End()
	return d
}
