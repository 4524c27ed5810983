package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/xhrkit/errors"
)

// Operation tracks the span and metrics of one send from start to the
// done state.
type Operation struct {
	RequestID string
	Method    string
	URL       string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

type operationContextKey struct{}

// StartOperation starts the xhr.send span and records the in-flight metric.
// If metrics is nil, metric recording is skipped.
func StartOperation(ctx context.Context, requestID, method, url string, metrics *Metrics) (context.Context, *Operation) {
	op := &Operation{
		RequestID: requestID,
		Method:    method,
		URL:       url,
		StartTime: time.Now(),
		Metrics:   metrics,
	}

	ctx, op.span = StartSpan(ctx, SpanXHRSend, trace.WithSpanKind(trace.SpanKindClient))
	op.span.SetAttributes(
		attribute.String(AttrRequestID, requestID),
		attribute.String(AttrMethod, method),
		attribute.String(AttrURL, url),
	)

	if metrics != nil {
		metrics.RecordSendStart(ctx)
	}
	return context.WithValue(ctx, operationContextKey{}, op), op
}

// OperationFromContext retrieves the Operation from context, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationContextKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// SetStatus records the HTTP status code on the span.
func (op *Operation) SetStatus(statusCode int) {
	op.span.SetAttributes(attribute.Int(AttrStatusCode, statusCode))
}

// End closes the span and records the outcome. A non-nil err marks the
// span failed and counts the error by its code.
func (op *Operation) End(ctx context.Context, outcome string, err error) {
	duration := time.Since(op.StartTime)

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		if op.Metrics != nil {
			op.Metrics.RecordError(ctx, string(apperrors.CodeOf(err)))
		}
	}

	op.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	if op.Metrics != nil {
		op.Metrics.RecordSendEnd(ctx, op.Method, outcome, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
