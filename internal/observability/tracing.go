package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracer is shared across every engine boundary, named after the package.
var tracer = otel.Tracer("taxrecon")

// StartSpan opens a span for one of the three engine boundaries named in
// §5 (reconciliation, estimation, strategy analysis) and returns the
// derived context plus the span's End func, so callers can `defer end()`.
func StartSpan(ctx context.Context, engine, operation string, year int) (context.Context, func()) {
	ctx, span := tracer.Start(ctx, engine+"."+operation,
		trace.WithAttributes(
			attribute.String("taxrecon.engine", engine),
			attribute.String("taxrecon.operation", operation),
			attribute.Int("taxrecon.year", year),
		),
	)
	return ctx, func() { span.End() }
}

// RecordError attaches err to the active span without ending it, for
// engines that keep running after a warning-level failure (§7
// propagation policy: warnings never abort the pipeline).
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	trace.SpanFromContext(ctx).RecordError(err)
}
