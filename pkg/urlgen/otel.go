package urlgen

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens a span around one generation when tracing is enabled. The
// returned finish func records the outcome and ends the span; it is a no-op
// when tracing is off.
func (g *Generator) startSpan(ctx context.Context, address string) func(failed bool) {
	if g.tracerName == "" {
		return func(bool) {}
	}

	_, span := otel.Tracer(g.tracerName).Start(ctx, "urlgen.generate",
		trace.WithAttributes(attribute.String("route.address", address)),
	)

	return func(failed bool) {
		span.SetAttributes(attribute.Bool("route.error", failed))
		if failed {
			span.SetStatus(codes.Error, "url generation failed")
		}
		span.End()
	}
}
