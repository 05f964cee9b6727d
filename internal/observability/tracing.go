package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("saltmatch")

// StartEvalSpan starts a span covering one expression evaluated for one target.
func StartEvalSpan(ctx context.Context, evalID, target, expression string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "saltmatch.eval",
		trace.WithAttributes(
			attribute.String("eval.id", evalID),
			attribute.String("target", target),
			attribute.String("expression", expression),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLookupSpan starts a span for one grain, pillar or module lookup.
func StartLookupSpan(ctx context.Context, kind, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "saltmatch.lookup."+kind,
		trace.WithAttributes(
			attribute.String("lookup.kind", kind),
			attribute.String("lookup.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, recording err when non-nil.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
