package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("cricket-context/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for handler steps only. Requests that the
// router does not trace (health, metrics) have no parent and get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

// lookupContext is implemented by every request that carries venue context.
type lookupContext interface {
	lookup() contextParams
}

func (c contextParams) lookup() contextParams { return c }

// annotateLookup tags the current span with the venue context of a request so
// traces can be filtered by ground and cutoff.
func annotateLookup(ctx context.Context, payload any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	req, ok := payload.(lookupContext)
	if !ok {
		return
	}
	params := req.lookup()
	attrs := []attribute.KeyValue{
		attribute.String("cricket.venue", params.Venue),
		attribute.Bool("cricket.relaxed", params.Relaxed),
	}
	if params.League != "" {
		attrs = append(attrs, attribute.String("cricket.league", params.League))
	}
	if !params.Before.IsZero() {
		attrs = append(attrs, attribute.String("cricket.before", params.Before.Format("2006-01-02")))
	}
	span.SetAttributes(attrs...)
}
