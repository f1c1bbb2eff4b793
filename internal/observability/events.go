package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// EventHeaders builds the AMQP headers attached to published events so
// consumers can correlate them with the originating trace.
func EventHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		headers["trace_id"] = sc.TraceID().String()
	}
	return headers
}
