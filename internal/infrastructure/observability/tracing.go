package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "curator-server/media-lifecycle"
)

// GetTracer returns the tracer for the media lifecycle service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartRelocationSpan starts a span covering one reorganize pass.
func StartRelocationSpan(ctx context.Context, recordID, ownerID string, assetCount int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "media.reorganize",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("record.id", recordID),
			attribute.String("record.owner_id", ownerID),
			attribute.Int("record.asset_count", assetCount),
		),
	)
}

// StartCleanupSpan starts a span covering one retention cleanup pass.
func StartCleanupSpan(ctx context.Context, ownerID string, scoped bool) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "media.cleanup",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("ledger.owner_id", ownerID),
			attribute.Bool("ledger.url_scoped", scoped),
		),
	)
}

// StartAuditSpan starts a span covering one audit pass.
func StartAuditSpan(ctx context.Context) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "media.audit",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
