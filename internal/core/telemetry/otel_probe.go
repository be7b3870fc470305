package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"userapp/internal/core/port"
)

const tracerName = "userapp"

// OTELProbe implements Telemetry using OpenTelemetry spans and Prometheus counters
type OTELProbe struct {
	tracer  trace.Tracer
	metrics *AppMetrics
	logger  *zap.Logger
}

func NewOTELProbe(metrics *AppMetrics, logger *zap.Logger) port.Telemetry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OTELProbe{
		tracer:  otel.Tracer(tracerName),
		metrics: metrics,
		logger:  logger,
	}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}

	return p.tracer.Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}

	return p.tracer.Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity, duration, err)
	}

	span := trace.SpanFromContext(ctx)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID int64) {
	if p.metrics != nil {
		p.metrics.RecordUserOperation(ctx, event)
	}

	trace.SpanFromContext(ctx).AddEvent(event, trace.WithAttributes(
		attribute.String("entity", entity),
		attribute.Int64("entity.id", entityID),
	))
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error) {
	if p.metrics != nil {
		p.metrics.RecordError(ctx, operation)
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	p.logger.Error("operation failed", zap.String("operation", operation), zap.Error(err))
}
