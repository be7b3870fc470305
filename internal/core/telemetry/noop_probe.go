package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"userapp/internal/core/port"
)

// NoOpProbe is a probe that does nothing - useful for testing or when telemetry is disabled
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID int64) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error) {
}

// Operation measures a repository call from StartOperation until End.
type Operation struct {
	probe     port.Telemetry
	ctx       context.Context
	span      trace.Span
	startTime time.Time
	operation string
	entity    string
}

// StartOperation opens a repository span and starts the clock. The returned
// context carries the span and must be used for the operation's queries.
func StartOperation(ctx context.Context, probe port.Telemetry, operation, entity string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	if probe == nil {
		probe = NewNoOpProbe()
	}

	ctx, span := probe.StartRepositorySpan(ctx, operation, entity, attrs...)

	return ctx, &Operation{
		probe:     probe,
		ctx:       ctx,
		span:      span,
		startTime: time.Now(),
		operation: operation,
		entity:    entity,
	}
}

// End records the duration and outcome and closes the span.
func (op *Operation) End(err error) {
	op.probe.RecordRepositoryOperation(op.ctx, op.operation, op.entity, time.Since(op.startTime), err)
	op.span.End()
}
