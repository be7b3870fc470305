package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingProbe(t *testing.T) (*OTELProbe, *AppMetrics, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(metrics, nil).(*OTELProbe)

	return probe, metrics, recorder
}

func TestOTELProbe_RepositoryOperation(t *testing.T) {
	probe, metrics, recorder := newRecordingProbe(t)

	ctx, op := StartOperation(context.Background(), probe, "create", "users")
	require.NotNil(t, ctx)
	op.End(nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "repository.users.create", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("create", "users", "ok")))
}

func TestOTELProbe_RepositoryOperationError(t *testing.T) {
	probe, metrics, recorder := newRecordingProbe(t)

	_, op := StartOperation(context.Background(), probe, "update", "users")
	op.End(errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("update", "users", "error")))
}

func TestOTELProbe_BusinessEventAndError(t *testing.T) {
	probe, metrics, _ := newRecordingProbe(t)
	ctx := context.Background()

	probe.RecordBusinessEvent(ctx, "user_created", "users", 1)
	probe.RecordBusinessEvent(ctx, "user_created", "users", 2)
	probe.RecordError(ctx, "create_user", errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.userOperations.WithLabelValues("user_created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.errors.WithLabelValues("create_user")))
}

func TestNoOpProbe_DoesNotEndParentSpan(t *testing.T) {
	_, _, recorder := newRecordingProbe(t)

	ctx, parent := otel.Tracer("test").Start(context.Background(), "parent")

	_, op := StartOperation(ctx, NewNoOpProbe(), "get", "users")
	op.End(nil)

	assert.Empty(t, recorder.Ended())

	parent.End()
	assert.Len(t, recorder.Ended(), 1)
}

func TestAppMetrics_RecordRequest(t *testing.T) {
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordRequest(context.Background(), "GET", "/users", "200", 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/users", "200")))
}
