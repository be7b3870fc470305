package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"

	"userapp/internal/core/port"
	"userapp/internal/core/telemetry"
	"userapp/pkg/config"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// MetricsPort empty disables the /metrics listener.
	MetricsPort string
	// OTLPEndpoint empty keeps spans in-process.
	OTLPEndpoint string
}

type Container struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusRegistry *prometheus.Registry
	MetricsServer      *http.Server
	AppMetrics         *telemetry.AppMetrics

	logger *config.Logger
}

func NewContainer(ctx context.Context, cfg Config, logger *config.Logger) (*Container, error) {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := telemetry.NewAppMetrics(registry)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	traceOptions := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if cfg.OTLPEndpoint != "" {
		otlpExporter, err := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)

		if err != nil {
			return nil, err
		}

		traceOptions = append(traceOptions, sdktrace.WithBatcher(otlpExporter,
			sdktrace.WithBatchTimeout(time.Second),
		))
	}

	tracerProvider := sdktrace.NewTracerProvider(traceOptions...)
	otel.SetTracerProvider(tracerProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, err
	}

	container := &Container{
		TracerProvider:     tracerProvider,
		MeterProvider:      meterProvider,
		PrometheusRegistry: registry,
		AppMetrics:         appMetrics,
		logger:             logger,
	}

	if cfg.MetricsPort != "" {
		container.MetricsServer = container.startMetricsServer(cfg.MetricsPort)
	}

	return container, nil
}

func (c *Container) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.PrometheusRegistry, promhttp.HandlerOpts{})
}

func (c *Container) startMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.MetricsHandler())

	metricsServer := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("Failed to start metrics server", zap.Error(err))
		}
	}()

	return metricsServer
}

// Shutdown flushes spans and stops the metrics listener. It is safe on a nil
// container.
func (c *Container) Shutdown(ctx context.Context) error {
	if c == nil {
		return nil
	}

	var errs []error

	if c.TracerProvider != nil {
		errs = append(errs, c.TracerProvider.Shutdown(ctx))
	}

	if c.MeterProvider != nil {
		errs = append(errs, c.MeterProvider.Shutdown(ctx))
	}

	if c.MetricsServer != nil {
		errs = append(errs, c.MetricsServer.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func (c *Container) NewTelemetryProbe() port.Telemetry {
	return telemetry.NewOTELProbe(c.AppMetrics, c.logger.Logger.Logger)
}
