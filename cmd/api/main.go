package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"userapp/internal/adapter/database/store"
	httpadapter "userapp/internal/adapter/http"
	telemetryadapter "userapp/internal/adapter/telemetry"
	"userapp/pkg/config"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Args[1:])

	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.ServiceName, cfg.LogLevel)

	if err != nil {
		return err
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry, err := telemetryadapter.NewContainer(ctx, telemetryadapter.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, logger)

	if err != nil {
		return err
	}

	db, err := store.Open(store.ConfigFrom(cfg))

	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return err
	}

	container := httpadapter.NewContainer(db, cfg, logger, telemetry.NewTelemetryProbe())
	server := httpadapter.NewServer(container, telemetry.AppMetrics, logger, cfg)

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- server.Run()
	}()

	select {
	case err = <-serverErr:
		logger.Error("Server stopped", zap.Error(err))
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return errors.Join(
		err,
		server.Shutdown(shutdownCtx),
		telemetry.Shutdown(shutdownCtx),
		db.Close(),
	)
}
