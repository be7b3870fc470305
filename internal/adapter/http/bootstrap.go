package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"userapp/internal/adapter/http/routes"
	"userapp/internal/core/telemetry"
	"userapp/pkg/config"
)

// Server owns the HTTP listener for the user API.
type Server struct {
	config *config.AppConfig
	logger *config.Logger
	srv    *http.Server
}

func NewServer(container *Container, metrics *telemetry.AppMetrics, logger *config.Logger, cfg *config.AppConfig) *Server {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	router := routes.SetupRouterWithConfig(container.Handlers(), metrics, logger, cfg)

	return &Server{
		config: cfg,
		logger: logger,
		srv: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run blocks until the listener fails or Shutdown is called. A graceful
// shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Server starting",
		zap.String("address", s.srv.Addr),
		zap.String("environment", s.config.Environment),
		zap.String("database_driver", s.config.DatabaseDriver),
		zap.Bool("rate_limit_enabled", s.config.RateLimitEnabled))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Server shutting down")

	return s.srv.Shutdown(ctx)
}
