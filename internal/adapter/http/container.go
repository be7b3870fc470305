package http

import (
	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/repository"
	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/routes"
	"userapp/internal/core/port"
	"userapp/internal/core/service"
	"userapp/internal/core/util"
	"userapp/pkg/config"
)

type Container struct {
	HealthHandler *handler.HealthHandler
	UserHandler   *handler.UserHandler
	AuthHandler   *handler.AuthHandler
}

func NewContainer(db *database.DB, cfg *config.AppConfig, logger *config.Logger, probe port.Telemetry) *Container {
	hasher := util.NewBcryptHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db, hasher, probe)

	userSvc := service.NewUserService(userRepo, probe)
	authSvc := service.NewAuthService(userRepo, hasher, probe)

	return &Container{
		HealthHandler: handler.NewHealthHandler(),
		UserHandler:   handler.NewUserHandler(userSvc, logger),
		AuthHandler:   handler.NewAuthHandler(authSvc, logger),
	}
}

func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		HealthHandler: c.HealthHandler,
		UserHandler:   c.UserHandler,
		AuthHandler:   c.AuthHandler,
	}
}
