package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"userapp/internal/adapter/http/handler"
	"userapp/internal/adapter/http/helper"
	"userapp/internal/adapter/http/middleware"
	"userapp/internal/core/telemetry"
	"userapp/pkg/config"
)

type HandlersConfig struct {
	HealthHandler *handler.HealthHandler
	UserHandler   *handler.UserHandler
	AuthHandler   *handler.AuthHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.Logger, cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if logger == nil {
		logger = config.NewNopLogger()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))

	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}

	router.Use(middleware.Recovery(logger))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitConfigs, logger, metrics)
		router.Use(limiter.RateLimitMiddleware())
	}

	if handlers.HealthHandler != nil {
		router.GET("/", handlers.HealthHandler.Home)
	}

	if handlers.UserHandler != nil {
		setupUserRoutes(router, handlers.UserHandler)
	}

	if handlers.AuthHandler != nil {
		router.POST("/login", handlers.AuthHandler.Login)
	}

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, helper.MsgEndpointNotFound)
	})

	router.NoMethod(func(c *gin.Context) {
		helper.SendError(c, http.StatusMethodNotAllowed, helper.MsgMethodNotAllowed)
	})

	return router
}

func setupUserRoutes(router *gin.Engine, userHandler *handler.UserHandler) {
	router.GET("/users", userHandler.GetAllUsers)
	router.POST("/users", userHandler.CreateUser)
	router.GET("/search", userHandler.SearchUsers)

	user := router.Group("/user")
	{
		user.GET("/:id", userHandler.GetUser)
		user.PUT("/:id", userHandler.UpdateUser)
		user.DELETE("/:id", userHandler.DeleteUser)
	}
}
