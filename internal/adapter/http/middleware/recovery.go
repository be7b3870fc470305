package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"userapp/internal/adapter/http/helper"
	"userapp/pkg/config"
)

// Recovery turns a panic into the generic 500 body and logs the cause.
func Recovery(logger *config.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Ctx(c.Request.Context()).Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Stack("stack"),
		)

		helper.AbortWithError(c, http.StatusInternalServerError, helper.MsgInternalError)
	})
}
