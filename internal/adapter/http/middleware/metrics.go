package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"userapp/internal/core/telemetry"
)

func Metrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			routeLabel(c),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

const unmatchedRoute = "unmatched"

// routeLabel is the route template for metric labels. Unmatched paths share
// one label.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}
