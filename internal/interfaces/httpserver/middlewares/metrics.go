package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
)

// Metrics records per-request counters and latency, labelled by route
// template so path parameters do not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
