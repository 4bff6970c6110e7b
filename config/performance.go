package config

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const slowRequest = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency and warns about slow ones.
func PerformanceLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"ip", c.ClientIP(),
		}
		if id := c.GetString("userId"); id != "" {
			attrs = append(attrs, "userId", id)
		}

		logger.Info("request", attrs...)
		if latency > slowRequest {
			logger.Warn("slow request", attrs...)
		}
	}
}
