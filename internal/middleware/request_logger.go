package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := c.Get(ClientIDKey); ok {
			fields = append(fields, "client_id", id)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("http_request", fields...)
		case status >= 400:
			log.Warnw("http_request", fields...)
		default:
			log.Infow("http_request", fields...)
		}
	}
}
