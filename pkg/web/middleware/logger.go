package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/pkg/logger"
)

// Logger 适配 pkg/logger 的 Gin 日志中间件
// 查询串中含 apiKey，不写入日志
func Logger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", latency.String(),
			"user_agent", c.Request.UserAgent(),
		}

		ctx := c.Request.Context()
		switch {
		case len(c.Errors) > 0:
			l.WarnContext(ctx, "http request failed", append(fields, "error", c.Errors.Last().Err)...)
		case status >= 500:
			l.ErrorContext(ctx, "http request", fields...)
		case status >= 400:
			l.WarnContext(ctx, "http request", fields...)
		default:
			l.InfoContext(ctx, "http request", fields...)
		}
	}
}
