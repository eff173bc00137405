package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/pkg/otel"
)

// Tracing 分布式追踪中间件，每个请求一个 server span
func Tracing(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer("github.com/lk2023060901/alertrelay/pkg/web")

	return func(c *gin.Context) {
		ctx := otel.ExtractHTTP(c.Request.Context(), c.Request.Header)

		route := c.FullPath()
		spanName := fmt.Sprintf("%s %s", c.Request.Method, route)
		if route == "" {
			spanName = fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
		}

		ctx, span := tracer.Start(
			ctx,
			spanName,
			otel.WithSpanKind(otel.SpanKindServer),
			otel.WithAttributes(
				otel.String(otel.HTTPMethodKey, c.Request.Method),
				otel.String(otel.HTTPRouteKey, route),
				otel.String("service.name", serviceName),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(otel.Int(otel.HTTPStatusCodeKey, status))
		if status >= 500 {
			span.SetStatus(otel.CodeError, fmt.Sprintf("HTTP status %d", status))
		}
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last().Err)
		}
	}
}
