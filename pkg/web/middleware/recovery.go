package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	weberrors "github.com/lk2023060901/alertrelay/pkg/web/errors"
)

// Recovery 捕获 handler panic，记录日志、上报 Sentry 并返回 500 信封
// reporter 可为 nil
func Recovery(l logger.Logger, reporter *sentry.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			ctx := c.Request.Context()

			// 连接已断开时无法再写响应
			if isBrokenPipe(recovered) {
				l.WarnContext(ctx, "http broken pipe", "error", recovered, "path", c.Request.URL.Path)
				_ = c.Error(errors.Newf("broken pipe: %v", recovered))
				c.Abort()
				return
			}

			l.ErrorContext(ctx, "http recovery from panic",
				"error", fmt.Sprint(recovered),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			reporter.RecoverWithContext(ctx, recovered)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": weberrors.MessageInternal,
				"data":    nil,
			})
		}()
		c.Next()
	}
}

func isBrokenPipe(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
