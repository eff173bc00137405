package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	weberrors "github.com/lk2023060901/alertrelay/pkg/web/errors"
)

// Response 统一响应结构，code 与 HTTP 状态码一致
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// AbortWithError 中断并返回错误
func AbortWithError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code:    httpStatus,
		Message: message,
		Data:    nil,
	})
}

// Fail 按错误类型渲染错误响应，并挂到 gin.Context 供日志中间件记录
func Fail(c *gin.Context, err error) {
	he := weberrors.FromError(err)
	_ = c.Error(err)
	AbortWithError(c, he.Status, he.Message)
}
