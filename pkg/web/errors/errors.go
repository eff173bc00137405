// Package errors 定义 HTTP 层的错误类型及其到响应状态码的映射
package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// 固定的响应文案
const (
	MessageNotFound              = "NOT_FOUND"
	MessageMethodNotAllowed      = "Method Not Allowed"
	MessageUnsupportedMediaType  = "Unsupported Media Type"
	MessageRequestEntityTooLarge = "Request Entity Too Large"
	MessageInternal              = "UNHANDLED_REJECTION"
)

// HTTPError 携带状态码与对外文案的错误
type HTTPError struct {
	Status  int
	Message string
	cause   error
}

// New 创建 HTTPError
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Wrap 以 HTTPError 包装底层错误，Message 对外可见，底层错误只用于日志
func Wrap(err error, status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message, cause: err}
}

// BadRequest 400
func BadRequest(err error, message string) *HTTPError {
	return Wrap(err, http.StatusBadRequest, message)
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

// 预定义错误
var (
	ErrNotFound             = New(http.StatusNotFound, MessageNotFound)
	ErrMethodNotAllowed     = New(http.StatusMethodNotAllowed, MessageMethodNotAllowed)
	ErrUnsupportedMediaType = New(http.StatusUnsupportedMediaType, MessageUnsupportedMediaType)
	ErrInternal             = New(http.StatusInternalServerError, MessageInternal)
)

// FromError 从错误链中提取 HTTPError，未知错误一律视为 500
func FromError(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternal
}
