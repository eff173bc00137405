package alert

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSchemaDecode 告警体解码失败
	ErrSchemaDecode = errors.New("schema decode failed")

	// ErrUnsupportedMediaType 不支持的请求体类型
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// SchemaDecodeError 字段级解码错误
type SchemaDecodeError struct {
	// Field 出错字段的线上名称，嵌套字段以 '.' 连接，整体错误时为空
	Field  string
	Reason string
}

func (e *SchemaDecodeError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field '%s': %s", e.Field, e.Reason)
}

// Is 使 errors.Is(err, ErrSchemaDecode) 成立
func (e *SchemaDecodeError) Is(target error) bool {
	return target == ErrSchemaDecode
}

func newSchemaError(field, reason string) *SchemaDecodeError {
	return &SchemaDecodeError{Field: field, Reason: reason}
}
