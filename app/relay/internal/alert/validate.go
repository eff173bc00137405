package alert

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	webvalidator "github.com/lk2023060901/alertrelay/pkg/web/validator"
)

// validate 字段名取 json tag，错误中的字段与报文写法一致
var validate = webvalidator.New()

// checkRequired 校验必填字段，返回第一个不满足的字段
func checkRequired(v any) *SchemaDecodeError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newSchemaError("", err.Error())
	}

	fe := verrs[0]
	field := fe.Namespace()
	// 去掉顶层结构体名
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	if fe.Tag() == "required" {
		return newSchemaError(field, "missing required field")
	}
	return newSchemaError(field, "failed '"+fe.Tag()+"' validation")
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
