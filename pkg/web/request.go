package web

import (
	"mime"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	weberrors "github.com/lk2023060901/alertrelay/pkg/web/errors"
)

// BindQuery 绑定查询参数并校验，失败时返回 400 HTTPError
func BindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return weberrors.BadRequest(err, "Bad Request: missing or invalid query parameter '"+verrs[0].Field()+"'")
		}
		return weberrors.BadRequest(err, "Bad Request: invalid query parameters")
	}
	return nil
}

// MediaType 返回去掉参数后的 Content-Type，解析失败时返回空串
func MediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
