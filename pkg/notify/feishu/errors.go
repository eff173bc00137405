package feishu

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/notify"
)

var (
	// ErrRequestFailed HTTP 请求失败（连接、超时、取消）
	ErrRequestFailed = errors.New("feishu: http request failed")

	// ErrUnexpectedStatus 非 2xx 响应
	ErrUnexpectedStatus = errors.New("feishu: unexpected http status")

	// ErrResponseInvalid 响应格式无法识别
	ErrResponseInvalid = errors.New("feishu: invalid response")

	// ErrAPIError 飞书 API 返回错误
	ErrAPIError = errors.New("feishu: api error")
)

// sendFailed 标记为 notify.ErrSendFailed，调用方无需关心具体平台
func sendFailed(err error) error {
	return errors.Mark(err, notify.ErrSendFailed)
}
