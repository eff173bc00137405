package notify

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid notifier config")

	// ErrSendFailed 发送失败，各平台的发送错误都标记为此错误
	ErrSendFailed = errors.New("failed to send notification")

	// ErrSecretEmpty 目标凭据为空
	ErrSecretEmpty = errors.New("secret is empty")
)
