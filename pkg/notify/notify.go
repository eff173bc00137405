package notify

import "context"

// Notifier 通知器接口（核心抽象）
// 每个目标平台实现一个 Notifier，secret 来自请求中的目标凭据
type Notifier interface {
	// Send 发送消息
	// 只要收到了对端响应，Receipt 就不为 nil，即使同时返回了错误
	Send(ctx context.Context, secret string, msg *Message) (*Receipt, error)

	// Name 返回通知器名称（用于日志与指标）
	Name() string
}
