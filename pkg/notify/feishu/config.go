package feishu

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/notify"
)

// DefaultBaseURL 自定义机器人 Webhook 前缀，完整地址为前缀 + 机器人 token
const DefaultBaseURL = "https://open.feishu.cn/open-apis/bot/v2/hook/"

// Config 飞书机器人配置
type Config struct {
	// BaseURL Webhook 前缀
	BaseURL string `mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`

	// Secret 签名校验密钥（可选，机器人开启签名校验时配置）
	Secret string `mapstructure:"secret" json:"secret"`

	// Timeout 单次 HTTP 请求超时时间
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// MaxResponseBytes 读取响应体的上限
	MaxResponseBytes int64 `mapstructure:"max_response_bytes" json:"max_response_bytes"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		Timeout:          10 * time.Second,
		MaxResponseBytes: 1 << 20,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.Wrap(notify.ErrInvalidConfig, "base_url is required")
	}

	if !strings.HasPrefix(c.BaseURL, "http://") &&
		!strings.HasPrefix(c.BaseURL, "https://") {
		return errors.Wrap(notify.ErrInvalidConfig, "base_url must start with http:// or https://")
	}

	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = 1 << 20
	}

	return nil
}
