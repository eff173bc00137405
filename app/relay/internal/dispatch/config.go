package dispatch

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("dispatch: invalid config")

// Config 转发配置
type Config struct {
	// PoolSize 所有请求共享的发送协程上限
	PoolSize int `mapstructure:"pool_size" json:"pool_size"`
	// Timeout 单个目标的发送超时
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	// ExpiryDuration 空闲 worker 的回收间隔
	ExpiryDuration time.Duration `mapstructure:"expiry_duration" json:"expiry_duration"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		PoolSize:       64,
		Timeout:        10 * time.Second,
		ExpiryDuration: time.Minute,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.PoolSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "pool_size must be positive, got %d", c.PoolSize)
	}
	if c.Timeout <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
