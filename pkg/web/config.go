package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config Web 服务配置
type Config struct {
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Mode            string        `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableTLS       bool          `mapstructure:"enable_tls"`
	CertFile        string        `mapstructure:"cert_file"`
	KeyFile         string        `mapstructure:"key_file"`
	// ServiceName 写入 server span 的服务名
	ServiceName string `mapstructure:"service_name"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Port:            3000,
		Mode:            gin.ReleaseMode,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		EnableTLS:       false,
		ServiceName:     "alertrelay",
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return ErrInvalidConfig
	}
	if c.EnableTLS && (c.CertFile == "" || c.KeyFile == "") {
		return ErrInvalidConfig
	}
	return nil
}
