package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Config Sentry 配置（sentry 段），dsn 为空时不上报
type Config struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	// Release 为空时由启动流程填入构建版本
	Release    string `mapstructure:"release"`
	ServerName string `mapstructure:"server_name"`

	SampleRate       float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	AttachStacktrace bool    `mapstructure:"attach_stacktrace"`
	MaxBreadcrumbs   int     `mapstructure:"max_breadcrumbs"`

	// IgnoreErrors 错误信息匹配任一正则时不上报
	IgnoreErrors []string `mapstructure:"ignore_errors"`

	ShutdownTimeout time.Duration     `mapstructure:"shutdown_timeout"`
	Debug           bool              `mapstructure:"debug"`
	Tags            map[string]string `mapstructure:"tags"`
}

// DefaultConfig 默认配置
// 调用方断开导致的取消不是故障，默认忽略
func DefaultConfig() *Config {
	return &Config{
		Environment:      "production",
		SampleRate:       1.0,
		AttachStacktrace: true,
		MaxBreadcrumbs:   30,
		IgnoreErrors:     []string{"context canceled"},
		ShutdownTimeout:  2 * time.Second,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.DSN == "" {
		return ErrInvalidDSN
	}
	if c.SampleRate < 0 || c.SampleRate > 1 || c.MaxBreadcrumbs < 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) clientOptions() sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              c.DSN,
		Environment:      c.Environment,
		Release:          c.Release,
		ServerName:       c.ServerName,
		SampleRate:       c.SampleRate,
		AttachStacktrace: c.AttachStacktrace,
		MaxBreadcrumbs:   c.MaxBreadcrumbs,
		IgnoreErrors:     c.IgnoreErrors,
		Debug:            c.Debug,
	}
}
