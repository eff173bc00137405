package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/alertrelay/pkg/logger"
)

// Config 应用配置（app 段）
type Config struct {
	// Name 日志中的应用名，为空时使用 AppName
	Name        string        `mapstructure:"name"`
	StopTimeout time.Duration `mapstructure:"stop_timeout"`

	// Loggers 独立输出的具名日志，例如 audit 记录每次转发的调用方与结果
	Loggers map[string]*logger.Config `mapstructure:"loggers"`
}

type options struct {
	id          string
	name        string
	version     string
	stopTimeout time.Duration
	logger      logger.Logger
	loggers     map[string]*logger.Config
}

// Option 应用选项
type Option func(*options)

func defaultOptions() options {
	return options{
		id:          uuid.New().String(),
		name:        AppName,
		version:     Version,
		stopTimeout: 30 * time.Second,
		logger:      logger.Default(),
	}
}

// WithLogger 主日志
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithStopTimeout 等待服务停止的上限，超时后直接关闭资源
func WithStopTimeout(t time.Duration) Option {
	return func(o *options) {
		if t > 0 {
			o.stopTimeout = t
		}
	}
}

// WithNamedLoggers 按配置创建具名日志，未配置的名称回退到主日志的子日志
func WithNamedLoggers(cfgs map[string]*logger.Config) Option {
	return func(o *options) { o.loggers = cfgs }
}
