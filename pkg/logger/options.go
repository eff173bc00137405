package logger

import (
	"io"

	"go.uber.org/zap/zapcore"
)

// Option 配置选项
type Option func(*BaseLogger)

// WithGlobalFields 追加全局字段，与配置中的 global_fields 同名时覆盖
func WithGlobalFields(fields ...interface{}) Option {
	return func(l *BaseLogger) {
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			l.globalFields[key] = fields[i+1]
		}
	}
}

// WithHooks 添加钩子
func WithHooks(hooks ...Hook) Option {
	return func(l *BaseLogger) {
		l.hooks = append(l.hooks, hooks...)
	}
}

// WithWriter 追加额外的输出目标（测试中常用于捕获日志）
func WithWriter(w io.Writer) Option {
	return func(l *BaseLogger) {
		l.writers = append(l.writers, zapcore.AddSync(w))
	}
}
