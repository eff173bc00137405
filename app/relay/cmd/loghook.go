package main

import (
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"go.uber.org/zap/zapcore"
)

// accessLogFilter 丢弃指定路径上 Info 级别的访问日志
func accessLogFilter(paths ...string) logger.Hook {
	skip := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		skip[p] = struct{}{}
	}

	return logger.HookFunc(func(entry zapcore.Entry, fields []zapcore.Field) bool {
		if entry.Level != zapcore.InfoLevel || entry.Message != "http request" {
			return true
		}
		for _, f := range fields {
			if f.Key == "path" && f.Type == zapcore.StringType {
				_, drop := skip[f.String]
				return !drop
			}
		}
		return true
	})
}
