package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestAccessLogFilter(t *testing.T) {
	hook := accessLogFilter("/health", "/metrics")

	tests := []struct {
		name  string
		level zapcore.Level
		msg   string
		path  string
		keep  bool
	}{
		{name: "health", level: zapcore.InfoLevel, msg: "http request", path: "/health", keep: false},
		{name: "metrics", level: zapcore.InfoLevel, msg: "http request", path: "/metrics", keep: false},
		{name: "webhook", level: zapcore.InfoLevel, msg: "http request", path: "/api/v1/dashboard/alerts", keep: true},
		{name: "failed health", level: zapcore.WarnLevel, msg: "http request", path: "/health", keep: true},
		{name: "other message", level: zapcore.InfoLevel, msg: "alert relayed", path: "/health", keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := zapcore.Entry{Level: tt.level, Message: tt.msg}
			fields := []zapcore.Field{zap.Int("status", 200), zap.String("path", tt.path)}
			assert.Equal(t, tt.keep, hook.OnWrite(entry, fields))
		})
	}

	// With 绑定字段时 entry 为空，不应丢弃
	assert.True(t, hook.OnWrite(zapcore.Entry{}, []zapcore.Field{zap.String("path", "/health")}))
}
