package sentry

import "github.com/getsentry/sentry-go"

// Level 消息事件级别
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func (l Level) toSentryLevel() sentry.Level {
	switch l {
	case LevelInfo:
		return sentry.LevelInfo
	case LevelWarning:
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}

// 转发事件的标签名
const (
	TagDestination = "destination"
	TagIndex       = "index"
)

// Stats 上报统计，随 /api/v1/stats 输出
type Stats struct {
	EventsTotal    uint64 `json:"events_total"`
	EventsCaptured uint64 `json:"events_captured"`
	EventsDropped  uint64 `json:"events_dropped"`
}
