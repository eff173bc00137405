// Package alert 定义各告警源的报文结构及其解码器
package alert

import "strings"

// 告警类型
const (
	KindDashboard = "dashboard"
	KindThreshold = "threshold"
	KindEvent     = "event"
)

// 告警源
const (
	SourceDashboard    = "dashboard"
	SourceCloudMonitor = "cloud_monitor"
)

// Alert 解码后的告警，调用方按具体类型分支处理：
// *DashboardAlert、*ThresholdAlert、*EventAlert
type Alert interface {
	Kind() string
}

// Level 阈值告警与事件告警的级别
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelWarning  Level = "WARNING"
	LevelInfo     Level = "INFO"
	LevelUnknown  Level = "UNKNOWN"
)

// ParseLevel 大小写不敏感，"null" 与无法识别的值均为 LevelUnknown
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelCritical:
		return LevelCritical
	case LevelWarning:
		return LevelWarning
	case LevelInfo:
		return LevelInfo
	default:
		return LevelUnknown
	}
}

// ThresholdState 阈值告警状态
type ThresholdState string

const (
	ThresholdStateOK               ThresholdState = "OK"
	ThresholdStateAlert            ThresholdState = "ALERT"
	ThresholdStateInsufficientData ThresholdState = "INSUFFICIENT_DATA"
	ThresholdStateUnknown          ThresholdState = "UNKNOWN"
)

// ParseThresholdState 大小写不敏感，无法识别时为 ThresholdStateUnknown
func ParseThresholdState(s string) ThresholdState {
	switch ThresholdState(strings.ToUpper(strings.TrimSpace(s))) {
	case ThresholdStateOK:
		return ThresholdStateOK
	case ThresholdStateAlert:
		return ThresholdStateAlert
	case ThresholdStateInsufficientData:
		return ThresholdStateInsufficientData
	default:
		return ThresholdStateUnknown
	}
}

// DashboardState 看板告警状态
type DashboardState string

const (
	StateNoData   DashboardState = "no_data"
	StatePaused   DashboardState = "paused"
	StateAlerting DashboardState = "alerting"
	StateOK       DashboardState = "ok"
	StatePending  DashboardState = "pending"
	StateUnknown  DashboardState = "unknown"
)

// ParseDashboardState 无法识别的状态解码为 StateUnknown，不视为错误
func ParseDashboardState(s string) DashboardState {
	switch st := DashboardState(strings.ToLower(strings.TrimSpace(s))); st {
	case StateNoData, StatePaused, StateAlerting, StateOK, StatePending:
		return st
	default:
		return StateUnknown
	}
}
