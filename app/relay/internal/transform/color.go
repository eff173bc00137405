package transform

import (
	"github.com/lk2023060901/alertrelay/app/relay/internal/alert"
	"github.com/lk2023060901/alertrelay/pkg/notify"
)

var dashboardColors = map[alert.DashboardState]notify.Color{
	alert.StateAlerting: notify.ColorRed,
	alert.StateNoData:   notify.ColorRed,
	alert.StateOK:       notify.ColorGreen,
	alert.StatePaused:   notify.ColorYellow,
	alert.StatePending:  notify.ColorYellow,
}

var levelColors = map[alert.Level]notify.Color{
	alert.LevelCritical: notify.ColorRed,
	alert.LevelWarning:  notify.ColorYellow,
	alert.LevelInfo:     notify.ColorOrange,
}

// DashboardColor 看板状态到颜色，未知状态为灰色
func DashboardColor(s alert.DashboardState) notify.Color {
	if c, ok := dashboardColors[s]; ok {
		return c
	}
	return notify.ColorGrey
}

// ThresholdColor 阈值告警颜色
// ALERT 时按触发级别取色，级别未知按最严重处理
func ThresholdColor(s alert.ThresholdState, level alert.Level) notify.Color {
	switch s {
	case alert.ThresholdStateOK:
		return notify.ColorGreen
	case alert.ThresholdStateAlert:
		if c, ok := levelColors[level]; ok {
			return c
		}
		return notify.ColorRed
	default:
		return notify.ColorGrey
	}
}

// EventColor 事件级别到颜色，未知级别为灰色
func EventColor(level alert.Level) notify.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return notify.ColorGrey
}
