// Package transform 将解码后的告警映射为平台无关的消息
package transform

import (
	"github.com/lk2023060901/alertrelay/app/relay/internal/alert"
	"github.com/lk2023060901/alertrelay/pkg/notify"
	"github.com/lk2023060901/alertrelay/pkg/pool/bytebuff"
)

// nullInstance 上游在实例名缺失时填入的字面量
const nullInstance = "null"

// Transform 纯函数，对任何已解码的告警都返回消息
func Transform(a alert.Alert, opts *Options) *notify.Message {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch v := a.(type) {
	case *alert.DashboardAlert:
		return dashboardMessage(v)
	case *alert.ThresholdAlert:
		return thresholdMessage(v, opts)
	case *alert.EventAlert:
		return eventMessage(v)
	default:
		return &notify.Message{Color: notify.ColorGrey}
	}
}

// Transform 使用当前配置渲染
func (t *Transformer) Transform(a alert.Alert) *notify.Message {
	return Transform(a, t.opts.Load())
}

func dashboardMessage(a *alert.DashboardAlert) *notify.Message {
	body := bytebuff.Render(func(buf *bytebuff.ByteBuffer) {
		buf.WriteString("**")
		buf.WriteString(a.RuleName)
		buf.WriteString("**\nMessage: ")
		buf.WriteString(a.Message)
		buf.WriteString("\n")
		for i, m := range a.EvalMatches {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString("- Metric: ")
			buf.WriteString(m.Metric)
			buf.WriteString(", Value: ")
			buf.WriteString(m.FormatValue())
		}
		buf.WriteString("\n- State: ")
		buf.WriteString(string(a.State))
	})

	return &notify.Message{
		Title:     a.Title,
		Body:      body,
		Color:     DashboardColor(a.State),
		ActionURL: a.RuleURL,
	}
}

func thresholdMessage(a *alert.ThresholdAlert, opts *Options) *notify.Message {
	instance := a.InstanceName
	if instance == nullInstance {
		instance = "Instance"
	}

	title := bytebuff.Render(func(buf *bytebuff.ByteBuffer) {
		buf.WriteString(instance)
		buf.WriteString("(")
		buf.WriteString(a.AlertName)
		buf.WriteString(") ")
		buf.WriteString(a.MetricName)
		buf.WriteString(" ")
		buf.WriteString(a.AlertState)
		buf.WriteString("（")
		buf.WriteString(a.CurValue)
		buf.WriteString("）")
	})

	body := renderLines([][2]string{
		{"Instance", a.InstanceName},
		{"Rule ID", a.RuleID},
		{"Resource", a.Dimensions},
		{"Status", a.AlertState},
		{"Metric", a.MetricName},
		{"Expression", a.Expression},
		{"Current Value", a.CurValue},
	})

	return &notify.Message{
		Title:     title,
		Body:      body,
		Color:     ThresholdColor(a.State(), a.Level()),
		ActionURL: opts.alarmRulesURL(a.GroupID),
	}
}

func eventMessage(a *alert.EventAlert) *notify.Message {
	return &notify.Message{
		Title: a.Name,
		Body: renderLines([][2]string{
			{"Product", a.Product},
			{"Instance", a.InstanceName},
			{"Level", a.Level},
		}),
		Color: EventColor(a.EventLevel()),
	}
}

// renderLines 渲染 "- 名称: 值" 列表
func renderLines(lines [][2]string) string {
	return bytebuff.Render(func(buf *bytebuff.ByteBuffer) {
		for i, l := range lines {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString("- ")
			buf.WriteString(l[0])
			buf.WriteString(": ")
			buf.WriteString(l[1])
		}
	})
}
