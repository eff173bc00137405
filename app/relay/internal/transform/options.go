package transform

import (
	"strings"
	"sync/atomic"
)

// 云监控控制台地址
const (
	DefaultConsoleURL      = "https://cloudmonitor.console.aliyun.com/#/alarmRules"
	DefaultGroupConsoleURL = "https://cloudmonitor.console.aliyun.com/#/groupDetail/all/groupId={groupId}/alarmRules"

	// GroupIDPlaceholder 应用分组地址中的占位符
	GroupIDPlaceholder = "{groupId}"
)

// Options 卡片渲染配置，对应配置文件的 card 段
type Options struct {
	// ButtonLabel 按钮文案，为空时使用卡片默认值
	ButtonLabel string `mapstructure:"button_label" json:"button_label"`
	// Note 卡片底部提示，为空时使用卡片默认值
	Note string `mapstructure:"note" json:"note"`
	// ConsoleURL 无应用分组时的告警规则列表地址
	ConsoleURL string `mapstructure:"console_url" json:"console_url" validate:"omitempty,url"`
	// GroupConsoleURL 应用分组告警规则地址，{groupId} 会被替换
	GroupConsoleURL string `mapstructure:"group_console_url" json:"group_console_url" validate:"omitempty,contains={groupId}"`
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		ConsoleURL:      DefaultConsoleURL,
		GroupConsoleURL: DefaultGroupConsoleURL,
	}
}

// alarmRulesURL 阈值告警的控制台跳转地址
func (o *Options) alarmRulesURL(groupID string) string {
	if groupID != "" {
		tmpl := o.GroupConsoleURL
		if tmpl == "" {
			tmpl = DefaultGroupConsoleURL
		}
		return strings.ReplaceAll(tmpl, GroupIDPlaceholder, groupID)
	}

	if o.ConsoleURL == "" {
		return DefaultConsoleURL
	}
	return o.ConsoleURL
}

// Transformer 持有可热更新的渲染配置
type Transformer struct {
	opts atomic.Pointer[Options]
}

// NewTransformer 创建 Transformer，opts 为 nil 时使用默认配置
func NewTransformer(opts *Options) *Transformer {
	t := &Transformer{}
	t.Update(opts)
	return t
}

// Update 原子替换渲染配置
func (t *Transformer) Update(opts *Options) {
	if opts == nil {
		opts = DefaultOptions()
	}
	cp := *opts
	t.opts.Store(&cp)
}

// Options 返回当前配置的副本
func (t *Transformer) Options() Options {
	return *t.opts.Load()
}
