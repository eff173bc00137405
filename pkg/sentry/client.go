package sentry

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/lk2023060901/alertrelay/pkg/config"
)

// Client Sentry 客户端
// nil *Client 是合法值，所有方法均为空操作，用于未配置 DSN 的场景
type Client struct {
	hub    *sentry.Hub
	config *Config
	closed atomic.Bool

	stats struct {
		eventsTotal    atomic.Uint64
		eventsCaptured atomic.Uint64
		eventsDropped  atomic.Uint64
	}
}

// New 创建 Sentry 客户端
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}

	client, err := sentry.NewClient(cfg.clientOptions())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sentry client")
	}

	// 独立 Hub，不污染 sentry 全局状态
	hub := sentry.NewHub(client, sentry.NewScope())
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for key, value := range cfg.Tags {
			scope.SetTag(key, value)
		}
	})

	return &Client{
		hub:    hub,
		config: cfg,
	}, nil
}

// NewOptional DSN 为空时返回 nil 客户端，不视为错误
func NewOptional(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, nil
	}
	return New(cfg)
}

// CaptureException 捕获异常
func (c *Client) CaptureException(err error) *sentry.EventID {
	return c.CaptureExceptionWithTags(err, nil)
}

// CaptureExceptionWithTags 捕获异常并附加标签
func (c *Client) CaptureExceptionWithTags(err error, tags map[string]string) *sentry.EventID {
	if c == nil || c.closed.Load() || err == nil {
		return nil
	}

	var eventID *sentry.EventID
	c.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		eventID = c.hub.CaptureException(err)
	})

	c.record(eventID)
	return eventID
}

// CaptureMessage 捕获消息
func (c *Client) CaptureMessage(message string, level Level) *sentry.EventID {
	if c == nil || c.closed.Load() {
		return nil
	}

	var eventID *sentry.EventID
	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level.toSentryLevel())
		eventID = c.hub.CaptureMessage(message)
	})

	c.record(eventID)
	return eventID
}

// RecoverWithContext 上报已 recover 的 panic（不重新抛出）
func (c *Client) RecoverWithContext(ctx context.Context, recovered interface{}) *sentry.EventID {
	if c == nil || c.closed.Load() || recovered == nil {
		return nil
	}

	eventID := c.hub.RecoverWithContext(ctx, recovered)
	c.record(eventID)
	return eventID
}

func (c *Client) record(eventID *sentry.EventID) {
	c.stats.eventsTotal.Add(1)
	if eventID != nil && *eventID != "" {
		c.stats.eventsCaptured.Add(1)
	} else {
		c.stats.eventsDropped.Add(1)
	}
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.closed.Swap(true) {
		return ErrClientClosed
	}

	c.hub.Flush(c.config.ShutdownTimeout)
	return nil
}

// Stats 获取统计信息
func (c *Client) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		EventsTotal:    c.stats.eventsTotal.Load(),
		EventsCaptured: c.stats.eventsCaptured.Load(),
		EventsDropped:  c.stats.eventsDropped.Load(),
	}
}
