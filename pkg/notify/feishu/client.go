package feishu

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/notify"
	"github.com/lk2023060901/alertrelay/pkg/otel"
)

var _ notify.Notifier = (*Client)(nil)

// Client 飞书自定义机器人客户端
type Client struct {
	config *Config
	client *http.Client
	card   atomic.Pointer[[]CardOption]
	now    func() time.Time
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithCardOptions 设置初始卡片渲染选项
func WithCardOptions(opts ...CardOption) ClientOption {
	return func(c *Client) {
		c.SetCardOptions(opts...)
	}
}

// NewClient 创建飞书客户端
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}

	if err := newCfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: newCfg,
		client: &http.Client{
			Timeout: newCfg.Timeout,
		},
		now: time.Now,
	}
	c.SetCardOptions()

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name 实现 notify.Notifier 接口
func (c *Client) Name() string {
	return "feishu"
}

// SetCardOptions 原子替换卡片渲染选项，配置热更新时调用
func (c *Client) SetCardOptions(opts ...CardOption) {
	cp := append([]CardOption(nil), opts...)
	c.card.Store(&cp)
}

// Send 将消息渲染为卡片并投递到 secret 对应的机器人
func (c *Client) Send(ctx context.Context, secret string, msg *notify.Message) (*notify.Receipt, error) {
	if secret == "" {
		return nil, notify.ErrSecretEmpty
	}

	card := BuildCard(msg, *c.card.Load()...)

	if c.config.Secret != "" {
		timestamp := c.now().Unix()
		card.Timestamp = fmt.Sprintf("%d", timestamp)
		card.Sign = c.genSign(timestamp)
	}

	body, err := json.Marshal(card)
	if err != nil {
		return nil, errors.Wrap(err, "marshal card")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+url.PathEscape(secret), bytes.NewReader(body))
	if err != nil {
		return nil, sendFailed(errors.Wrap(ErrRequestFailed, "build request"))
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	otel.InjectHTTP(ctx, req.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		// 错误信息中的 URL 含机器人 token，不透出原始错误文本
		return nil, sendFailed(errors.Wrapf(ErrRequestFailed, "%s", requestFailureReason(ctx, err)))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	receipt := &notify.Receipt{StatusCode: resp.StatusCode, Body: respBody}
	if err != nil {
		return receipt, sendFailed(errors.Wrapf(ErrRequestFailed, "read response: %v", err))
	}

	return receipt, classifyResponse(resp.StatusCode, respBody)
}

// requestFailureReason 归类传输层错误
func requestFailureReason(ctx context.Context, err error) string {
	var urlErr *url.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	case errors.As(err, &urlErr) && urlErr.Timeout():
		return "timeout"
	case errors.As(err, &urlErr):
		return urlErr.Op + ": " + urlErr.Err.Error()
	default:
		return err.Error()
	}
}

// genSign 生成签名（符合飞书官方规范）
// 参考: https://open.feishu.cn/document/client-docs/bot-v3/add-custom-bot
func (c *Client) genSign(timestamp int64) string {
	// timestamp + "\n" + secret 作为 HMAC key，对空消息签名
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, c.config.Secret)

	h := hmac.New(sha256.New, []byte(stringToSign))
	h.Write([]byte{})

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
