// Package handler 告警接收与转发的 HTTP 接口
package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/app/relay/internal/alert"
	"github.com/lk2023060901/alertrelay/app/relay/internal/apikey"
	"github.com/lk2023060901/alertrelay/app/relay/internal/dispatch"
	"github.com/lk2023060901/alertrelay/app/relay/internal/metrics"
	"github.com/lk2023060901/alertrelay/app/relay/internal/transform"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/otel"
	"github.com/lk2023060901/alertrelay/pkg/web"
	weberrors "github.com/lk2023060901/alertrelay/pkg/web/errors"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes 告警请求体上限
const maxBodyBytes = 1 << 20

// AlertHandler 告警处理器
type AlertHandler struct {
	transformer *transform.Transformer
	dispatcher  *dispatch.Dispatcher
	metrics     *metrics.RelayMetrics
	logger      logger.Logger
	audit       logger.Logger
}

// AlertOption 告警处理器选项
type AlertOption func(*AlertHandler)

// WithAuditLogger 收到与转发完成的记录写入独立的审计日志
func WithAuditLogger(l logger.Logger) AlertOption {
	return func(h *AlertHandler) {
		if l != nil {
			h.audit = l
		}
	}
}

// NewAlertHandler 创建告警处理器
func NewAlertHandler(
	tr *transform.Transformer,
	d *dispatch.Dispatcher,
	m *metrics.RelayMetrics,
	l logger.Logger,
	opts ...AlertOption,
) *AlertHandler {
	h := &AlertHandler{
		transformer: tr,
		dispatcher:  d,
		metrics:     m,
		logger:      l.Named("handler.alert"),
	}
	h.audit = h.logger
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// alertQuery 告警接口的查询参数
type alertQuery struct {
	APIKey string `form:"apiKey" binding:"required"`
}

// decodeFunc 将请求体解码为告警
type decodeFunc func(mediaType string, body []byte) (alert.Alert, error)

func decodeDashboard(mediaType string, body []byte) (alert.Alert, error) {
	if mediaType != alert.MediaTypeJSON && mediaType != "" {
		return nil, errors.Wrapf(alert.ErrUnsupportedMediaType, "%q", mediaType)
	}
	return alert.DecodeDashboard(body)
}

// Register 注册路由
func (h *AlertHandler) Register(r gin.IRouter) {
	api := r.Group("/api/v1")
	{
		api.POST("/dashboard/alerts", h.DashboardAlerts)
		api.POST("/grafana/alerts", h.DashboardAlerts)
		api.POST("/cloud_monitor/alerts", h.CloudMonitorAlerts)
		api.POST("/alicloud_monitor/alerts", h.CloudMonitorAlerts)
	}
}

// DashboardAlerts 看板告警
// @Summary 接收看板告警并转发
// @Accept json
// @Produce json
// @Param apiKey query string true "chatbot_<secret>[,chatbot_<secret>...]"
// @Success 200 {object} web.Response{data=[]dispatch.Result}
// @Failure 400 {object} web.Response
// @Failure 415 {object} web.Response
// @Router /api/v1/dashboard/alerts [post]
func (h *AlertHandler) DashboardAlerts(c *gin.Context) {
	h.relay(c, alert.SourceDashboard, decodeDashboard)
}

// CloudMonitorAlerts 云监控阈值/事件告警
// @Summary 接收云监控告警并转发
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param apiKey query string true "chatbot_<secret>[,chatbot_<secret>...]"
// @Success 200 {object} web.Response{data=[]dispatch.Result}
// @Failure 400 {object} web.Response
// @Failure 415 {object} web.Response
// @Router /api/v1/cloud_monitor/alerts [post]
func (h *AlertHandler) CloudMonitorAlerts(c *gin.Context) {
	h.relay(c, alert.SourceCloudMonitor, alert.DecodeCloudMonitor)
}

// relay 凭据解析与请求体解码并行执行，均成功后转发
// 两者都失败时优先报告凭据错误
func (h *AlertHandler) relay(c *gin.Context, source string, decode decodeFunc) {
	ctx := c.Request.Context()

	var q alertQuery
	if err := web.BindQuery(c, &q); err != nil {
		h.logger.WarnContext(ctx, "invalid alert query", "source", source, "error", err)
		web.Fail(c, err)
		return
	}

	var (
		keys    []apikey.Key
		a       alert.Alert
		keyErr  error
		bodyErr error
	)

	mediaType := web.MediaType(c.Request)
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var g errgroup.Group
	g.Go(func() error {
		keys, keyErr = apikey.Parse(q.APIKey)
		return keyErr
	})
	g.Go(func() error {
		raw, err := io.ReadAll(body)
		if err != nil {
			bodyErr = readError(err)
			return bodyErr
		}
		a, bodyErr = decode(mediaType, raw)
		return bodyErr
	})

	if err := g.Wait(); err != nil {
		switch {
		case keyErr != nil:
			h.logger.WarnContext(ctx, "invalid apiKey", "source", source, "error", keyErr)
			web.Fail(c, weberrors.BadRequest(keyErr, "Bad Request: "+keyErr.Error()))
		default:
			h.metrics.RecordDecodeFailure(source)
			h.logger.WarnContext(ctx, "failed to decode alert", "source", source, "media_type", mediaType, "error", bodyErr)
			web.Fail(c, bodyError(bodyErr))
		}
		return
	}

	kind := a.Kind()
	h.metrics.RecordAlert(source, kind)
	otel.SpanFromContext(ctx).SetAttributes(otel.String(otel.RelayAlertKindKey, kind))

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name()
	}
	// 审计日志只记录目标名称，secret 不落日志
	h.audit.InfoContext(ctx, "alert received",
		"source", source,
		"kind", kind,
		"destinations", names,
		"alert", a,
	)

	start := time.Now()
	msg := h.transformer.Transform(a)
	results := h.dispatcher.Dispatch(ctx, keys, msg)

	failed := 0
	for _, r := range results {
		if !r.Succeeded {
			failed++
		}
	}
	h.audit.InfoContext(ctx, "alert relayed",
		"source", source,
		"kind", kind,
		"destinations", len(results),
		"failed", failed,
		"duration", time.Since(start),
	)

	web.Success(c, results)
}

func readError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return weberrors.Wrap(err, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s: request body exceeds %d bytes", weberrors.MessageRequestEntityTooLarge, mbe.Limit))
	}
	return weberrors.BadRequest(err, "Bad Request: failed to read request body")
}

// bodyError 将解码错误映射为 HTTP 错误
func bodyError(err error) error {
	var he *weberrors.HTTPError
	if errors.As(err, &he) {
		return he
	}

	if errors.Is(err, alert.ErrUnsupportedMediaType) {
		return weberrors.Wrap(err, http.StatusUnsupportedMediaType, weberrors.MessageUnsupportedMediaType)
	}

	var serr *alert.SchemaDecodeError
	if errors.As(err, &serr) {
		return weberrors.BadRequest(err, "Bad Request: "+serr.Error())
	}

	return err
}
