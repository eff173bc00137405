package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/app/relay/internal/dispatch"
	"github.com/lk2023060901/alertrelay/app/relay/internal/metrics"
	"github.com/lk2023060901/alertrelay/pkg/app"
	"github.com/lk2023060901/alertrelay/pkg/prometheus"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	"github.com/lk2023060901/alertrelay/pkg/web"
)

// SystemHandler 健康检查、指标与运行状态接口
type SystemHandler struct {
	prom       *prometheus.Client
	metrics    *metrics.RelayMetrics
	dispatcher *dispatch.Dispatcher
	reporter   *sentry.Client
}

// NewSystemHandler 创建系统接口处理器，reporter 可为 nil
func NewSystemHandler(
	p *prometheus.Client,
	m *metrics.RelayMetrics,
	d *dispatch.Dispatcher,
	reporter *sentry.Client,
) *SystemHandler {
	return &SystemHandler{prom: p, metrics: m, dispatcher: d, reporter: reporter}
}

// StatsResponse /api/v1/stats 响应
type StatsResponse struct {
	metrics.Stats
	// DispatchRunning 正在执行的发送数
	DispatchRunning int `json:"dispatch_running"`
	// Reporter Sentry 上报统计，未配置 DSN 时为零值
	Reporter sentry.Stats `json:"reporter"`
}

// Register 注册路由
func (h *SystemHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/version", h.Version)
	r.GET("/metrics", gin.WrapH(h.prom.Handler()))
	r.GET("/api/v1/stats", h.Stats)
}

// Health 健康检查，纯文本 OK
func (h *SystemHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Version 构建信息
func (h *SystemHandler) Version(c *gin.Context) {
	web.Success(c, app.GetInfo())
}

// Stats 转发统计与进程指标
func (h *SystemHandler) Stats(c *gin.Context) {
	web.Success(c, StatsResponse{
		Stats:           h.metrics.GetStats(),
		DispatchRunning: h.dispatcher.Running(),
		Reporter:        h.reporter.Stats(),
	})
}
