package main

import (
	"github.com/lk2023060901/alertrelay/app/relay/internal/dispatch"
	"github.com/lk2023060901/alertrelay/app/relay/internal/handler"
	"github.com/lk2023060901/alertrelay/app/relay/internal/metrics"
	"github.com/lk2023060901/alertrelay/app/relay/internal/transform"
	"github.com/lk2023060901/alertrelay/pkg/app"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/notify/feishu"
	"github.com/lk2023060901/alertrelay/pkg/otel"
	"github.com/lk2023060901/alertrelay/pkg/prometheus"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	"github.com/lk2023060901/alertrelay/pkg/web"
	webmetrics "github.com/lk2023060901/alertrelay/pkg/web/metrics"
)

// provideTracerProvider 创建 TracerProvider，启用时由 otel.New 注册为全局
// service_version 未配置时使用构建版本
func provideTracerProvider(cfg *otel.Config) (*otel.TracerProvider, error) {
	c := *cfg
	if c.ServiceVersion == "" {
		c.ServiceVersion = app.GetInfo().Version
	}
	return otel.New(&c)
}

// provideSentry dsn 为空时返回 nil 客户端，调用方无需判空
// release 未配置时使用构建版本
func provideSentry(cfg *sentry.Config) (*sentry.Client, error) {
	c := *cfg
	if c.Release == "" {
		c.Release = app.GetInfo().Version
	}
	return sentry.NewOptional(&c)
}

// provideHTTPMetrics HTTP 指标注册到同一个 Registry
func provideHTTPMetrics(cfg *prometheus.Config, client *prometheus.Client) *webmetrics.HTTPMetrics {
	return webmetrics.New(cfg.Namespace, client.Registry())
}

// cardOptions 卡片配置中交给卡片构建器的部分
func cardOptions(opts *transform.Options) []feishu.CardOption {
	return []feishu.CardOption{
		feishu.WithButtonLabel(opts.ButtonLabel),
		feishu.WithNote(opts.Note),
	}
}

// provideFeishuClient 创建飞书客户端
func provideFeishuClient(cfg *feishu.Config, card *transform.Options) (*feishu.Client, error) {
	return feishu.NewClient(cfg, feishu.WithCardOptions(cardOptions(card)...))
}

// provideDispatcher 创建转发器，DestinationChatBot 对应飞书客户端
func provideDispatcher(
	cfg *dispatch.Config,
	client *feishu.Client,
	m *metrics.RelayMetrics,
	reporter *sentry.Client,
	l logger.Logger,
) (*dispatch.Dispatcher, error) {
	return dispatch.New(cfg, client, l,
		dispatch.WithRecorder(m),
		dispatch.WithReporter(reporter),
	)
}

// provideAlertHandler 告警收发记录写入 audit 具名日志
func provideAlertHandler(
	baseApp *app.BaseApp,
	tr *transform.Transformer,
	d *dispatch.Dispatcher,
	m *metrics.RelayMetrics,
	l logger.Logger,
) *handler.AlertHandler {
	return handler.NewAlertHandler(tr, d, m, l, handler.WithAuditLogger(baseApp.Logger("audit")))
}

// provideWebServer 创建 Web 服务并注册路由
func provideWebServer(
	cfg *web.Config,
	l logger.Logger,
	reporter *sentry.Client,
	httpMetrics *webmetrics.HTTPMetrics,
	alertHandler *handler.AlertHandler,
	systemHandler *handler.SystemHandler,
) (*web.Server, error) {
	srv, err := web.NewServer(cfg, l,
		web.WithSentry(reporter),
		web.WithMetrics(httpMetrics),
	)
	if err != nil {
		return nil, err
	}

	alertHandler.Register(srv.Router())
	systemHandler.Register(srv.Router())

	return srv, nil
}

func provideAppComponents(
	baseApp *app.BaseApp,
	webServer *web.Server,
	tp *otel.TracerProvider,
	reporter *sentry.Client,
	promClient *prometheus.Client,
	relayMetrics *metrics.RelayMetrics,
	dispatcher *dispatch.Dispatcher,
	reloader *cardReloader,
) app.AppComponents {
	baseApp.AppLogger().Info("alertrelay components ready",
		"app_id", baseApp.ID(),
		"tracing", tp.IsEnabled(),
		"exporter", tp.Config().ExporterType,
		"sentry", reporter != nil,
	)

	// Closer 逆序关闭：先等待转发结束，最后关闭追踪
	return app.AppComponents{
		Servers: []app.Server{
			webServer,
			reloader,
		},
		Closers: []app.Closer{
			tp,
			app.MapCloser(reporter),
			promClient,
			relayMetrics,
			dispatcher,
		},
	}
}
