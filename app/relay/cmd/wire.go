//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lk2023060901/alertrelay/app/relay/internal/handler"
	"github.com/lk2023060901/alertrelay/app/relay/internal/metrics"
	"github.com/lk2023060901/alertrelay/app/relay/internal/transform"
	"github.com/lk2023060901/alertrelay/pkg/app"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/prometheus"
)

func InitApp(cfg *Config, l logger.Logger, mgr config.Manager) (app.Application, func(), error) {
	panic(wire.Build(
		// 1. 基础框架 (BaseApp)
		app.ProviderSet,

		// 2. 配置分段
		wire.FieldsOf(new(*Config), "App", "Web", "Feishu", "Dispatch", "Card", "Prometheus", "Metrics", "Otel", "Sentry"),

		// 3. 链路追踪与错误上报
		provideTracerProvider,
		provideSentry,

		// 4. Prometheus 客户端与指标
		prometheus.New,
		metrics.New,
		provideHTTPMetrics,

		// 5. 渲染与投递
		transform.NewTransformer,
		provideFeishuClient,
		provideDispatcher,

		// 6. 接口层
		provideAlertHandler,
		handler.NewSystemHandler,
		provideWebServer,

		// 7. 卡片配置热更新
		provideCardReloader,

		// 8. 组装
		provideAppComponents,
		app.InitApp,
	))
}
