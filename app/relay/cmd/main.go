package main

import (
	"github.com/lk2023060901/alertrelay/app/relay/internal/dispatch"
	"github.com/lk2023060901/alertrelay/app/relay/internal/metrics"
	"github.com/lk2023060901/alertrelay/app/relay/internal/transform"
	"github.com/lk2023060901/alertrelay/pkg/app"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/notify/feishu"
	"github.com/lk2023060901/alertrelay/pkg/otel"
	"github.com/lk2023060901/alertrelay/pkg/prometheus"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	"github.com/lk2023060901/alertrelay/pkg/web"
)

// Config 定义告警转发服务的完整配置结构
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// 应用名、停止超时与具名日志
	App app.Config `mapstructure:"app"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// 飞书机器人配置
	Feishu feishu.Config `mapstructure:"feishu"`

	// 转发配置
	Dispatch dispatch.Config `mapstructure:"dispatch"`

	// 卡片渲染配置（支持热更新）
	Card transform.Options `mapstructure:"card"`

	// Prometheus 配置
	Prometheus prometheus.Config `mapstructure:"prometheus"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`

	// 链路追踪配置
	Otel otel.Config `mapstructure:"otel"`

	// Sentry 配置，dsn 为空时不启用
	Sentry sentry.Config `mapstructure:"sentry"`
}

// envDefaults 部署时常用环境变量注入、配置文件里可能缺省的键
var envDefaults = map[string]any{
	"web.port":           3000,
	"feishu.secret":      "",
	"sentry.dsn":         "",
	"sentry.environment": "",
	"otel.enabled":       false,
	"otel.endpoint":      "",
}

func main() {
	var cfg Config

	// 1. 加载配置
	mgr, err := app.LoadConfig(&cfg, config.WithDefaults(envDefaults))
	if err != nil {
		panic(err)
	}

	// 2. 初始化主日志
	l, err := logger.New(&cfg.Log,
		logger.WithGlobalFields("version", app.GetInfo().Version),
		logger.WithHooks(accessLogFilter("/health", "/metrics")),
	)
	if err != nil {
		panic(err)
	}

	// 3. 通过 Wire 初始化应用
	application, cleanup, err := InitApp(&cfg, l, mgr)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		return
	}
	defer cleanup()

	l.Info("starting alertrelay",
		"version", app.GetInfo().String(),
		"config", app.GetConfigPath(),
		"port", cfg.Web.Port,
	)

	// 4. 运行服务
	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
	}
}
