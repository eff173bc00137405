package app

import (
	"github.com/google/wire"
	"github.com/lk2023060901/alertrelay/pkg/logger"
)

// AppComponents 用于收集 Wire 注入的所有组件
type AppComponents struct {
	Servers []Server
	Closers []Closer
}

// ProviderSet 导出给 Wire 使用
var ProviderSet = wire.NewSet(
	ProvideBaseApp,
)

// ProvideBaseApp 以 app 配置段与主日志创建 BaseApp，版本取自构建信息
func ProvideBaseApp(cfg *Config, l logger.Logger) (*BaseApp, error) {
	return NewBaseApp(
		WithLogger(l),
		WithName(cfg.Name),
		WithVersion(GetInfo().Version),
		WithStopTimeout(cfg.StopTimeout),
		WithNamedLoggers(cfg.Loggers),
	)
}

// InitApp 将 Wire 注入的组件绑定到 BaseApp
func InitApp(app *BaseApp, comps AppComponents) Application {
	app.AppendServer(comps.Servers...)
	app.AppendCloser(comps.Closers...)
	return app
}

// MapCloser 将实现了 Close() error 的对象转换为 Closer 接口
func MapCloser(c interface{ Close() error }) Closer {
	return closerWrapper{c}
}

// CloserFunc 函数式 Closer
type CloserFunc func() error

func (f CloserFunc) Close() error {
	return f()
}

type closerWrapper struct {
	obj interface{ Close() error }
}

func (w closerWrapper) Close() error {
	return w.obj.Close()
}
