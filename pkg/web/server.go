package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	weberrors "github.com/lk2023060901/alertrelay/pkg/web/errors"
	"github.com/lk2023060901/alertrelay/pkg/web/metrics"
	"github.com/lk2023060901/alertrelay/pkg/web/middleware"
	"github.com/lk2023060901/alertrelay/pkg/web/validator"
)

// Server Web 服务核心结构
type Server struct {
	engine *gin.Engine
	config *Config
	logger logger.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option 服务选项
type Option func(*serverOptions)

type serverOptions struct {
	sentry  *sentry.Client
	metrics *metrics.HTTPMetrics
}

// WithSentry panic 时上报 Sentry
func WithSentry(c *sentry.Client) Option {
	return func(o *serverOptions) { o.sentry = c }
}

// WithMetrics 挂载 HTTP 指标中间件
func WithMetrics(m *metrics.HTTPMetrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

// NewServer 创建 Web 服务
func NewServer(cfg *Config, l logger.Logger, opts ...Option) (*Server, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Default()
	}

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(newCfg.Mode)
	validator.Init()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	serverLogger := l.Named("web")

	// 挂载基础中间件
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(newCfg.ServiceName))
	engine.Use(middleware.Logger(serverLogger))
	engine.Use(middleware.Recovery(serverLogger, o.sentry))
	if o.metrics != nil {
		engine.Use(middleware.Metrics(o.metrics))
	}

	engine.NoRoute(func(c *gin.Context) {
		Fail(c, weberrors.ErrNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		Fail(c, weberrors.ErrMethodNotAllowed)
	})

	return &Server{
		engine: engine,
		config: newCfg,
		logger: serverLogger,
	}, nil
}

// Router 返回 Gin 引擎，用于注册路由
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler 返回 http.Handler 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start 监听端口并在后台提供服务
// 端口占用等错误同步返回
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrServerAlreadyStarted
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	srv := s.server
	go func() {
		var err error
		if s.config.EnableTLS {
			s.logger.Info("starting https server", "addr", ln.Addr().String())
			err = srv.ServeTLS(ln, s.config.CertFile, s.config.KeyFile)
		} else {
			s.logger.Info("starting http server", "addr", ln.Addr().String())
			err = srv.Serve(ln)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped unexpectedly", "error", err)
		}
	}()

	return nil
}

// Stop 立即关闭服务
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return ErrServerNotStarted
	}
	return s.server.Close()
}

// GracefulStop 等待进行中的请求结束，超时后强制关闭
func (s *Server) GracefulStop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return ErrServerNotStarted
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return errors.Wrap(err, "server forced to shutdown")
	}

	s.logger.Info("server exited")
	return nil
}
