package main

import (
	"sync/atomic"

	"github.com/lk2023060901/alertrelay/app/relay/internal/transform"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/notify/feishu"
)

// cardReloader 配置文件变更时重新加载 card 段
// 作为 app.Server 随应用启停；viper 无法取消监听，Stop 后的变更事件直接忽略
type cardReloader struct {
	mgr         config.Manager
	transformer *transform.Transformer
	client      *feishu.Client
	logger      logger.Logger
	validator   *config.Validator

	stopped atomic.Bool
}

func provideCardReloader(
	mgr config.Manager,
	tr *transform.Transformer,
	client *feishu.Client,
	l logger.Logger,
) *cardReloader {
	return &cardReloader{
		mgr:         mgr,
		transformer: tr,
		client:      client,
		logger:      l.Named("relay.reload"),
		validator:   config.NewValidator(),
	}
}

// Start 开始监听配置文件，未加载配置文件时不监听
func (r *cardReloader) Start() error {
	if r.mgr == nil || r.mgr.ConfigFile() == "" {
		return nil
	}
	r.mgr.Watch(r.reload)
	r.logger.Info("watching card config", "file", r.mgr.ConfigFile())
	return nil
}

// Stop 停止应用变更
func (r *cardReloader) Stop() error {
	r.stopped.Store(true)
	return nil
}

func (r *cardReloader) reload(file string) {
	if r.stopped.Load() {
		return
	}

	var opts transform.Options
	if err := r.mgr.UnmarshalKey("card", &opts); err != nil {
		r.logger.Error("failed to reload card config", "file", file, "error", err)
		return
	}
	// 校验失败时保留旧配置
	if err := r.validator.Validate(&opts); err != nil {
		r.logger.Error("invalid card config, keeping previous", "file", file, "error", err)
		return
	}

	r.transformer.Update(&opts)
	r.client.SetCardOptions(cardOptions(&opts)...)

	r.logger.Info("card config reloaded",
		"file", file,
		"button_label", opts.ButtonLabel,
		"console_url", opts.ConsoleURL,
	)
}
