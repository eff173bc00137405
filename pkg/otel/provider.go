package otel

import (
	"context"
	"sync/atomic"

	"github.com/lk2023060901/alertrelay/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracerProvider 追踪提供者
// 未启用或使用 noop 导出器时 provider 为 nil，span 由全局 noop 实现产生
type TracerProvider struct {
	config   *Config
	provider *sdktrace.TracerProvider
	closed   atomic.Bool
}

// New 创建追踪提供者，启用时注册为全局 TracerProvider
func New(cfg *Config) (*TracerProvider, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(NewCompositeTextMapPropagator())

	p := &TracerProvider{config: newCfg}
	if !newCfg.Enabled || newCfg.ExporterType == ExporterTypeNoop {
		return p, nil
	}

	exporter, err := newExporter(context.Background(), newCfg)
	if err != nil {
		return nil, err
	}

	batch := newCfg.BatchExport
	p.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(batch.BatchSize),
			sdktrace.WithMaxQueueSize(batch.MaxQueueSize),
			sdktrace.WithBatchTimeout(batch.BatchTimeout),
			sdktrace.WithExportTimeout(batch.ExportTimeout),
		),
		sdktrace.WithResource(newResource(newCfg)),
		sdktrace.WithSampler(newSampler(newCfg.Sampler)),
	)
	otel.SetTracerProvider(p.provider)

	return p, nil
}

func newResource(cfg *Config) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", cfg.Environment))
	}
	for k, v := range cfg.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

func newSampler(cfg SamplerConfig) sdktrace.Sampler {
	switch cfg.Type {
	case SamplerTypeAlways:
		return sdktrace.AlwaysSample()
	case SamplerTypeNever:
		return sdktrace.NeverSample()
	case SamplerTypeRatio:
		return sdktrace.TraceIDRatioBased(cfg.Ratio)
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Ratio))
	}
}

// Shutdown 导出剩余 span 后关闭
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	if p.closed.Swap(true) {
		return ErrProviderClosed
	}
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// Close 按 ShutdownTimeout 关闭
func (p *TracerProvider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.ShutdownTimeout)
	defer cancel()
	return p.Shutdown(ctx)
}

// IsEnabled 是否真正在导出
func (p *TracerProvider) IsEnabled() bool {
	return p.provider != nil
}

// Config 返回合并默认值后的配置
func (p *TracerProvider) Config() *Config {
	return p.config
}
