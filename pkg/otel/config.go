package otel

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ExporterType 导出器类型
type ExporterType string

const (
	ExporterTypeOTLPHTTP ExporterType = "otlp-http"
	ExporterTypeOTLPGRPC ExporterType = "otlp-grpc"
	// ExporterTypeStdout 打印到标准输出，本地排查用
	ExporterTypeStdout ExporterType = "stdout"
	// ExporterTypeNoop 不导出，只保留传播器
	ExporterTypeNoop ExporterType = "noop"
)

// SamplerType 采样类型
type SamplerType string

const (
	SamplerTypeAlways SamplerType = "always"
	SamplerTypeNever  SamplerType = "never"
	SamplerTypeRatio  SamplerType = "ratio"
	// SamplerTypeParent 有父 span 时跟随父决策，否则按 Ratio 采样
	SamplerTypeParent SamplerType = "parent"
)

// Config 链路追踪配置（otel 段）
// 默认关闭；关闭时仍会设置 W3C 传播器，上游传入的 traceparent 照常透传
type Config struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion 为空时由启动流程填入构建版本
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`

	ExporterType ExporterType `mapstructure:"exporter_type" validate:"omitempty,oneof=otlp-http otlp-grpc stdout noop"`
	// Endpoint 为空时 otlp-http 使用 localhost:4318，otlp-grpc 使用 localhost:4317
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
	// Headers 随 OTLP 请求发送，一般用于采集端鉴权
	Headers map[string]string `mapstructure:"headers"`

	Sampler     SamplerConfig     `mapstructure:"sampler"`
	BatchExport BatchExportConfig `mapstructure:"batch_export"`

	// Attributes 附加到 Resource 的属性
	Attributes      map[string]string `mapstructure:"attributes"`
	ShutdownTimeout time.Duration     `mapstructure:"shutdown_timeout"`
}

// SamplerConfig 采样配置
type SamplerConfig struct {
	Type  SamplerType `mapstructure:"type" validate:"omitempty,oneof=always never ratio parent"`
	Ratio float64     `mapstructure:"ratio" validate:"gte=0,lte=1"`
}

// BatchExportConfig 批量导出配置
type BatchExportConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	MaxQueueSize  int           `mapstructure:"max_queue_size"`
	BatchTimeout  time.Duration `mapstructure:"batch_timeout"`
	ExportTimeout time.Duration `mapstructure:"export_timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		ServiceName:  "alertrelay",
		ExporterType: ExporterTypeOTLPHTTP,
		Sampler: SamplerConfig{
			Type:  SamplerTypeParent,
			Ratio: 1.0,
		},
		// 告警量小，批次不必大
		BatchExport: BatchExportConfig{
			BatchSize:     256,
			MaxQueueSize:  1024,
			BatchTimeout:  5 * time.Second,
			ExportTimeout: 10 * time.Second,
		},
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate 验证配置，未启用时不检查
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.ServiceName == "" {
		return ErrInvalidServiceName
	}

	switch c.ExporterType {
	case ExporterTypeOTLPHTTP, ExporterTypeOTLPGRPC, ExporterTypeStdout, ExporterTypeNoop:
	default:
		return errors.Wrapf(ErrUnsupportedExporter, "exporter %q", c.ExporterType)
	}

	switch c.Sampler.Type {
	case SamplerTypeRatio, SamplerTypeParent:
		if c.Sampler.Ratio < 0 || c.Sampler.Ratio > 1 {
			return ErrInvalidSamplerRatio
		}
	}

	return nil
}

// endpoint 返回导出端点，未配置时按导出器取默认值
func (c *Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.ExporterType == ExporterTypeOTLPGRPC {
		return "localhost:4317"
	}
	return "localhost:4318"
}
