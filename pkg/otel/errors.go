package otel

import "github.com/cockroachdb/errors"

var (
	ErrInvalidServiceName  = errors.New("otel: invalid service name")
	ErrInvalidSamplerRatio = errors.New("otel: sampler ratio must be between 0 and 1")
	ErrUnsupportedExporter = errors.New("otel: unsupported exporter type")

	// ErrExporterFailed 导出器创建失败
	ErrExporterFailed = errors.New("otel: failed to create exporter")

	ErrProviderClosed = errors.New("otel: provider is closed")
)
