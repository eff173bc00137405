package otel

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newExporter 按类型创建导出器，noop 由调用方处理
func newExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	var client otlptrace.Client

	switch cfg.ExporterType {
	case ExporterTypeStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	case ExporterTypeOTLPGRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.endpoint()),
			otlptracegrpc.WithTimeout(cfg.BatchExport.ExportTimeout),
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		client = otlptracegrpc.NewClient(opts...)
	case ExporterTypeOTLPHTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.endpoint()),
			otlptracehttp.WithTimeout(cfg.BatchExport.ExportTimeout),
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		client = otlptracehttp.NewClient(opts...)
	default:
		return nil, errors.Wrapf(ErrUnsupportedExporter, "exporter %q", cfg.ExporterType)
	}

	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "create %s exporter", cfg.ExporterType), ErrExporterFailed)
	}
	return exporter, nil
}
