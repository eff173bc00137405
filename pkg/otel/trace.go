package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// 重导出常用类型，避免使用者直接依赖 go.opentelemetry.io/otel
type (
	// Span 表示一个追踪 span
	Span = trace.Span

	// SpanKind 表示 span 的类型
	SpanKind = trace.SpanKind

	// SpanStartOption span 启动选项
	SpanStartOption = trace.SpanStartOption

	// TracerOption tracer 选项
	TracerOption = trace.TracerOption

	// Attribute 属性键值对
	Attribute = attribute.KeyValue

	// Code 状态码
	Code = codes.Code
)

// SpanKind 常量
const (
	SpanKindUnspecified = trace.SpanKindUnspecified
	SpanKindInternal    = trace.SpanKindInternal
	SpanKindServer      = trace.SpanKindServer
	SpanKindClient      = trace.SpanKindClient
	SpanKindProducer    = trace.SpanKindProducer
	SpanKindConsumer    = trace.SpanKindConsumer
)

// Code 常量
const (
	CodeError = codes.Error
	CodeOk    = codes.Ok
)

// Tracer 便捷函数：获取全局 Tracer
func Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return otel.Tracer(name, opts...)
}

// WithSpanKind 设置 span 类型
func WithSpanKind(kind SpanKind) SpanStartOption {
	return trace.WithSpanKind(kind)
}

// WithAttributes 设置 span 属性
func WithAttributes(attrs ...Attribute) SpanStartOption {
	return trace.WithAttributes(attrs...)
}

// 属性构造函数
var (
	// String 创建字符串属性
	String = attribute.String

	// Int 创建整数属性
	Int = attribute.Int

	// Int64 创建 int64 属性
	Int64 = attribute.Int64

	// Float64 创建浮点数属性
	Float64 = attribute.Float64

	// Bool 创建布尔属性
	Bool = attribute.Bool

	// StringSlice 创建字符串切片属性
	StringSlice = attribute.StringSlice
)

// HTTP 与转发相关的属性键
const (
	// HTTPMethodKey 请求方法
	HTTPMethodKey = "http.method"

	// HTTPRouteKey 路由模板
	HTTPRouteKey = "http.route"

	// HTTPStatusCodeKey 响应状态码
	HTTPStatusCodeKey = "http.status_code"

	// RelayAlertKindKey 告警类型 (dashboard/threshold/event)
	RelayAlertKindKey = "relay.alert.kind"

	// RelayDestinationKey 目标名称
	RelayDestinationKey = "relay.destination"

	// RelayDestinationIndexKey 目标在 apiKey 中的序号
	RelayDestinationIndexKey = "relay.destination.index"
)

// SpanFromContext 获取 context 中的当前 span
func SpanFromContext(ctx context.Context) Span {
	return trace.SpanFromContext(ctx)
}

// RecordError 在 span 上记录错误并标记状态
func RecordError(span Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(CodeError, err.Error())
}
