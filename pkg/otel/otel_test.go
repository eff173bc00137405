package otel

import (
	"context"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewDisabled(t *testing.T) {
	p, err := New(&Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Shutdown(context.Background()), ErrProviderClosed)
}

func TestNewNoopExporter(t *testing.T) {
	p, err := New(&Config{Enabled: true, ServiceName: "relay", ExporterType: ExporterTypeNoop})
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.Equal(t, "relay", p.Config().ServiceName)
}

func TestNewStdoutExporter(t *testing.T) {
	p, err := New(&Config{Enabled: true, ServiceName: "relay", ExporterType: ExporterTypeStdout})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.True(t, p.IsEnabled())
	_, span := Tracer("test").Start(context.Background(), "dispatch")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestNewDefaultsDisabled(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.Equal(t, "alertrelay", p.Config().ServiceName)
	assert.Equal(t, ExporterTypeOTLPHTTP, p.Config().ExporterType)
}

func TestNewUnsupportedExporter(t *testing.T) {
	_, err := New(&Config{Enabled: true, ServiceName: "relay", ExporterType: "zipkin"})
	assert.True(t, errors.Is(err, ErrUnsupportedExporter))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "disabled skips checks", cfg: Config{ExporterType: "zipkin"}},
		{name: "missing service name", cfg: Config{Enabled: true}, wantErr: ErrInvalidServiceName},
		{name: "unknown exporter", cfg: Config{Enabled: true, ServiceName: "relay"}, wantErr: ErrUnsupportedExporter},
		{
			name: "ratio out of range",
			cfg: Config{Enabled: true, ServiceName: "relay", ExporterType: ExporterTypeOTLPHTTP,
				Sampler: SamplerConfig{Type: SamplerTypeRatio, Ratio: 1.5}},
			wantErr: ErrInvalidSamplerRatio,
		},
		{
			name: "parent ratio out of range",
			cfg: Config{Enabled: true, ServiceName: "relay", ExporterType: ExporterTypeOTLPGRPC,
				Sampler: SamplerConfig{Type: SamplerTypeParent, Ratio: -0.1}},
			wantErr: ErrInvalidSamplerRatio,
		},
		{name: "valid", cfg: Config{Enabled: true, ServiceName: "relay", ExporterType: ExporterTypeNoop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestConfigEndpoint(t *testing.T) {
	assert.Equal(t, "localhost:4318", (&Config{ExporterType: ExporterTypeOTLPHTTP}).endpoint())
	assert.Equal(t, "localhost:4317", (&Config{ExporterType: ExporterTypeOTLPGRPC}).endpoint())
	assert.Equal(t, "collector:4317", (&Config{ExporterType: ExporterTypeOTLPGRPC, Endpoint: "collector:4317"}).endpoint())
}

func TestNewResource(t *testing.T) {
	res := newResource(&Config{
		ServiceName:    "alertrelay",
		ServiceVersion: "v1.2.3",
		Environment:    "staging",
		Attributes:     map[string]string{"region": "cn-hangzhou"},
	})

	set := res.Set()
	for key, want := range map[string]string{
		"service.name":           "alertrelay",
		"service.version":        "v1.2.3",
		"deployment.environment": "staging",
		"region":                 "cn-hangzhou",
	} {
		v, ok := set.Value(attribute.Key(key))
		require.True(t, ok, key)
		assert.Equal(t, want, v.AsString(), key)
	}

	_, ok := newResource(&Config{ServiceName: "alertrelay"}).Set().Value("service.version")
	assert.False(t, ok)
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		cfg  SamplerConfig
		want string
	}{
		{cfg: SamplerConfig{Type: SamplerTypeAlways}, want: "AlwaysOnSampler"},
		{cfg: SamplerConfig{Type: SamplerTypeNever}, want: "AlwaysOffSampler"},
		{cfg: SamplerConfig{Type: SamplerTypeRatio, Ratio: 0.5}, want: "TraceIDRatioBased{0.5}"},
		{cfg: SamplerConfig{Type: SamplerTypeParent, Ratio: 0.25}, want: "ParentBased{root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cfg.Type), func(t *testing.T) {
			assert.Contains(t, newSampler(tt.cfg).Description(), tt.want)
		})
	}
}

func TestHTTPPropagation(t *testing.T) {
	_, err := New(&Config{Enabled: false})
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "outbound")
	defer span.End()

	header := http.Header{}
	InjectHTTP(ctx, header)
	require.NotEmpty(t, header.Get("traceparent"))

	extracted := ExtractHTTP(context.Background(), header)
	assert.Equal(t, span.SpanContext().TraceID(), SpanFromContext(extracted).SpanContext().TraceID())
}

func TestRecordError(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	RecordError(span, nil)
	RecordError(span, errors.New("send failed"))
	span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	assert.Equal(t, CodeError, ro.Status().Code)
}
