package sentry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubDSN 启动一个接收事件的本地服务，返回指向它的 DSN
func newStubDSN(t *testing.T) (string, *atomic.Int32) {
	t.Helper()

	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return "http://public@" + strings.TrimPrefix(srv.URL, "http://") + "/1", &received
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "nil", cfg: nil, wantErr: ErrNilConfig},
		{name: "empty dsn", cfg: &Config{}, wantErr: ErrInvalidDSN},
		{name: "bad sample rate", cfg: &Config{DSN: "http://k@localhost/1", SampleRate: 2}, wantErr: ErrInvalidConfig},
		{name: "valid", cfg: &Config{DSN: "http://k@localhost/1", SampleRate: 1}},
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

func TestNewOptionalWithoutDSN(t *testing.T) {
	c, err := NewOptional(&Config{})
	require.NoError(t, err)
	assert.Nil(t, c)

	// nil 客户端所有方法均为空操作
	assert.Nil(t, c.CaptureException(errors.New("boom")))
	assert.Nil(t, c.CaptureMessage("hello", LevelInfo))
	assert.Nil(t, c.RecoverWithContext(context.Background(), "panic"))
	assert.NoError(t, c.Close())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestClientCapture(t *testing.T) {
	dsn, received := newStubDSN(t)

	cfg := DefaultConfig()
	cfg.DSN = dsn
	cfg.Tags = map[string]string{"service": "alertrelay"}

	c, err := New(cfg)
	require.NoError(t, err)

	assert.NotNil(t, c.CaptureExceptionWithTags(errors.New("send failed"), map[string]string{"destination": "chatbot"}))
	assert.NotNil(t, c.CaptureMessage("degraded", LevelWarning))
	assert.NotNil(t, c.RecoverWithContext(context.Background(), "handler panic"))

	// Close 会按 ShutdownTimeout 等待事件发出
	require.NoError(t, c.Close())
	assert.EqualValues(t, 3, c.Stats().EventsCaptured)
	assert.Eventually(t, func() bool { return received.Load() >= 3 }, 2*time.Second, 20*time.Millisecond)

	assert.ErrorIs(t, c.Close(), ErrClientClosed)
	assert.Nil(t, c.CaptureException(errors.New("after close")))
}

func TestNewMergesDefaults(t *testing.T) {
	dsn, _ := newStubDSN(t)

	c, err := New(&Config{DSN: dsn, Release: "v1.0.0"})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, 1.0, c.config.SampleRate)
	assert.Equal(t, "v1.0.0", c.config.Release)
	assert.Equal(t, []string{"context canceled"}, c.config.IgnoreErrors)
	assert.Equal(t, 2*time.Second, c.config.ShutdownTimeout)
}

func TestClientIgnoresCancellation(t *testing.T) {
	dsn, _ := newStubDSN(t)

	c, err := New(&Config{DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Nil(t, c.CaptureException(errors.Wrap(context.Canceled, "send to chatbot")))
	assert.NotNil(t, c.CaptureException(errors.New("connection refused")))

	stats := c.Stats()
	assert.EqualValues(t, 2, stats.EventsTotal)
	assert.EqualValues(t, 1, stats.EventsDropped)
	assert.EqualValues(t, 1, stats.EventsCaptured)
}
