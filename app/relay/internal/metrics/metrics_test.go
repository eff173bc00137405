package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lk2023060901/alertrelay/pkg/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *RelayMetrics {
	t.Helper()

	client, err := prometheus.New(&prometheus.Config{Namespace: "relaytest"}, nil)
	require.NoError(t, err)

	m, err := New(nil, client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRecord(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordAlert("dashboard", "dashboard")
	m.RecordAlert("cloud_monitor", "threshold")
	m.RecordAlert("cloud_monitor", "threshold")
	m.RecordDecodeFailure("cloud_monitor")
	m.RecordDispatch("chatbot", true, 20*time.Millisecond)
	m.RecordDispatch("chatbot", false, 40*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AlertsReceived.WithLabelValues("cloud_monitor", "threshold")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeFailures.WithLabelValues("cloud_monitor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("chatbot", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("chatbot", ResultFailed)))

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats.AlertsReceived)
	assert.Equal(t, int64(1), stats.DecodeFailures)
	assert.Equal(t, int64(1), stats.DispatchSuccess)
	assert.Equal(t, int64(1), stats.DispatchFailed)
	assert.Equal(t, int64(2), stats.Window.TotalCount)
	assert.InDelta(t, 50.0, stats.Window.SuccessRate, 0.001)
	assert.Positive(t, stats.System.Goroutines)

	assert.Positive(t, testutil.ToFloat64(m.LastAlert.WithLabelValues("cloud_monitor")))
}

func TestScrapeIncludesWindowGauges(t *testing.T) {
	client, err := prometheus.New(&prometheus.Config{Namespace: "relaytest"}, nil)
	require.NoError(t, err)

	m, err := New(nil, client)
	require.NoError(t, err)
	defer m.Close()

	m.RecordDispatch("chatbot", true, 100*time.Millisecond)
	m.RecordDispatch("chatbot", false, 300*time.Millisecond)

	srv := httptest.NewServer(client.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "relaytest_window_dispatch_success_ratio 0.5")
	assert.Contains(t, text, "relaytest_window_dispatch_latency_avg_seconds 0.2")
	assert.Contains(t, text, "relaytest_system_host_memory_percent")
}

func TestNewDuplicateRegistration(t *testing.T) {
	client, err := prometheus.New(&prometheus.Config{Namespace: "relaytest"}, nil)
	require.NoError(t, err)

	m, err := New(nil, client)
	require.NoError(t, err)
	defer m.Close()

	_, err = New(nil, client)
	assert.ErrorIs(t, err, prometheus.ErrMetricExists)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.SystemCollectInterval)
	assert.True(t, cfg.SlidingWindow.Enabled)
}
