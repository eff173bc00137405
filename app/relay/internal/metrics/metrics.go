// Package metrics 转发服务的业务指标
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/metrics/sliding"
	"github.com/lk2023060901/alertrelay/pkg/metrics/system"
	"github.com/lk2023060901/alertrelay/pkg/prometheus"
)

// 转发结果标签
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Config 指标配置
type Config struct {
	// SystemCollectInterval 进程指标采集间隔
	SystemCollectInterval time.Duration `mapstructure:"system_collect_interval"`
	// SlidingWindow 转发 QPS/延迟的滑动窗口
	SlidingWindow sliding.WindowConfig `mapstructure:"sliding_window"`
}

// DefaultConfig 默认配置（保障最小可用）
func DefaultConfig() *Config {
	return &Config{
		SystemCollectInterval: 5 * time.Second,
		SlidingWindow:         *sliding.DefaultWindowConfig(),
	}
}

// RelayMetrics 转发服务指标
type RelayMetrics struct {
	// 收到的告警（按来源、类型）
	AlertsReceived *prometheus.CounterVec
	// 解码失败（按来源）
	DecodeFailures *prometheus.CounterVec
	// 转发结果（按目标、结果）
	DispatchTotal *prometheus.CounterVec
	// 单次转发耗时
	DispatchDuration *prometheus.HistogramVec
	// 各来源最近一次收到告警的时间
	LastAlert *prometheus.GaugeVec

	// 内部统计（用于 /api/v1/stats）
	alerts          atomic.Int64
	decodeFailures  atomic.Int64
	dispatchSuccess atomic.Int64
	dispatchFailed  atomic.Int64

	systemCollector *system.Collector
	slidingWindow   *sliding.Window
}

// New 创建指标并注册到 Prometheus 客户端
func New(cfg *Config, client *prometheus.Client) (*RelayMetrics, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge metrics config")
	}

	m := &RelayMetrics{}

	if m.AlertsReceived, err = client.NewCounter("alerts_received_total",
		"收到的告警数", []string{"source", "kind"}); err != nil {
		return nil, err
	}
	if m.DecodeFailures, err = client.NewCounter("decode_failures_total",
		"告警解码失败次数", []string{"source"}); err != nil {
		return nil, err
	}
	if m.DispatchTotal, err = client.NewCounter("dispatch_total",
		"转发次数（按目标、结果）", []string{"destination", "result"}); err != nil {
		return nil, err
	}
	if m.DispatchDuration, err = client.NewHistogram("dispatch_duration_seconds",
		"单次转发耗时（秒）", []string{"destination"},
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}); err != nil {
		return nil, err
	}
	if m.LastAlert, err = client.NewGauge("last_alert_timestamp_seconds",
		"最近一次收到告警的 unix 时间", []string{"source"}); err != nil {
		return nil, err
	}

	if m.systemCollector, err = system.New(newCfg.SystemCollectInterval); err != nil {
		return nil, errors.Wrap(err, "failed to create system collector")
	}
	if m.slidingWindow, err = sliding.NewWindow(&newCfg.SlidingWindow); err != nil {
		return nil, errors.Wrap(err, "failed to create sliding window")
	}

	// 窗口与进程统计在抓取时求值
	gauges := []struct {
		name, help string
		fn         func() float64
	}{
		{"window_dispatch_qps", "滑动窗口内每秒转发数", func() float64 { return m.slidingWindow.Snapshot().QPS }},
		{"window_dispatch_success_ratio", "滑动窗口内转发成功率（0-1）", func() float64 { return m.slidingWindow.Snapshot().SuccessRate / 100 }},
		{"window_dispatch_latency_avg_seconds", "滑动窗口内平均转发耗时", func() float64 { return m.slidingWindow.Snapshot().AvgLatency }},
		{"system_cpu_percent", "进程 CPU 使用率（0-100）", func() float64 { return m.systemCollector.Stats().CPUPercent }},
		{"system_host_cpu_percent", "主机 CPU 使用率（0-100）", func() float64 { return m.systemCollector.Stats().SystemCPUPercent }},
		{"system_host_memory_percent", "主机内存使用率（0-100）", func() float64 { return m.systemCollector.Stats().SystemMemoryPercent }},
	}
	for _, g := range gauges {
		if err = client.NewGaugeFunc(g.name, g.help, g.fn); err != nil {
			return nil, err
		}
	}

	m.systemCollector.Start()

	return m, nil
}

// RecordAlert 记录解码成功的告警
func (m *RelayMetrics) RecordAlert(source, kind string) {
	m.alerts.Add(1)
	m.AlertsReceived.WithLabelValues(source, kind).Inc()
	m.LastAlert.WithLabelValues(source).SetToCurrentTime()
}

// RecordDecodeFailure 记录解码失败
func (m *RelayMetrics) RecordDecodeFailure(source string) {
	m.decodeFailures.Add(1)
	m.DecodeFailures.WithLabelValues(source).Inc()
}

// RecordDispatch 记录一次转发
func (m *RelayMetrics) RecordDispatch(destination string, success bool, duration time.Duration) {
	result := ResultSuccess
	if success {
		m.dispatchSuccess.Add(1)
	} else {
		result = ResultFailed
		m.dispatchFailed.Add(1)
	}

	m.DispatchTotal.WithLabelValues(destination, result).Inc()
	m.DispatchDuration.WithLabelValues(destination).Observe(duration.Seconds())
	m.slidingWindow.Record(duration.Seconds(), success)
}

// Stats 运行统计
type Stats struct {
	// 累计计数
	AlertsReceived  int64 `json:"alerts_received"`
	DecodeFailures  int64 `json:"decode_failures"`
	DispatchSuccess int64 `json:"dispatch_success"`
	DispatchFailed  int64 `json:"dispatch_failed"`
	// 转发的 QPS 与延迟（滑动窗口）
	Window sliding.Stats `json:"window"`
	// 进程指标
	System system.Stats `json:"system"`
}

// GetStats 获取统计数据
func (m *RelayMetrics) GetStats() Stats {
	return Stats{
		AlertsReceived:  m.alerts.Load(),
		DecodeFailures:  m.decodeFailures.Load(),
		DispatchSuccess: m.dispatchSuccess.Load(),
		DispatchFailed:  m.dispatchFailed.Load(),
		Window:          m.slidingWindow.Snapshot(),
		System:          m.systemCollector.Stats(),
	}
}

// Close 停止后台采集
func (m *RelayMetrics) Close() error {
	return m.systemCollector.Close()
}
