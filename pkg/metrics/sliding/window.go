// Package sliding 最近一段时间内的转发计数与延迟
package sliding

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/config"
)

// WindowConfig 滑动窗口配置
type WindowConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// WindowSize 统计的时间跨度
	WindowSize time.Duration `mapstructure:"window_size"`
	// BucketCount 分桶数，决定过期的粒度
	BucketCount int `mapstructure:"bucket_count"`
}

func DefaultWindowConfig() *WindowConfig {
	return &WindowConfig{
		Enabled:     true,
		WindowSize:  time.Minute,
		BucketCount: 60,
	}
}

// bucket 对应一个时间片，slot 为 unix 纳秒除以片长
// slot 落后于窗口的桶视为空，下次写入时重置
type bucket struct {
	slot       int64
	count      int64
	success    int64
	latencySum float64
	latencyMin float64
	latencyMax float64
}

// Window 按时间分桶的环形统计，不依赖后台协程
type Window struct {
	enabled bool
	size    time.Duration
	width   int64
	now     func() time.Time

	mu      sync.Mutex
	buckets []bucket
}

func NewWindow(cfg *WindowConfig) (*Window, error) {
	newCfg, err := config.MergeConfig(DefaultWindowConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge window config")
	}
	if newCfg.BucketCount <= 0 || newCfg.WindowSize <= 0 {
		return nil, errors.Newf("invalid window config: size=%s buckets=%d", newCfg.WindowSize, newCfg.BucketCount)
	}
	width := int64(newCfg.WindowSize) / int64(newCfg.BucketCount)
	if width <= 0 {
		return nil, errors.Newf("window %s too small for %d buckets", newCfg.WindowSize, newCfg.BucketCount)
	}

	return &Window{
		enabled: newCfg.Enabled,
		size:    newCfg.WindowSize,
		width:   width,
		now:     time.Now,
		buckets: make([]bucket, newCfg.BucketCount),
	}, nil
}

func (w *Window) slot(t time.Time) int64 {
	return t.UnixNano() / w.width
}

// Record 记录一次转发，latency 单位为秒
func (w *Window) Record(latency float64, success bool) {
	if !w.enabled {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	slot := w.slot(w.now())
	b := &w.buckets[slot%int64(len(w.buckets))]
	if b.slot != slot || b.count == 0 {
		*b = bucket{slot: slot, latencyMin: latency}
	}

	b.count++
	if success {
		b.success++
	}
	b.latencySum += latency
	b.latencyMin = min(b.latencyMin, latency)
	b.latencyMax = max(b.latencyMax, latency)
}

// Stats 窗口统计，延迟单位为秒，SuccessRate 取值 0-100
type Stats struct {
	QPS          float64 `json:"qps"`
	AvgLatency   float64 `json:"avg_latency"`
	MinLatency   float64 `json:"min_latency"`
	MaxLatency   float64 `json:"max_latency"`
	SuccessRate  float64 `json:"success_rate"`
	TotalCount   int64   `json:"total_count"`
	SuccessCount int64   `json:"success_count"`
	FailureCount int64   `json:"failure_count"`
}

// Snapshot 汇总仍在窗口内的桶
func (w *Window) Snapshot() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.slot(w.now())
	oldest := current - int64(len(w.buckets)) + 1

	var (
		s   Stats
		sum float64
	)
	for _, b := range w.buckets {
		if b.count == 0 || b.slot < oldest || b.slot > current {
			continue
		}
		if s.TotalCount == 0 || b.latencyMin < s.MinLatency {
			s.MinLatency = b.latencyMin
		}
		s.MaxLatency = max(s.MaxLatency, b.latencyMax)
		s.TotalCount += b.count
		s.SuccessCount += b.success
		sum += b.latencySum
	}

	s.FailureCount = s.TotalCount - s.SuccessCount
	s.QPS = float64(s.TotalCount) / w.size.Seconds()
	if s.TotalCount > 0 {
		s.AvgLatency = sum / float64(s.TotalCount)
		s.SuccessRate = float64(s.SuccessCount) / float64(s.TotalCount) * 100
	}
	return s
}
