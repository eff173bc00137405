package prometheus

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// NewCounter 创建并注册 Counter
func (c *Client) NewCounter(name, help string, labels []string) (*CounterVec, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts(c.opts(name, help)), labels)
	if err := c.register(name, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// NewGauge 创建并注册 Gauge
func (c *Client) NewGauge(name, help string, labels []string) (*GaugeVec, error) {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts(c.opts(name, help)), labels)
	if err := c.register(name, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// NewHistogram 创建并注册 Histogram，buckets 为 nil 时使用默认分桶
func (c *Client) NewHistogram(name, help string, labels []string, buckets []float64) (*HistogramVec, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	o := c.opts(name, help)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
		Buckets:   buckets,
	}, labels)
	if err := c.register(name, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// NewGaugeFunc 注册无标签 Gauge，每次采集时调用 fn 取值
func (c *Client) NewGaugeFunc(name, help string, fn func() float64) error {
	return c.register(name, prometheus.NewGaugeFunc(prometheus.GaugeOpts(c.opts(name, help)), fn))
}

func (c *Client) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace: c.config.Namespace,
		Subsystem: c.config.Subsystem,
		Name:      name,
		Help:      help,
	}
}

// register 同一客户端内指标名唯一，重复时返回 ErrMetricExists
func (c *Client) register(name string, collector prometheus.Collector) error {
	if c.IsClosed() {
		return ErrClientClosed
	}
	if _, loaded := c.names.LoadOrStore(name, struct{}{}); loaded {
		return errors.Wrapf(ErrMetricExists, "metric %s", name)
	}
	if err := c.registry.Register(collector); err != nil {
		c.names.Delete(name)
		return errors.Wrapf(err, "register %s", name)
	}
	return nil
}
