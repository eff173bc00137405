package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 调用方只依赖本包，不直接引用 client_golang
type (
	CounterVec   = prometheus.CounterVec
	GaugeVec     = prometheus.GaugeVec
	HistogramVec = prometheus.HistogramVec
)
