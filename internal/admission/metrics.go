package admission

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scan state machine.
type Metrics struct {
	ScansTotal   *prometheus.CounterVec
	ScanDuration prometheus.Histogram
}

// NewMetrics creates and registers admission metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "neighnet_scans_total",
			Help: "Gate scans by outcome (entry, exit, or a rejection code)",
		}, []string{"outcome"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "neighnet_scan_duration_seconds",
			Help:    "Latency of the scan transition",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordScan(outcome string) {
	if m != nil {
		m.ScansTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveScanDuration(d time.Duration) {
	if m != nil {
		m.ScanDuration.Observe(d.Seconds())
	}
}
