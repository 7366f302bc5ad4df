package pass

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for pass issuance.
type Metrics struct {
	IssuedTotal     prometheus.Counter
	IssueRejections *prometheus.CounterVec
}

// NewMetrics creates and registers issuance metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		IssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "neighnet_passes_issued_total",
			Help: "Total signed pass envelopes issued",
		}),
		IssueRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "neighnet_pass_issue_rejections_total",
			Help: "Pass issuance rejections by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) RecordIssued() {
	if m != nil {
		m.IssuedTotal.Inc()
	}
}

func (m *Metrics) RecordRejection(code string) {
	if m != nil {
		m.IssueRejections.WithLabelValues(code).Inc()
	}
}
