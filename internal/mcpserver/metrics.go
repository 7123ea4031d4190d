package mcpserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dgallion1/grokmcp/internal/articles"
)

// Metrics counts tool calls by outcome and records their latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the tool metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grokmcp",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grokmcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observe(tool string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(tool, outcome(err)).Inc()
	m.duration.WithLabelValues(tool).Observe(d.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := articles.KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}
