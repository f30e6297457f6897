package contract

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "assetledger"

// Metrics counts contract invocations and their latency. A nil *Metrics
// records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the contract collectors and registers them with reg.
// Registration panics on duplicate collectors, as prometheus.MustRegister
// does.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "contract",
			Name:      "invocations_total",
			Help:      "Contract invocations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "contract",
			Name:      "invocation_duration_seconds",
			Help:      "Contract invocation latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
	}
	reg.MustRegister(m.invocations, m.duration)
	return m
}

func (m *Metrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// outcomeOf labels an invocation result: "ok", the lower-cased error code
// for domain failures, or "error".
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := CodeOf(err); ok {
		return strings.ToLower(string(code))
	}
	return "error"
}
