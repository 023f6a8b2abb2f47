package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dhs-checker/internal/application/port/output"
)

var _ output.MetricsPort = (*PrometheusMetrics)(nil)

type PrometheusMetrics struct {
	sessionsActive prometheus.Gauge
	lookups        *prometheus.CounterVec
	lookupSeconds  *prometheus.HistogramVec
	batchSeconds   prometheus.Histogram
	batchSize      prometheus.Histogram
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "dhs",
			Name:      "sessions_active",
			Help:      "Browser sessions currently open against the portal.",
		}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dhs",
			Name:      "lookups_total",
			Help:      "ID lookups by outcome.",
		}, []string{"outcome"}),
		lookupSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dhs",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a single ID lookup.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"outcome"}),
		batchSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dhs",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a whole batch including login.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dhs",
			Name:      "batch_size_ids",
			Help:      "Number of IDs per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *PrometheusMetrics) SessionOpened() { m.sessionsActive.Inc() }
func (m *PrometheusMetrics) SessionClosed() { m.sessionsActive.Dec() }

func (m *PrometheusMetrics) LookupObserved(outcome string, duration time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.lookupSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) BatchObserved(size int, duration time.Duration) {
	m.batchSize.Observe(float64(size))
	m.batchSeconds.Observe(duration.Seconds())
}
