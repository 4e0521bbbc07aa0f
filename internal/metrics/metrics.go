package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	computations    *prometheus.CounterVec
	computeDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	cacheWrites     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		computations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindbloom",
			Subsystem: "progress",
			Name:      "computations_total",
			Help:      "Progress analytics computations by outcome (ok, empty, error)",
		}, []string{"outcome"}),
		computeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mindbloom",
			Subsystem: "progress",
			Name:      "computation_duration_seconds",
			Help:      "Time spent building one progress summary",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindbloom",
			Subsystem: "progress",
			Name:      "cache_lookups_total",
			Help:      "Cached progress lookups by result (hit, miss, stale, error)",
		}, []string{"result"}),
		cacheWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindbloom",
			Subsystem: "progress",
			Name:      "cache_writes_total",
			Help:      "Cached progress writes by outcome (ok, error)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveComputation(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(outcome).Inc()
	m.computeDuration.Observe(took.Seconds())
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) CacheWrite(outcome string) {
	if m == nil {
		return
	}
	m.cacheWrites.WithLabelValues(outcome).Inc()
}
