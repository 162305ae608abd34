package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectionMetrics records cart/likes sync activity.
type CollectionMetrics struct {
	ops      *prometheus.CounterVec
	loadTime *prometheus.HistogramVec
}

// NewCollectionMetrics registers the collection metrics on the provided registerer.
func NewCollectionMetrics(reg prometheus.Registerer) *CollectionMetrics {
	if reg == nil {
		return &CollectionMetrics{}
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collection_ops_total",
		Help: "Cart/likes operations by kind, operation, and outcome.",
	}, []string{"kind", "op", "outcome"})
	loadTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collection_load_seconds",
		Help:    "Time spent loading the canonical list from a backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "backend"})
	reg.MustRegister(ops, loadTime)
	return &CollectionMetrics{
		ops:      ops,
		loadTime: loadTime,
	}
}

// IncOp increments the operation counter for the given labels.
func (c *CollectionMetrics) IncOp(kind, op, outcome string) {
	if c == nil || c.ops == nil {
		return
	}
	c.ops.WithLabelValues(normalizeLabel(kind), normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// ObserveLoad records the duration of a canonical-list load.
func (c *CollectionMetrics) ObserveLoad(kind, backend string, duration time.Duration) {
	if c == nil || c.loadTime == nil {
		return
	}
	c.loadTime.WithLabelValues(normalizeLabel(kind), normalizeLabel(backend)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
