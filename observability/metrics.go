package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LootboxMetrics records dispatch activity for the loot box engine. Hosts
// observe around engine calls so the engine itself stays free of metrics
// plumbing.
type LootboxMetrics struct {
	opens    *prometheus.CounterVec
	units    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	lootboxOnce     sync.Once
	lootboxRegistry *LootboxMetrics
)

// Lootbox returns the lazily-initialised metrics registry for loot box
// dispatch activity.
func Lootbox() *LootboxMetrics {
	lootboxOnce.Do(func() {
		lootboxRegistry = &LootboxMetrics{
			opens: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lootbox",
				Subsystem: "dispatch",
				Name:      "opens_total",
				Help:      "Total open dispatches segmented by option and outcome.",
			}, []string{"option", "outcome"}),
			units: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lootbox",
				Subsystem: "dispatch",
				Name:      "minted_units_total",
				Help:      "Total item units minted through successful dispatches, by option.",
			}, []string{"option"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "lootbox",
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Latency distribution for open dispatches.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"option"}),
		}
		prometheus.MustRegister(lootboxRegistry.opens, lootboxRegistry.units, lootboxRegistry.duration)
	})
	return lootboxRegistry
}

// ObserveOpen records one dispatch attempt.
func (m *LootboxMetrics) ObserveOpen(option string, outcome string, units uint64, seconds float64) {
	if m == nil {
		return
	}
	m.opens.WithLabelValues(option, outcome).Inc()
	if units > 0 {
		m.units.WithLabelValues(option).Add(float64(units))
	}
	m.duration.WithLabelValues(option).Observe(seconds)
}
