package metrics

import "github.com/prometheus/client_golang/prometheus"

// Fixture registry and scenario Prometheus metrics.
var (
	FixturesRegisteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixtures_registered_total",
			Help:      "Total number of fixtures written to the registry",
		},
		[]string{"status"}, // "ok" / "error"
	)

	FixtureResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_resolve_total",
			Help:      "Fixture lookups by outcome",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FixtureCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_cache_total",
			Help:      "Resolve cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ScenarioStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_step_duration_seconds",
			Help:      "Time to assemble and register the fixtures of one scenario step",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"step"}, // "items" / "reading" / "plan"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open scenario sessions",
		},
	)
)

var fixtureMetricsRegistered bool

// RegisterFixtureMetrics registers the registry and scenario metrics. Must be called once from main.
func RegisterFixtureMetrics() {
	if fixtureMetricsRegistered {
		return
	}
	prometheus.MustRegister(FixturesRegisteredTotal)
	prometheus.MustRegister(FixtureResolveTotal)
	prometheus.MustRegister(FixtureCacheTotal)
	prometheus.MustRegister(ScenarioStepDuration)
	prometheus.MustRegister(SessionsActive)
	fixtureMetricsRegistered = true
}
