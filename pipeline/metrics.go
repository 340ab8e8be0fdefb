package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles Prometheus collectors for pipeline runs.
type Metrics struct {
	Registry         *prometheus.Registry
	ConvertedTotal   prometheus.Counter
	SavedTotal       prometheus.Counter
	RunsTotal        *prometheus.CounterVec
	BlacklistedTotal prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	converted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_converted_total",
		Help: "Total raw records converted into canonical products.",
	})
	saved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_saved_total",
		Help: "Total products handed to the sink successfully.",
	})
	blacklisted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_blacklisted_total",
		Help: "Total products dropped by the blacklist filter.",
	})
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_runs_total",
			Help: "Total pipeline runs by result.",
		},
		[]string{"result"},
	)

	registry.MustRegister(converted, saved, blacklisted, runs)

	return &Metrics{
		Registry:         registry,
		ConvertedTotal:   converted,
		SavedTotal:       saved,
		RunsTotal:        runs,
		BlacklistedTotal: blacklisted,
	}
}

func (m *Metrics) addConverted(n int) {
	if m == nil {
		return
	}
	m.ConvertedTotal.Add(float64(n))
}

func (m *Metrics) addBlacklisted(n int) {
	if m == nil {
		return
	}
	m.BlacklistedTotal.Add(float64(n))
}

func (m *Metrics) incSaved() {
	if m == nil {
		return
	}
	m.SavedTotal.Inc()
}

func (m *Metrics) incRun(result string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(result).Inc()
}
