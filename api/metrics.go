// api/metrics.go

package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors recorded at the facade
// boundary: every Analyze call records AnalyzeTotal and AnalyzeDuration
// once, plus StrengthLabel on success or AnalyzeErrors on failure.
type Metrics struct {
	AnalyzeTotal    *prometheus.CounterVec
	AnalyzeDuration *prometheus.HistogramVec
	AnalyzeErrors   *prometheus.CounterVec
	StrengthLabel   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered against the default
// registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a Metrics instance registered against a
// caller-supplied registry, for tests that want an isolated registry.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalyzeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazi_analyze_total",
				Help: "Total number of Analyze calls.",
			},
			[]string{"outcome"},
		),
		AnalyzeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bazi_analyze_duration_seconds",
				Help:    "Wall time of one Analyze call.",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"outcome"},
		),
		AnalyzeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazi_analyze_errors_total",
				Help: "Total number of Analyze calls rejected by validation or config errors.",
			},
			[]string{"code"},
		),
		StrengthLabel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazi_strength_label_total",
				Help: "Count of each strength label produced, by label.",
			},
			[]string{"label"},
		),
	}

	registerer.MustRegister(
		m.AnalyzeTotal,
		m.AnalyzeDuration,
		m.AnalyzeErrors,
		m.StrengthLabel,
	)

	return m
}

// prometheusNoopRegisterer discards every collector registered against
// it, for NewFacade's zero-config constructor path so building a Facade
// never touches the global default registry unless the caller asks for
// metrics explicitly.
type prometheusNoopRegisterer struct{}

func (prometheusNoopRegisterer) Register(prometheus.Collector) error { return nil }
func (prometheusNoopRegisterer) MustRegister(...prometheus.Collector) {}
func (prometheusNoopRegisterer) Unregister(prometheus.Collector) bool { return true }
