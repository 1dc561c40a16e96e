package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

type PrometheusMetrics struct {
	assessments    *prometheus.CounterVec
	toolRuns       *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
	remoteFetches  *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	curatedRefresh *prometheus.CounterVec
	curatedEntries prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		assessments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_tool_assessments_total",
				Help: "Tool assessments by outcome reason",
			},
			[]string{"tool", "reason"},
		),
		toolRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_tool_runs_total",
				Help: "Tool executions by status",
			},
			[]string{"tool", "status"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantum_tool_duration_seconds",
				Help:    "Duration of tool handler execution in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"tool"},
		),
		remoteFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_remote_fetch_total",
				Help: "Remote source fetches by status",
			},
			[]string{"source", "status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_cache_lookups_total",
				Help: "Result cache lookups by namespace",
			},
			[]string{"namespace", "result"},
		),
		curatedRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_curated_refresh_total",
				Help: "Curated leaderboard refresh attempts by outcome",
			},
			[]string{"status"},
		),
		curatedEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "quantum_curated_entries",
				Help: "Entries in the active curated leaderboard",
			},
		),
	}
}

func (m *PrometheusMetrics) ObserveAssessment(tool domain.ToolName, reason domain.AssessmentReason) {
	m.assessments.WithLabelValues(string(tool), string(reason)).Inc()
}

func (m *PrometheusMetrics) ObserveToolRun(metric domain.ToolRunMetric) {
	m.toolRuns.WithLabelValues(string(metric.Tool), string(metric.Status)).Inc()
	m.toolDuration.WithLabelValues(string(metric.Tool)).Observe(metric.Duration.Seconds())
}

func (m *PrometheusMetrics) ObserveFetch(source string, status domain.FetchStatus) {
	m.remoteFetches.WithLabelValues(source, string(status)).Inc()
}

func (m *PrometheusMetrics) ObserveCacheLookup(namespace string, result domain.CacheResult) {
	m.cacheLookups.WithLabelValues(namespace, string(result)).Inc()
}

// ObserveCuratedRefresh counts the attempt; the entry gauge only moves on success.
func (m *PrometheusMetrics) ObserveCuratedRefresh(outcome domain.RefreshOutcome, entries int) {
	m.curatedRefresh.WithLabelValues(string(outcome)).Inc()
	if outcome == domain.RefreshOutcomeSuccess {
		m.curatedEntries.Set(float64(entries))
	}
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
