package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// normalizer pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	ConversionErrors prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Deprecated unit-system accessor usage.
	DeprecationNotices prometheus.Counter

	// BloomSky ingest metrics.
	BloomskyRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	BloomskyAPIDuration prometheus.Histogram
	BloomskyEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "messages_consumed_total",
			Help:      "Total readings extracted from the source.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "messages_produced_total",
			Help:      "Total normalized readings written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "transform_errors_total",
			Help:      "Total readings skipped because parsing or normalization failed.",
		}),
		ConversionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "conversion_errors_total",
			Help:      "Total unit conversion failures (bad value, unknown unit or category).",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "unit_normalizer",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unit_normalizer",
			Name:      "batch_size",
			Help:      "Number of readings per extracted batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unit_normalizer",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-normalize-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DeprecationNotices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "deprecation_notices_total",
			Help:      "Accesses to deprecated unit-system accessors (Name, IsMetric).",
		}),
		BloomskyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unit_normalizer",
			Name:      "bloomsky_requests_total",
			Help:      "BloomSky API requests by outcome.",
		}, []string{"outcome"}),
		BloomskyAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unit_normalizer",
			Name:      "bloomsky_api_duration_seconds",
			Help:      "BloomSky API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		BloomskyEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "unit_normalizer",
			Name:      "bloomsky_enabled",
			Help:      "1 when BloomSky ingest is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.ConversionErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.DeprecationNotices,
		m.BloomskyRequests,
		m.BloomskyAPIDuration,
		m.BloomskyEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "transform_errors_total"}),
		ConversionErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "conversion_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "unit_normalizer", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "unit_normalizer", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "unit_normalizer", Name: "batch_processing_duration_seconds"}),
		DeprecationNotices:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "deprecation_notices_total"}),
		BloomskyRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "unit_normalizer", Name: "bloomsky_requests_total"}, []string{"outcome"}),
		BloomskyAPIDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "unit_normalizer", Name: "bloomsky_api_duration_seconds"}),
		BloomskyEnabled:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "unit_normalizer", Name: "bloomsky_enabled"}),
	}
}
