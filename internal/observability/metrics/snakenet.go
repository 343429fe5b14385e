// Package metrics provides custom Prometheus metrics for the SnakeID application.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SnakeNetMetrics contains all Prometheus metrics related to model inference.
type SnakeNetMetrics struct {
	IdentificationTotal  *prometheus.CounterVec
	IdentificationErrors *prometheus.CounterVec
	StageInvokeDuration  *prometheus.HistogramVec
	PipelineDuration     prometheus.Histogram
	ModelLoadedGauge     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewSnakeNetMetrics creates a new instance of SnakeNetMetrics registered on
// the given registry. It returns an error if metric registration fails.
func NewSnakeNetMetrics(registry *prometheus.Registry) (*SnakeNetMetrics, error) {
	m := &SnakeNetMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register SnakeNet metrics: %w", err)
	}
	return m, nil
}

func (m *SnakeNetMetrics) initMetrics() {
	m.IdentificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snakenet_identifications",
			Help: "Total number of identification requests partitioned by predicted class label.",
		},
		[]string{"class_label"},
	)

	m.IdentificationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snakenet_identification_errors",
			Help: "Total number of failed identification requests partitioned by failure kind.",
		},
		[]string{"kind"},
	)

	m.StageInvokeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snakenet_stage_invoke_duration_seconds",
			Help:    "Time taken for a single model stage invocation",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~1s
		},
		[]string{"stage"},
	)

	m.PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snakenet_pipeline_duration_seconds",
			Help:    "End to end time for decode, extract, reduce and classify",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	m.ModelLoadedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snakenet_model_stage_loaded",
			Help: "Whether a model stage is loaded (1) or unavailable (0).",
		},
		[]string{"stage"},
	)
}

// Describe implements prometheus.Collector.
func (m *SnakeNetMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.IdentificationTotal.Describe(ch)
	m.IdentificationErrors.Describe(ch)
	m.StageInvokeDuration.Describe(ch)
	m.PipelineDuration.Describe(ch)
	m.ModelLoadedGauge.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *SnakeNetMetrics) Collect(ch chan<- prometheus.Metric) {
	m.IdentificationTotal.Collect(ch)
	m.IdentificationErrors.Collect(ch)
	m.StageInvokeDuration.Collect(ch)
	m.PipelineDuration.Collect(ch)
	m.ModelLoadedGauge.Collect(ch)
}
