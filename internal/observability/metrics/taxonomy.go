package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// TaxonomyMetrics contains Prometheus metrics for taxonomy store and
// curation operations.
type TaxonomyMetrics struct {
	MutationTotal     *prometheus.CounterVec
	MutationErrors    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewTaxonomyMetrics creates a new instance of TaxonomyMetrics registered on
// the given registry.
func NewTaxonomyMetrics(registry *prometheus.Registry) (*TaxonomyMetrics, error) {
	m := &TaxonomyMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register taxonomy metrics: %w", err)
	}
	return m, nil
}

func (m *TaxonomyMetrics) initMetrics() {
	m.MutationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxonomy_mutations",
			Help: "Total number of taxonomy mutations partitioned by operation.",
		},
		[]string{"operation"},
	)

	m.MutationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxonomy_mutation_errors",
			Help: "Total number of failed taxonomy mutations partitioned by operation and failure kind.",
		},
		[]string{"operation", "kind"},
	)

	m.OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxonomy_operation_duration_seconds",
			Help:    "Time taken for taxonomy store operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)
}

// Describe implements prometheus.Collector.
func (m *TaxonomyMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.MutationTotal.Describe(ch)
	m.MutationErrors.Describe(ch)
	m.OperationDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *TaxonomyMetrics) Collect(ch chan<- prometheus.Metric) {
	m.MutationTotal.Collect(ch)
	m.MutationErrors.Collect(ch)
	m.OperationDuration.Collect(ch)
}
