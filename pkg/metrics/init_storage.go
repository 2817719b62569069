package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_graph_nodes_total",
			Help: "Number of catalog entities in the graph by entity type",
		},
		[]string{"type"},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_graph_edges_total",
			Help: "Number of relationships in the graph",
		},
	)

	r.StorageOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_storage_operations_total",
			Help: "Total number of graph mutations",
		},
		[]string{"operation"},
	)

	r.PillarAssociationsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_pillar_associations_total",
			Help: "Number of entities with at least one derived pillar association",
		},
	)

	r.DerivationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_derivation_duration_seconds",
			Help:    "Pillar association derivation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.DerivationRunsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_derivation_runs_total",
			Help: "Total number of pillar association derivations",
		},
	)

	r.ValidationViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_validation_violations_total",
			Help: "Structural violations reported by the validation pass",
		},
		[]string{"severity", "type"},
	)
}
