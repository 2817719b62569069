package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Total number of catalog queries executed",
		},
		[]string{"query_type"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Catalog query duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"query_type"},
	)

	r.QueryResults = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_results",
			Help:    "Number of entities returned per query",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		},
		[]string{"query_type"},
	)
}
