package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// RecordStorageOperation records a graph mutation
func (r *Registry) RecordStorageOperation(operation string) {
	r.StorageOperationsTotal.WithLabelValues(operation).Inc()
}

// SetGraphSize updates the node and edge gauges
func (r *Registry) SetGraphSize(nodesByType map[string]int, edges int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.GraphNodesTotal.Reset()
	for entityType, count := range nodesByType {
		r.GraphNodesTotal.WithLabelValues(entityType).Set(float64(count))
	}
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordQuery records a catalog query execution
func (r *Registry) RecordQuery(queryType string, duration time.Duration, results int) {
	r.QueriesTotal.WithLabelValues(queryType).Inc()
	r.QueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	r.QueryResults.WithLabelValues(queryType).Observe(float64(results))
}

// RecordDerivation records a pillar association derivation run
func (r *Registry) RecordDerivation(duration time.Duration, associated int) {
	r.DerivationRunsTotal.Inc()
	r.DerivationDuration.Observe(duration.Seconds())
	r.PillarAssociationsTotal.Set(float64(associated))
}

// RecordViolation records a structural violation found by the validation pass
func (r *Registry) RecordViolation(severity, violationType string) {
	r.ValidationViolationsTotal.WithLabelValues(severity, violationType).Inc()
}

// WriteText writes every registered metric in the Prometheus text exposition format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
