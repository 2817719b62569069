package health

import (
	"fmt"

	"github.com/dd0wney/capability-graph/pkg/constraints"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// DefaultMinCoverage is the pillar coverage below which a catalog is degraded
const DefaultMinCoverage = 0.8

// GraphCheck reports an empty graph as unhealthy
func GraphCheck(gs *storage.GraphStorage) CheckFunc {
	return func() Check {
		stats := gs.GetStatistics()
		check := Check{
			Details: map[string]any{
				"nodes": stats.TotalNodes,
				"edges": stats.TotalEdges,
			},
		}

		if stats.TotalNodes == 0 {
			check.Status = StatusUnhealthy
			check.Message = "Graph is empty"
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d nodes, %d edges", stats.TotalNodes, stats.TotalEdges)
		}
		return check
	}
}

// CoverageCheck reports the share of entities with a pillar association.
// No associations at all is unhealthy; below minCoverage is degraded.
func CoverageCheck(gs *storage.GraphStorage, minCoverage float64) CheckFunc {
	return func() Check {
		total := gs.NodeCount()
		associated := len(gs.GetAllPillarAssociations())

		coverage := 0.0
		if total > 0 {
			coverage = float64(associated) / float64(total)
		}
		check := Check{
			Details: map[string]any{
				"associated": associated,
				"total":      total,
				"coverage":   coverage,
			},
			Message: fmt.Sprintf("%.0f%% of entities have a pillar", coverage*100),
		}

		switch {
		case associated == 0:
			check.Status = StatusUnhealthy
			check.Message = "No pillar associations; run derive"
		case coverage < minCoverage:
			check.Status = StatusDegraded
		default:
			check.Status = StatusHealthy
		}
		return check
	}
}

// ConsistencyCheck runs the validator: errors are unhealthy and warnings
// degraded. Info findings such as dependency cycles do not count.
func ConsistencyCheck(v *constraints.Validator, graph constraints.GraphReader) CheckFunc {
	return func() Check {
		result := v.Validate(graph)
		errs := len(result.Errors())
		warnings := len(result.Warnings())

		check := Check{
			Details: map[string]any{
				"validation_id": result.ID,
				"errors":        errs,
				"warnings":      warnings,
			},
		}

		switch {
		case errs > 0:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("%d errors, %d warnings", errs, warnings)
		case warnings > 0:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d warnings", warnings)
		default:
			check.Status = StatusHealthy
			check.Message = "Consistent"
		}
		return check
	}
}
