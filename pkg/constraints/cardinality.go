package constraints

import (
	"fmt"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

// CardinalityConstraint validates the number of edges a node has
type CardinalityConstraint struct {
	EntityType   storage.EntityType       // Type to apply constraint to
	Relationship storage.RelationshipType // Type of edge (empty = any type)
	Direction    storage.Direction        // Direction of edges to count
	Min          int                      // Minimum number of edges (0 = optional)
	Max          int                      // Maximum number of edges (0 = unlimited)
	Severity     Severity
}

// CoEPillarConstraint expects every CoE to belong to exactly one pillar
func CoEPillarConstraint() *CardinalityConstraint {
	return &CardinalityConstraint{
		EntityType:   storage.TypeCoE,
		Relationship: storage.RelBelongsTo,
		Direction:    storage.DirectionForward,
		Min:          1,
		Max:          1,
		Severity:     Warning,
	}
}

// Name returns the constraint name
func (cc *CardinalityConstraint) Name() string {
	rel := string(cc.Relationship)
	if rel == "" {
		rel = "*"
	}
	return fmt.Sprintf("CardinalityConstraint(%s,%s,%s,[%d,%d])",
		cc.EntityType, rel, cc.Direction, cc.Min, cc.Max)
}

// Validate checks the cardinality constraint against all nodes of the target type
func (cc *CardinalityConstraint) Validate(graph GraphReader) []Violation {
	violations := make([]Violation, 0)

	for _, node := range graph.FindByType(cc.EntityType) {
		count := cc.countEdges(graph, node.ID)

		var bound, key string
		var limit int
		switch {
		case cc.Min > 0 && count < cc.Min:
			bound, key, limit = "minimum", "min", cc.Min
		case cc.Max > 0 && count > cc.Max:
			bound, key, limit = "maximum", "max", cc.Max
		default:
			continue
		}

		violations = append(violations, Violation{
			Type:       CardinalityViolation,
			Severity:   cc.Severity,
			NodeID:     node.ID,
			Constraint: cc.Name(),
			Message: fmt.Sprintf("Node %s has %d %s edge(s) of type '%s', %s is %d",
				node.ID, count, cc.Direction, cc.Relationship, bound, limit),
			Details: map[string]any{
				"type":         string(cc.EntityType),
				"relationship": string(cc.Relationship),
				"direction":    cc.Direction.String(),
				"count":        count,
				key:            limit,
			},
		})
	}

	return violations
}

// countEdges counts edges for a node based on direction and type
func (cc *CardinalityConstraint) countEdges(graph GraphReader, id string) int {
	count := 0
	match := func(edges []*storage.Edge) {
		for _, edge := range edges {
			if cc.Relationship == "" || edge.Type == cc.Relationship {
				count++
			}
		}
	}

	if cc.Direction == storage.DirectionForward || cc.Direction == storage.DirectionBoth {
		match(graph.GetEdges(id))
	}
	if cc.Direction == storage.DirectionReverse || cc.Direction == storage.DirectionBoth {
		match(graph.GetReverseEdges(id))
	}
	return count
}
