package constraints

import (
	"fmt"
	"strings"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

// UniqueNameConstraint flags entities that share a display name. Name
// lookups resolve to a single node, so a duplicate shadows the earlier one.
type UniqueNameConstraint struct {
	// PerType compares names only within the same entity type
	PerType bool
}

// Name returns a human-readable name for this constraint
func (c *UniqueNameConstraint) Name() string {
	if c.PerType {
		return "UniqueNamePerType"
	}
	return "UniqueName"
}

// Validate reports every node after the first one holding a name
func (c *UniqueNameConstraint) Validate(graph GraphReader) []Violation {
	violations := make([]Violation, 0)
	first := make(map[string]string)

	for _, node := range graph.AllNodes() {
		name := strings.ToLower(strings.TrimSpace(node.Name()))
		if name == "" {
			continue
		}
		key := name
		if c.PerType {
			key = string(node.Type) + "/" + name
		}

		original, seen := first[key]
		if !seen {
			first[key] = node.ID
			continue
		}
		violations = append(violations, Violation{
			Type:       UniquenessViolation,
			Severity:   Warning,
			NodeID:     node.ID,
			Constraint: c.Name(),
			Message:    fmt.Sprintf("Duplicate name '%s' on node %s (also used by %s)", node.Name(), node.ID, original),
			Details: map[string]any{
				"name":         node.Name(),
				"duplicate_of": original,
			},
		})
	}

	return violations
}

// UniqueEdgeConstraint ensures only one edge of a type links the same pair of nodes
type UniqueEdgeConstraint struct {
	// Relationship restricts the check to one edge type (empty = every type)
	Relationship storage.RelationshipType
}

// Name returns a human-readable name for this constraint
func (c *UniqueEdgeConstraint) Name() string {
	if c.Relationship == "" {
		return "UniqueEdge(*)"
	}
	return fmt.Sprintf("UniqueEdge(%s)", c.Relationship)
}

// Validate checks that no duplicate edges exist between node pairs
func (c *UniqueEdgeConstraint) Validate(graph GraphReader) []Violation {
	violations := make([]Violation, 0)
	first := make(map[string]string)

	for _, edge := range graph.AllEdges() {
		if c.Relationship != "" && edge.Type != c.Relationship {
			continue
		}

		pairKey := fmt.Sprintf("%s-%s->%s", edge.From, edge.Type, edge.To)
		original, seen := first[pairKey]
		if !seen {
			first[pairKey] = edge.ID
			continue
		}
		violations = append(violations, Violation{
			Type:       UniquenessViolation,
			Severity:   Warning,
			NodeID:     edge.From,
			EdgeID:     edge.ID,
			Constraint: c.Name(),
			Message: fmt.Sprintf("Duplicate edge %s (edge %s already links %s -%s-> %s)",
				edge.ID, original, edge.From, edge.Type, edge.To),
			Details: map[string]any{
				"node_pair":    pairKey,
				"duplicate_of": original,
			},
		})
	}

	return violations
}
