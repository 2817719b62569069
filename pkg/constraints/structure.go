package constraints

import (
	"fmt"
	"strings"

	"github.com/dd0wney/capability-graph/pkg/algorithms"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// OrphanConstraint flags nodes with no edges in either direction
type OrphanConstraint struct {
	// Types limits the check to these entity types (empty = every type)
	Types []storage.EntityType
}

func (c *OrphanConstraint) Name() string {
	return "OrphanConstraint"
}

func (c *OrphanConstraint) Validate(graph GraphReader) []Violation {
	types := c.Types
	if len(types) == 0 {
		types = storage.AllEntityTypes()
	}

	violations := make([]Violation, 0)
	for _, t := range types {
		for _, node := range graph.FindByType(t) {
			if len(graph.GetEdges(node.ID)) > 0 || len(graph.GetReverseEdges(node.ID)) > 0 {
				continue
			}
			violations = append(violations, Violation{
				Type:       OrphanNode,
				Severity:   Warning,
				NodeID:     node.ID,
				Constraint: c.Name(),
				Message:    fmt.Sprintf("Orphan %s node %s (%s) has no relationships", node.Type, node.ID, node.Name()),
				Details:    map[string]any{"type": string(node.Type)},
			})
		}
	}
	return violations
}

// RelationshipTypeConstraint flags edges whose type is outside a whitelist
type RelationshipTypeConstraint struct {
	// Allowed defaults to the recommended relationship vocabulary
	Allowed []storage.RelationshipType
}

func (c *RelationshipTypeConstraint) Name() string {
	return "RelationshipTypeConstraint"
}

func (c *RelationshipTypeConstraint) Validate(graph GraphReader) []Violation {
	allowedList := c.Allowed
	if len(allowedList) == 0 {
		allowedList = storage.RecommendedRelationshipTypes()
	}
	allowed := make(map[storage.RelationshipType]bool, len(allowedList))
	names := make([]string, len(allowedList))
	for i, t := range allowedList {
		allowed[t] = true
		names[i] = string(t)
	}

	violations := make([]Violation, 0)
	for _, edge := range graph.AllEdges() {
		if allowed[edge.Type] {
			continue
		}
		violations = append(violations, Violation{
			Type:       InvalidRelationship,
			Severity:   Error,
			NodeID:     edge.From,
			EdgeID:     edge.ID,
			Constraint: c.Name(),
			Message: fmt.Sprintf("Invalid relationship type %s on edge %s -> %s (allowed: %s)",
				edge.Type, edge.From, edge.To, strings.Join(names, ", ")),
			Details: map[string]any{
				"relationship": string(edge.Type),
				"from":         edge.From,
				"to":           edge.To,
			},
		})
	}
	return violations
}

// BidirectionalConstraint checks relationship consistency in two ways.
// Every outgoing relationship a source record declares must be matched by
// an incoming declaration of the same type on the target's record. The
// forward and reverse adjacency lists must also agree with each other.
type BidirectionalConstraint struct{}

func (c *BidirectionalConstraint) Name() string {
	return "BidirectionalConstraint"
}

func (c *BidirectionalConstraint) Validate(graph GraphReader) []Violation {
	violations := make([]Violation, 0)

	for _, node := range graph.AllNodes() {
		violations = append(violations, c.declared(graph, node)...)
	}

	for _, node := range graph.AllNodes() {
		for _, edge := range graph.GetEdges(node.ID) {
			if !graph.HasNode(edge.To) || hasEdge(graph.GetReverseEdges(edge.To), edge) {
				continue
			}
			violations = append(violations, c.violation(edge, "reverse", edge.To))
		}
		for _, edge := range graph.GetReverseEdges(node.ID) {
			if !graph.HasNode(edge.From) || hasEdge(graph.GetEdges(edge.From), edge) {
				continue
			}
			violations = append(violations, c.violation(edge, "forward", edge.From))
		}
	}
	return violations
}

func (c *BidirectionalConstraint) declared(graph GraphReader, node *storage.Node) []Violation {
	decl, ok := node.DeclaredRelationships()
	if !ok {
		return nil
	}

	var violations []Violation
	for _, rel := range decl.Outgoing {
		target, exists := graph.GetNode(rel.To)
		if !exists {
			continue
		}
		incoming, _ := target.DeclaredRelationships()
		if declaresIncoming(incoming.Incoming, node.ID, rel.Type) {
			continue
		}
		violations = append(violations, Violation{
			Type:       MissingReverseEdge,
			Severity:   Warning,
			NodeID:     rel.To,
			Constraint: c.Name(),
			Message: fmt.Sprintf("Missing reverse relationship: %s should have incoming from %s (%s)",
				rel.To, node.ID, rel.Type),
			Details: map[string]any{"side": "declared", "from": node.ID, "type": string(rel.Type)},
		})
	}
	return violations
}

func declaresIncoming(incoming []storage.DeclaredRelationship, from string, relType storage.RelationshipType) bool {
	for _, inc := range incoming {
		if inc.From == from && inc.Type == relType {
			return true
		}
	}
	return false
}

func (c *BidirectionalConstraint) violation(edge *storage.Edge, side, missingOn string) Violation {
	return Violation{
		Type:       MissingReverseEdge,
		Severity:   Warning,
		NodeID:     missingOn,
		EdgeID:     edge.ID,
		Constraint: c.Name(),
		Message: fmt.Sprintf("Edge %s %s -%s-> %s missing from the %s list of %s",
			edge.ID, edge.From, edge.Type, edge.To, side, missingOn),
		Details: map[string]any{"side": side},
	}
}

// hasEdge matches by id, falling back to endpoints and type for edges
// without one
func hasEdge(edges []*storage.Edge, target *storage.Edge) bool {
	for _, e := range edges {
		if e == target {
			return true
		}
		if target.ID != "" && e.ID == target.ID {
			return true
		}
		if target.ID == "" && e.From == target.From && e.To == target.To && e.Type == target.Type {
			return true
		}
	}
	return false
}

// DanglingEdgeConstraint flags edges whose source or target node is missing.
// Dangling edges are legal in the store; this only surfaces them.
type DanglingEdgeConstraint struct{}

func (c *DanglingEdgeConstraint) Name() string {
	return "DanglingEdgeConstraint"
}

func (c *DanglingEdgeConstraint) Validate(graph GraphReader) []Violation {
	violations := make([]Violation, 0)
	for _, edge := range graph.AllEdges() {
		var missing []string
		if !graph.HasNode(edge.From) {
			missing = append(missing, edge.From)
		}
		if !graph.HasNode(edge.To) {
			missing = append(missing, edge.To)
		}
		if len(missing) == 0 {
			continue
		}
		violations = append(violations, Violation{
			Type:       DanglingEdge,
			Severity:   Warning,
			EdgeID:     edge.ID,
			Constraint: c.Name(),
			Message: fmt.Sprintf("Edge %s %s -%s-> %s references missing node(s) %s",
				edge.ID, edge.From, edge.Type, edge.To, strings.Join(missing, ", ")),
			Details: map[string]any{"missing": missing},
		})
	}
	return violations
}

// DependencyCycleConstraint reports cycles among dependency edges
type DependencyCycleConstraint struct {
	// EdgeTypes defaults to DEPENDS_ON and REQUIRES
	EdgeTypes []storage.RelationshipType
}

func (c *DependencyCycleConstraint) Name() string {
	return "DependencyCycleConstraint"
}

func (c *DependencyCycleConstraint) Validate(graph GraphReader) []Violation {
	edgeTypes := c.EdgeTypes
	if len(edgeTypes) == 0 {
		edgeTypes = []storage.RelationshipType{storage.RelDependsOn, storage.RelRequires}
	}

	cycles := algorithms.DetectCycles(graph, algorithms.CycleDetectionOptions{EdgeTypes: edgeTypes})
	violations := make([]Violation, 0, len(cycles))
	for _, cycle := range cycles {
		violations = append(violations, Violation{
			Type:       DependencyCycle,
			Severity:   Info,
			NodeID:     cycle[0],
			Constraint: c.Name(),
			Message:    fmt.Sprintf("Dependency cycle %s -> %s", strings.Join(cycle, " -> "), cycle[0]),
			Details:    map[string]any{"cycle": []string(cycle)},
		})
	}
	return violations
}
