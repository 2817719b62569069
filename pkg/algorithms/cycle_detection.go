package algorithms

import (
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// EdgeGraph is the read-only view cycle detection walks
type EdgeGraph interface {
	AllNodes() []*storage.Node
	GetEdges(id string) []*storage.Edge
	HasNode(id string) bool
}

// Cycle is a closed walk of node ids; the last node links back to the first
type Cycle []string

// CycleDetectionOptions configures cycle detection
type CycleDetectionOptions struct {
	// EdgeTypes restricts the walk to these relationship types (empty = all)
	EdgeTypes      []storage.RelationshipType
	MaxCycleLength int // 0 = unlimited
}

const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // finished
)

type cycleFrame struct {
	id    string
	edges []*storage.Edge
	next  int
}

// DetectCycles finds cycles with a three-colour depth-first search. Each
// back edge yields one cycle, so the result is a witness set rather than an
// enumeration of every simple cycle. Dangling edges are ignored.
func DetectCycles(graph EdgeGraph, opts CycleDetectionOptions) []Cycle {
	allowed := make(map[storage.RelationshipType]bool, len(opts.EdgeTypes))
	for _, t := range opts.EdgeTypes {
		allowed[t] = true
	}
	follow := func(e *storage.Edge) bool {
		return len(allowed) == 0 || allowed[e.Type]
	}

	color := make(map[string]int)
	parent := make(map[string]string)
	cycles := make([]Cycle, 0)

	for _, root := range graph.AllNodes() {
		if color[root.ID] != white {
			continue
		}

		color[root.ID] = gray
		stack := []*cycleFrame{{id: root.ID, edges: graph.GetEdges(root.ID)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.edges) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			edge := top.edges[top.next]
			top.next++
			if !follow(edge) || !graph.HasNode(edge.To) {
				continue
			}

			switch color[edge.To] {
			case white:
				parent[edge.To] = top.id
				color[edge.To] = gray
				stack = append(stack, &cycleFrame{id: edge.To, edges: graph.GetEdges(edge.To)})
			case gray:
				cycle := extractCycle(edge.To, top.id, parent)
				if opts.MaxCycleLength == 0 || len(cycle) <= opts.MaxCycleLength {
					cycles = append(cycles, cycle)
				}
			}
		}
	}

	return cycles
}

// extractCycle rebuilds the cycle closed by the back edge end -> start
func extractCycle(start, end string, parent map[string]string) Cycle {
	var reversed []string
	for current := end; current != start; {
		reversed = append(reversed, current)
		p, ok := parent[current]
		if !ok {
			break
		}
		current = p
	}

	cycle := make(Cycle, 0, len(reversed)+1)
	cycle = append(cycle, start)
	for i := len(reversed) - 1; i >= 0; i-- {
		cycle = append(cycle, reversed[i])
	}
	return cycle
}

// HasCycle reports whether any cycle exists over the given relationship types
func HasCycle(graph EdgeGraph, edgeTypes ...storage.RelationshipType) bool {
	return len(DetectCycles(graph, CycleDetectionOptions{EdgeTypes: edgeTypes})) > 0
}
