package storage

import (
	"fmt"
	"sort"
)

// NextEdgeID returns a fresh sequence-generated edge id ("edge_<n>")
func (gs *GraphStorage) NextEdgeID() string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.nextEdgeIDLocked()
}

func (gs *GraphStorage) nextEdgeIDLocked() string {
	gs.nextEdgeID++
	return fmt.Sprintf("edge_%d", gs.nextEdgeID)
}

// AddEdge appends edge to the forward list of edge.From and the reverse list
// of edge.To. Endpoints are not checked; dangling edges are kept and every
// reader tolerates them. An empty id is replaced by a generated one and a
// zero weight defaults to 1.
func (gs *GraphStorage) AddEdge(edge *Edge) {
	if edge == nil {
		return
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if edge.ID == "" {
		edge.ID = gs.nextEdgeIDLocked()
	}
	if edge.Weight == 0 {
		edge.Weight = 1
	}

	gs.outgoingEdges[edge.From] = append(gs.outgoingEdges[edge.From], edge)
	gs.incomingEdges[edge.To] = append(gs.incomingEdges[edge.To], edge)
	gs.edgeCount++

	gs.recordMutation("add_edge")
}

// Connect is shorthand for AddEdge with a generated id
func (gs *GraphStorage) Connect(from, to string, relType RelationshipType) *Edge {
	edge := &Edge{From: from, To: to, Type: relType}
	gs.AddEdge(edge)
	return edge
}

// GetEdges returns the outgoing edges of id, never nil
func (gs *GraphStorage) GetEdges(id string) []*Edge {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return copyEdges(gs.outgoingEdges[id])
}

// GetReverseEdges returns the incoming edges of id, never nil
func (gs *GraphStorage) GetReverseEdges(id string) []*Edge {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return copyEdges(gs.incomingEdges[id])
}

// AllEdges returns every edge grouped by source in node insertion order,
// followed by edges whose source has no node
func (gs *GraphStorage) AllEdges() []*Edge {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.allEdgesLocked()
}

func (gs *GraphStorage) allEdgesLocked() []*Edge {
	result := make([]*Edge, 0, gs.edgeCount)
	seen := make(map[string]bool, len(gs.outgoingEdges))
	for _, id := range gs.allNodes.ids {
		result = append(result, gs.outgoingEdges[id]...)
		seen[id] = true
	}

	var dangling []string
	for from := range gs.outgoingEdges {
		if !seen[from] {
			dangling = append(dangling, from)
		}
	}
	sort.Strings(dangling)
	for _, from := range dangling {
		result = append(result, gs.outgoingEdges[from]...)
	}
	return result
}

// EdgeCount returns the total number of edges
func (gs *GraphStorage) EdgeCount() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.edgeCount
}

func copyEdges(edges []*Edge) []*Edge {
	result := make([]*Edge, len(edges))
	copy(result, edges)
	return result
}

// removeEdge returns edges without target, compared by identity
func removeEdge(edges []*Edge, target *Edge) []*Edge {
	result := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		if e != target {
			result = append(result, e)
		}
	}
	return result
}
