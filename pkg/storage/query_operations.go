package storage

import (
	"sort"
	"strings"
)

// FindByType returns nodes of type t in index insertion order
func (gs *GraphStorage) FindByType(t EntityType) []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	set, ok := gs.nodesByType[t]
	if !ok {
		return []*Node{}
	}
	return gs.nodesFor(set.ids)
}

// FindByCategory returns nodes whose category equals category exactly
func (gs *GraphStorage) FindByCategory(category string) []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	set, ok := gs.nodesByCategory[category]
	if !ok {
		return []*Node{}
	}
	return gs.nodesFor(set.ids)
}

// FindByPillar returns the CoEs whose pillarId attribute names pillarID.
// This is the narrow legacy index; GetEntitiesByPillar covers every type.
func (gs *GraphStorage) FindByPillar(pillarID string) []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	set, ok := gs.nodesByPillar[pillarID]
	if !ok {
		return []*Node{}
	}
	return gs.nodesFor(set.ids)
}

// FindRelated returns the existing neighbours of id. An empty relType
// matches every edge. Forward neighbours come before reverse ones and a
// node reachable by several edges appears once per edge.
func (gs *GraphStorage) FindRelated(id string, relType RelationshipType, direction Direction) []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	result := make([]*Node, 0)

	if direction == DirectionForward || direction == DirectionBoth {
		for _, edge := range gs.outgoingEdges[id] {
			if relType != "" && edge.Type != relType {
				continue
			}
			if node, ok := gs.nodes[edge.To]; ok {
				result = append(result, node)
			}
		}
	}

	if direction == DirectionReverse || direction == DirectionBoth {
		for _, edge := range gs.incomingEdges[id] {
			if relType != "" && edge.Type != relType {
				continue
			}
			if node, ok := gs.nodes[edge.From]; ok {
				result = append(result, node)
			}
		}
	}

	return result
}

// SortByOrderThenName sorts nodes in place by their display order, then by
// name. Nodes without an order sort after those with one.
func SortByOrderThenName(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Common(), nodes[j].Common()
		if a.Order != b.Order {
			if a.Order == 0 {
				return false
			}
			if b.Order == 0 {
				return true
			}
			return a.Order < b.Order
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
