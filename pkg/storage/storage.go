package storage

import (
	"strings"

	"github.com/dd0wney/capability-graph/pkg/metrics"
)

// NewGraphStorage creates an empty graph with the default configuration
func NewGraphStorage() *GraphStorage {
	return NewGraphStorageWithConfig(DefaultStorageConfig())
}

// NewGraphStorageWithConfig creates an empty graph
func NewGraphStorageWithConfig(config StorageConfig) *GraphStorage {
	return &GraphStorage{
		nodes:              make(map[string]*Node),
		allNodes:           newIDSet(),
		outgoingEdges:      make(map[string][]*Edge),
		incomingEdges:      make(map[string][]*Edge),
		nodesByType:        make(map[EntityType]*idSet),
		nodesByPillar:      make(map[string]*idSet),
		nodesByCategory:    make(map[string]*idSet),
		nodeByName:         make(map[string]string),
		pillarAssociations: newAssociationTable(),
		reindexOnUpdate:    config.ReindexOnUpdate,
		metricsRegistry:    config.Metrics,
	}
}

// SetMetricsRegistry attaches a metrics registry after construction
func (gs *GraphStorage) SetMetricsRegistry(registry *metrics.Registry) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.metricsRegistry = registry
	gs.publishSizeLocked()
}

// recordMutation counts the operation and refreshes the size gauges.
// Caller must hold gs.mu.
func (gs *GraphStorage) recordMutation(op string) {
	if gs.metricsRegistry == nil {
		return
	}
	gs.metricsRegistry.RecordStorageOperation(op)
	gs.publishSizeLocked()
}

func (gs *GraphStorage) publishSizeLocked() {
	if gs.metricsRegistry == nil {
		return
	}
	byType := make(map[string]int, len(gs.nodesByType))
	for t, ids := range gs.nodesByType {
		if ids.len() > 0 {
			byType[string(t)] = ids.len()
		}
	}
	gs.metricsRegistry.SetGraphSize(byType, gs.edgeCount)
}

// nodesFor materializes ids into nodes, skipping ids with no node.
// Caller must hold gs.mu.
func (gs *GraphStorage) nodesFor(ids []string) []*Node {
	result := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := gs.nodes[id]; ok {
			result = append(result, node)
		}
	}
	return result
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}
