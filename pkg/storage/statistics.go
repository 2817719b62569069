package storage

// GetStatistics returns node counts by type, the total edge count and the
// average number of outgoing edges per node
func (gs *GraphStorage) GetStatistics() GraphStatistics {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	byType := make(map[string]int, len(gs.nodesByType))
	for t, ids := range gs.nodesByType {
		byType[string(t)] = ids.len()
	}

	stats := GraphStatistics{
		TotalNodes:  len(gs.nodes),
		NodesByType: byType,
		TotalEdges:  gs.edgeCount,
	}
	if stats.TotalNodes > 0 {
		stats.AvgConnections = float64(gs.edgeCount) / float64(stats.TotalNodes)
	}
	return stats
}
