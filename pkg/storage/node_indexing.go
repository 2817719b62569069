package storage

// indexNode adds node to the type, name, pillar and category indexes.
// Caller must hold gs.mu.
func (gs *GraphStorage) indexNode(node *Node) {
	set, ok := gs.nodesByType[node.Type]
	if !ok {
		set = newIDSet()
		gs.nodesByType[node.Type] = set
	}
	set.add(node.ID)

	common := node.Common()
	if common.Name != "" {
		gs.nodeByName[normalizeName(common.Name)] = node.ID
	}

	if pillarID := legacyPillarID(node); pillarID != "" {
		addToIndex(gs.nodesByPillar, pillarID, node.ID)
	}

	if common.Category != "" {
		addToIndex(gs.nodesByCategory, common.Category, node.ID)
	}
}

// unindexNode removes node from every index. The name entry is only dropped
// when it still points at this node, since another node may have claimed
// the same name later. Caller must hold gs.mu.
func (gs *GraphStorage) unindexNode(node *Node) {
	if set, ok := gs.nodesByType[node.Type]; ok {
		set.remove(node.ID)
	}

	common := node.Common()
	if common.Name != "" {
		key := normalizeName(common.Name)
		if gs.nodeByName[key] == node.ID {
			delete(gs.nodeByName, key)
		}
	}

	if pillarID := legacyPillarID(node); pillarID != "" {
		removeFromIndex(gs.nodesByPillar, pillarID, node.ID)
	}

	if common.Category != "" {
		removeFromIndex(gs.nodesByCategory, common.Category, node.ID)
	}
}

// legacyPillarID is the pillarId attribute of a CoE, used by the narrow
// pillar index
func legacyPillarID(node *Node) string {
	if node.Type != TypeCoE {
		return ""
	}
	if coe, ok := node.Data.(*CoEData); ok {
		return coe.PillarID
	}
	return ""
}

func addToIndex(index map[string]*idSet, key, id string) {
	set, ok := index[key]
	if !ok {
		set = newIDSet()
		index[key] = set
	}
	set.add(id)
}

func removeFromIndex(index map[string]*idSet, key, id string) {
	set, ok := index[key]
	if !ok {
		return
	}
	set.remove(id)
	if set.len() == 0 {
		delete(index, key)
	}
}
