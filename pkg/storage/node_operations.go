package storage

import (
	"encoding/json"
	"time"
)

// AddNode inserts node, or replaces the node with the same id. A replaced
// node is dropped from every index before the new version is indexed; its
// edges are left in place. Zero timestamps are filled in.
func (gs *GraphStorage) AddNode(node *Node) {
	if node == nil {
		return
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	now := time.Now()
	if node.Metadata.CreatedAt.IsZero() {
		node.Metadata.CreatedAt = now
	}
	if node.Metadata.UpdatedAt.IsZero() {
		node.Metadata.UpdatedAt = now
	}

	if existing, ok := gs.nodes[node.ID]; ok {
		gs.unindexNode(existing)
	}

	gs.nodes[node.ID] = node
	gs.allNodes.add(node.ID)
	gs.indexNode(node)

	gs.recordMutation("add_node")
}

// GetNode retrieves a node by id. The returned node is shared with the
// graph and must not be modified.
func (gs *GraphStorage) GetNode(id string) (*Node, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	node, ok := gs.nodes[id]
	return node, ok
}

// GetNodeByName finds a node by case-insensitive exact name
func (gs *GraphStorage) GetNodeByName(name string) (*Node, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	id, ok := gs.nodeByName[normalizeName(name)]
	if !ok {
		return nil, false
	}
	node, ok := gs.nodes[id]
	return node, ok
}

// HasNode reports whether a node with id exists
func (gs *GraphStorage) HasNode(id string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	_, ok := gs.nodes[id]
	return ok
}

// UpdateNode shallow-merges patch into the node's data and bumps UpdatedAt.
// Patch keys use the JSON attribute names of the entity variant. The node
// is replaced rather than mutated, so previously returned pointers keep
// their old contents.
func (gs *GraphStorage) UpdateNode(id string, patch map[string]any) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, ok := gs.nodes[id]
	if !ok {
		return NodeNotFoundError("UpdateNode", id)
	}

	data, err := mergeEntityData(node.Type, node.Data, patch)
	if err != nil {
		return NewError("UpdateNode").Node(id).Cause(err).Err()
	}

	updated := *node
	updated.Data = data
	updated.Metadata.UpdatedAt = time.Now()

	if gs.reindexOnUpdate {
		gs.unindexNode(node)
		gs.nodes[id] = &updated
		gs.indexNode(&updated)
	} else {
		gs.nodes[id] = &updated
	}

	gs.recordMutation("update_node")
	return nil
}

// mergeEntityData overlays patch on the JSON form of data and decodes the
// result back into the variant for t
func mergeEntityData(t EntityType, data EntityData, patch map[string]any) (EntityData, error) {
	merged := make(map[string]any)
	if data != nil {
		current, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(current, &merged); err != nil {
			return nil, err
		}
	}

	for k, v := range patch {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return DecodeEntityData(t, raw)
}

// DeleteNode removes the node, its index entries, its pillar association
// and every edge that starts or ends at it. It reports whether a node was
// removed.
func (gs *GraphStorage) DeleteNode(id string) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	node, ok := gs.nodes[id]
	if !ok {
		return false
	}

	gs.unindexNode(node)
	delete(gs.nodes, id)
	gs.allNodes.remove(id)

	// Outgoing edges disappear from their targets' reverse lists
	for _, edge := range gs.outgoingEdges[id] {
		gs.incomingEdges[edge.To] = removeEdge(gs.incomingEdges[edge.To], edge)
		if len(gs.incomingEdges[edge.To]) == 0 {
			delete(gs.incomingEdges, edge.To)
		}
		gs.edgeCount--
	}
	delete(gs.outgoingEdges, id)

	// Incoming edges disappear from their sources' forward lists
	for _, edge := range gs.incomingEdges[id] {
		gs.outgoingEdges[edge.From] = removeEdge(gs.outgoingEdges[edge.From], edge)
		if len(gs.outgoingEdges[edge.From]) == 0 {
			delete(gs.outgoingEdges, edge.From)
		}
		gs.edgeCount--
	}
	delete(gs.incomingEdges, id)

	gs.pillarAssociations.remove(id)

	gs.recordMutation("delete_node")
	return true
}

// AllNodes returns every node in insertion order
func (gs *GraphStorage) AllNodes() []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.nodesFor(gs.allNodes.ids)
}

// NodeCount returns the number of nodes
func (gs *GraphStorage) NodeCount() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.nodes)
}
