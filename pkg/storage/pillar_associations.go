package storage

// associationTable is the derived entity -> pillars side table. It keeps
// insertion order so pillar listings are deterministic.
type associationTable struct {
	order   *idSet
	pillars map[string][]string
}

func newAssociationTable() *associationTable {
	return &associationTable{order: newIDSet(), pillars: make(map[string][]string)}
}

func (t *associationTable) set(id string, pillars []string) {
	t.order.add(id)
	t.pillars[id] = append([]string(nil), pillars...)
}

func (t *associationTable) remove(id string) {
	t.order.remove(id)
	delete(t.pillars, id)
}

// PillarAssociation is one entry of the side table
type PillarAssociation struct {
	EntityID string   `json:"entityId"`
	Pillars  []string `json:"pillars"`
}

// PillarSummary counts the entities under one pillar by type. CoEs are
// counted through their direct BELONGS_TO edge, everything else through the
// association table.
type PillarSummary struct {
	Pillar *Node          `json:"pillar"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// SetPillarAssociations replaces the whole side table. Entries are stored in
// the order given.
func (gs *GraphStorage) SetPillarAssociations(associations []PillarAssociation) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.pillarAssociations = newAssociationTable()
	for _, a := range associations {
		gs.pillarAssociations.set(a.EntityID, a.Pillars)
	}
	if gs.metricsRegistry != nil {
		gs.metricsRegistry.PillarAssociationsTotal.Set(float64(len(associations)))
	}
}

// SetPillarAssociation sets the pillars for a single entity
func (gs *GraphStorage) SetPillarAssociation(entityID string, pillars []string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.pillarAssociations.set(entityID, pillars)
}

// GetPillarAssociation returns the pillars derived for entityID
func (gs *GraphStorage) GetPillarAssociation(entityID string) ([]string, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	pillars, ok := gs.pillarAssociations.pillars[entityID]
	if !ok {
		return nil, false
	}
	return append([]string(nil), pillars...), true
}

// GetAllPillarAssociations returns a copy of the side table in insertion order
func (gs *GraphStorage) GetAllPillarAssociations() []PillarAssociation {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.allAssociationsLocked()
}

func (gs *GraphStorage) allAssociationsLocked() []PillarAssociation {
	result := make([]PillarAssociation, 0, gs.pillarAssociations.order.len())
	for _, id := range gs.pillarAssociations.order.ids {
		result = append(result, PillarAssociation{
			EntityID: id,
			Pillars:  append([]string(nil), gs.pillarAssociations.pillars[id]...),
		})
	}
	return result
}

// IsMultiPillar reports whether entityID is associated with more than one pillar
func (gs *GraphStorage) IsMultiPillar(entityID string) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.pillarAssociations.pillars[entityID]) > 1
}

// GetEntitiesByPillar returns every existing entity associated with pillarID,
// direct or derived
func (gs *GraphStorage) GetEntitiesByPillar(pillarID string) []*Node {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	result := make([]*Node, 0)
	for _, id := range gs.pillarAssociations.order.ids {
		if !containsString(gs.pillarAssociations.pillars[id], pillarID) {
			continue
		}
		if node, ok := gs.nodes[id]; ok {
			result = append(result, node)
		}
	}
	return result
}

// GetPillarSummaries returns one summary per pillar node in insertion order
func (gs *GraphStorage) GetPillarSummaries() []PillarSummary {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var pillarIDs []string
	if set, ok := gs.nodesByType[TypePillar]; ok {
		pillarIDs = set.ids
	}

	summaries := make([]PillarSummary, 0, len(pillarIDs))
	byID := make(map[string]*PillarSummary, len(pillarIDs))
	for _, node := range gs.nodesFor(pillarIDs) {
		summaries = append(summaries, PillarSummary{Pillar: node, Counts: make(map[string]int)})
	}
	for i := range summaries {
		byID[summaries[i].Pillar.ID] = &summaries[i]
	}

	if set, ok := gs.nodesByType[TypeCoE]; ok {
		for _, coeID := range set.ids {
			for _, edge := range gs.outgoingEdges[coeID] {
				if edge.Type != RelBelongsTo {
					continue
				}
				if s, ok := byID[edge.To]; ok {
					s.Counts[string(TypeCoE)]++
					s.Total++
				}
				break
			}
		}
	}

	for _, id := range gs.pillarAssociations.order.ids {
		node, ok := gs.nodes[id]
		if !ok || node.Type == TypeCoE || node.Type == TypePillar {
			continue
		}
		for _, pillarID := range gs.pillarAssociations.pillars[id] {
			if s, ok := byID[pillarID]; ok {
				s.Counts[string(node.Type)]++
				s.Total++
			}
		}
	}

	return summaries
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
