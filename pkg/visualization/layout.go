package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/capability-graph/pkg/query"
)

// Layout names accepted by NewLayout
const (
	LayoutCircular     = "circular"
	LayoutHierarchical = "hierarchical"
)

// DefaultConfig is the canvas used when none is given
func DefaultConfig() *LayoutConfig {
	return &LayoutConfig{Width: 800, Height: 600, Padding: 50}
}

// NewLayout returns the layout registered under name
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch name {
	case LayoutCircular, "":
		return NewCircularLayout(config), nil
	case LayoutHierarchical:
		return NewHierarchicalLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

// PillarLookup resolves the derived pillar association of an entity
type PillarLookup func(id string) ([]string, bool)

// Build lays out sub and projects its nodes for display. pillars may be nil.
func Build(sub query.RelatedEntities, layout Layout, pillars PillarLookup) (*Visualization, error) {
	positions, err := layout.ComputeLayout(sub)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}

	viz := &Visualization{
		Nodes:     make([]VizNode, 0, len(sub.Nodes)),
		Edges:     make([]query.RelatedEdge, 0, len(sub.Edges)),
		Positions: positions,
	}
	for _, node := range sub.Nodes {
		pos := positions[node.ID]
		vn := VizNode{
			ID:       node.ID,
			Type:     string(node.Type),
			Name:     node.Name(),
			Category: node.Common().Category,
			X:        pos.X,
			Y:        pos.Y,
		}
		if pillars != nil {
			vn.Pillars, _ = pillars(node.ID)
		}
		viz.Nodes = append(viz.Nodes, vn)
	}
	viz.Edges = append(viz.Edges, sub.Edges...)

	return viz, nil
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	return json.Marshal(v)
}
