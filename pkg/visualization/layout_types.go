package visualization

import (
	"github.com/dd0wney/capability-graph/pkg/query"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges
}

// Layout positions the nodes of a related-entities subgraph by id
type Layout interface {
	ComputeLayout(sub query.RelatedEntities) (map[string]Position, error)
}

// Visualization represents a subgraph with a computed layout
type Visualization struct {
	Nodes     []VizNode           `json:"nodes"`
	Edges     []query.RelatedEdge `json:"edges"`
	Positions map[string]Position `json:"-"`
}

// VizNode is the display projection of an entity
type VizNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Pillars  []string `json:"pillars,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}
