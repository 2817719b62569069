package visualization

import (
	"math"

	"github.com/dd0wney/capability-graph/pkg/query"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle, starting at angle zero in
// subgraph order. A lone node sits at the centre.
func (cl *CircularLayout) ComputeLayout(sub query.RelatedEntities) (map[string]Position, error) {
	positions := make(map[string]Position, len(sub.Nodes))

	if len(sub.Nodes) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(sub.Nodes) == 1 {
		positions[sub.Nodes[0].ID] = Position{X: centerX, Y: centerY}
		return positions, nil
	}

	radius := math.Min(centerX, centerY) - cl.config.Padding
	angleStep := 2 * math.Pi / float64(len(sub.Nodes))

	for i, node := range sub.Nodes {
		angle := float64(i) * angleStep
		positions[node.ID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
