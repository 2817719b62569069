package visualization

import (
	"github.com/dd0wney/capability-graph/pkg/query"
)

// HierarchicalLayout arranges nodes in levels following edge direction
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout places roots (nodes with no incoming edge inside the
// subgraph) on the top level and their descendants below, breadth first.
// Edges whose endpoints are outside the subgraph are ignored.
func (hl *HierarchicalLayout) ComputeLayout(sub query.RelatedEntities) (map[string]Position, error) {
	positions := make(map[string]Position, len(sub.Nodes))

	if len(sub.Nodes) == 0 {
		return positions, nil
	}

	inSubgraph := make(map[string]bool, len(sub.Nodes))
	for _, node := range sub.Nodes {
		inSubgraph[node.ID] = true
	}

	outgoing := make(map[string][]string)
	hasIncoming := make(map[string]bool)
	for _, edge := range sub.Edges {
		if !inSubgraph[edge.From] || !inSubgraph[edge.To] || edge.From == edge.To {
			continue
		}
		outgoing[edge.From] = append(outgoing[edge.From], edge.To)
		hasIncoming[edge.To] = true
	}

	roots := make([]string, 0)
	for _, node := range sub.Nodes {
		if !hasIncoming[node.ID] {
			roots = append(roots, node.ID)
		}
	}
	if len(roots) == 0 {
		// Every node sits on a cycle
		roots = []string{sub.Nodes[0].ID}
	}

	levels := make([][]string, 0)
	visited := make(map[string]bool, len(sub.Nodes))
	for _, id := range roots {
		visited[id] = true
	}
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]string, 0)

		for _, id := range currentLevel {
			for _, to := range outgoing[id] {
				if !visited[to] {
					visited[to] = true
					nextLevel = append(nextLevel, to)
				}
			}
		}

		currentLevel = nextLevel
	}

	// Nodes only reachable through a cycle that excludes every root
	for _, node := range sub.Nodes {
		if !visited[node.ID] {
			levels[len(levels)-1] = append(levels[len(levels)-1], node.ID)
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, id := range level {
			positions[id] = Position{
				X: hl.config.Padding + spacing*float64(nodeIdx+1),
				Y: y,
			}
		}
	}

	return positions, nil
}
