package storage

import (
	"sort"
	"strings"
)

// Search weights
const (
	scoreNameContains    = 10
	scoreNameExact       = 5
	scoreNamePrefix      = 3
	scoreDescription     = 5
	scoreTag             = 3
	scoreCompetency      = 2
	scoreTechnology      = 1
	scoreFeature         = 1
	scoreServiceName     = 1
	scoreServiceDescribe = 0.5
)

// Search returns nodes matching query, most relevant first
func (gs *GraphStorage) Search(query string) []*Node {
	scored := gs.SearchScored(query)
	result := make([]*Node, len(scored))
	for i, r := range scored {
		result[i] = r.Node
	}
	return result
}

// SearchScored ranks every node against query with a case-insensitive
// substring heuristic. Nodes scoring zero are dropped; ties keep insertion
// order. A blank query matches nothing; any other query is matched as
// given, surrounding whitespace included.
func (gs *GraphStorage) SearchScored(query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}
	}
	q := strings.ToLower(query)

	gs.mu.RLock()
	defer gs.mu.RUnlock()

	results := make([]SearchResult, 0)
	for _, id := range gs.allNodes.ids {
		node := gs.nodes[id]
		if score := scoreNode(node, q); score > 0 {
			results = append(results, SearchResult{Node: node, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreNode computes the relevance of node for the lowercased query q
func scoreNode(node *Node, q string) float64 {
	var score float64
	common := node.Common()

	name := strings.ToLower(common.Name)
	if strings.Contains(name, q) {
		score += scoreNameContains
		if name == q {
			score += scoreNameExact
		}
		if strings.HasPrefix(name, q) {
			score += scoreNamePrefix
		}
	}

	if strings.Contains(strings.ToLower(common.Description), q) {
		score += scoreDescription
	}

	if anyContains(node.Metadata.Tags, q) {
		score += scoreTag
	}

	switch d := node.Data.(type) {
	case *CoEData:
		if anyContains(d.KeyCompetencies, q) {
			score += scoreCompetency
		}
		score += scoreTechnology * float64(countContains(d.Technologies, q))
		for _, svc := range d.Services {
			if containsFold(svc.Name, q) {
				score += scoreServiceName
			}
			if containsFold(svc.Description, q) {
				score += scoreServiceDescribe
			}
		}
	case *PlatformData:
		score += scoreFeature * float64(countFeatures(d.KeyFeatures, q))
	case *AcceleratorData:
		score += scoreFeature * float64(countFeatures(d.KeyFeatures, q))
	}

	if af := assetFields(node.Data); af != nil {
		score += scoreTechnology * float64(countContains(af.Technologies, q))
	}

	return score
}

func containsFold(s, q string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), q)
}

func anyContains(values []string, q string) bool {
	for _, v := range values {
		if containsFold(v, q) {
			return true
		}
	}
	return false
}

func countContains(values []string, q string) int {
	n := 0
	for _, v := range values {
		if containsFold(v, q) {
			n++
		}
	}
	return n
}

func countFeatures(features []Feature, q string) int {
	n := 0
	for _, f := range features {
		if containsFold(f.Name, q) {
			n++
		}
	}
	return n
}
