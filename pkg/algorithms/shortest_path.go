package algorithms

import (
	"container/heap"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

// ShortestPath finds a path with the fewest edges from startID to endID
// using bidirectional BFS. The backward search follows reverse edges so the
// result respects edge direction. Dangling edges are ignored.
func ShortestPath(graph *storage.GraphStorage, startID, endID string) ([]string, bool) {
	if !graph.HasNode(startID) || !graph.HasNode(endID) {
		return nil, false
	}
	if startID == endID {
		return []string{startID}, true
	}

	forwardQueue := []string{startID}
	forwardVisited := map[string]string{startID: startID} // node -> parent

	backwardQueue := []string{endID}
	backwardVisited := map[string]string{endID: endID} // node -> child

	forward := func(id string) []string {
		var out []string
		for _, e := range graph.GetEdges(id) {
			out = append(out, e.To)
		}
		return out
	}
	backward := func(id string) []string {
		var out []string
		for _, e := range graph.GetReverseEdges(id) {
			out = append(out, e.From)
		}
		return out
	}

	for len(forwardQueue) > 0 && len(backwardQueue) > 0 {
		var meeting string
		var met bool

		forwardQueue, meeting, met = expandFrontier(graph, forwardQueue, forwardVisited, backwardVisited, forward)
		if met {
			return reconstructPath(meeting, forwardVisited, backwardVisited), true
		}

		backwardQueue, meeting, met = expandFrontier(graph, backwardQueue, backwardVisited, forwardVisited, backward)
		if met {
			return reconstructPath(meeting, forwardVisited, backwardVisited), true
		}
	}

	return nil, false
}

// expandFrontier expands one BFS level and reports the node where the two
// searches meet, if any
func expandFrontier(
	graph *storage.GraphStorage,
	queue []string,
	visited map[string]string,
	otherVisited map[string]string,
	neighbours func(string) []string,
) ([]string, string, bool) {
	var next []string
	for _, current := range queue {
		for _, neighbour := range neighbours(current) {
			if !graph.HasNode(neighbour) {
				continue
			}
			if _, found := otherVisited[neighbour]; found {
				if _, seen := visited[neighbour]; !seen {
					visited[neighbour] = current
				}
				return nil, neighbour, true
			}
			if _, seen := visited[neighbour]; !seen {
				visited[neighbour] = current
				next = append(next, neighbour)
			}
		}
	}
	return next, "", false
}

// reconstructPath joins start -> meeting and meeting -> end
func reconstructPath(meeting string, forwardVisited, backwardVisited map[string]string) []string {
	var path []string
	node := meeting
	for node != forwardVisited[node] {
		path = append(path, node)
		node = forwardVisited[node]
	}
	path = append(path, node)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	node = meeting
	for node != backwardVisited[node] {
		node = backwardVisited[node]
		path = append(path, node)
	}
	return path
}

// WeightedShortestPath finds the cheapest path by summed edge weight using
// Dijkstra's algorithm. Edges without a positive weight cost 1.
func WeightedShortestPath(graph *storage.GraphStorage, startID, endID string) ([]string, float64, bool) {
	if !graph.HasNode(startID) || !graph.HasNode(endID) {
		return nil, 0, false
	}

	distances := map[string]float64{startID: 0}
	parent := map[string]string{startID: startID}
	done := make(map[string]bool)

	pq := &distanceQueue{}
	heap.Push(pq, distanceItem{id: startID, distance: 0})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(distanceItem)
		if done[current.id] {
			continue
		}
		done[current.id] = true

		if current.id == endID {
			path := []string{endID}
			for node := endID; node != startID; {
				node = parent[node]
				path = append(path, node)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, current.distance, true
		}

		for _, edge := range graph.GetEdges(current.id) {
			if !graph.HasNode(edge.To) {
				continue
			}
			weight := edge.Weight
			if weight <= 0 {
				weight = 1
			}
			newDist := current.distance + weight
			if old, seen := distances[edge.To]; !seen || newDist < old {
				distances[edge.To] = newDist
				parent[edge.To] = current.id
				heap.Push(pq, distanceItem{id: edge.To, distance: newDist})
			}
		}
	}

	return nil, 0, false
}

type distanceItem struct {
	id       string
	distance float64
}

// distanceQueue is a min-heap of distanceItems
type distanceQueue []distanceItem

func (q distanceQueue) Len() int           { return len(q) }
func (q distanceQueue) Less(i, j int) bool { return q[i].distance < q[j].distance }
func (q distanceQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x any)        { *q = append(*q, x.(distanceItem)) }
func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
