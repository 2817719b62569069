package storage

// traversalFrame is one pending visit on the explicit DFS stack
type traversalFrame struct {
	id    string
	depth int
}

// Traverse walks outgoing edges depth-first from start. A depth of n
// collects nodes up to n-1 hops away; each collected node contributes all
// of its outgoing edges, dangling ones included. Every node is visited at
// most once and the order matches a recursive pre-order walk.
func (gs *GraphStorage) Traverse(start string, depth int) Traversal {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	result := Traversal{Nodes: []*Node{}, Edges: []*Edge{}}
	visited := make(map[string]bool)
	stack := []traversalFrame{{id: start, depth: depth}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.depth <= 0 || visited[frame.id] {
			continue
		}
		visited[frame.id] = true

		node, ok := gs.nodes[frame.id]
		if !ok {
			continue
		}
		result.Nodes = append(result.Nodes, node)

		edges := gs.outgoingEdges[frame.id]
		result.Edges = append(result.Edges, edges...)

		// Push in reverse so the first edge is explored first
		for i := len(edges) - 1; i >= 0; i-- {
			stack = append(stack, traversalFrame{id: edges[i].To, depth: frame.depth - 1})
		}
	}

	return result
}

// pathFrame is one pending step of the path search. next is the index of
// the next outgoing edge of id to try.
type pathFrame struct {
	id   string
	next int
}

// GetPath searches depth-first for a directed path from -> to using at most
// maxDepth edges. It returns the first path found, which need not be the
// shortest. Both endpoints and every intermediate node must exist.
func (gs *GraphStorage) GetPath(from, to string, maxDepth int) ([]*Node, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	start, ok := gs.nodes[from]
	if !ok {
		return nil, false
	}
	if from == to {
		return []*Node{start}, true
	}
	if maxDepth <= 0 {
		return nil, false
	}
	if _, ok := gs.nodes[to]; !ok {
		return nil, false
	}

	// best records the most hops left with which a node has been expanded;
	// arriving again with no more budget cannot find anything new.
	best := map[string]int{from: maxDepth}
	stack := []pathFrame{{id: from}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		remaining := maxDepth - (len(stack) - 1)
		edges := gs.outgoingEdges[top.id]

		if remaining <= 0 || top.next >= len(edges) {
			stack = stack[:len(stack)-1]
			continue
		}

		edge := edges[top.next]
		top.next++

		if edge.To == to {
			path := make([]*Node, 0, len(stack)+1)
			for _, f := range stack {
				path = append(path, gs.nodes[f.id])
			}
			return append(path, gs.nodes[to]), true
		}

		if _, exists := gs.nodes[edge.To]; !exists || onStack(stack, edge.To) {
			continue
		}
		left := remaining - 1
		if prev, seen := best[edge.To]; seen && prev >= left {
			continue
		}
		best[edge.To] = left
		stack = append(stack, pathFrame{id: edge.To})
	}

	return nil, false
}

func onStack(stack []pathFrame, id string) bool {
	for _, f := range stack {
		if f.id == id {
			return true
		}
	}
	return false
}
