package storage

import (
	"testing"
)

func TestTraverse(t *testing.T) {
	gs := buildCatalog(t)

	tests := []struct {
		name      string
		start     string
		depth     int
		wantNodes []string
		wantEdges int
	}{
		{"depth zero", "coe_analytics", 0, nil, 0},
		{"depth one is the start node", "coe_analytics", 1, []string{"coe_analytics"}, 3},
		{"depth two", "coe_analytics", 2, []string{"coe_analytics", "pillar_data", "tech_spark", "platform_lake"}, 4},
		{"missing start", "nope", 3, nil, 0},
		{"leaf", "tech_spark", 5, []string{"tech_spark"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := gs.Traverse(tt.start, tt.depth)
			assertIDs(t, tr.Nodes, tt.wantNodes...)
			if len(tr.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(tr.Edges), tt.wantEdges)
			}
		})
	}
}

func TestTraverse_PreOrder(t *testing.T) {
	gs := NewGraphStorage()
	for _, id := range []string{"a", "b", "c", "d"} {
		gs.AddNode(newTestNode(id, TypeTechnology, id))
	}
	gs.Connect("a", "b", RelUses)
	gs.Connect("a", "d", RelUses)
	gs.Connect("b", "c", RelUses)

	assertIDs(t, gs.Traverse("a", 5).Nodes, "a", "b", "c", "d")
}

func TestTraverse_Cycle(t *testing.T) {
	gs := NewGraphStorage()
	for _, id := range []string{"a", "b", "c"} {
		gs.AddNode(newTestNode(id, TypeTechnology, id))
	}
	gs.Connect("a", "b", RelRelatedTo)
	gs.Connect("b", "c", RelRelatedTo)
	gs.Connect("c", "a", RelRelatedTo)

	tr := gs.Traverse("a", 100)
	assertIDs(t, tr.Nodes, "a", "b", "c")
	if len(tr.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(tr.Edges))
	}
}

func TestGetPath(t *testing.T) {
	gs := NewGraphStorage()
	for _, id := range []string{"a", "b", "c", "z"} {
		gs.AddNode(newTestNode(id, TypeTechnology, id))
	}
	gs.Connect("a", "b", RelUses)
	gs.Connect("b", "c", RelUses)
	gs.Connect("c", "a", RelUses)
	gs.Connect("b", "ghost", RelUses)

	tests := []struct {
		name     string
		from, to string
		maxDepth int
		want     []string
		found    bool
	}{
		{"two hops", "a", "c", 5, []string{"a", "b", "c"}, true},
		{"exact budget", "a", "c", 2, []string{"a", "b", "c"}, true},
		{"budget too small", "a", "c", 1, nil, false},
		{"unreachable", "a", "z", 5, nil, false},
		{"same node", "a", "a", 0, []string{"a"}, true},
		{"missing target", "a", "ghost", 5, nil, false},
		{"missing source", "ghost", "a", 5, nil, false},
		{"around the cycle", "c", "b", 5, []string{"c", "a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := gs.GetPath(tt.from, tt.to, tt.maxDepth)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			assertIDs(t, path, tt.want...)
		})
	}
}

func TestGetPath_RevisitsWithMoreBudget(t *testing.T) {
	// a -> x -> b -> t and a -> b. The first branch reaches b with no
	// budget left; the direct edge must still be tried.
	gs := NewGraphStorage()
	for _, id := range []string{"a", "x", "b", "t"} {
		gs.AddNode(newTestNode(id, TypeTechnology, id))
	}
	gs.Connect("a", "x", RelUses)
	gs.Connect("x", "b", RelUses)
	gs.Connect("a", "b", RelUses)
	gs.Connect("b", "t", RelUses)

	path, ok := gs.GetPath("a", "t", 2)
	if !ok {
		t.Fatal("path a -> b -> t fits in two hops")
	}
	assertIDs(t, path, "a", "b", "t")
}
