package algorithms

import (
	"strings"
	"testing"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

func chainGraph(t *testing.T) *storage.GraphStorage {
	t.Helper()
	gs := storage.NewGraphStorage()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		addNode(gs, id, storage.TypeTechnology, id)
	}
	// a -> b -> c -> d, plus a -> e -> d
	gs.Connect("a", "b", storage.RelUses)
	gs.Connect("b", "c", storage.RelUses)
	gs.Connect("c", "d", storage.RelUses)
	gs.Connect("a", "e", storage.RelUses)
	gs.Connect("e", "d", storage.RelUses)
	return gs
}

func TestShortestPath(t *testing.T) {
	gs := chainGraph(t)

	tests := []struct {
		name     string
		from, to string
		want     string
		found    bool
	}{
		{"shortcut wins", "a", "d", "a,e,d", true},
		{"one hop", "a", "b", "a,b", true},
		{"same node", "c", "c", "c", true},
		{"direction matters", "d", "a", "", false},
		{"missing node", "a", "zz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := ShortestPath(gs, tt.from, tt.to)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if got := strings.Join(path, ","); got != tt.want {
				t.Errorf("path = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWeightedShortestPath(t *testing.T) {
	gs := storage.NewGraphStorage()
	for _, id := range []string{"a", "b", "c"} {
		addNode(gs, id, storage.TypeTechnology, id)
	}
	gs.AddEdge(&storage.Edge{From: "a", To: "c", Type: storage.RelUses, Weight: 10})
	gs.AddEdge(&storage.Edge{From: "a", To: "b", Type: storage.RelUses, Weight: 2})
	gs.AddEdge(&storage.Edge{From: "b", To: "c", Type: storage.RelUses, Weight: 3})

	path, cost, ok := WeightedShortestPath(gs, "a", "c")
	if !ok {
		t.Fatal("expected a path")
	}
	if strings.Join(path, ",") != "a,b,c" || cost != 5 {
		t.Errorf("path = %v cost = %v, want a,b,c cost 5", path, cost)
	}

	if _, _, ok := WeightedShortestPath(gs, "c", "a"); ok {
		t.Error("no path against edge direction")
	}
}
