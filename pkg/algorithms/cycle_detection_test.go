package algorithms

import (
	"testing"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

func TestDetectCycles(t *testing.T) {
	gs := storage.NewGraphStorage()
	for _, id := range []string{"a", "b", "c", "d"} {
		addNode(gs, id, storage.TypeComponent, id)
	}
	gs.Connect("a", "b", storage.RelDependsOn)
	gs.Connect("b", "c", storage.RelDependsOn)
	gs.Connect("c", "a", storage.RelDependsOn)
	gs.Connect("d", "d", storage.RelRequires)
	gs.Connect("c", "ghost", storage.RelDependsOn)

	cycles := DetectCycles(gs, CycleDetectionOptions{})
	if len(cycles) != 2 {
		t.Fatalf("cycles = %v, want 2", cycles)
	}
	if got := cycles[0]; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("first cycle = %v, want [a b c]", got)
	}
	if got := cycles[1]; len(got) != 1 || got[0] != "d" {
		t.Errorf("second cycle = %v, want [d]", got)
	}

	onlyDeps := DetectCycles(gs, CycleDetectionOptions{EdgeTypes: []storage.RelationshipType{storage.RelDependsOn}})
	if len(onlyDeps) != 1 {
		t.Errorf("DEPENDS_ON cycles = %v, want 1", onlyDeps)
	}

	short := DetectCycles(gs, CycleDetectionOptions{MaxCycleLength: 2})
	if len(short) != 1 || short[0][0] != "d" {
		t.Errorf("short cycles = %v", short)
	}
}

func TestHasCycle(t *testing.T) {
	gs := chainGraph(t)
	if HasCycle(gs) {
		t.Error("chain graph is acyclic")
	}
	gs.Connect("d", "a", storage.RelRelatedTo)
	if !HasCycle(gs) {
		t.Error("d -> a closes a cycle")
	}
	if HasCycle(gs, storage.RelUses) {
		t.Error("no cycle over USES alone")
	}
}
