package storage

import (
	"testing"
)

// newTestNode builds a node with the given common attributes
func newTestNode(id string, t EntityType, name string) *Node {
	data := NewEntityData(t)
	data.Base().Name = name
	return &Node{ID: id, Type: t, Data: data}
}

func mustAdd(gs *GraphStorage, nodes ...*Node) {
	for _, n := range nodes {
		gs.AddNode(n)
	}
}

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []*Node, want ...string) {
	t.Helper()
	ids := nodeIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got ids %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got ids %v, want %v", ids, want)
		}
	}
}

func containsEdge(edges []*Edge, e *Edge) bool {
	for _, x := range edges {
		if x == e {
			return true
		}
	}
	return false
}

// buildCatalog returns a small catalog:
//
//	pillar_data <-BELONGS_TO- coe_analytics -USES-> tech_spark
//	                          coe_analytics -USES-> platform_lake -IMPLEMENTS-> tech_spark
func buildCatalog(t *testing.T) *GraphStorage {
	t.Helper()
	gs := NewGraphStorage()

	pillar := newTestNode("pillar_data", TypePillar, "Data & AI")
	coe := &Node{ID: "coe_analytics", Type: TypeCoE, Data: &CoEData{
		Common:          Common{Name: "Analytics CoE", Description: "Insight delivery"},
		PillarID:        "pillar_data",
		KeyCompetencies: []string{"Machine Learning", "BI"},
		Technologies:    []string{"tech_spark"},
	}}
	spark := &Node{ID: "tech_spark", Type: TypeTechnology, Data: &TechnologyData{
		Common: Common{Name: "Apache Spark", Category: "framework"},
	}}
	lake := &Node{ID: "platform_lake", Type: TypePlatform, Data: &PlatformData{
		Common: Common{Name: "Lakehouse", Category: "platform"},
	}}
	mustAdd(gs, pillar, coe, spark, lake)

	gs.Connect("coe_analytics", "pillar_data", RelBelongsTo)
	gs.Connect("coe_analytics", "tech_spark", RelUses)
	gs.Connect("coe_analytics", "platform_lake", RelUses)
	gs.Connect("platform_lake", "tech_spark", RelImplements)
	return gs
}
