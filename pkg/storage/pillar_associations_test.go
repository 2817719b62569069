package storage

import (
	"testing"
)

func TestPillarAssociations(t *testing.T) {
	gs := buildCatalog(t)
	gs.AddNode(newTestNode("pillar_cloud", TypePillar, "Cloud"))

	gs.SetPillarAssociations([]PillarAssociation{
		{EntityID: "pillar_data", Pillars: []string{"pillar_data"}},
		{EntityID: "coe_analytics", Pillars: []string{"pillar_data"}},
		{EntityID: "tech_spark", Pillars: []string{"pillar_data", "pillar_cloud"}},
		{EntityID: "platform_lake", Pillars: []string{"pillar_data"}},
		{EntityID: "ghost", Pillars: []string{"pillar_data"}},
	})

	pillars, ok := gs.GetPillarAssociation("tech_spark")
	if !ok || len(pillars) != 2 {
		t.Fatalf("tech_spark pillars = %v", pillars)
	}
	pillars[0] = "mutated"
	if again, _ := gs.GetPillarAssociation("tech_spark"); again[0] != "pillar_data" {
		t.Error("returned slice must be a copy")
	}

	if !gs.IsMultiPillar("tech_spark") || gs.IsMultiPillar("platform_lake") || gs.IsMultiPillar("unknown") {
		t.Error("IsMultiPillar mismatch")
	}

	assertIDs(t, gs.GetEntitiesByPillar("pillar_data"), "pillar_data", "coe_analytics", "tech_spark", "platform_lake")
	assertIDs(t, gs.GetEntitiesByPillar("pillar_cloud"), "tech_spark")

	all := gs.GetAllPillarAssociations()
	if len(all) != 5 || all[4].EntityID != "ghost" {
		t.Errorf("all associations = %+v", all)
	}

	gs.SetPillarAssociation("platform_lake", []string{"pillar_cloud"})
	assertIDs(t, gs.GetEntitiesByPillar("pillar_cloud"), "tech_spark", "platform_lake")
}

func TestGetPillarSummaries(t *testing.T) {
	gs := buildCatalog(t)
	gs.AddNode(newTestNode("pillar_cloud", TypePillar, "Cloud"))
	gs.SetPillarAssociations([]PillarAssociation{
		{EntityID: "pillar_data", Pillars: []string{"pillar_data"}},
		{EntityID: "coe_analytics", Pillars: []string{"pillar_data"}},
		{EntityID: "tech_spark", Pillars: []string{"pillar_data", "pillar_cloud"}},
		{EntityID: "platform_lake", Pillars: []string{"pillar_data"}},
	})

	summaries := gs.GetPillarSummaries()
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	data := summaries[0]
	if data.Pillar.ID != "pillar_data" {
		t.Fatalf("first summary = %s", data.Pillar.ID)
	}
	if data.Counts["coe"] != 1 || data.Counts["technology"] != 1 || data.Counts["platform"] != 1 {
		t.Errorf("data counts = %v", data.Counts)
	}
	if data.Total != 3 {
		t.Errorf("data total = %d, want 3", data.Total)
	}
	if _, ok := data.Counts["pillar"]; ok {
		t.Error("pillars do not count themselves")
	}

	cloud := summaries[1]
	if cloud.Total != 1 || cloud.Counts["technology"] != 1 {
		t.Errorf("cloud summary = %+v", cloud)
	}
}
