package query

import (
	"testing"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

func ids(nodes []*storage.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func add(gs *storage.GraphStorage, id string, data storage.EntityData) {
	gs.AddNode(&storage.Node{ID: id, Type: data.EntityType(), Data: data})
}

// buildCatalog returns a catalog with two pillars and one industry:
//
//	coe_data   -BELONGS_TO-> pillar_data
//	coe_cloud  -BELONGS_TO-> pillar_cloud (pillarId field only for coe_data)
//	coe_data   -USES-> platform_lake, tech_spark
//	coe_cloud  -USES-> accel_migrate
//	coe_data, platform_lake, accel_migrate, cs_bank, cs_old -TARGETS-> ind_finance
//	proto_genai -FEEDS_INTO-> platform_lake
func buildCatalog(t *testing.T) *storage.GraphStorage {
	t.Helper()
	gs := storage.NewGraphStorage()

	add(gs, "pillar_data", &storage.PillarData{Common: storage.Common{Name: "Data & AI"}})
	add(gs, "pillar_cloud", &storage.PillarData{Common: storage.Common{Name: "Cloud"}})
	add(gs, "coe_data", &storage.CoEData{
		Common:       storage.Common{Name: "Data Engineering CoE", Tags: []string{"data"}},
		PillarID:     "pillar_data",
		IPAssets:     []string{"framework_gov", "tech_spark", "missing_asset"},
		Technologies: []string{"tech_spark", "tech_missing", "platform_lake"},
	})
	add(gs, "coe_cloud", &storage.CoEData{
		Common:    storage.Common{Name: "Cloud CoE"},
		Platforms: []string{"platform_lake"},
	})
	add(gs, "platform_lake", &storage.PlatformData{
		Common:           storage.Common{Name: "Data Lakehouse"},
		MaturityLevel:    "production",
		DeploymentModels: []string{"saas", "on-prem"},
	})
	add(gs, "platform_edge", &storage.PlatformData{
		Common:        storage.Common{Name: "Edge Platform"},
		MaturityLevel: "pilot",
	})
	add(gs, "platform_bare", &storage.PlatformData{Common: storage.Common{Name: "Bare"}})
	add(gs, "accel_migrate", &storage.AcceleratorData{Common: storage.Common{Name: "Migration Accelerator"}})
	add(gs, "framework_gov", &storage.FrameworkData{Common: storage.Common{Name: "Data Governance Framework"}})
	add(gs, "proto_genai", &storage.PrototypeData{
		Common:         storage.Common{Name: "GenAI Assistant"},
		ReadinessLevel: "beta",
	})
	add(gs, "proto_idea", &storage.PrototypeData{Common: storage.Common{Name: "Quantum Idea"}})
	add(gs, "tech_spark", &storage.TechnologyData{Common: storage.Common{Name: "Apache Spark"}})
	add(gs, "ind_finance", &storage.IndustryData{Common: storage.Common{Name: "Financial Services"}})
	add(gs, "ind_empty", &storage.IndustryData{Common: storage.Common{Name: "Mining"}})
	add(gs, "cs_bank", &storage.CaseStudyData{
		Common:       storage.Common{Name: "Bank Lakehouse"},
		CoEsInvolved: []string{"coe_data"},
		IPAssetsUsed: []string{"platform_lake"},
		Metrics:      []storage.Metric{{Name: "costSavings", Value: "30%"}},
		Date:         "2023-06-01",
	})
	add(gs, "cs_old", &storage.CaseStudyData{
		Common:       storage.Common{Name: "Legacy Migration"},
		CoEsInvolved: []string{"coe_cloud"},
		Metrics:      []storage.Metric{{Name: "costSavings", Value: "10%"}, {Name: "timeToMarket", Value: "2x"}},
		Date:         "2021-01-15",
	})
	add(gs, "cs_new", &storage.CaseStudyData{
		Common:       storage.Common{Name: "Insurer Analytics"},
		IPAssetsUsed: []string{"platform_lake"},
		Date:         "2024-03-10",
	})

	gs.Connect("coe_data", "pillar_data", storage.RelBelongsTo)
	gs.Connect("coe_cloud", "pillar_cloud", storage.RelBelongsTo)
	gs.Connect("platform_lake", "pillar_data", storage.RelBelongsTo)
	gs.Connect("coe_data", "platform_lake", storage.RelUses)
	gs.Connect("coe_data", "tech_spark", storage.RelUses)
	gs.Connect("coe_cloud", "accel_migrate", storage.RelUses)
	gs.Connect("proto_genai", "platform_lake", storage.RelFeedsInto)
	gs.Connect("proto_genai", "tech_spark", storage.RelFeedsInto)
	gs.Connect("cs_bank", "coe_data", storage.RelInvolvedIn)
	for _, id := range []string{"coe_data", "platform_lake", "accel_migrate", "cs_bank", "cs_old", "cs_new"} {
		gs.Connect(id, "ind_finance", storage.RelTargets)
	}
	return gs
}
