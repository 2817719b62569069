package storage

import (
	"encoding/json"
	"testing"
)

func TestSearch_Scoring(t *testing.T) {
	gs := NewGraphStorage()

	devops := &Node{ID: "coe_devops", Type: TypeCoE,
		Data:     &CoEData{Common: Common{Name: "DevOps CoE"}},
		Metadata: NodeMetadata{Tags: []string{"DevOps", "CI/CD"}},
	}
	techOnly := &Node{ID: "coe_platform", Type: TypeCoE,
		Data: &CoEData{Common: Common{Name: "Platform Engineering"}, Technologies: []string{"Azure DevOps"}},
	}
	mustAdd(gs, techOnly, devops)

	results := gs.SearchScored("devops")
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Node.ID != "coe_devops" {
		t.Errorf("top result = %s, want coe_devops", results[0].Node.ID)
	}
	// name contains + prefix + tag
	if results[0].Score != 16 {
		t.Errorf("coe_devops score = %v, want 16", results[0].Score)
	}
	if results[1].Score != 1 {
		t.Errorf("technology-only score = %v, want 1", results[1].Score)
	}
}

func TestSearch_Weights(t *testing.T) {
	tests := []struct {
		name  string
		node  *Node
		query string
		want  float64
	}{
		{
			name:  "exact name",
			node:  newTestNode("a", TypeTechnology, "Kafka"),
			query: "KAFKA",
			want:  10 + 5 + 3,
		},
		{
			name:  "name contains only",
			node:  newTestNode("a", TypeTechnology, "Apache Kafka"),
			query: "kafka",
			want:  10,
		},
		{
			name:  "description",
			node:  &Node{ID: "a", Type: TypeIndustry, Data: &IndustryData{Common: Common{Name: "Retail", Description: "kafka streams"}}},
			query: "kafka",
			want:  5,
		},
		{
			name:  "several tags count once",
			node:  &Node{ID: "a", Type: TypeIndustry, Data: &IndustryData{Common: Common{Name: "x"}}, Metadata: NodeMetadata{Tags: []string{"cloud", "cloud native"}}},
			query: "cloud",
			want:  3,
		},
		{
			name:  "competencies count once",
			node:  &Node{ID: "a", Type: TypeCoE, Data: &CoEData{Common: Common{Name: "x"}, KeyCompetencies: []string{"ml ops", "ml"}}},
			query: "ml",
			want:  2,
		},
		{
			name:  "technologies accumulate",
			node:  &Node{ID: "a", Type: TypeCoE, Data: &CoEData{Common: Common{Name: "x"}, Technologies: []string{"aws lambda", "aws s3", "gcp"}}},
			query: "aws",
			want:  2,
		},
		{
			name:  "asset technologies accumulate",
			node:  &Node{ID: "a", Type: TypeComponent, Data: &ComponentData{Common: Common{Name: "x"}, AssetFields: AssetFields{Technologies: []string{"aws lambda", "aws s3"}}}},
			query: "aws",
			want:  2,
		},
		{
			name:  "features",
			node:  &Node{ID: "a", Type: TypePlatform, Data: &PlatformData{Common: Common{Name: "x"}, KeyFeatures: []Feature{{Name: "Self-service"}, {Name: "service mesh"}, {Name: "other"}}}},
			query: "service",
			want:  2,
		},
		{
			name:  "services",
			node:  &Node{ID: "a", Type: TypeCoE, Data: &CoEData{Common: Common{Name: "x"}, Services: []Service{{Name: "Audit", Description: "security audit"}, {Name: "Review", Description: "audit trail"}}}},
			query: "audit",
			want:  1 + 0.5 + 0.5,
		},
		{
			name:  "no match",
			node:  newTestNode("a", TypeTechnology, "Go"),
			query: "python",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphStorage()
			gs.AddNode(tt.node)

			results := gs.SearchScored(tt.query)
			var got float64
			if len(results) > 0 {
				got = results[0].Score
			}
			if got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch_StringFeatures(t *testing.T) {
	var data PlatformData
	raw := `{"name":"Edge","keyFeatures":["Offline sync", {"name":"Sync dashboard"}]}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}

	gs := NewGraphStorage()
	gs.AddNode(&Node{ID: "platform_edge", Type: TypePlatform, Data: &data})

	results := gs.SearchScored("sync")
	if len(results) != 1 || results[0].Score != 2 {
		t.Fatalf("results = %+v, want one result scoring 2", results)
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	gs := NewGraphStorage()
	mustAdd(gs,
		newTestNode("b", TypeTechnology, "Cloud Run"),
		newTestNode("a", TypeTechnology, "Cloud SQL"),
	)
	assertIDs(t, gs.Search("cloud"), "b", "a")
}

func TestSearch_BlankQuery(t *testing.T) {
	gs := buildCatalog(t)
	for _, q := range []string{"", "   "} {
		if got := gs.Search(q); len(got) != 0 {
			t.Errorf("Search(%q) returned %d nodes", q, len(got))
		}
	}
}

func TestSearch_SurroundingWhitespaceIsSignificant(t *testing.T) {
	gs := NewGraphStorage()
	mustAdd(gs,
		newTestNode("tech_devops", TypeTechnology, "DevOps"),
		newTestNode("tech_ops", TypeTechnology, "Ops Manager"),
	)

	assertIDs(t, gs.Search("ops "), "tech_ops")
	assertIDs(t, gs.Search("ops"), "tech_ops", "tech_devops")
}
