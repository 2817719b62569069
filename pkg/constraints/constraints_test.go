package constraints

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

func addNode(gs *storage.GraphStorage, id string, t storage.EntityType, name string) {
	data := storage.NewEntityData(t)
	data.Base().Name = name
	gs.AddNode(&storage.Node{ID: id, Type: t, Data: data})
}

// setupTestGraph builds a catalog with one problem of each kind:
//
//	edge_1 coe_a -BELONGS_TO-> pillar_a
//	edge_2 coe_a -USES-> tech_x
//	edge_3 tech_x -DEPENDS_ON-> tech_y
//	edge_4 tech_y -REQUIRES-> tech_x   (legacy type, closes a dependency cycle)
//	edge_5 coe_a -FEEDS_INTO-> ghost   (legacy type, dangling)
//	edge_6 coe_a -USES-> tech_x        (duplicate of edge_2)
//
// coe_b has no edges at all.
func setupTestGraph(t *testing.T) *storage.GraphStorage {
	t.Helper()
	gs := storage.NewGraphStorage()
	addNode(gs, "pillar_a", storage.TypePillar, "Pillar A")
	addNode(gs, "coe_a", storage.TypeCoE, "CoE A")
	addNode(gs, "coe_b", storage.TypeCoE, "CoE B")
	addNode(gs, "tech_x", storage.TypeTechnology, "X")
	addNode(gs, "tech_y", storage.TypeTechnology, "Y")

	gs.Connect("coe_a", "pillar_a", storage.RelBelongsTo)
	gs.Connect("coe_a", "tech_x", storage.RelUses)
	gs.Connect("tech_x", "tech_y", storage.RelDependsOn)
	gs.Connect("tech_y", "tech_x", storage.RelRequires)
	gs.Connect("coe_a", "ghost", storage.RelFeedsInto)
	gs.Connect("coe_a", "tech_x", storage.RelUses)
	return gs
}

func violationIDs(violations []Violation, edges bool) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		if edges {
			out[i] = v.EdgeID
		} else {
			out[i] = v.NodeID
		}
	}
	return out
}

func assertStrings(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrphanConstraint(t *testing.T) {
	graph := setupTestGraph(t)

	violations := (&OrphanConstraint{}).Validate(graph)
	assertStrings(t, violationIDs(violations, false), "coe_b")
	if violations[0].Severity != Warning || violations[0].Type != OrphanNode {
		t.Errorf("unexpected violation %+v", violations[0])
	}
	if !strings.Contains(violations[0].Message, "CoE B") {
		t.Errorf("message should name the entity: %q", violations[0].Message)
	}

	// Restricting the types skips the CoE
	if got := (&OrphanConstraint{Types: []storage.EntityType{storage.TypeTechnology}}).Validate(graph); len(got) != 0 {
		t.Errorf("expected no technology orphans, got %d", len(got))
	}
}

func TestRelationshipTypeConstraint(t *testing.T) {
	graph := setupTestGraph(t)

	violations := (&RelationshipTypeConstraint{}).Validate(graph)
	assertStrings(t, violationIDs(violations, true), "edge_5", "edge_4")
	for _, v := range violations {
		if v.Severity != Error {
			t.Errorf("expected Error severity, got %s", v.Severity)
		}
	}

	custom := &RelationshipTypeConstraint{Allowed: []storage.RelationshipType{
		storage.RelBelongsTo, storage.RelUses, storage.RelDependsOn, storage.RelRequires, storage.RelFeedsInto,
	}}
	if got := custom.Validate(graph); len(got) != 0 {
		t.Errorf("custom whitelist should accept every edge, got %d violations", len(got))
	}
}

func TestDanglingEdgeConstraint(t *testing.T) {
	violations := (&DanglingEdgeConstraint{}).Validate(setupTestGraph(t))
	assertStrings(t, violationIDs(violations, true), "edge_5")
	if !strings.Contains(violations[0].Message, "ghost") {
		t.Errorf("message should name the missing node: %q", violations[0].Message)
	}
}

func TestDependencyCycleConstraint(t *testing.T) {
	graph := setupTestGraph(t)

	violations := (&DependencyCycleConstraint{}).Validate(graph)
	if len(violations) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(violations))
	}
	v := violations[0]
	if v.Severity != Info || v.NodeID != "tech_x" {
		t.Errorf("unexpected violation %+v", v)
	}
	assertStrings(t, v.Details["cycle"].([]string), "tech_x", "tech_y")

	only := &DependencyCycleConstraint{EdgeTypes: []storage.RelationshipType{storage.RelDependsOn}}
	if got := only.Validate(graph); len(got) != 0 {
		t.Errorf("DEPENDS_ON alone is acyclic, got %d", len(got))
	}
}

func TestCardinalityConstraint(t *testing.T) {
	graph := setupTestGraph(t)

	violations := CoEPillarConstraint().Validate(graph)
	assertStrings(t, violationIDs(violations, false), "coe_b")
	if violations[0].Details["min"] != 1 {
		t.Errorf("details = %v", violations[0].Details)
	}

	maxOne := &CardinalityConstraint{
		EntityType:   storage.TypeCoE,
		Relationship: storage.RelUses,
		Direction:    storage.DirectionForward,
		Max:          1,
		Severity:     Error,
	}
	violations = maxOne.Validate(graph)
	assertStrings(t, violationIDs(violations, false), "coe_a")
	if violations[0].Details["max"] != 1 || violations[0].Details["count"] != 2 {
		t.Errorf("details = %v", violations[0].Details)
	}

	busy := &CardinalityConstraint{
		EntityType: storage.TypeTechnology,
		Direction:  storage.DirectionBoth,
		Min:        3,
	}
	// tech_x: 2 USES + DEPENDS_ON + REQUIRES; tech_y: DEPENDS_ON + REQUIRES
	assertStrings(t, violationIDs(busy.Validate(graph), false), "tech_y")
}

func TestUniquenessConstraints(t *testing.T) {
	graph := setupTestGraph(t)

	violations := (&UniqueEdgeConstraint{}).Validate(graph)
	assertStrings(t, violationIDs(violations, true), "edge_6")
	if violations[0].Details["duplicate_of"] != "edge_2" {
		t.Errorf("details = %v", violations[0].Details)
	}
	if got := (&UniqueEdgeConstraint{Relationship: storage.RelBelongsTo}).Validate(graph); len(got) != 0 {
		t.Errorf("expected no duplicate BELONGS_TO edges, got %d", len(got))
	}

	addNode(graph, "tech_dup", storage.TypeTechnology, "coe a")
	violations = (&UniqueNameConstraint{}).Validate(graph)
	assertStrings(t, violationIDs(violations, false), "tech_dup")

	if got := (&UniqueNameConstraint{PerType: true}).Validate(graph); len(got) != 0 {
		t.Errorf("names differ per type, got %d violations", len(got))
	}
}

// skewedGraph is a GraphReader whose adjacency lists disagree
type skewedGraph struct {
	nodes map[string]*storage.Node
	order []string
	out   map[string][]*storage.Edge
	in    map[string][]*storage.Edge
}

func (g *skewedGraph) GetNode(id string) (*storage.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *skewedGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *skewedGraph) AllNodes() []*storage.Node {
	out := make([]*storage.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

func (g *skewedGraph) FindByType(t storage.EntityType) []*storage.Node {
	var out []*storage.Node
	for _, n := range g.AllNodes() {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func (g *skewedGraph) AllEdges() []*storage.Edge {
	var out []*storage.Edge
	for _, id := range g.order {
		out = append(out, g.out[id]...)
	}
	return out
}

func (g *skewedGraph) GetEdges(id string) []*storage.Edge        { return g.out[id] }
func (g *skewedGraph) GetReverseEdges(id string) []*storage.Edge { return g.in[id] }

func TestBidirectionalConstraint(t *testing.T) {
	if got := (&BidirectionalConstraint{}).Validate(setupTestGraph(t)); len(got) != 0 {
		t.Fatalf("store adjacency should be consistent, got %v", got)
	}

	forward := &storage.Edge{ID: "e1", From: "a", To: "b", Type: storage.RelUses}
	backward := &storage.Edge{ID: "e2", From: "b", To: "a", Type: storage.RelUses}
	graph := &skewedGraph{
		nodes: map[string]*storage.Node{
			"a": {ID: "a", Type: storage.TypeCoE, Data: &storage.CoEData{}},
			"b": {ID: "b", Type: storage.TypePlatform, Data: &storage.PlatformData{}},
		},
		order: []string{"a", "b"},
		out:   map[string][]*storage.Edge{"a": {forward}},
		in:    map[string][]*storage.Edge{"a": {backward}},
	}

	violations := (&BidirectionalConstraint{}).Validate(graph)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].EdgeID != "e1" || violations[0].NodeID != "b" || violations[0].Details["side"] != "reverse" {
		t.Errorf("first violation = %+v", violations[0])
	}
	if violations[1].EdgeID != "e2" || violations[1].NodeID != "b" || violations[1].Details["side"] != "forward" {
		t.Errorf("second violation = %+v", violations[1])
	}
}

func TestBidirectionalConstraint_DeclaredRelationships(t *testing.T) {
	gs := storage.NewGraphStorage()
	raw := map[string]string{
		"coe_a": `{"relationships": {"outgoing": [
			{"to": "tech_x", "type": "USES"},
			{"to": "pillar_a", "type": "BELONGS_TO"},
			{"to": "ghost", "type": "USES"}
		]}}`,
		"tech_x":   `{"relationships": {"incoming": [{"from": "coe_a", "type": "USES"}]}}`,
		"pillar_a": `{"name": "Pillar A"}`,
	}
	for id, typ := range map[string]storage.EntityType{
		"coe_a": storage.TypeCoE, "tech_x": storage.TypeTechnology, "pillar_a": storage.TypePillar,
	} {
		data := storage.NewEntityData(typ)
		gs.AddNode(&storage.Node{ID: id, Type: typ, Data: data, Metadata: storage.NodeMetadata{RawData: json.RawMessage(raw[id])}})
	}
	gs.Connect("coe_a", "tech_x", storage.RelUses)
	gs.Connect("coe_a", "pillar_a", storage.RelBelongsTo)

	violations := (&BidirectionalConstraint{}).Validate(gs)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", violations)
	}
	v := violations[0]
	if v.NodeID != "pillar_a" || v.Type != MissingReverseEdge || v.Details["side"] != "declared" {
		t.Errorf("violation = %+v", v)
	}
	if !strings.Contains(v.Message, "pillar_a should have incoming from coe_a (BELONGS_TO)") {
		t.Errorf("message = %q", v.Message)
	}

	// Declaring the reverse side clears it
	pillar, _ := gs.GetNode("pillar_a")
	fixed := *pillar
	fixed.Metadata.RawData = json.RawMessage(`{"relationships": {"incoming": [{"from": "coe_a", "type": "BELONGS_TO"}]}}`)
	gs.AddNode(&fixed)
	if got := (&BidirectionalConstraint{}).Validate(gs); len(got) != 0 {
		t.Errorf("expected no violations, got %v", got)
	}
}

func TestDefaultValidator(t *testing.T) {
	reg := metrics.NewRegistry()
	v := DefaultValidator()
	v.SetMetricsRegistry(reg)

	result := v.Validate(setupTestGraph(t))
	if result.Valid {
		t.Error("expected invalid result because of unknown relationship types")
	}
	if result.ID == "" || result.CheckedAt.IsZero() {
		t.Errorf("result metadata not set: %+v", result)
	}
	if len(result.Violations) != 7 {
		t.Errorf("expected 7 violations, got %d", len(result.Violations))
	}
	if len(result.Errors()) != 2 || len(result.Warnings()) != 4 {
		t.Errorf("errors=%v warnings=%v", result.Errors(), result.Warnings())
	}
	if len(result.GetViolationsByType(DependencyCycle)) != 1 {
		t.Error("expected one dependency cycle")
	}

	var m dto.Metric
	if err := reg.ValidationViolationsTotal.WithLabelValues("warning", "OrphanNode").Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetCounter().GetValue() != 1 {
		t.Errorf("orphan counter = %v", m.GetCounter().GetValue())
	}
}

func TestValidator_WarningsKeepResultValid(t *testing.T) {
	gs := storage.NewGraphStorage()
	addNode(gs, "lonely", storage.TypeTechnology, "Lonely")

	v := NewValidator()
	v.AddConstraint(&OrphanConstraint{})
	result := v.Validate(gs)

	if !result.Valid {
		t.Error("warnings alone must not invalidate the graph")
	}
	if len(result.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", result.Warnings())
	}

	v.ClearConstraints()
	if len(v.GetConstraints()) != 0 {
		t.Error("ClearConstraints left constraints behind")
	}
}

func TestValidationResult_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	result := DefaultValidator().Validate(setupTestGraph(t))
	result.Log(logger)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(result.Violations)+1 {
		t.Fatalf("expected %d log lines, got %d", len(result.Violations)+1, len(lines))
	}

	levels := make(map[string]int)
	for _, line := range lines {
		var entry logging.LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		levels[entry.Level]++
	}
	if levels["ERROR"] != 2 || levels["WARN"] != 4 || levels["INFO"] != 2 {
		t.Errorf("levels = %v", levels)
	}

	var summary logging.LogEntry
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Message != "graph validation complete" || summary.Fields["valid"] != false {
		t.Errorf("summary = %+v", summary)
	}
}
