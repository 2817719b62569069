package algorithms

import (
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// DefaultDerivationDepth bounds how far the walk strays from the entity
// being resolved
const DefaultDerivationDepth = 5

// derivedTypes are resolved in this order after pillars and CoEs are seeded.
// Later types can inherit from earlier ones.
var derivedTypes = []storage.EntityType{
	storage.TypePlatform,
	storage.TypeAccelerator,
	storage.TypeComponent,
	storage.TypeFramework,
	storage.TypePrototype,
	storage.TypeTechnology,
	storage.TypeIndustry,
	storage.TypeCaseStudy,
}

var (
	inheritFromSource = map[storage.RelationshipType]bool{
		storage.RelUses:       true,
		storage.RelLeverages:  true,
		storage.RelImplements: true,
		storage.RelDelivers:   true,
	}
	inheritFromTarget = map[storage.RelationshipType]bool{
		storage.RelBelongsTo: true,
		storage.RelUses:      true,
		storage.RelLeverages: true,
	}
)

// DeriverOptions configures a PillarDeriver
type DeriverOptions struct {
	MaxDepth int // 0 means DefaultDerivationDepth
	Logger   logging.Logger
	Metrics  *metrics.Registry
}

// PillarCount is the number of entities associated with one pillar
type PillarCount struct {
	PillarID string `json:"pillarId"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// DerivationResult is the outcome of one derivation run
type DerivationResult struct {
	Associations  []storage.PillarAssociation `json:"associations"`
	TotalEntities int                         `json:"totalEntities"`
	Associated    int                         `json:"associated"`
	Coverage      float64                     `json:"coverage"` // fraction in [0,1]
	ByPillar      []PillarCount               `json:"byPillar"`
	Duration      time.Duration               `json:"duration"`
}

// CoveragePercent returns Coverage as a rounded percentage
func (r *DerivationResult) CoveragePercent() int {
	return int(math.Round(r.Coverage * 100))
}

// PillarDeriver computes which pillars every entity transitively supports.
//
// Pillars map to themselves and CoEs to the pillar they belong to. Every
// other entity is resolved by a bounded walk: frameworks first look for a
// SUPPORTS edge to a pillar, then any entity inherits from resolved
// neighbours linked by usage edges, and failing that the walk fans out over
// all neighbours and unions what it finds.
type PillarDeriver struct {
	graph    *storage.GraphStorage
	maxDepth int
	logger   logging.Logger
	metrics  *metrics.Registry
}

// NewPillarDeriver creates a deriver over graph
func NewPillarDeriver(graph *storage.GraphStorage, opts DeriverOptions) *PillarDeriver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultDerivationDepth
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &PillarDeriver{
		graph:    graph,
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger.With(logging.Component("pillar_deriver")),
		metrics:  opts.Metrics,
	}
}

// ComputePillarAssociations derives associations for graph with default
// options and stores them in the graph's side table
func ComputePillarAssociations(graph *storage.GraphStorage, logger logging.Logger) *DerivationResult {
	return NewPillarDeriver(graph, DeriverOptions{Logger: logger}).Run()
}

// Run derives associations, stores them, logs a summary and records metrics
func (d *PillarDeriver) Run() *DerivationResult {
	result := d.Derive()
	d.graph.SetPillarAssociations(result.Associations)

	breakdown := make([]string, 0, len(result.ByPillar))
	for _, pc := range result.ByPillar {
		breakdown = append(breakdown, fmt.Sprintf("%s: %d entities", pc.Name, pc.Count))
	}
	d.logger.Info("pillar associations computed",
		logging.Int("total", result.Associated),
		logging.String("coverage", fmt.Sprintf("%d%%", result.CoveragePercent())),
		logging.Float64("coverage_ratio", result.Coverage),
		logging.Strings("breakdown", breakdown),
		logging.Latency(result.Duration),
	)

	if d.metrics != nil {
		d.metrics.RecordDerivation(result.Duration, result.Associated)
	}
	return result
}

// Derive computes associations without storing them
func (d *PillarDeriver) Derive() *DerivationResult {
	start := time.Now()
	assoc := newAssociationMap()

	for _, pillar := range d.graph.FindByType(storage.TypePillar) {
		assoc.set(pillar.ID, []string{pillar.ID})
	}

	for _, coe := range d.graph.FindByType(storage.TypeCoE) {
		for _, edge := range d.graph.GetEdges(coe.ID) {
			if edge.Type != storage.RelBelongsTo {
				continue
			}
			if target, ok := d.graph.GetNode(edge.To); ok && target.Type == storage.TypePillar {
				assoc.set(coe.ID, []string{edge.To})
				break
			}
		}
	}

	for _, t := range derivedTypes {
		for _, entity := range d.graph.FindByType(t) {
			pillars := d.resolve(entity.ID, assoc)
			if len(pillars) > 0 {
				assoc.set(entity.ID, pillars)
			} else {
				d.logger.Debug("entity has no pillar", logging.EntityID(entity.ID), logging.EntityType(string(t)))
			}
		}
	}

	return d.summarize(assoc, time.Since(start))
}

// resolveFrame is one pending call of the walk. found accumulates pillars
// contributed by neighbours; neighbours are visited in order.
type resolveFrame struct {
	depth      int
	found      *orderedSet
	neighbours []string
	next       int
}

// resolve finds the pillars for root. The walk runs on an explicit stack
// and visits nodes in the same order a recursive walk would: incoming
// neighbours first, then outgoing ones. visited is per root, so a node seen
// earlier while resolving root is never expanded twice.
func (d *PillarDeriver) resolve(root string, assoc *associationMap) []string {
	visited := make(map[string]bool)
	result := newOrderedSet()

	// enter runs the checks that need no recursion. It returns a frame when
	// the node has to fan out to its neighbours.
	enter := func(id string, depth int, into *orderedSet) *resolveFrame {
		if depth > d.maxDepth || visited[id] {
			return nil
		}
		visited[id] = true

		if pillars, ok := assoc.get(id); ok {
			into.addAll(pillars)
			return nil
		}

		if direct := d.directPillars(id, assoc); len(direct) > 0 {
			into.addAll(direct)
			return nil
		}

		frame := &resolveFrame{depth: depth, found: newOrderedSet()}
		for _, edge := range d.graph.GetReverseEdges(id) {
			frame.neighbours = append(frame.neighbours, edge.From)
		}
		for _, edge := range d.graph.GetEdges(id) {
			frame.neighbours = append(frame.neighbours, edge.To)
		}
		return frame
	}

	rootFrame := enter(root, 0, result)
	if rootFrame == nil {
		return result.items
	}

	stack := []*resolveFrame{rootFrame}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next < len(top.neighbours) {
			id := top.neighbours[top.next]
			top.next++
			if child := enter(id, top.depth+1, top.found); child != nil {
				stack = append(stack, child)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			result.addAll(top.found.items)
		} else {
			stack[len(stack)-1].found.addAll(top.found.items)
		}
	}

	return result.items
}

// directPillars applies the one-hop rules for id: a framework's SUPPORTS
// edges to pillars, then resolved sources of incoming usage edges together
// with resolved targets of outgoing ones
func (d *PillarDeriver) directPillars(id string, assoc *associationMap) []string {
	found := newOrderedSet()

	if node, ok := d.graph.GetNode(id); ok && node.Type == storage.TypeFramework {
		for _, edge := range d.graph.GetEdges(id) {
			if edge.Type != storage.RelSupports {
				continue
			}
			if target, ok := d.graph.GetNode(edge.To); ok && target.Type == storage.TypePillar {
				found.add(edge.To)
			}
		}
		if len(found.items) > 0 {
			return found.items
		}
	}

	for _, edge := range d.graph.GetReverseEdges(id) {
		if !inheritFromSource[edge.Type] || !d.graph.HasNode(edge.From) {
			continue
		}
		if pillars, ok := assoc.get(edge.From); ok {
			found.addAll(pillars)
		}
	}

	for _, edge := range d.graph.GetEdges(id) {
		if !inheritFromTarget[edge.Type] || !d.graph.HasNode(edge.To) {
			continue
		}
		if pillars, ok := assoc.get(edge.To); ok {
			found.addAll(pillars)
		}
	}

	return found.items
}

func (d *PillarDeriver) summarize(assoc *associationMap, elapsed time.Duration) *DerivationResult {
	total := 0
	for _, t := range storage.AllEntityTypes() {
		total += len(d.graph.FindByType(t))
	}

	result := &DerivationResult{
		Associations:  make([]storage.PillarAssociation, 0, len(assoc.order)),
		TotalEntities: total,
		Associated:    len(assoc.order),
		Duration:      elapsed,
	}
	if total > 0 {
		result.Coverage = float64(result.Associated) / float64(total)
	}

	counts := make(map[string]int)
	var pillarOrder []string
	for _, id := range assoc.order {
		pillars := assoc.pillars[id]
		result.Associations = append(result.Associations, storage.PillarAssociation{EntityID: id, Pillars: pillars})
		for _, p := range pillars {
			if _, seen := counts[p]; !seen {
				pillarOrder = append(pillarOrder, p)
			}
			counts[p]++
		}
	}

	for _, p := range pillarOrder {
		name := p
		if node, ok := d.graph.GetNode(p); ok && node.Name() != "" {
			name = node.Name()
		}
		result.ByPillar = append(result.ByPillar, PillarCount{PillarID: p, Name: name, Count: counts[p]})
	}
	return result
}

// associationMap is the working entity -> pillars map, in insertion order
type associationMap struct {
	order   []string
	pillars map[string][]string
}

func newAssociationMap() *associationMap {
	return &associationMap{pillars: make(map[string][]string)}
}

func (m *associationMap) set(id string, pillars []string) {
	if _, ok := m.pillars[id]; !ok {
		m.order = append(m.order, id)
	}
	m.pillars[id] = pillars
}

func (m *associationMap) get(id string) ([]string, bool) {
	p, ok := m.pillars[id]
	return p, ok
}

// orderedSet keeps the first-seen order of its members
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

func (s *orderedSet) addAll(vs []string) {
	for _, v := range vs {
		s.add(v)
	}
}
