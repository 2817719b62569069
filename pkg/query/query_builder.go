package query

import (
	"time"

	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// DefaultRelatedDepth is used by GetRelatedEntities when depth is not positive
const DefaultRelatedDepth = 2

// QueryBuilder answers composite read-only questions over a catalog graph.
// Missing inputs yield empty results, never errors.
type QueryBuilder struct {
	graph   *storage.GraphStorage
	metrics *metrics.Registry
	logger  logging.Logger
}

// Option configures a QueryBuilder
type Option func(*QueryBuilder)

// WithMetrics records every query in the given registry
func WithMetrics(reg *metrics.Registry) Option {
	return func(qb *QueryBuilder) { qb.metrics = reg }
}

// WithLogger sets the logger used for per-query debug output
func WithLogger(logger logging.Logger) Option {
	return func(qb *QueryBuilder) {
		if logger != nil {
			qb.logger = logger
		}
	}
}

// NewQueryBuilder creates a query builder over graph
func NewQueryBuilder(graph *storage.GraphStorage, opts ...Option) *QueryBuilder {
	qb := &QueryBuilder{
		graph:  graph,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(qb)
	}
	qb.logger = qb.logger.With(logging.Component("query"))
	return qb
}

// Graph returns the underlying graph
func (qb *QueryBuilder) Graph() *storage.GraphStorage {
	return qb.graph
}

func (qb *QueryBuilder) record(queryType string, start time.Time, results int) {
	elapsed := time.Since(start)
	if qb.metrics != nil {
		qb.metrics.RecordQuery(queryType, elapsed, results)
	}
	qb.logger.Debug("query executed",
		logging.Operation(queryType),
		logging.Count(results),
		logging.Latency(elapsed),
	)
}

// PillarCapabilityMap rolls up everything delivered under one pillar
type PillarCapabilityMap struct {
	Pillar       *storage.Node    `json:"pillar"`
	CoEs         []*storage.Node  `json:"coes"`
	IPAssets     []*storage.Node  `json:"ipAssets"`
	Technologies []*storage.Node  `json:"technologies"`
	Metrics      CapabilityCounts `json:"metrics"`
}

type CapabilityCounts struct {
	CoECount        int `json:"coeCount"`
	AssetCount      int `json:"assetCount"`
	TechnologyCount int `json:"technologyCount"`
}

// CoEAssetMapping splits the assets a CoE uses by asset type
type CoEAssetMapping struct {
	CoE          *storage.Node   `json:"coe"`
	Platforms    []*storage.Node `json:"platforms"`
	Accelerators []*storage.Node `json:"accelerators"`
	Components   []*storage.Node `json:"components"`
	Frameworks   []*storage.Node `json:"frameworks"`
	Prototypes   []*storage.Node `json:"prototypes"`
}

// InnovationFlow is a prototype and the platforms it feeds into
type InnovationFlow struct {
	Prototype       *storage.Node   `json:"prototype"`
	TargetPlatforms []*storage.Node `json:"targetPlatforms"`
	ReadinessLevel  string          `json:"readinessLevel"`
}

type PlatformSummary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	MaturityLevel    string   `json:"maturityLevel,omitempty"`
	DeploymentModels []string `json:"deploymentModels,omitempty"`
}

type PlatformMetrics struct {
	TotalPlatforms  int               `json:"totalPlatforms"`
	ByMaturityLevel map[string]int    `json:"byMaturityLevel"`
	ByPlatform      []PlatformSummary `json:"byPlatform"`
}

// RelatedEdge is the flattened edge shape handed to visualization consumers
type RelatedEdge struct {
	From string                   `json:"from"`
	To   string                   `json:"to"`
	Type storage.RelationshipType `json:"type"`
}

type RelatedEntities struct {
	Nodes []*storage.Node `json:"nodes"`
	Edges []RelatedEdge   `json:"edges"`
}

// nodeList accumulates distinct nodes in insertion order
type nodeList struct {
	seen  map[string]bool
	nodes []*storage.Node
}

func newNodeList() *nodeList {
	return &nodeList{seen: make(map[string]bool), nodes: []*storage.Node{}}
}

func (l *nodeList) add(n *storage.Node) {
	if n == nil || l.seen[n.ID] {
		return
	}
	l.seen[n.ID] = true
	l.nodes = append(l.nodes, n)
}

func (qb *QueryBuilder) typedNode(id string, t storage.EntityType) (*storage.Node, bool) {
	n, ok := qb.graph.GetNode(id)
	if !ok || n.Type != t {
		return nil, false
	}
	return n, true
}

// GetIPAssetsForCoE returns the IP assets a CoE references through its
// ipAssets field or through outgoing USES edges.
func (qb *QueryBuilder) GetIPAssetsForCoE(coeID string) []*storage.Node {
	start := time.Now()
	assets := qb.ipAssetsForCoE(coeID)
	qb.record("ip_assets_for_coe", start, len(assets))
	return assets
}

func (qb *QueryBuilder) ipAssetsForCoE(coeID string) []*storage.Node {
	coe, ok := qb.typedNode(coeID, storage.TypeCoE)
	if !ok {
		return []*storage.Node{}
	}

	assets := newNodeList()
	if data, ok := coe.Data.(*storage.CoEData); ok {
		for _, id := range data.IPAssets {
			if n, ok := qb.graph.GetNode(id); ok && n.Type.IsIPAsset() {
				assets.add(n)
			}
		}
	}
	for _, n := range qb.graph.FindRelated(coeID, storage.RelUses, storage.DirectionForward) {
		if n.Type.IsIPAsset() {
			assets.add(n)
		}
	}
	return assets.nodes
}

// GetCoEsUsingAsset returns CoEs that use an asset, either through a USES
// edge or by listing it in their ipAssets or platforms fields.
func (qb *QueryBuilder) GetCoEsUsingAsset(assetID string) []*storage.Node {
	start := time.Now()
	coes := newNodeList()

	for _, n := range qb.graph.FindRelated(assetID, storage.RelUses, storage.DirectionReverse) {
		if n.Type == storage.TypeCoE {
			coes.add(n)
		}
	}
	for _, n := range qb.graph.FindByType(storage.TypeCoE) {
		data, ok := n.Data.(*storage.CoEData)
		if !ok {
			continue
		}
		if contains(data.IPAssets, assetID) || contains(data.Platforms, assetID) {
			coes.add(n)
		}
	}

	qb.record("coes_using_asset", start, len(coes.nodes))
	return coes.nodes
}

// GetPillarCapabilities rolls up the CoEs under a pillar together with the
// distinct assets and technologies they use. It reports false when pillarID
// does not name a pillar.
func (qb *QueryBuilder) GetPillarCapabilities(pillarID string) (*PillarCapabilityMap, bool) {
	start := time.Now()
	pillar, ok := qb.typedNode(pillarID, storage.TypePillar)
	if !ok {
		qb.record("pillar_capabilities", start, 0)
		return nil, false
	}

	coes := newNodeList()
	for _, n := range qb.graph.FindByPillar(pillarID) {
		coes.add(n)
	}
	for _, n := range qb.graph.FindRelated(pillarID, storage.RelBelongsTo, storage.DirectionReverse) {
		if n.Type == storage.TypeCoE {
			coes.add(n)
		}
	}

	assets := newNodeList()
	techs := newNodeList()
	for _, coe := range coes.nodes {
		for _, a := range qb.ipAssetsForCoE(coe.ID) {
			assets.add(a)
		}
		if data, ok := coe.Data.(*storage.CoEData); ok {
			for _, id := range data.Technologies {
				if tech, ok := qb.typedNode(id, storage.TypeTechnology); ok {
					techs.add(tech)
				}
			}
		}
		for _, n := range qb.graph.FindRelated(coe.ID, storage.RelUses, storage.DirectionForward) {
			if n.Type == storage.TypeTechnology {
				techs.add(n)
			}
		}
	}

	result := &PillarCapabilityMap{
		Pillar:       pillar,
		CoEs:         coes.nodes,
		IPAssets:     assets.nodes,
		Technologies: techs.nodes,
		Metrics: CapabilityCounts{
			CoECount:        len(coes.nodes),
			AssetCount:      len(assets.nodes),
			TechnologyCount: len(techs.nodes),
		},
	}
	qb.record("pillar_capabilities", start, len(coes.nodes)+len(assets.nodes)+len(techs.nodes))
	return result, true
}

// GetCaseStudies returns case studies whose coesInvolved or ipAssetsUsed
// fields mention entityID. Case studies linked by an edge come first.
func (qb *QueryBuilder) GetCaseStudies(entityID string) []*storage.Node {
	start := time.Now()
	studies := newNodeList()

	for _, n := range qb.graph.FindRelated(entityID, "", storage.DirectionBoth) {
		if mentions(n, entityID) {
			studies.add(n)
		}
	}
	for _, n := range qb.graph.FindByType(storage.TypeCaseStudy) {
		if mentions(n, entityID) {
			studies.add(n)
		}
	}

	qb.record("case_studies", start, len(studies.nodes))
	return studies.nodes
}

func mentions(n *storage.Node, entityID string) bool {
	if n.Type != storage.TypeCaseStudy {
		return false
	}
	data, ok := n.Data.(*storage.CaseStudyData)
	if !ok {
		return false
	}
	return contains(data.CoEsInvolved, entityID) || contains(data.IPAssetsUsed, entityID)
}

// GetCoEAssetMapping groups the assets used by a CoE by asset type
func (qb *QueryBuilder) GetCoEAssetMapping(coeID string) (*CoEAssetMapping, bool) {
	start := time.Now()
	coe, ok := qb.typedNode(coeID, storage.TypeCoE)
	if !ok {
		qb.record("coe_asset_mapping", start, 0)
		return nil, false
	}

	assets := qb.ipAssetsForCoE(coeID)
	mapping := &CoEAssetMapping{
		CoE:          coe,
		Platforms:    filterType(assets, storage.TypePlatform),
		Accelerators: filterType(assets, storage.TypeAccelerator),
		Components:   filterType(assets, storage.TypeComponent),
		Frameworks:   filterType(assets, storage.TypeFramework),
		Prototypes:   filterType(assets, storage.TypePrototype),
	}
	qb.record("coe_asset_mapping", start, len(assets))
	return mapping, true
}

// GetInnovationPipeline lists every prototype with the platforms it feeds into
func (qb *QueryBuilder) GetInnovationPipeline() []InnovationFlow {
	start := time.Now()
	prototypes := qb.graph.FindByType(storage.TypePrototype)
	flows := make([]InnovationFlow, 0, len(prototypes))

	for _, p := range prototypes {
		readiness := "concept"
		if data, ok := p.Data.(*storage.PrototypeData); ok && data.ReadinessLevel != "" {
			readiness = data.ReadinessLevel
		}
		targets := filterType(qb.graph.FindRelated(p.ID, storage.RelFeedsInto, storage.DirectionForward), storage.TypePlatform)
		flows = append(flows, InnovationFlow{
			Prototype:       p,
			TargetPlatforms: targets,
			ReadinessLevel:  readiness,
		})
	}

	qb.record("innovation_pipeline", start, len(flows))
	return flows
}

// CalculatePlatformMetrics counts platforms by maturity level
func (qb *QueryBuilder) CalculatePlatformMetrics() PlatformMetrics {
	start := time.Now()
	platforms := qb.graph.FindByType(storage.TypePlatform)
	result := PlatformMetrics{
		TotalPlatforms:  len(platforms),
		ByMaturityLevel: make(map[string]int),
		ByPlatform:      make([]PlatformSummary, 0, len(platforms)),
	}

	for _, p := range platforms {
		summary := PlatformSummary{ID: p.ID, Name: p.Name()}
		if data, ok := p.Data.(*storage.PlatformData); ok {
			summary.MaturityLevel = data.MaturityLevel
			summary.DeploymentModels = data.DeploymentModels
			if data.MaturityLevel != "" {
				result.ByMaturityLevel[data.MaturityLevel]++
			}
		}
		result.ByPlatform = append(result.ByPlatform, summary)
	}

	qb.record("platform_metrics", start, len(platforms))
	return result
}

// GetRelatedEntities returns the neighbourhood of entityID flattened for
// rendering. A non-positive depth uses DefaultRelatedDepth.
func (qb *QueryBuilder) GetRelatedEntities(entityID string, depth int) RelatedEntities {
	start := time.Now()
	if depth <= 0 {
		depth = DefaultRelatedDepth
	}

	t := qb.graph.Traverse(entityID, depth)
	edges := make([]RelatedEdge, len(t.Edges))
	for i, e := range t.Edges {
		edges[i] = RelatedEdge{From: e.From, To: e.To, Type: e.Type}
	}

	qb.record("related_entities", start, len(t.Nodes))
	return RelatedEntities{Nodes: t.Nodes, Edges: edges}
}

func filterType(nodes []*storage.Node, t storage.EntityType) []*storage.Node {
	out := []*storage.Node{}
	for _, n := range nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
