package query

import (
	"sort"
	"time"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

// DefaultSuccessStoryLimit bounds GetIndustrySuccessStories when no limit is given
const DefaultSuccessStoryLimit = 5

type IndustryMetrics struct {
	CaseStudies    int `json:"caseStudies"`
	CoEs           int `json:"coes"`
	Platforms      int `json:"platforms"`
	Accelerators   int `json:"accelerators"`
	TotalSolutions int `json:"totalSolutions"`
}

// IndustrySummary collects the entities that TARGET an industry
type IndustrySummary struct {
	Industry     *storage.Node   `json:"industry"`
	Metrics      IndustryMetrics `json:"metrics"`
	CaseStudies  []*storage.Node `json:"caseStudies"`
	CoEs         []*storage.Node `json:"coes"`
	Platforms    []*storage.Node `json:"platforms"`
	Accelerators []*storage.Node `json:"accelerators"`
	// ImpactMetrics joins case study metric values by metric name
	ImpactMetrics map[string]string `json:"impactMetrics,omitempty"`
}

// PillarCapabilities groups an industry's CoEs and solutions under one pillar
type PillarCapabilities struct {
	Pillar    *storage.Node   `json:"pillar"`
	CoEs      []*storage.Node `json:"coes"`
	Solutions []*storage.Node `json:"solutions"`
}

type IndustryCapabilities struct {
	Summary              *IndustrySummary     `json:"summary"`
	CapabilitiesByPillar []PillarCapabilities `json:"capabilitiesByPillar"`
}

// GetIndustrySummary reports false when industryID does not name an industry
func (qb *QueryBuilder) GetIndustrySummary(industryID string) (*IndustrySummary, bool) {
	start := time.Now()
	summary, ok := qb.industrySummary(industryID)
	if !ok {
		qb.record("industry_summary", start, 0)
		return nil, false
	}
	qb.record("industry_summary", start, summary.Metrics.TotalSolutions)
	return summary, true
}

// GetAllIndustrySummaries summarises every industry in insertion order
func (qb *QueryBuilder) GetAllIndustrySummaries() []*IndustrySummary {
	start := time.Now()
	industries := qb.graph.FindByType(storage.TypeIndustry)
	summaries := make([]*IndustrySummary, 0, len(industries))
	for _, n := range industries {
		if s, ok := qb.industrySummary(n.ID); ok {
			summaries = append(summaries, s)
		}
	}
	qb.record("industry_summaries", start, len(summaries))
	return summaries
}

func (qb *QueryBuilder) industrySummary(industryID string) (*IndustrySummary, bool) {
	industry, ok := qb.typedNode(industryID, storage.TypeIndustry)
	if !ok {
		return nil, false
	}

	caseStudies := qb.targeting(industryID, storage.TypeCaseStudy)
	coes := qb.targeting(industryID, storage.TypeCoE)
	platforms := qb.targeting(industryID, storage.TypePlatform)
	accelerators := qb.targeting(industryID, storage.TypeAccelerator)

	return &IndustrySummary{
		Industry: industry,
		Metrics: IndustryMetrics{
			CaseStudies:    len(caseStudies),
			CoEs:           len(coes),
			Platforms:      len(platforms),
			Accelerators:   len(accelerators),
			TotalSolutions: len(caseStudies) + len(platforms) + len(accelerators),
		},
		CaseStudies:   caseStudies,
		CoEs:          coes,
		Platforms:     platforms,
		Accelerators:  accelerators,
		ImpactMetrics: impactMetrics(caseStudies),
	}, true
}

// targeting returns nodes of type t with an outgoing TARGETS edge to industryID
func (qb *QueryBuilder) targeting(industryID string, t storage.EntityType) []*storage.Node {
	out := []*storage.Node{}
	for _, n := range qb.graph.FindByType(t) {
		for _, e := range qb.graph.GetEdges(n.ID) {
			if e.Type == storage.RelTargets && e.To == industryID {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func impactMetrics(caseStudies []*storage.Node) map[string]string {
	var out map[string]string
	for _, cs := range caseStudies {
		data, ok := cs.Data.(*storage.CaseStudyData)
		if !ok {
			continue
		}
		for _, m := range data.Metrics {
			if m.Name == "" || m.Value == "" {
				continue
			}
			if out == nil {
				out = make(map[string]string)
			}
			if existing, ok := out[m.Name]; ok {
				out[m.Name] = existing + ", " + m.Value
			} else {
				out[m.Name] = m.Value
			}
		}
	}
	return out
}

// GetIndustryCapabilities groups the CoEs and solutions targeting an industry
// by the pillar each one BELONGS_TO. Entities without a pillar edge are left
// out of the grouping.
func (qb *QueryBuilder) GetIndustryCapabilities(industryID string) (*IndustryCapabilities, bool) {
	start := time.Now()
	summary, ok := qb.industrySummary(industryID)
	if !ok {
		qb.record("industry_capabilities", start, 0)
		return nil, false
	}

	var groups []PillarCapabilities
	index := make(map[string]int)
	group := func(n *storage.Node) *PillarCapabilities {
		pillar, ok := qb.owningPillar(n.ID)
		if !ok {
			return nil
		}
		i, seen := index[pillar.ID]
		if !seen {
			i = len(groups)
			index[pillar.ID] = i
			groups = append(groups, PillarCapabilities{
				Pillar:    pillar,
				CoEs:      []*storage.Node{},
				Solutions: []*storage.Node{},
			})
		}
		return &groups[i]
	}

	for _, coe := range summary.CoEs {
		if g := group(coe); g != nil {
			g.CoEs = append(g.CoEs, coe)
		}
	}
	solutions := append(append([]*storage.Node{}, summary.Platforms...), summary.Accelerators...)
	for _, s := range solutions {
		if g := group(s); g != nil {
			g.Solutions = append(g.Solutions, s)
		}
	}

	if groups == nil {
		groups = []PillarCapabilities{}
	}
	qb.record("industry_capabilities", start, len(groups))
	return &IndustryCapabilities{Summary: summary, CapabilitiesByPillar: groups}, true
}

// owningPillar follows the first BELONGS_TO edge of id. It reports false
// when that edge is missing or does not end at a pillar.
func (qb *QueryBuilder) owningPillar(id string) (*storage.Node, bool) {
	for _, e := range qb.graph.GetEdges(id) {
		if e.Type != storage.RelBelongsTo {
			continue
		}
		return qb.typedNode(e.To, storage.TypePillar)
	}
	return nil, false
}

// GetIndustrySuccessStories returns the newest case studies targeting an
// industry, newest first by their date field. A non-positive limit uses
// DefaultSuccessStoryLimit.
func (qb *QueryBuilder) GetIndustrySuccessStories(industryID string, limit int) []*storage.Node {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultSuccessStoryLimit
	}

	summary, ok := qb.industrySummary(industryID)
	if !ok {
		qb.record("industry_success_stories", start, 0)
		return []*storage.Node{}
	}

	stories := append([]*storage.Node{}, summary.CaseStudies...)
	sort.SliceStable(stories, func(i, j int) bool {
		return caseStudyDate(stories[i]) > caseStudyDate(stories[j])
	})
	if len(stories) > limit {
		stories = stories[:limit]
	}

	qb.record("industry_success_stories", start, len(stories))
	return stories
}

func caseStudyDate(n *storage.Node) string {
	if data, ok := n.Data.(*storage.CaseStudyData); ok {
		return data.Date
	}
	return ""
}
