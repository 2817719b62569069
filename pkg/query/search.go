package query

import (
	"time"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

// SearchResults partitions ranked search hits by entity type. Each list
// keeps the ranking order of the underlying search.
type SearchResults struct {
	Pillars      []*storage.Node `json:"pillars"`
	CoEs         []*storage.Node `json:"coes"`
	Platforms    []*storage.Node `json:"platforms"`
	Accelerators []*storage.Node `json:"accelerators"`
	Components   []*storage.Node `json:"components"`
	Frameworks   []*storage.Node `json:"frameworks"`
	Prototypes   []*storage.Node `json:"prototypes"`
	Technologies []*storage.Node `json:"technologies"`
	Industries   []*storage.Node `json:"industries"`
	CaseStudies  []*storage.Node `json:"caseStudies"`
}

// Total is the number of hits across every list
func (r *SearchResults) Total() int {
	total := 0
	for _, t := range storage.AllEntityTypes() {
		total += len(*r.list(t))
	}
	return total
}

// ByType returns the hits for one entity type
func (r *SearchResults) ByType(t storage.EntityType) []*storage.Node {
	if l := r.list(t); l != nil {
		return *l
	}
	return nil
}

func (r *SearchResults) list(t storage.EntityType) *[]*storage.Node {
	switch t {
	case storage.TypePillar:
		return &r.Pillars
	case storage.TypeCoE:
		return &r.CoEs
	case storage.TypePlatform:
		return &r.Platforms
	case storage.TypeAccelerator:
		return &r.Accelerators
	case storage.TypeComponent:
		return &r.Components
	case storage.TypeFramework:
		return &r.Frameworks
	case storage.TypePrototype:
		return &r.Prototypes
	case storage.TypeTechnology:
		return &r.Technologies
	case storage.TypeIndustry:
		return &r.Industries
	case storage.TypeCaseStudy:
		return &r.CaseStudies
	}
	return nil
}

func newSearchResults() *SearchResults {
	r := &SearchResults{}
	for _, t := range storage.AllEntityTypes() {
		*r.list(t) = []*storage.Node{}
	}
	return r
}

// SearchAll runs a graph search and splits the hits by entity type
func (qb *QueryBuilder) SearchAll(query string) *SearchResults {
	start := time.Now()
	results := newSearchResults()

	for _, n := range qb.graph.Search(query) {
		if l := results.list(n.Type); l != nil {
			*l = append(*l, n)
		}
	}

	qb.record("search_all", start, results.Total())
	return results
}
