package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIndustrySummary(t *testing.T) {
	qb := NewQueryBuilder(buildCatalog(t))

	summary, ok := qb.GetIndustrySummary("ind_finance")
	require.True(t, ok)
	assert.Equal(t, "ind_finance", summary.Industry.ID)
	assert.Equal(t, []string{"cs_bank", "cs_old", "cs_new"}, ids(summary.CaseStudies))
	assert.Equal(t, []string{"coe_data"}, ids(summary.CoEs))
	assert.Equal(t, []string{"platform_lake"}, ids(summary.Platforms))
	assert.Equal(t, []string{"accel_migrate"}, ids(summary.Accelerators))
	assert.Equal(t, IndustryMetrics{
		CaseStudies:    3,
		CoEs:           1,
		Platforms:      1,
		Accelerators:   1,
		TotalSolutions: 5,
	}, summary.Metrics)
	assert.Equal(t, map[string]string{
		"costSavings":  "30%, 10%",
		"timeToMarket": "2x",
	}, summary.ImpactMetrics)

	empty, ok := qb.GetIndustrySummary("ind_empty")
	require.True(t, ok)
	assert.Zero(t, empty.Metrics.TotalSolutions)
	assert.Empty(t, empty.CaseStudies)
	assert.Nil(t, empty.ImpactMetrics)

	_, ok = qb.GetIndustrySummary("pillar_data")
	assert.False(t, ok)
}

func TestGetAllIndustrySummaries(t *testing.T) {
	summaries := NewQueryBuilder(buildCatalog(t)).GetAllIndustrySummaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "ind_finance", summaries[0].Industry.ID)
	assert.Equal(t, "ind_empty", summaries[1].Industry.ID)
}

func TestGetIndustryCapabilities(t *testing.T) {
	qb := NewQueryBuilder(buildCatalog(t))

	caps, ok := qb.GetIndustryCapabilities("ind_finance")
	require.True(t, ok)
	require.Len(t, caps.CapabilitiesByPillar, 1)

	group := caps.CapabilitiesByPillar[0]
	assert.Equal(t, "pillar_data", group.Pillar.ID)
	assert.Equal(t, []string{"coe_data"}, ids(group.CoEs))
	// accel_migrate has no BELONGS_TO edge and stays ungrouped
	assert.Equal(t, []string{"platform_lake"}, ids(group.Solutions))

	caps, ok = qb.GetIndustryCapabilities("ind_empty")
	require.True(t, ok)
	assert.NotNil(t, caps.CapabilitiesByPillar)
	assert.Empty(t, caps.CapabilitiesByPillar)

	_, ok = qb.GetIndustryCapabilities("missing")
	assert.False(t, ok)
}

func TestGetIndustrySuccessStories(t *testing.T) {
	qb := NewQueryBuilder(buildCatalog(t))

	assert.Equal(t, []string{"cs_new", "cs_bank"}, ids(qb.GetIndustrySuccessStories("ind_finance", 2)))
	assert.Equal(t, []string{"cs_new", "cs_bank", "cs_old"}, ids(qb.GetIndustrySuccessStories("ind_finance", 0)))
	assert.Empty(t, qb.GetIndustrySuccessStories("missing", 3))

	// Sorting works on a copy
	summary, _ := qb.GetIndustrySummary("ind_finance")
	assert.Equal(t, []string{"cs_bank", "cs_old", "cs_new"}, ids(summary.CaseStudies))
}
