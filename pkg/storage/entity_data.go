package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EntityData is the type-specific attribute set of a node. Each entity type
// has exactly one variant; all variants share Common.
type EntityData interface {
	Base() *Common
	EntityType() EntityType
}

// Common holds the attributes every entity carries
type Common struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Order       int      `json:"order,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Base returns the shared attributes
func (c *Common) Base() *Common { return c }

// AssetFields are shared by the five IP asset variants
type AssetFields struct {
	StrategicValue string   `json:"strategicValue,omitempty"`
	ClientValue    []string `json:"clientValue,omitempty"`
	UsedByCoEs     []string `json:"usedByCoEs,omitempty"`
	Technologies   []string `json:"technologies,omitempty"`
	Industries     []string `json:"industries,omitempty"`
}

// Service is an offering delivered by a CoE
type Service struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
}

// Feature is a named capability of a platform or accelerator. Older data
// stores features as bare strings.
type Feature struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	BusinessValue string `json:"businessValue,omitempty"`
}

// UnmarshalJSON accepts either a string or an object
func (f *Feature) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*f = Feature{Name: name}
		return nil
	}

	type plain Feature
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = Feature(p)
	return nil
}

type Metric struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Improvement string `json:"improvement,omitempty"`
}

type SuccessStory struct {
	Client  string   `json:"client"`
	Outcome string   `json:"outcome"`
	Metrics []Metric `json:"metrics,omitempty"`
}

type Outcome struct {
	Description   string `json:"description"`
	Impact        string `json:"impact,omitempty"`
	MeasuredValue string `json:"measuredValue,omitempty"`
}

type CaseStudyReference struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

type PillarData struct {
	Common
	CoECount      int      `json:"coeCount,omitempty"`
	KeyFocusAreas []string `json:"keyFocusAreas,omitempty"`
}

type CoEData struct {
	Common
	PillarID         string               `json:"pillarId,omitempty"`
	KeyCompetencies  []string             `json:"keyCompetencies,omitempty"`
	IPAssets         []string             `json:"ipAssets,omitempty"`
	Platforms        []string             `json:"platforms,omitempty"`
	Technologies     []string             `json:"technologies,omitempty"`
	Services         []Service            `json:"services,omitempty"`
	TargetIndustries []string             `json:"targetIndustries,omitempty"`
	CaseStudies      []CaseStudyReference `json:"caseStudies,omitempty"`
}

type PlatformData struct {
	Common
	AssetFields
	KeyFeatures           []Feature `json:"keyFeatures,omitempty"`
	BusinessImpactMetrics []Metric  `json:"businessImpactMetrics,omitempty"`
	MaturityLevel         string    `json:"maturityLevel,omitempty"`
	DeploymentModels      []string  `json:"deploymentModels,omitempty"`
}

type AcceleratorData struct {
	Common
	AssetFields
	SolutionType       string         `json:"solutionType,omitempty"`
	KeyFeatures        []Feature      `json:"keyFeatures,omitempty"`
	ClientValueMetrics []Metric       `json:"clientValueMetrics,omitempty"`
	SuccessStories     []SuccessStory `json:"successStories,omitempty"`
	DeploymentTime     string         `json:"deploymentTime,omitempty"`
	CostSavings        string         `json:"costSavings,omitempty"`
}

type ComponentData struct {
	Common
	AssetFields
	ComponentType      string   `json:"componentType,omitempty"`
	TechnicalSpecs     []string `json:"technicalSpecs,omitempty"`
	IntegrationPoints  []string `json:"integrationPoints,omitempty"`
	PerformanceMetrics []Metric `json:"performanceMetrics,omitempty"`
}

type FrameworkData struct {
	Common
	AssetFields
	FrameworkType string   `json:"frameworkType,omitempty"`
	Methodology   string   `json:"methodology,omitempty"`
	Deliverables  []string `json:"deliverables,omitempty"`
	MaturityModel string   `json:"maturityModel,omitempty"`
}

type PrototypeData struct {
	Common
	AssetFields
	MarketOpportunity string `json:"marketOpportunity,omitempty"`
	ReadinessLevel    string `json:"readinessLevel,omitempty"`
	PotentialImpact   string `json:"potentialImpact,omitempty"`
	FutureRoadmap     string `json:"futureRoadmap,omitempty"`
}

type TechnologyData struct {
	Common
	Vendor        string `json:"vendor,omitempty"`
	IsOpenSource  bool   `json:"isOpenSource,omitempty"`
	IsPartnership bool   `json:"isPartnership,omitempty"`
}

type IndustryData struct {
	Common
	Segment string `json:"segment,omitempty"`
}

type CaseStudyData struct {
	Common
	ClientName   string    `json:"clientName,omitempty"`
	IndustryID   string    `json:"industryId,omitempty"`
	Challenge    string    `json:"challenge,omitempty"`
	Solution     string    `json:"solution,omitempty"`
	IPAssetsUsed []string  `json:"ipAssetsUsed,omitempty"`
	CoEsInvolved []string  `json:"coesInvolved,omitempty"`
	Outcomes     []Outcome `json:"outcomes,omitempty"`
	Metrics      []Metric  `json:"metrics,omitempty"`
	Date         string    `json:"date,omitempty"`
}

func (*PillarData) EntityType() EntityType      { return TypePillar }
func (*CoEData) EntityType() EntityType         { return TypeCoE }
func (*PlatformData) EntityType() EntityType    { return TypePlatform }
func (*AcceleratorData) EntityType() EntityType { return TypeAccelerator }
func (*ComponentData) EntityType() EntityType   { return TypeComponent }
func (*FrameworkData) EntityType() EntityType   { return TypeFramework }
func (*PrototypeData) EntityType() EntityType   { return TypePrototype }
func (*TechnologyData) EntityType() EntityType  { return TypeTechnology }
func (*IndustryData) EntityType() EntityType    { return TypeIndustry }
func (*CaseStudyData) EntityType() EntityType   { return TypeCaseStudy }

// NewEntityData returns the empty variant for t, or nil for an unknown type
func NewEntityData(t EntityType) EntityData {
	switch t {
	case TypePillar:
		return &PillarData{}
	case TypeCoE:
		return &CoEData{}
	case TypePlatform:
		return &PlatformData{}
	case TypeAccelerator:
		return &AcceleratorData{}
	case TypeComponent:
		return &ComponentData{}
	case TypeFramework:
		return &FrameworkData{}
	case TypePrototype:
		return &PrototypeData{}
	case TypeTechnology:
		return &TechnologyData{}
	case TypeIndustry:
		return &IndustryData{}
	case TypeCaseStudy:
		return &CaseStudyData{}
	}
	return nil
}

// DecodeEntityData decodes raw JSON into the variant for t. Empty or null
// input yields the empty variant.
func DecodeEntityData(t EntityType, raw []byte) (EntityData, error) {
	data := NewEntityData(t)
	if data == nil {
		return nil, fmt.Errorf("unknown entity type %q", t)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return data, nil
	}
	if err := json.Unmarshal(trimmed, data); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", t, err)
	}
	return data, nil
}

// assetFields returns the IP asset attributes of data, if it has any
func assetFields(data EntityData) *AssetFields {
	switch d := data.(type) {
	case *PlatformData:
		return &d.AssetFields
	case *AcceleratorData:
		return &d.AssetFields
	case *ComponentData:
		return &d.AssetFields
	case *FrameworkData:
		return &d.AssetFields
	case *PrototypeData:
		return &d.AssetFields
	}
	return nil
}

// AssetAttributes exposes the IP asset attributes of data
func AssetAttributes(data EntityData) (*AssetFields, bool) {
	af := assetFields(data)
	return af, af != nil
}

// DefaultTags derives search tags from an entity's own attributes, the way
// ingestion populates NodeMetadata.Tags. It returns nil when data is not the
// variant for t.
func DefaultTags(t EntityType, data EntityData) []string {
	if data == nil || data.EntityType() != t {
		return nil
	}
	var tags []string
	switch d := data.(type) {
	case *PillarData:
		tags = append(tags, d.KeyFocusAreas...)
	case *CoEData:
		tags = append(tags, d.KeyCompetencies...)
	case *PlatformData:
		for _, f := range d.KeyFeatures {
			tags = append(tags, f.Name)
		}
	case *AcceleratorData:
		for _, f := range d.KeyFeatures {
			tags = append(tags, f.Name)
		}
	case *ComponentData:
		tags = append(tags, d.ComponentType)
	case *FrameworkData:
		tags = append(tags, d.FrameworkType, d.Methodology)
	case *PrototypeData:
		tags = append(tags, d.ReadinessLevel)
	case *TechnologyData:
		tags = append(tags, d.Category)
	case *IndustryData:
		tags = append(tags, d.Segment)
	case *CaseStudyData:
		for _, o := range d.Outcomes {
			tags = append(tags, o.Description)
		}
	}

	out := tags[:0]
	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
