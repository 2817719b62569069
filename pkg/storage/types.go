package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityType is the kind of catalog entity a node represents
type EntityType string

const (
	TypePillar      EntityType = "pillar"
	TypeCoE         EntityType = "coe"
	TypePlatform    EntityType = "platform"
	TypeAccelerator EntityType = "accelerator"
	TypeComponent   EntityType = "component"
	TypeFramework   EntityType = "framework"
	TypePrototype   EntityType = "prototype"
	TypeTechnology  EntityType = "technology"
	TypeIndustry    EntityType = "industry"
	TypeCaseStudy   EntityType = "casestudy"
)

// AllEntityTypes returns every entity type in canonical order
func AllEntityTypes() []EntityType {
	return []EntityType{
		TypePillar, TypeCoE, TypePlatform, TypeAccelerator, TypeComponent,
		TypeFramework, TypePrototype, TypeTechnology, TypeIndustry, TypeCaseStudy,
	}
}

// IPAssetTypes returns the reusable delivery artifact types
func IPAssetTypes() []EntityType {
	return []EntityType{TypePlatform, TypeAccelerator, TypeComponent, TypeFramework, TypePrototype}
}

// IsIPAsset reports whether t is one of the IP asset types
func (t EntityType) IsIPAsset() bool {
	switch t {
	case TypePlatform, TypeAccelerator, TypeComponent, TypeFramework, TypePrototype:
		return true
	}
	return false
}

// Valid reports whether t is a known entity type
func (t EntityType) Valid() bool {
	for _, known := range AllEntityTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// RelationshipType is the label of a directed edge. Any string is accepted;
// the constants below form the recommended vocabulary.
type RelationshipType string

const (
	RelBelongsTo  RelationshipType = "BELONGS_TO"
	RelUses       RelationshipType = "USES"
	RelImplements RelationshipType = "IMPLEMENTS"
	RelTargets    RelationshipType = "TARGETS"
	RelLeverages  RelationshipType = "LEVERAGES"
	RelDelivers   RelationshipType = "DELIVERS"
	RelDependsOn  RelationshipType = "DEPENDS_ON"
	RelRelatedTo  RelationshipType = "RELATED_TO"
	RelInvolvedIn RelationshipType = "INVOLVED_IN"
	RelSupports   RelationshipType = "SUPPORTS"

	// Legacy vocabulary still found in older data sets
	RelDeliveredFor RelationshipType = "DELIVERED_FOR"
	RelLeveraged    RelationshipType = "LEVERAGED"
	RelPartnersWith RelationshipType = "PARTNERS_WITH"
	RelEnhancedBy   RelationshipType = "ENHANCED_BY"
	RelFeedsInto    RelationshipType = "FEEDS_INTO"
	RelRequires     RelationshipType = "REQUIRES"
)

type relationshipInfo struct {
	inverse      RelationshipType
	label        string
	reverseLabel string
	recommended  bool
}

var relationshipVocabulary = map[RelationshipType]relationshipInfo{
	RelBelongsTo:  {"HAS", "Belongs To", "Contains", true},
	RelUses:       {"USED_BY", "Uses", "Used By", true},
	RelImplements: {"IMPLEMENTED_BY", "Implements", "Implemented By", true},
	RelTargets:    {"TARGETED_BY", "Targets", "Targeted By", true},
	RelLeverages:  {"LEVERAGED_BY", "Leverages", "Leveraged By", true},
	RelDelivers:   {"DELIVERED_BY", "Delivers", "Delivered By", true},
	RelDependsOn:  {"REQUIRED_BY", "Depends On", "Required By", true},
	RelRelatedTo:  {"RELATED_TO", "Related To", "Related To", true},
	RelInvolvedIn: {"INVOLVES", "Involved In", "Involves", true},
	RelSupports:   {"SUPPORTED_BY", "Supports", "Supported By", true},

	RelDeliveredFor: {"RECEIVED", "Delivered For", "Received", false},
	RelLeveraged:    {"LEVERAGED_IN", "Leveraged", "Leveraged In", false},
	RelPartnersWith: {"PARTNERS_WITH", "Partners With", "Partners With", false},
	RelEnhancedBy:   {"ENHANCES", "Enhanced By", "Enhances", false},
	RelFeedsInto:    {"FED_BY", "Feeds Into", "Fed By", false},
	RelRequires:     {"REQUIRED_BY", "Requires", "Required By", false},
}

// RecommendedRelationshipTypes returns the recommended vocabulary
func RecommendedRelationshipTypes() []RelationshipType {
	return []RelationshipType{
		RelBelongsTo, RelUses, RelImplements, RelTargets, RelLeverages,
		RelDelivers, RelDependsOn, RelRelatedTo, RelInvolvedIn, RelSupports,
	}
}

// Inverse returns the semantic inverse name. Unknown types return themselves.
func (r RelationshipType) Inverse() RelationshipType {
	if info, ok := relationshipVocabulary[r]; ok {
		return info.inverse
	}
	return r
}

// Label returns the display string for the forward direction
func (r RelationshipType) Label() string {
	if info, ok := relationshipVocabulary[r]; ok {
		return info.label
	}
	return string(r)
}

// ReverseLabel returns the display string when read from the target's side
func (r RelationshipType) ReverseLabel() string {
	if info, ok := relationshipVocabulary[r]; ok {
		return info.reverseLabel
	}
	return string(r)
}

// IsRecommended reports membership in the recommended vocabulary
func (r RelationshipType) IsRecommended() bool {
	return relationshipVocabulary[r].recommended
}

// NodeMetadata holds bookkeeping that is not part of the entity itself
type NodeMetadata struct {
	CreatedAt time.Time       `json:"createdAt,omitzero"`
	UpdatedAt time.Time       `json:"updatedAt,omitzero"`
	Tags      []string        `json:"tags,omitempty"`
	RawData   json.RawMessage `json:"rawData,omitempty"`
}

// DeclaredRelationship is one relationship as written in an entity's source
// record. Outgoing entries carry To, incoming entries carry From.
type DeclaredRelationship struct {
	From string           `json:"from,omitempty"`
	To   string           `json:"to,omitempty"`
	Type RelationshipType `json:"type"`
}

// DeclaredRelationships lists the relationships a source record declares
type DeclaredRelationships struct {
	Outgoing []DeclaredRelationship `json:"outgoing"`
	Incoming []DeclaredRelationship `json:"incoming"`
}

// Node is one catalog entity
type Node struct {
	ID       string       `json:"id"`
	Type     EntityType   `json:"type"`
	Data     EntityData   `json:"data"`
	Metadata NodeMetadata `json:"metadata"`
}

// Name returns the entity name, or "" when the node carries no data
func (n *Node) Name() string {
	if n == nil || n.Data == nil {
		return ""
	}
	return n.Data.Base().Name
}

// Common returns the shared attributes of the node's data
func (n *Node) Common() Common {
	if n == nil || n.Data == nil {
		return Common{}
	}
	return *n.Data.Base()
}

// DeclaredRelationships decodes the "relationships" block of the node's raw
// source record. It reports false when there is no raw record, the record
// has no such block, or the record cannot be decoded.
func (n *Node) DeclaredRelationships() (DeclaredRelationships, bool) {
	if n == nil || len(n.Metadata.RawData) == 0 {
		return DeclaredRelationships{}, false
	}
	var raw struct {
		Relationships *DeclaredRelationships `json:"relationships"`
	}
	if err := json.Unmarshal(n.Metadata.RawData, &raw); err != nil || raw.Relationships == nil {
		return DeclaredRelationships{}, false
	}
	return *raw.Relationships, true
}

// UnmarshalJSON decodes the data bag into the variant named by "type"
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     EntityType      `json:"type"`
		Data     json.RawMessage `json:"data"`
		Metadata NodeMetadata    `json:"metadata"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	data, err := DecodeEntityData(raw.Type, raw.Data)
	if err != nil {
		return fmt.Errorf("node %s: %w", raw.ID, err)
	}

	n.ID = raw.ID
	n.Type = raw.Type
	n.Data = data
	n.Metadata = raw.Metadata
	return nil
}

// Edge is a directed, typed relationship between two node ids
type Edge struct {
	ID       string           `json:"id"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Type     RelationshipType `json:"type"`
	Metadata map[string]any   `json:"metadata,omitempty"`
	Weight   float64          `json:"weight,omitempty"`
}

// Direction selects which adjacency list FindRelated follows
type Direction int

const (
	DirectionForward Direction = iota
	DirectionReverse
	DirectionBoth
)

// String returns the lowercase direction name
func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionReverse:
		return "reverse"
	case DirectionBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseDirection converts "forward", "reverse" or "both"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "":
		return DirectionForward, nil
	case "reverse":
		return DirectionReverse, nil
	case "both":
		return DirectionBoth, nil
	}
	return DirectionForward, fmt.Errorf("unknown direction %q", s)
}

// Traversal is the node and edge set collected by a bounded walk
type Traversal struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// SearchResult pairs a node with its relevance score
type SearchResult struct {
	Node  *Node   `json:"node"`
	Score float64 `json:"score"`
}

// GraphStatistics summarizes the graph's size
type GraphStatistics struct {
	TotalNodes     int            `json:"totalNodes"`
	NodesByType    map[string]int `json:"nodesByType"`
	TotalEdges     int            `json:"totalEdges"`
	AvgConnections float64        `json:"avgConnections"`
}
