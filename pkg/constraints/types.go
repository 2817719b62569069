package constraints

import (
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// GraphReader defines the read-only operations needed for constraint validation.
// *storage.GraphStorage satisfies it; tests can substitute a hand-built view.
type GraphReader interface {
	// Node operations
	GetNode(id string) (*storage.Node, bool)
	HasNode(id string) bool
	AllNodes() []*storage.Node
	FindByType(t storage.EntityType) []*storage.Node

	// Edge operations
	AllEdges() []*storage.Edge
	GetEdges(id string) []*storage.Edge
	GetReverseEdges(id string) []*storage.Edge
}

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ViolationType categorizes the type of constraint violation
type ViolationType int

const (
	OrphanNode ViolationType = iota
	InvalidRelationship
	MissingReverseEdge
	DanglingEdge
	DependencyCycle
	CardinalityViolation
	UniquenessViolation
)

func (vt ViolationType) String() string {
	switch vt {
	case OrphanNode:
		return "OrphanNode"
	case InvalidRelationship:
		return "InvalidRelationship"
	case MissingReverseEdge:
		return "MissingReverseEdge"
	case DanglingEdge:
		return "DanglingEdge"
	case DependencyCycle:
		return "DependencyCycle"
	case CardinalityViolation:
		return "CardinalityViolation"
	case UniquenessViolation:
		return "UniquenessViolation"
	default:
		return "Unknown"
	}
}

// Violation represents a constraint violation. NodeID and EdgeID are empty
// when the violation is not tied to a single node or edge.
type Violation struct {
	Type       ViolationType
	Severity   Severity
	NodeID     string
	EdgeID     string
	Constraint string
	Message    string
	Details    map[string]any
}

// Constraint is the interface that all constraint types must implement.
// Constraints never fail; a problem with the graph is always reported as a
// violation.
type Constraint interface {
	// Validate checks the constraint against the graph
	// Returns a list of violations (empty if valid)
	Validate(graph GraphReader) []Violation

	// Name returns a human-readable name for the constraint
	Name() string
}
