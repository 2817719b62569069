package constraints

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
)

// ValidationResult contains the results of validating a graph against constraints
type ValidationResult struct {
	ID         string      // Unique id of this validation run
	Valid      bool        // True if no Error-severity violations were found
	Violations []Violation // List of all violations
	CheckedAt  time.Time   // When validation was performed
}

// GetViolationsBySeverity returns violations filtered by severity level
func (vr *ValidationResult) GetViolationsBySeverity(severity Severity) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range vr.Violations {
		if v.Severity == severity {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// GetViolationsByType returns violations filtered by type
func (vr *ValidationResult) GetViolationsByType(violationType ViolationType) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range vr.Violations {
		if v.Type == violationType {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Errors returns the messages of Error-severity violations
func (vr *ValidationResult) Errors() []string {
	return messages(vr.GetViolationsBySeverity(Error))
}

// Warnings returns the messages of Warning-severity violations
func (vr *ValidationResult) Warnings() []string {
	return messages(vr.GetViolationsBySeverity(Warning))
}

func messages(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Message
	}
	return out
}

// Log writes one entry per violation at a level matching its severity,
// followed by a summary line.
func (vr *ValidationResult) Log(logger logging.Logger) {
	for _, v := range vr.Violations {
		fields := []logging.Field{
			logging.String("constraint", v.Constraint),
			logging.String("violation", v.Type.String()),
		}
		if v.NodeID != "" {
			fields = append(fields, logging.EntityID(v.NodeID))
		}
		if v.EdgeID != "" {
			fields = append(fields, logging.EdgeID(v.EdgeID))
		}

		switch v.Severity {
		case Error:
			logger.Error(v.Message, fields...)
		case Warning:
			logger.Warn(v.Message, fields...)
		default:
			logger.Info(v.Message, fields...)
		}
	}

	logger.Info("graph validation complete",
		logging.String("validation_id", vr.ID),
		logging.Bool("valid", vr.Valid),
		logging.Int("errors", len(vr.GetViolationsBySeverity(Error))),
		logging.Int("warnings", len(vr.GetViolationsBySeverity(Warning))),
	)
}

// Validator manages a set of constraints and validates graphs against them
type Validator struct {
	constraints []Constraint
	metrics     *metrics.Registry
}

// NewValidator creates a new empty validator
func NewValidator() *Validator {
	return &Validator{
		constraints: make([]Constraint, 0),
	}
}

// DefaultValidator checks the structural rules every catalog load should
// satisfy
func DefaultValidator() *Validator {
	v := NewValidator()
	v.AddConstraints([]Constraint{
		&OrphanConstraint{},
		&RelationshipTypeConstraint{},
		&BidirectionalConstraint{},
		&DanglingEdgeConstraint{},
		&DependencyCycleConstraint{},
		CoEPillarConstraint(),
		&UniqueEdgeConstraint{},
	})
	return v
}

// SetMetricsRegistry records every violation found by Validate
func (v *Validator) SetMetricsRegistry(registry *metrics.Registry) {
	v.metrics = registry
}

// AddConstraint adds a constraint to the validator
func (v *Validator) AddConstraint(constraint Constraint) {
	v.constraints = append(v.constraints, constraint)
}

// AddConstraints adds multiple constraints to the validator
func (v *Validator) AddConstraints(constraints []Constraint) {
	v.constraints = append(v.constraints, constraints...)
}

// Validate runs all constraints against the graph and returns the results
func (v *Validator) Validate(graph GraphReader) *ValidationResult {
	result := &ValidationResult{
		ID:         uuid.NewString(),
		Valid:      true,
		Violations: make([]Violation, 0),
		CheckedAt:  time.Now(),
	}

	for _, constraint := range v.constraints {
		violations := constraint.Validate(graph)
		for _, violation := range violations {
			if violation.Severity == Error {
				result.Valid = false
			}
			if v.metrics != nil {
				v.metrics.RecordViolation(strings.ToLower(violation.Severity.String()), violation.Type.String())
			}
		}
		result.Violations = append(result.Violations, violations...)
	}

	return result
}

// GetConstraints returns all constraints in the validator
func (v *Validator) GetConstraints() []Constraint {
	return v.constraints
}

// ClearConstraints removes all constraints from the validator
func (v *Validator) ClearConstraints() {
	v.constraints = make([]Constraint, 0)
}
