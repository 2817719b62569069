package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxIDLength   = 200
	MaxNameLength = 300
	MaxTags       = 50

	// Regular expressions
	entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("entityid", func(fl validator.FieldLevel) bool {
		return entityIDPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("entitytype", func(fl validator.FieldLevel) bool {
		return storage.EntityType(fl.Field().String()).Valid()
	})
}

// NodeRecord is the subset of a node checked at import boundaries
type NodeRecord struct {
	ID   string   `json:"id" validate:"required,max=200,entityid"`
	Type string   `json:"type" validate:"required,entitytype"`
	Name string   `json:"name" validate:"max=300"`
	Tags []string `json:"tags" validate:"max=50,dive,required,max=100"`
}

// EdgeRecord is the subset of an edge checked at import boundaries. Edge
// endpoints are not required to exist, and the relationship type is an open
// string; whitelist checks belong to the graph validation pass.
type EdgeRecord struct {
	ID     string  `json:"id" validate:"omitempty,max=200"`
	From   string  `json:"from" validate:"required,max=200,entityid"`
	To     string  `json:"to" validate:"required,max=200,entityid"`
	Type   string  `json:"type" validate:"required,max=50"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// NodeRecordOf extracts the validated fields of a node
func NodeRecordOf(n *storage.Node) NodeRecord {
	rec := NodeRecord{ID: n.ID, Type: string(n.Type)}
	if n.Data != nil {
		rec.Name = n.Data.Base().Name
		rec.Tags = n.Data.Base().Tags
	}
	return rec
}

// EdgeRecordOf extracts the validated fields of an edge
func EdgeRecordOf(e *storage.Edge) EdgeRecord {
	return EdgeRecord{ID: e.ID, From: e.From, To: e.To, Type: string(e.Type), Weight: e.Weight}
}

// ValidateNode validates a node about to be loaded into the graph
func ValidateNode(n *storage.Node) error {
	if n == nil {
		return errors.New("node cannot be nil")
	}
	if n.Data != nil && n.Data.EntityType() != n.Type {
		return fmt.Errorf("Data: %s payload on %s node", n.Data.EntityType(), n.Type)
	}
	rec := NodeRecordOf(n)
	if err := validate.Struct(&rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateEdge validates an edge about to be loaded into the graph
func ValidateEdge(e *storage.Edge) error {
	if e == nil {
		return errors.New("edge cannot be nil")
	}
	rec := EdgeRecordOf(e)
	if err := validate.Struct(&rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateSnapshot checks every record of a snapshot and returns all
// failures joined together
func ValidateSnapshot(snap *storage.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}

	var errs []error
	for i, n := range snap.Nodes {
		if err := ValidateNode(n); err != nil {
			errs = append(errs, fmt.Errorf("nodes[%d]: %w", i, err))
		}
	}
	for i, e := range snap.Edges {
		if err := ValidateEdge(e); err != nil {
			errs = append(errs, fmt.Errorf("edges[%d]: %w", i, err))
		}
	}
	for i, a := range snap.PillarAssociations {
		if a.EntityID == "" {
			errs = append(errs, fmt.Errorf("pillarAssociations[%d]: EntityID: field is required", i))
		}
	}
	return errors.Join(errs...)
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "entityid":
			return fmt.Errorf("%s: %q is not a valid entity id", field, e.Value())
		case "entitytype":
			return fmt.Errorf("%s: unknown entity type %q", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
