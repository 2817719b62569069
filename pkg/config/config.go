package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/capability-graph/pkg/algorithms"
	"github.com/dd0wney/capability-graph/pkg/constraints"
	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
	"github.com/dd0wney/capability-graph/pkg/query"
	"github.com/dd0wney/capability-graph/pkg/storage"
	"github.com/dd0wney/capability-graph/pkg/validation"
)

// Config is the catalog tool configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Graph      GraphConfig      `yaml:"graph"`
	Query      QueryConfig      `yaml:"query"`
	Validation ValidationConfig `yaml:"validation"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

type GraphConfig struct {
	// DerivationDepth bounds the pillar association walk
	DerivationDepth int  `yaml:"derivation_depth"`
	ReindexOnUpdate bool `yaml:"reindex_on_update"`
}

type QueryConfig struct {
	RelatedDepth      int `yaml:"related_depth"`
	SuccessStoryLimit int `yaml:"success_story_limit"`
	PathMaxDepth      int `yaml:"path_max_depth"`
}

type ValidationConfig struct {
	Enabled bool `yaml:"enabled"`
	// OrphanTypes limits the orphan check (empty = every entity type)
	OrphanTypes []string `yaml:"orphan_types"`
	// AllowedRelationships overrides the recommended vocabulary
	AllowedRelationships []string `yaml:"allowed_relationships"`
}

type SnapshotConfig struct {
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Graph: GraphConfig{
			DerivationDepth: algorithms.DefaultDerivationDepth,
			ReindexOnUpdate: true,
		},
		Query: QueryConfig{
			RelatedDepth:      query.DefaultRelatedDepth,
			SuccessStoryLimit: query.DefaultSuccessStoryLimit,
			PathMaxDepth:      5,
		},
		Validation: ValidationConfig{Enabled: true},
		Snapshot:   SnapshotConfig{Path: "catalog.snapshot"},
		Metrics:    MetricsConfig{Enabled: true},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("logging")
	cv.OneOf("level", c.Logging.Level, []string{"debug", "info", "warn", "warning", "error"})
	cv.OneOf("format", c.Logging.Format, []string{"json", "text"})
	errs := cv.Errors()

	cv = validation.NewConfigValidator("graph")
	cv.RangeInt("derivation_depth", c.Graph.DerivationDepth, 1, 50)
	errs = append(errs, cv.Errors()...)

	cv = validation.NewConfigValidator("query")
	cv.RangeInt("related_depth", c.Query.RelatedDepth, 1, 20)
	cv.Positive("success_story_limit", c.Query.SuccessStoryLimit)
	cv.RangeInt("path_max_depth", c.Query.PathMaxDepth, 1, 50)
	errs = append(errs, cv.Errors()...)

	cv = validation.NewConfigValidator("validation")
	for _, t := range c.Validation.OrphanTypes {
		cv.Custom("orphan_types", func() error {
			if !storage.EntityType(t).Valid() {
				return fmt.Errorf("unknown entity type %q", t)
			}
			return nil
		})
	}
	errs = append(errs, cv.Errors()...)

	cv = validation.NewConfigValidator("snapshot")
	cv.Required("path", c.Snapshot.Path)
	errs = append(errs, cv.Errors()...)

	return errors.Join(errs...)
}

// NewLogger builds the configured logger writing to w
func (c *Config) NewLogger(w io.Writer) *logging.StructuredLogger {
	format := logging.FormatJSON
	if c.Logging.Format == "text" {
		format = logging.FormatText
	}
	return logging.New(w, logging.ParseLevel(c.Logging.Level), format)
}

// NewMetrics returns a registry when metrics are enabled, nil otherwise
func (c *Config) NewMetrics() *metrics.Registry {
	if !c.Metrics.Enabled {
		return nil
	}
	return metrics.NewRegistry()
}

// StorageConfig maps the graph section onto storage options
func (c *Config) StorageConfig(reg *metrics.Registry) storage.StorageConfig {
	return storage.StorageConfig{
		ReindexOnUpdate: c.Graph.ReindexOnUpdate,
		Metrics:         reg,
	}
}

// DeriverOptions maps the graph section onto deriver options
func (c *Config) DeriverOptions(logger logging.Logger, reg *metrics.Registry) algorithms.DeriverOptions {
	return algorithms.DeriverOptions{
		MaxDepth: c.Graph.DerivationDepth,
		Logger:   logger,
		Metrics:  reg,
	}
}

// NewValidator builds the structural validator for the validation section
func (c *Config) NewValidator(reg *metrics.Registry) *constraints.Validator {
	orphans := &constraints.OrphanConstraint{}
	for _, t := range c.Validation.OrphanTypes {
		orphans.Types = append(orphans.Types, storage.EntityType(t))
	}
	relTypes := &constraints.RelationshipTypeConstraint{}
	for _, r := range c.Validation.AllowedRelationships {
		relTypes.Allowed = append(relTypes.Allowed, storage.RelationshipType(r))
	}

	v := constraints.NewValidator()
	v.AddConstraints([]constraints.Constraint{
		orphans,
		relTypes,
		&constraints.BidirectionalConstraint{},
		&constraints.DanglingEdgeConstraint{},
		&constraints.DependencyCycleConstraint{},
		constraints.CoEPillarConstraint(),
		&constraints.UniqueEdgeConstraint{},
	})
	if reg != nil {
		v.SetMetricsRegistry(reg)
	}
	return v
}
