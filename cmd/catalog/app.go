package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/capability-graph/pkg/algorithms"
	"github.com/dd0wney/capability-graph/pkg/config"
	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/metrics"
	"github.com/dd0wney/capability-graph/pkg/query"
	"github.com/dd0wney/capability-graph/pkg/storage"
	"github.com/dd0wney/capability-graph/pkg/validation"
)

// app carries the state shared by every command
type app struct {
	configPath   string
	snapshotPath string
	logLevel     string

	errOut io.Writer

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	graph   *storage.GraphStorage
	qb      *query.QueryBuilder
}

// load reads the configuration and the snapshot, then derives pillar
// associations when the snapshot carries none
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.snapshotPath != "" {
		cfg.Snapshot.Path = a.snapshotPath
	}
	a.cfg = cfg

	logger := cfg.NewLogger(a.errOut)
	a.logger = logger
	a.metrics = cfg.NewMetrics()
	a.graph = storage.NewGraphStorageWithConfig(cfg.StorageConfig(a.metrics))

	opts := []query.Option{query.WithLogger(logger)}
	if a.metrics != nil {
		opts = append(opts, query.WithMetrics(a.metrics))
	}
	a.qb = query.NewQueryBuilder(a.graph, opts...)

	snap, err := a.readSnapshot(cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	a.graph.ApplySnapshot(snap)

	if len(snap.PillarAssociations) == 0 {
		a.derive()
	}
	return nil
}

func (a *app) readSnapshot(path string) (*storage.Snapshot, error) {
	logger := a.logger.With(logging.Component("snapshot"))
	timer := logging.StartTimer(logger, "load snapshot", logging.Path(path))

	f, err := os.Open(path)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := storage.ReadSnapshot(f)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	if a.cfg.Validation.Enabled {
		if err := validation.ValidateSnapshot(snap); err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
		}
	}

	timer.End(
		logging.String("snapshot_id", snap.ID),
		logging.Int("nodes", len(snap.Nodes)),
		logging.Int("edges", len(snap.Edges)),
	)
	return snap, nil
}

func (a *app) derive() *algorithms.DerivationResult {
	deriver := algorithms.NewPillarDeriver(a.graph, a.cfg.DeriverOptions(a.logger, a.metrics))
	return deriver.Run()
}

func (a *app) node(op, id string) (*storage.Node, error) {
	n, ok := a.graph.GetNode(id)
	if !ok {
		return nil, storage.NodeNotFoundError(op, id)
	}
	return n, nil
}
