package storage

import (
	"sync"

	"github.com/dd0wney/capability-graph/pkg/metrics"
)

// GraphStorage is the in-memory capability graph. It owns every node and
// edge, the forward and reverse adjacency lists, the secondary indexes and
// the derived pillar association table.
//
// The graph is built once per load and read many times. The lock makes
// reads safe alongside the occasional patch; it does not make a sequence of
// calls atomic.
type GraphStorage struct {
	// Core data structures
	nodes    map[string]*Node
	allNodes *idSet // insertion order of nodes

	// Adjacency lists, keyed by node id. Entries may exist for ids that
	// have no node (dangling edges are accepted).
	outgoingEdges map[string][]*Edge
	incomingEdges map[string][]*Edge
	edgeCount     int
	nextEdgeID    uint64

	// Secondary indexes
	nodesByType     map[EntityType]*idSet
	nodesByPillar   map[string]*idSet // CoE pillarId -> CoE ids
	nodesByCategory map[string]*idSet
	nodeByName      map[string]string // lowercase name -> id, last writer wins

	// Derived data
	pillarAssociations *associationTable

	reindexOnUpdate bool

	mu sync.RWMutex

	// Metrics
	metricsRegistry *metrics.Registry
}

// StorageConfig holds configuration for GraphStorage
type StorageConfig struct {
	// ReindexOnUpdate refreshes the name, category and pillar indexes after
	// UpdateNode. When false a renamed node stays under its old index keys.
	ReindexOnUpdate bool

	// Metrics receives node/edge gauges and mutation counters. Optional.
	Metrics *metrics.Registry
}

// DefaultStorageConfig returns the configuration used by NewGraphStorage
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{ReindexOnUpdate: true}
}

// idSet is a set of ids that remembers insertion order
type idSet struct {
	pos map[string]int
	ids []string
}

func newIDSet() *idSet {
	return &idSet{pos: make(map[string]int)}
}

func (s *idSet) add(id string) {
	if _, ok := s.pos[id]; ok {
		return
	}
	s.pos[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

func (s *idSet) remove(id string) {
	i, ok := s.pos[id]
	if !ok {
		return
	}
	delete(s.pos, id)
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	for j := i; j < len(s.ids); j++ {
		s.pos[s.ids[j]] = j
	}
}

func (s *idSet) contains(id string) bool {
	_, ok := s.pos[id]
	return ok
}

func (s *idSet) len() int {
	return len(s.ids)
}
