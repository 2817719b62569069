package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
)

// snappyStreamMagic is the stream identifier chunk written by snappy's
// framed writer
var snappyStreamMagic = []byte("\xff\x06\x00\x00sNaPpY")

// Snapshot is a process-local dump of the live graph
type Snapshot struct {
	ID                 string              `json:"id"`
	CreatedAt          time.Time           `json:"createdAt"`
	Nodes              []*Node             `json:"nodes"`
	Edges              []*Edge             `json:"edges"`
	PillarAssociations []PillarAssociation `json:"pillarAssociations,omitempty"`
}

// SnapshotOptions controls ExportSnapshot
type SnapshotOptions struct {
	// Compress wraps the JSON payload in a snappy stream
	Compress bool
	Indent   bool
}

// Snapshot captures the current nodes, edges and pillar associations
func (gs *GraphStorage) Snapshot() *Snapshot {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return &Snapshot{
		ID:                 uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		Nodes:              gs.nodesFor(gs.allNodes.ids),
		Edges:              gs.allEdgesLocked(),
		PillarAssociations: gs.allAssociationsLocked(),
	}
}

// ExportSnapshot writes a snapshot of the graph to w
func (gs *GraphStorage) ExportSnapshot(w io.Writer, opts SnapshotOptions) (*Snapshot, error) {
	snap := gs.Snapshot()
	if err := WriteSnapshot(w, snap, opts); err != nil {
		return nil, err
	}
	return snap, nil
}

// WriteSnapshot encodes snap to w
func WriteSnapshot(w io.Writer, snap *Snapshot, opts SnapshotOptions) error {
	var data []byte
	var err error
	if opts.Indent {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = json.Marshal(snap)
	}
	if err != nil {
		return NewError("ExportSnapshot").Snapshot().Cause(fmt.Errorf("%w: %v", ErrMarshalFailed, err)).Err()
	}

	if !opts.Compress {
		if _, err := w.Write(data); err != nil {
			return SnapshotError("ExportSnapshot", err)
		}
		return nil
	}

	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(data); err != nil {
		return SnapshotError("ExportSnapshot", err)
	}
	if err := sw.Close(); err != nil {
		return SnapshotError("ExportSnapshot", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot, compressed or not
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(snappyStreamMagic))

	var src io.Reader = br
	if bytes.Equal(head, snappyStreamMagic) {
		src = snappy.NewReader(br)
	}

	var snap Snapshot
	if err := json.NewDecoder(src).Decode(&snap); err != nil {
		return nil, NewError("ReadSnapshot").Snapshot().Cause(fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)).Err()
	}
	return &snap, nil
}

// ApplySnapshot adds the snapshot's nodes and edges to the graph and, when
// present, replaces the pillar association table. Nil records are skipped.
func (gs *GraphStorage) ApplySnapshot(snap *Snapshot) {
	if snap == nil {
		return
	}
	for _, node := range snap.Nodes {
		gs.AddNode(node)
	}
	for _, edge := range snap.Edges {
		gs.AddEdge(edge)
	}
	gs.syncEdgeSequence()
	if len(snap.PillarAssociations) > 0 {
		gs.SetPillarAssociations(snap.PillarAssociations)
	}
}

// ImportSnapshot reads a snapshot from r and applies it to the graph
func (gs *GraphStorage) ImportSnapshot(r io.Reader) (*Snapshot, error) {
	snap, err := ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	gs.ApplySnapshot(snap)
	return snap, nil
}

// syncEdgeSequence moves the edge id sequence past any imported "edge_<n>"
// ids so generated ids stay unique
func (gs *GraphStorage) syncEdgeSequence() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	for _, edges := range gs.outgoingEdges {
		for _, e := range edges {
			var n uint64
			if _, err := fmt.Sscanf(e.ID, "edge_%d", &n); err == nil && n > gs.nextEdgeID {
				gs.nextEdgeID = n
			}
		}
	}
}
