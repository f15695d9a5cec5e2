package graph

import (
	"strings"
	"time"
)

// =============================================================================
// Constants
// =============================================================================

// DefaultMinStrength is the confidence floor the memory store applies when a
// request does not specify one.
const DefaultMinStrength = 0.75

// MaxNodes is the number of most recent memories a graph snapshot holds.
const MaxNodes = 50

// =============================================================================
// Data - Graph Snapshot
// =============================================================================

// Data is one graph snapshot as returned by the memory store.
// Both slices may be empty; an empty graph is a valid result.
type Data struct {
	Nodes []NodeRecord `json:"nodes" bson:"nodes"`
	Edges []EdgeRecord `json:"edges" bson:"edges"`
}

// NodeRecord is a single memory.
type NodeRecord struct {
	ID        int64     `json:"id" bson:"_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// EdgeRecord is an undirected connection between two memories. Strength is
// the connection confidence in (0, 1].
type EdgeRecord struct {
	Source   int64   `json:"source" bson:"source_note_id"`
	Target   int64   `json:"target" bson:"target_note_id"`
	Strength float64 `json:"strength" bson:"strength"`
	Reason   string  `json:"reason,omitempty" bson:"reason,omitempty"`
}

// IsEmpty reports whether the snapshot has no nodes.
func (d *Data) IsEmpty() bool { return d == nil || len(d.Nodes) == 0 }

// NodeCount returns the number of node records.
func (d *Data) NodeCount() int {
	if d == nil {
		return 0
	}
	return len(d.Nodes)
}

// EdgeCount returns the number of edge records.
func (d *Data) EdgeCount() int {
	if d == nil {
		return 0
	}
	return len(d.Edges)
}

// Filter returns a new snapshot restricted the way the memory store restricts
// a request. With a blank query every node is kept. Otherwise nodes whose
// content contains query (case-insensitive) are kept together with their
// direct neighbours over edges of at least minStrength. Edges survive when
// both endpoints are kept and strength >= minStrength. The receiver is not
// modified.
func (d *Data) Filter(query string, minStrength float64) *Data {
	out := &Data{Nodes: []NodeRecord{}, Edges: []EdgeRecord{}}
	if d == nil {
		return out
	}
	q := strings.ToLower(strings.TrimSpace(query))
	keep := make(map[int64]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if q == "" || strings.Contains(strings.ToLower(n.Content), q) {
			keep[n.ID] = true
		}
	}
	if q != "" {
		matched := make(map[int64]bool, len(keep))
		for id := range keep {
			matched[id] = true
		}
		for _, e := range d.Edges {
			if e.Strength < minStrength {
				continue
			}
			if matched[e.Source] {
				keep[e.Target] = true
			}
			if matched[e.Target] {
				keep[e.Source] = true
			}
		}
	}
	for _, n := range d.Nodes {
		if keep[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range d.Edges {
		if e.Strength < minStrength || !keep[e.Source] || !keep[e.Target] {
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}
