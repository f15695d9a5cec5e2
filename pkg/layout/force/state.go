package force

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Node is a memory positioned in the simulation. Position and velocity are
// owned by the engine; the pin (FX, FY) is written through [Engine.Pin] and
// [Engine.Unpin] only.
type Node struct {
	ID        int64
	Content   string
	CreatedAt time.Time

	X, Y   float64
	VX, VY float64

	// FX and FY are the pinned coordinates. Both are nil or both are set.
	FX, FY *float64
}

// Pinned reports whether the node is held at fixed coordinates.
func (n *Node) Pinned() bool { return n.FX != nil && n.FY != nil }

// Edge connects two nodes by index into State.Nodes.
type Edge struct {
	Source, Target     int
	SourceID, TargetID int64
	Strength           float64
	Reason             string
}

// State is the mutable simulation state for one graph generation.
type State struct {
	// ID identifies the generation in logs and hooks.
	ID    uuid.UUID
	Nodes []Node
	Edges []Edge

	// Alpha is the energy term scaling every force. AlphaTarget is the floor
	// alpha decays toward.
	Alpha       float64
	AlphaTarget float64
	Ticks       int

	index map[int64]int
}

// Lookup returns the index of the node with the given id.
func (s *State) Lookup(id int64) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// NodeView is the read-only projection of a node in a [Snapshot].
type NodeView struct {
	ID        int64
	Content   string
	CreatedAt time.Time
	X, Y      float64
	Pinned    bool
}

// EdgeView is the read-only projection of an edge in a [Snapshot].
// Source and Target index Snapshot.Nodes.
type EdgeView struct {
	Source, Target     int
	SourceID, TargetID int64
	Strength           float64
	Reason             string
}

// Snapshot is an immutable copy of the simulation after a tick. Subscribers
// may keep it; later ticks never modify it.
type Snapshot struct {
	ID      uuid.UUID
	Tick    int
	Alpha   float64
	Settled bool
	Nodes   []NodeView
	Edges   []EdgeView
}

// Empty reports whether the snapshot has no nodes.
func (s Snapshot) Empty() bool { return len(s.Nodes) == 0 }

// Bounds returns the bounding box of all node centres. For an empty
// snapshot every value is zero.
func (s Snapshot) Bounds() (minX, minY, maxX, maxY float64) {
	if len(s.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range s.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// Node returns the view of the node with the given id.
func (s Snapshot) Node(id int64) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

func (s *State) snapshot(settled bool) Snapshot {
	snap := Snapshot{
		ID:      s.ID,
		Tick:    s.Ticks,
		Alpha:   s.Alpha,
		Settled: settled,
		Nodes:   make([]NodeView, len(s.Nodes)),
		Edges:   make([]EdgeView, len(s.Edges)),
	}
	for i := range s.Nodes {
		n := &s.Nodes[i]
		snap.Nodes[i] = NodeView{
			ID:        n.ID,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
			X:         n.X,
			Y:         n.Y,
			Pinned:    n.Pinned(),
		}
	}
	for i, e := range s.Edges {
		snap.Edges[i] = EdgeView(e)
	}
	return snap
}
