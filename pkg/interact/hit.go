package interact

import (
	"math"

	"github.com/matzehuels/memgraph/pkg/layout/force"
)

// HitTest returns the node whose marker lies under the screen point. radius
// is the marker radius in graph units. Nodes later in the snapshot are drawn
// on top, so they win ties.
func HitTest(snap force.Snapshot, t Transform, screen Point, radius float64) (force.NodeView, bool) {
	if !screen.finite() || !finite(t.K) || t.K == 0 {
		return force.NodeView{}, false
	}
	g := t.Invert(screen)
	for i := len(snap.Nodes) - 1; i >= 0; i-- {
		n := snap.Nodes[i]
		if math.Hypot(n.X-g.X, n.Y-g.Y) <= radius {
			return n, true
		}
	}
	return force.NodeView{}, false
}
