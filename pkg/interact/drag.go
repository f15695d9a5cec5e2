package interact

import (
	"github.com/matzehuels/memgraph/pkg/errors"
)

// Pinner is the part of the simulation a drag needs. *force.Engine
// satisfies it.
type Pinner interface {
	Pin(id int64, x, y float64) error
	Unpin(id int64) error
	Position(id int64) (x, y float64, ok bool)
	Reheat(target float64)
	Cool()
}

// Drag pins a node to the pointer while the user drags it. The rest of the
// graph keeps simulating around the pinned node because the drag holds the
// energy floor at AlphaTarget until it ends.
type Drag struct {
	sim         Pinner
	alphaTarget float64

	active bool
	id     int64
}

// NewDrag returns a drag controller over sim. alphaTarget is the energy
// floor held for the duration of a drag.
func NewDrag(sim Pinner, alphaTarget float64) *Drag {
	return &Drag{sim: sim, alphaTarget: alphaTarget}
}

// Start pins node id at its current position and reheats the simulation.
// Starting a new drag ends any drag in progress.
func (d *Drag) Start(id int64) error {
	if d.active {
		if err := d.End(); err != nil {
			return err
		}
	}
	x, y, ok := d.sim.Position(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %d not in graph", id)
	}
	if err := d.sim.Pin(id, x, y); err != nil {
		return err
	}
	d.sim.Reheat(d.alphaTarget)
	d.active, d.id = true, id
	return nil
}

// Move pins the dragged node under the pointer. screen is in screen space;
// t maps it back into graph space. Moves without an active drag or with a
// non-finite pointer are ignored.
func (d *Drag) Move(screen Point, t Transform) error {
	if !d.active || !screen.finite() || !finite(t.K) || t.K == 0 {
		return nil
	}
	g := t.Invert(screen)
	return d.sim.Pin(d.id, g.X, g.Y)
}

// End releases the dragged node and lets the simulation cool down.
func (d *Drag) End() error {
	if !d.active {
		return nil
	}
	d.active = false
	d.sim.Cool()
	return d.sim.Unpin(d.id)
}

// Active returns the id of the node being dragged.
func (d *Drag) Active() (int64, bool) {
	return d.id, d.active
}
