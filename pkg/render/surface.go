package render

import (
	"sync"
	"time"

	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/layout/force"
)

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithZoom sets the scale bounds of the view.
func WithZoom(z interact.Zoom) SurfaceOption { return func(s *Surface) { s.zoom = z } }

// WithFPS sets the maximum draw rate.
func WithFPS(fps int) SurfaceOption { return func(s *Surface) { s.sched = NewScheduler(fps) } }

// WithDateLayout sets the tooltip date layout.
func WithDateLayout(layout string) SurfaceOption {
	return func(s *Surface) { s.dateLayout = layout }
}

// Surface binds one simulation to one view. It owns the view transform, the
// drag and hover state, and the tooltip layer. The tooltip layer exists from
// NewSurface until Close.
//
// Surface methods are safe for concurrent use, though the viewer calls them
// from a single goroutine.
type Surface struct {
	mu     sync.Mutex
	engine *force.Engine
	style  Style
	zoom   interact.Zoom

	transform  interact.Transform
	drag       *interact.Drag
	hover      *interact.Hover
	dateLayout string
	sched      *Scheduler

	latest force.Snapshot
	cancel func()
	closed bool
}

// NewSurface subscribes to engine ticks and acquires the tooltip layer. The
// caller must Close the surface when the view goes away.
func NewSurface(engine *force.Engine, style Style, opts ...SurfaceOption) *Surface {
	s := &Surface{
		engine:    engine,
		style:     style.withDefaults(),
		zoom:      interact.DefaultZoom(),
		transform: interact.Identity,
		sched:     NewScheduler(DefaultFPS),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hover = interact.NewHover()
	if s.dateLayout != "" {
		s.hover.DateLayout = s.dateLayout
	}
	s.drag = interact.NewDrag(engine, engine.Config().DragAlphaTarget)
	s.latest = engine.Snapshot()
	s.cancel = engine.OnTick(s.onTick)
	s.sched.MarkDirty()
	return s
}

func (s *Surface) onTick(snap force.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latest = snap
	s.sched.MarkDirty()
}

// Engine returns the simulation behind the surface.
func (s *Surface) Engine() *force.Engine { return s.engine }

// Step advances the simulation by up to n ticks and reports whether any
// tick ran.
func (s *Surface) Step(n int) bool {
	if s.Closed() {
		return false
	}
	advanced := false
	for range n {
		if !s.engine.Tick() {
			break
		}
		advanced = true
	}
	return advanced
}

// Frame builds the current picture.
func (s *Surface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hover *interact.Hover
	if !s.closed {
		hover = s.hover
	}
	return BuildFrame(s.latest, s.transform, hover, s.style)
}

// Snapshot returns the most recent simulation snapshot.
func (s *Surface) Snapshot() force.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// ShouldDraw reports whether a redraw is due.
func (s *Surface) ShouldDraw(now time.Time) bool { return s.sched.ShouldDraw(now) }

// Invalidate forces the next ShouldDraw to report a pending change.
func (s *Surface) Invalidate() { s.sched.MarkDirty() }

// Transform returns the current view transform.
func (s *Surface) Transform() interact.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform
}

// SetViewport changes the canvas size, for example after a terminal resize.
func (s *Surface) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.style.Width, s.style.Height = width, height
	s.mu.Unlock()
	s.sched.MarkDirty()
}

// Wheel zooms around the pointer.
func (s *Surface) Wheel(delta float64, pointer interact.Point) {
	s.updateTransform(func(t interact.Transform) interact.Transform {
		return s.zoom.Wheel(t, delta, pointer)
	})
}

// ZoomBy scales the view around the canvas centre.
func (s *Surface) ZoomBy(factor float64) {
	s.updateTransform(func(t interact.Transform) interact.Transform {
		return s.zoom.ScaleBy(t, factor, interact.Point{X: s.style.Width / 2, Y: s.style.Height / 2})
	})
}

// Pan moves the view by a screen offset.
func (s *Surface) Pan(dx, dy float64) {
	s.updateTransform(func(t interact.Transform) interact.Transform {
		return s.zoom.Pan(t, dx, dy)
	})
}

// ResetView restores the identity transform.
func (s *Surface) ResetView() {
	s.updateTransform(func(interact.Transform) interact.Transform { return interact.Identity })
}

// Fit zooms the view so the whole graph is visible.
func (s *Surface) Fit(padding float64) {
	s.updateTransform(func(t interact.Transform) interact.Transform {
		if s.latest.Empty() {
			return t
		}
		x0, y0, x1, y1 := s.latest.Bounds()
		return s.zoom.Fit(interact.Point{X: x0, Y: y0}, interact.Point{X: x1, Y: y1}, s.style.Width, s.style.Height, padding)
	})
}

func (s *Surface) updateTransform(fn func(interact.Transform) interact.Transform) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.transform = fn(s.transform)
	s.mu.Unlock()
	s.sched.MarkDirty()
}

// PointerDown starts dragging the node under the pointer, if any. It reports
// whether a drag started.
func (s *Surface) PointerDown(p interact.Point) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	n, ok := interact.HitTest(s.latest, s.transform, p, s.style.HoverRadius)
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := s.drag.Start(n.ID); err != nil {
		return false
	}
	s.sched.MarkDirty()
	return true
}

// PointerMove updates the drag or the hover state.
func (s *Surface) PointerMove(p interact.Point) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	t := s.transform
	if _, dragging := s.drag.Active(); dragging {
		s.hover.Move(p)
		s.mu.Unlock()
		_ = s.drag.Move(p, t)
		s.sched.MarkDirty()
		return
	}

	n, hit := interact.HitTest(s.latest, t, p, s.style.MarkerRadius)
	cur, hovering := s.hover.Active()
	switch {
	case hit && (!hovering || cur != n.ID):
		s.hover.Enter(n, p)
	case hit:
		s.hover.Move(p)
	case hovering:
		s.hover.Leave()
	}
	s.mu.Unlock()
	s.sched.MarkDirty()
}

// PointerUp ends a drag in progress.
func (s *Surface) PointerUp() {
	_ = s.drag.End()
	s.sched.MarkDirty()
}

// Dragging reports whether a node is being dragged.
func (s *Surface) Dragging() bool {
	_, ok := s.drag.Active()
	return ok
}

// TooltipVisible reports whether the tooltip layer currently shows a node.
func (s *Surface) TooltipVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	_, ok := s.hover.Tooltip()
	return ok
}

// Close stops the simulation, ends any drag, cancels the tick subscription
// and removes the tooltip layer. It is safe to call more than once.
func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.hover.Leave()
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	err := s.drag.End()
	s.engine.Stop()
	return err
}

// Closed reports whether Close has been called.
func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
