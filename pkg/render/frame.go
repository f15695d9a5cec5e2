package render

import (
	"time"

	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/layout/force"
)

// Line is an edge in screen space.
type Line struct {
	SourceID, TargetID int64
	X1, Y1, X2, Y2     float64
	Strength           float64
	Width              float64
}

// Marker is a node circle in screen space. Content and CreatedAt feed the
// static tooltips of exported frames.
type Marker struct {
	ID        int64
	X, Y, R   float64
	Hovered   bool
	Pinned    bool
	Content   string
	CreatedAt time.Time
}

// Label is a node's content preview in screen space.
type Label struct {
	ID       int64
	X, Y     float64
	Text     string
	FontSize float64
}

// Frame is everything needed to draw one picture of the graph. All
// coordinates are in screen space; sinks draw in the order lines, markers,
// labels, tooltip.
type Frame struct {
	Width, Height float64
	Transform     interact.Transform
	Style         Style

	Lines   []Line
	Markers []Marker
	Labels  []Label
	Tooltip *interact.Tooltip

	// Empty is set when the snapshot has no nodes; Message then holds the
	// text shown instead of the canvas.
	Empty   bool
	Message string

	Tick    int
	Settled bool
}

// BuildFrame projects a snapshot through the view transform. hover may be
// nil.
func BuildFrame(snap force.Snapshot, t interact.Transform, hover *interact.Hover, style Style) Frame {
	style = style.withDefaults()
	if t.K == 0 {
		t = interact.Identity
	}
	f := Frame{
		Width:     style.Width,
		Height:    style.Height,
		Transform: t,
		Style:     style,
		Tick:      snap.Tick,
		Settled:   snap.Settled,
	}
	if snap.Empty() {
		f.Empty = true
		f.Message = style.EmptyMessage
		return f
	}

	var hoveredID int64
	var hovering bool
	if hover != nil {
		hoveredID, hovering = hover.Active()
		if tip, ok := hover.Tooltip(); ok {
			f.Tooltip = &tip
		}
	}

	screen := make([]interact.Point, len(snap.Nodes))
	for i, n := range snap.Nodes {
		screen[i] = t.Apply(interact.Point{X: n.X, Y: n.Y})
	}

	f.Lines = make([]Line, len(snap.Edges))
	for i, e := range snap.Edges {
		a, b := screen[e.Source], screen[e.Target]
		f.Lines[i] = Line{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			X1:       a.X,
			Y1:       a.Y,
			X2:       b.X,
			Y2:       b.Y,
			Strength: e.Strength,
			Width:    e.Strength * style.StrokeScale * t.K,
		}
	}

	f.Markers = make([]Marker, len(snap.Nodes))
	f.Labels = make([]Label, len(snap.Nodes))
	for i, n := range snap.Nodes {
		p := screen[i]
		r := style.MarkerRadius
		hovered := hovering && n.ID == hoveredID
		if hovered {
			r = style.HoverRadius
		}
		f.Markers[i] = Marker{
			ID:        n.ID,
			X:         p.X,
			Y:         p.Y,
			R:         r * t.K,
			Hovered:   hovered,
			Pinned:    n.Pinned,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
		}
		f.Labels[i] = Label{
			ID:       n.ID,
			X:        p.X + style.LabelDX*t.K,
			Y:        p.Y + style.LabelDY*t.K,
			Text:     style.Preview(n.Content),
			FontSize: style.FontSize * t.K,
		}
	}
	return f
}
