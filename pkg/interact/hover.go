package interact

import (
	"fmt"

	"github.com/matzehuels/memgraph/pkg/layout/force"
)

// DefaultDateLayout is the short date shown in tooltips ("2025. 3. 1.").
const DefaultDateLayout = "2006. 1. 2."

// Tooltip offsets from the pointer, in screen pixels.
const (
	DefaultTooltipOffsetX = 10.0
	DefaultTooltipOffsetY = -10.0
)

// Tooltip is the detail overlay for a hovered node. X and Y are the screen
// position of its anchor corner.
type Tooltip struct {
	ID      int64
	Content string
	Date    string
	X, Y    float64
}

// Lines returns the tooltip text one line per entry.
func (t Tooltip) Lines() []string {
	lines := []string{fmt.Sprintf("ID: %d", t.ID), t.Content}
	if t.Date != "" {
		lines = append(lines, t.Date)
	}
	return lines
}

// Hover tracks the node under the pointer and the tooltip it shows.
// The zero value is ready to use with the default layout and offsets.
type Hover struct {
	DateLayout       string
	OffsetX, OffsetY float64

	active bool
	node   force.NodeView
	tip    Tooltip
}

// NewHover returns a hover tracker with default formatting.
func NewHover() *Hover {
	return &Hover{
		DateLayout: DefaultDateLayout,
		OffsetX:    DefaultTooltipOffsetX,
		OffsetY:    DefaultTooltipOffsetY,
	}
}

// Enter starts hovering n with the pointer at screen position p.
func (h *Hover) Enter(n force.NodeView, p Point) {
	layout := h.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	var date string
	if !n.CreatedAt.IsZero() {
		date = n.CreatedAt.Format(layout)
	}
	h.active = true
	h.node = n
	h.tip = Tooltip{ID: n.ID, Content: n.Content, Date: date}
	h.Move(p)
}

// Move follows the pointer while hovering.
func (h *Hover) Move(p Point) {
	if !h.active || !p.finite() {
		return
	}
	h.tip.X = p.X + h.OffsetX
	h.tip.Y = p.Y + h.OffsetY
}

// Leave hides the tooltip.
func (h *Hover) Leave() {
	h.active = false
	h.node = force.NodeView{}
	h.tip = Tooltip{}
}

// Active returns the id of the hovered node.
func (h *Hover) Active() (int64, bool) {
	return h.node.ID, h.active
}

// Tooltip returns the current tooltip, if any.
func (h *Hover) Tooltip() (Tooltip, bool) {
	return h.tip, h.active
}
