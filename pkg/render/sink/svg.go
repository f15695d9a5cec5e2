package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/render"
)

const nodeInteractionCSS = `
    .node { cursor: pointer; transition: r 0.15s ease; }
    .node:hover { r: %.2f; }
    .label { pointer-events: none; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	legend     string
	tooltips   bool
	dateLayout string
}

// WithTitle adds a heading above the graph.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithLegend adds a line of help text along the bottom edge.
func WithLegend(text string) SVGOption { return func(r *svgRenderer) { r.legend = text } }

// WithTooltips embeds a hidden tooltip per node and the script that shows
// it on hover.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithSVGDateLayout sets the date layout used in embedded tooltips.
func WithSVGDateLayout(layout string) SVGOption {
	return func(r *svgRenderer) { r.dateLayout = layout }
}

// RenderSVG draws a frame as a standalone SVG document. An empty frame
// renders the "no memories" panel.
func RenderSVG(f render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{dateLayout: interact.DefaultDateLayout}
	for _, opt := range opts {
		opt(&r)
	}
	s := f.Style

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(s.Background))

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="16" y="28" font-family="sans-serif" font-size="16" font-weight="bold" fill="%s">%s</text>`+"\n",
			escape(s.LabelFill), escape(r.title))
	}

	if f.Empty {
		renderEmpty(&buf, f)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	renderEdges(&buf, f)
	renderMarkers(&buf, f)
	renderLabels(&buf, f)
	if f.Tooltip != nil {
		renderTooltip(&buf, f.Style, *f.Tooltip, "visible", 0)
	}
	renderNodeInteraction(&buf, f)

	if r.tooltips {
		for _, m := range f.Markers {
			tip := interact.Tooltip{ID: m.ID, Content: m.Content}
			if !m.CreatedAt.IsZero() {
				tip.Date = m.CreatedAt.Format(r.dateLayout)
			}
			renderTooltip(&buf, s, tip, "hidden", m.ID)
		}
		renderTooltipScript(&buf)
	}

	if r.legend != "" {
		fmt.Fprintf(&buf, `  <text x="16" y="%.1f" font-family="sans-serif" font-size="11" fill="%s">%s</text>`+"\n",
			f.Height-14, escape(s.LabelFill), escape(r.legend))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEmpty(buf *bytes.Buffer, f render.Frame) {
	fmt.Fprintf(buf, `  <text class="empty" x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="16" fill="%s">%s</text>`+"\n",
		f.Width/2, f.Height/2, escape(f.Style.LabelFill), escape(f.Message))
}

func renderEdges(buf *bytes.Buffer, f render.Frame) {
	fmt.Fprintf(buf, `  <g class="edges" stroke="%s" stroke-opacity="%.2f">`+"\n", escape(f.Style.EdgeStroke), f.Style.EdgeOpacity)
	for _, l := range f.Lines {
		fmt.Fprintf(buf, `    <line data-source="%d" data-target="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.2f"/>`+"\n",
			l.SourceID, l.TargetID, l.X1, l.Y1, l.X2, l.Y2, l.Width)
	}
	buf.WriteString("  </g>\n")
}

func renderMarkers(buf *bytes.Buffer, f render.Frame) {
	s := f.Style
	fmt.Fprintf(buf, `  <g class="nodes" fill="%s" stroke="%s" stroke-width="%.2f">`+"\n",
		escape(s.NodeFill), escape(s.NodeStroke), s.MarkerStroke*f.Transform.K)
	for _, m := range f.Markers {
		fmt.Fprintf(buf, `    <circle class="node" data-id="%d" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", m.ID, m.X, m.Y, m.R)
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, f render.Frame) {
	fmt.Fprintf(buf, `  <g class="labels" font-family="sans-serif" fill="%s">`+"\n", escape(f.Style.LabelFill))
	for _, l := range f.Labels {
		fmt.Fprintf(buf, `    <text class="label" data-id="%d" x="%.2f" y="%.2f" font-size="%.2f">%s</text>`+"\n",
			l.ID, l.X, l.Y, l.FontSize, escape(l.Text))
	}
	buf.WriteString("  </g>\n")
}

// renderNodeInteraction grows a marker on hover. The hover radius scales
// with the view like the resting radius does.
func renderNodeInteraction(buf *bytes.Buffer, f render.Frame) {
	fmt.Fprintf(buf, "  <style>"+nodeInteractionCSS+"\n  </style>\n", f.Style.HoverRadius*f.Transform.K)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
