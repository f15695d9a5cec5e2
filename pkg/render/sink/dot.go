package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/render"
)

// pointsPerInch converts frame units (points) to Graphviz sizes (inches).
const pointsPerInch = 72.0

// Format is an output format produced through Graphviz.
type Format string

// Supported Graphviz output formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ToDOT converts a frame to an undirected Graphviz graph. Every node carries
// its frame position pinned with "!", so neato reproduces the simulated
// layout instead of computing its own. Frame y grows downward; DOT y grows
// upward, so y is flipped against the frame height.
func ToDOT(f render.Frame) string {
	s := f.Style
	var buf bytes.Buffer
	buf.WriteString("graph memories {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background)
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", f.Width, f.Height)
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, style=filled, label=\"\", fillcolor=%q, color=%q, fontcolor=%q, fontname=\"Helvetica\"];\n",
		s.NodeFill, s.NodeStroke, s.LabelFill)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", dotColor(s.EdgeStroke))
	buf.WriteString("\n")

	labels := make(map[int64]render.Label, len(f.Labels))
	for _, l := range f.Labels {
		labels[l.ID] = l
	}
	for _, m := range f.Markers {
		attrs := fmt.Sprintf("pos=\"%.2f,%.2f!\", width=%.3f, fontsize=%.1f",
			m.X, f.Height-m.Y, 2*m.R/pointsPerInch, labels[m.ID].FontSize)
		if l, ok := labels[m.ID]; ok && l.Text != "" {
			attrs += fmt.Sprintf(", xlabel=%q", l.Text)
		}
		if m.Pinned {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", m.ID, attrs)
	}

	buf.WriteString("\n")
	for _, l := range f.Lines {
		fmt.Fprintf(&buf, "  n%d -- n%d [penwidth=%.2f, weight=%.2f];\n", l.SourceID, l.TargetID, l.Width, l.Strength)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// dotColor maps the CSS rgba() edge colour to a Graphviz RGBA hex colour.
func dotColor(css string) string {
	var r, g, b int
	var a float64
	if n, _ := fmt.Sscanf(css, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); n == 4 {
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, int(a*255))
	}
	return css
}

// RenderGraphviz renders DOT produced by ToDOT to SVG or PNG with the neato
// engine, which honours the pinned positions.
func RenderGraphviz(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
