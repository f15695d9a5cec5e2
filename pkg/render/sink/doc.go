// Package sink provides output formats for memory graph frames.
//
// # Overview
//
// A "sink" draws a [render.Frame] produced by [render.BuildFrame]. This
// package provides:
//
//   - SVG: standalone vector output, optionally with hover tooltips
//   - Terminal: a styled character grid for the interactive viewer
//   - DOT: Graphviz source with pinned node positions
//   - Graphviz: SVG or PNG rendered from DOT by the neato engine
//   - JSON: screen-space positions for external tools
//
// # SVG Output
//
// [RenderSVG] draws lines, then markers, then labels, so labels are never
// hidden under a neighbouring circle. With [WithTooltips] every node gets a
// hidden tooltip that a small script shows next to the pointer:
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithTitle("Memory Connection Graph"),
//	    sink.WithTooltips(),
//	)
//
// An empty frame renders only the "no memories" message.
//
// # Terminal Output
//
// [Terminal] maps frame pixels to cells of [DefaultCellWidth] by
// [DefaultCellHeight]. Edges are rasterised with glyphs chosen by slope,
// wide runes in labels take two cells, and a live tooltip is drawn as a
// bordered box kept inside the screen. Use [Terminal.PixelSize] as the
// viewport so the whole terminal is used.
//
// # Graphviz Output
//
// [ToDOT] fixes every node at its simulated position; [RenderGraphviz]
// renders the result without a system Graphviz install.
//
// [render.Frame]: github.com/matzehuels/memgraph/pkg/render.Frame
// [render.BuildFrame]: github.com/matzehuels/memgraph/pkg/render.BuildFrame
package sink
