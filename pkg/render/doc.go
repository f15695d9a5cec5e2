// Package render turns simulation snapshots into drawable frames.
//
// # Overview
//
// Rendering is split in two steps:
//
//	force.Snapshot → BuildFrame() → Frame → sink.RenderSVG() / sink.Terminal / sink.ToDOT()
//
// [BuildFrame] projects node and edge positions through the view transform
// and applies the [Style]: line width proportional to strength, marker radius
// growing under the pointer, content previews truncated to twenty runes. The
// result is a plain [Frame] value in screen space that every sink in the
// [sink] subpackage can draw.
//
// # Surface
//
// [Surface] is the live counterpart used by the interactive viewer. It binds
// one engine to one view: it subscribes to engine ticks, routes pointer
// input to drag and hover handling, and owns the tooltip layer. [Surface.Close]
// releases all of it and is safe on every exit path.
//
// [Scheduler] throttles drawing so a fast simulation never redraws more than
// once per frame interval.
//
// [sink]: github.com/matzehuels/memgraph/pkg/render/sink
package render
