// Package pkg holds the libraries behind memgraph, a force-directed viewer
// for memory graphs.
//
// # Overview
//
// A memory graph is a set of notes (nodes) joined by weighted links
// (edges) that record why two notes are related. memgraph fetches such a
// graph, lays it out with a physics simulation and draws it, either live in
// a terminal or as a static export.
//
// # Data flow
//
//	memory service / file / MongoDB
//	         ↓
//	    [source] fetch a snapshot for a query and minimum strength
//	         ↓
//	    [graph] validate and filter nodes and edges
//	         ↓
//	    [layout/force] build the simulation and run ticks
//	         ↓
//	    [render] turn each snapshot into a Frame
//	         ↓
//	    [render/sink] terminal, SVG, DOT, PNG or JSON
//
// [interact] maps pointer input (drag, hover, wheel) to simulation and view
// changes, and [session] ties one source to one running simulation so that
// a refresh never leaves two engines alive.
//
// # Quick Start
//
//	data, _ := graph.ReadFile("memories.json")
//	st, _, _ := force.BuildGraph(data.Nodes, data.Edges, force.Config{})
//	engine := force.NewEngine(st, force.Config{})
//	engine.Start()
//	engine.Run(300)
//
//	frame := render.BuildFrame(engine.Snapshot(), interact.Identity, nil, render.DefaultStyle())
//	os.WriteFile("graph.svg", sink.RenderSVG(frame), 0o644)
//
// # Supporting packages
//
// [cache] stores fetched snapshots in files or Redis, [errors] carries the
// error codes shown to users, [observability] exposes hooks for logging
// and metrics, and [buildinfo] reports version details.
//
// [source]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/source
// [graph]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/graph
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/layout/force
// [render]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/render/sink
// [interact]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/interact
// [session]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/memgraph/pkg/buildinfo
package pkg
