// Package force lays out a memory graph with a force-directed simulation.
//
// # Architecture
//
// The package separates ingestion from simulation:
//
//	graph.Data → BuildGraph() → State → Engine.Tick() … → Snapshot
//
// [BuildGraph] copies wire records into an engine-owned [State], validating
// them on the way in. [Engine] then advances that state one tick at a time.
// The engine never runs on its own; the host calls [Engine.Tick] from its
// animation callback (a bubbletea tick message in the viewer, a plain loop in
// headless rendering via [Engine.RunUntilSettled]).
//
// # Forces
//
// Each tick combines four forces:
//
//   - Link: a spring per edge with rest length LinkDistance/strength, so
//     stronger connections sit closer together
//   - Charge: many-body repulsion approximated with a Barnes-Hut quadtree
//   - Center: a positional shift pulling the centroid to the canvas centre
//   - Collide: a minimum separation constraint resolved in passes
//
// Link and charge contributions are computed from the positions at the start
// of the tick and summed, so the result does not depend on edge order. Their
// sum is integrated as a velocity scaled by the energy term alpha, which
// decays geometrically toward AlphaTarget. Once alpha drops below AlphaMin
// the engine is settled and Tick becomes a no-op.
//
// # Pinning
//
// [Engine.Pin] holds a node at fixed coordinates; the node reports exactly
// those coordinates on every tick until [Engine.Unpin]. Drag interactions
// combine a pin with [Engine.Reheat] so the rest of the graph reacts.
//
// # Usage
//
//	st, report, err := force.BuildGraph(data.Nodes, data.Edges, force.Config{})
//	if err != nil {
//	    return err // duplicate node ids
//	}
//	if err := report.Err(); err != nil {
//	    logger.Warn("dropped edges", "err", err)
//	}
//	eng := force.NewEngine(st, force.Config{})
//	if _, err := eng.RunUntilSettled(ctx, 0); err != nil {
//	    return err
//	}
//	snap := eng.Snapshot()
package force
