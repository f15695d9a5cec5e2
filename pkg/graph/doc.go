// Package graph provides the wire types for memory graphs.
//
// This package defines the canonical format in which graph data crosses the
// boundary between a data source (the memory store's read endpoint, a JSON
// file, a database) and the layout engine.
//
// # Core Types
//
//   - [Data]: a graph snapshot, nodes plus edges
//   - [NodeRecord]: one memory, identified by an integer id
//   - [EdgeRecord]: an undirected, weighted connection between two memories
//
// Records are read-only from the engine's point of view. The layout adapter
// (pkg/layout/force) copies them into its own mutable state.
//
// # Serialization
//
// Graphs use the node-link JSON format served by the memory store:
//
//	{
//	  "nodes": [{"id": 1, "content": "first thought", "created_at": "2025-01-02T10:00:00Z"}],
//	  "edges": [{"source": 1, "target": 2, "strength": 0.82, "reason": "semantic similarity"}]
//	}
//
// Common operations:
//
//	d, _ := graph.ReadFile("graph.json")   // File → Data
//	graph.WriteFile(d, "out.json")         // Data → File
//	data, _ := graph.Marshal(d)            // Data → []byte
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
