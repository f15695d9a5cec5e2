// Package file serves memory graphs from a JSON snapshot on disk.
//
// The file is read on every fetch so edits show up on refresh. Filtering
// follows the memory service: a query keeps matching memories plus their
// direct neighbours, and the most recent graph.MaxNodes memories survive.
package file

import (
	"context"
	"sort"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

// Source reads a graph.Data JSON file.
type Source struct {
	path string
}

// New returns a source for the snapshot at path.
func New(path string) *Source { return &Source{path: path} }

// Name returns "file:" followed by the path.
func (s *Source) Name() string { return "file:" + s.path }

// Fetch reads and filters the snapshot.
func (s *Source) Fetch(ctx context.Context, req source.Request) (*graph.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data, err := graph.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewFetchError(err, "read %s", s.path)
	}
	return limit(data.Filter(req.Query, req.MinStrength), graph.MaxNodes), nil
}

// limit keeps the n most recent nodes and the edges between them. Edges
// are ordered by strength, strongest first.
func limit(d *graph.Data, n int) *graph.Data {
	nodes := append([]graph.NodeRecord(nil), d.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].CreatedAt.After(nodes[j].CreatedAt) })
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	keep := make(map[int64]bool, len(nodes))
	for _, nd := range nodes {
		keep[nd.ID] = true
	}
	edges := make([]graph.EdgeRecord, 0, len(d.Edges))
	for _, e := range d.Edges {
		if keep[e.Source] && keep[e.Target] {
			edges = append(edges, e)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Strength > edges[j].Strength })
	return &graph.Data{Nodes: nodes, Edges: edges}
}

var _ source.Source = (*Source)(nil)
