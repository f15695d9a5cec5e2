package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

func writeSnapshot(t *testing.T, d *graph.Data) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteFile(d, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSourceFetch(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	path := writeSnapshot(t, &graph.Data{
		Nodes: []graph.NodeRecord{
			{ID: 1, Content: "Deploy", CreatedAt: at},
			{ID: 2, Content: "Keys", CreatedAt: at.Add(time.Hour)},
			{ID: 3, Content: "Lunch", CreatedAt: at.Add(2 * time.Hour)},
		},
		Edges: []graph.EdgeRecord{
			{Source: 1, Target: 2, Strength: 0.8},
			{Source: 2, Target: 3, Strength: 0.95},
			{Source: 1, Target: 3, Strength: 0.2},
		},
	})

	s := New(path)
	d, err := s.Fetch(context.Background(), source.Request{})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if d.NodeCount() != 3 || d.EdgeCount() != 2 {
		t.Fatalf("got %d nodes, %d edges; want 3, 2", d.NodeCount(), d.EdgeCount())
	}
	if d.Nodes[0].ID != 3 {
		t.Errorf("newest node first, got %d", d.Nodes[0].ID)
	}
	if d.Edges[0].Strength != 0.95 {
		t.Errorf("strongest edge first, got %v", d.Edges[0].Strength)
	}
}

func TestSourceLimit(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &graph.Data{}
	for i := 0; i < graph.MaxNodes+10; i++ {
		d.Nodes = append(d.Nodes, graph.NodeRecord{ID: int64(i + 1), CreatedAt: at.Add(time.Duration(i) * time.Minute)})
	}
	d.Edges = []graph.EdgeRecord{{Source: 1, Target: 2, Strength: 1}}

	got, err := New(writeSnapshot(t, d)).Fetch(context.Background(), source.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if got.NodeCount() != graph.MaxNodes {
		t.Errorf("got %d nodes, want %d", got.NodeCount(), graph.MaxNodes)
	}
	if got.EdgeCount() != 0 {
		t.Error("edges to dropped nodes must be removed")
	}
}

func TestSourceMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := s.Fetch(context.Background(), source.Request{}); !errors.IsFetchError(err) {
		t.Errorf("error = %v, want fetch error", err)
	}
	if s.Name() == "" {
		t.Error("Name() should not be empty")
	}
}
