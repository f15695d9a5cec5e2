package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
		check     func(t *testing.T, d *Data)
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": 1, "content": "first", "created_at": "2025-03-01T09:30:00Z"},
					{"id": 2, "content": "second", "created_at": "2025-03-02T09:30:00Z"}
				],
				"edges": [
					{"source": 1, "target": 2, "strength": 0.8, "reason": "semantic similarity"}
				]
			}`,
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, d *Data) {
				if d.Nodes[0].Content != "first" {
					t.Errorf("content = %q, want first", d.Nodes[0].Content)
				}
				want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
				if !d.Nodes[0].CreatedAt.Equal(want) {
					t.Errorf("created_at = %v, want %v", d.Nodes[0].CreatedAt, want)
				}
				if d.Edges[0].Reason != "semantic similarity" {
					t.Errorf("reason = %q", d.Edges[0].Reason)
				}
			},
		},
		{
			name:      "Empty",
			input:     `{"nodes": [], "edges": []}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:      "MissingSlices",
			input:     `{}`,
			wantNodes: 0,
			wantEdges: 0,
			check: func(t *testing.T, d *Data) {
				if d.Nodes == nil || d.Edges == nil {
					t.Error("slices should be non-nil after decode")
				}
			},
		},
		{
			name:    "Invalid",
			input:   `{invalid json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Read(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got := d.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := d.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestWriteEmptyUsesArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(nil, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"nodes": []`) || !strings.Contains(out, `"edges": []`) {
		t.Errorf("empty graph should encode empty arrays, got %s", out)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	in := &Data{
		Nodes: []NodeRecord{{ID: 1, Content: "a"}, {ID: 2, Content: "b"}},
		Edges: []EdgeRecord{{Source: 1, Target: 2, Strength: 0.9}},
	}
	if err := WriteFile(in, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if out.NodeCount() != 2 || out.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges", out.NodeCount(), out.EdgeCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestFilter(t *testing.T) {
	d := &Data{
		Nodes: []NodeRecord{
			{ID: 1, Content: "Coffee tasting notes"},
			{ID: 2, Content: "espresso grind size"},
			{ID: 3, Content: "running plan"},
			{ID: 4, Content: "marathon pacing"},
		},
		Edges: []EdgeRecord{
			{Source: 1, Target: 2, Strength: 0.9},
			{Source: 3, Target: 4, Strength: 0.8},
			{Source: 2, Target: 3, Strength: 0.5},
		},
	}

	tests := []struct {
		name      string
		query     string
		min       float64
		wantNodes []int64
		wantEdges int
	}{
		{"all above default", "", DefaultMinStrength, []int64{1, 2, 3, 4}, 2},
		{"all with low floor", "", 0.1, []int64{1, 2, 3, 4}, 3},
		{"query pulls in neighbours", "coffee", DefaultMinStrength, []int64{1, 2}, 1},
		{"weak neighbour excluded", "espresso", DefaultMinStrength, []int64{1, 2}, 1},
		{"weak neighbour included", "espresso", 0.4, []int64{1, 2, 3}, 2},
		{"no match", "gardening", 0, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Filter(tt.query, tt.min)
			if len(got.Nodes) != len(tt.wantNodes) {
				t.Fatalf("nodes = %d, want %d", len(got.Nodes), len(tt.wantNodes))
			}
			for i, id := range tt.wantNodes {
				if got.Nodes[i].ID != id {
					t.Errorf("node[%d] = %d, want %d", i, got.Nodes[i].ID, id)
				}
			}
			if len(got.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(got.Edges), tt.wantEdges)
			}
		})
	}

	if len(d.Nodes) != 4 || len(d.Edges) != 3 {
		t.Error("Filter must not modify the receiver")
	}
}
