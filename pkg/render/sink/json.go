package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/memgraph/pkg/render"
)

type jsonFrame struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Scale   float64    `json:"scale"`
	Tick    int        `json:"tick"`
	Settled bool       `json:"settled"`
	Empty   bool       `json:"empty,omitempty"`
	Message string     `json:"message,omitempty"`
	Nodes   []jsonNode `json:"nodes"`
	Edges   []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID        int64      `json:"id"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	R         float64    `json:"r"`
	Label     string     `json:"label,omitempty"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Pinned    bool       `json:"pinned,omitempty"`
}

type jsonEdge struct {
	Source   int64   `json:"source"`
	Target   int64   `json:"target"`
	Strength float64 `json:"strength"`
	Width    float64 `json:"width"`
}

// WriteJSON encodes the screen-space positions of a frame to w.
// Nodes and edges are always arrays, so an empty frame writes "[]" for both.
func WriteJSON(w io.Writer, f render.Frame) error {
	out := jsonFrame{
		Width:   f.Width,
		Height:  f.Height,
		Scale:   f.Transform.K,
		Tick:    f.Tick,
		Settled: f.Settled,
		Empty:   f.Empty,
		Message: f.Message,
		Nodes:   make([]jsonNode, len(f.Markers)),
		Edges:   make([]jsonEdge, len(f.Lines)),
	}

	labels := make(map[int64]string, len(f.Labels))
	for _, l := range f.Labels {
		labels[l.ID] = l.Text
	}
	for i, m := range f.Markers {
		n := jsonNode{ID: m.ID, X: m.X, Y: m.Y, R: m.R, Label: labels[m.ID], Content: m.Content, Pinned: m.Pinned}
		if !m.CreatedAt.IsZero() {
			at := m.CreatedAt
			n.CreatedAt = &at
		}
		out.Nodes[i] = n
	}
	for i, l := range f.Lines {
		out.Edges[i] = jsonEdge{Source: l.SourceID, Target: l.TargetID, Strength: l.Strength, Width: l.Width}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a frame to a JSON file at path.
func ExportJSON(f render.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteJSON(file, f)
}
