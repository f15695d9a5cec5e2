package source

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/memgraph/pkg/cache"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
)

func sample() *graph.Data {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &graph.Data{
		Nodes: []graph.NodeRecord{
			{ID: 1, Content: "Deploy the API", CreatedAt: at},
			{ID: 2, Content: "Rotate keys", CreatedAt: at.Add(time.Hour)},
			{ID: 3, Content: "Lunch", CreatedAt: at.Add(2 * time.Hour)},
		},
		Edges: []graph.EdgeRecord{
			{Source: 1, Target: 2, Strength: 0.9},
			{Source: 2, Target: 3, Strength: 0.5},
		},
	}
}

func TestRequestNormalize(t *testing.T) {
	r := Request{Query: "  deploy  "}.Normalize()
	if r.Query != "deploy" || r.MinStrength != graph.DefaultMinStrength {
		t.Errorf("Normalize() = %+v", r)
	}
	if r := (Request{MinStrength: 0.3}).Normalize(); r.MinStrength != 0.3 {
		t.Errorf("explicit strength overwritten: %v", r.MinStrength)
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		strength float64
		ok       bool
	}{
		{0, true},
		{0.75, true},
		{1, true},
		{-0.1, false},
		{1.5, false},
	}
	for _, tt := range tests {
		err := Request{MinStrength: tt.strength}.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%v) = %v, want ok %v", tt.strength, err, tt.ok)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Validate(%v) code = %s", tt.strength, errors.GetCode(err))
		}
	}
}

func TestStatic(t *testing.T) {
	s := &Static{Data: sample()}

	d, err := s.Fetch(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if d.NodeCount() != 3 || d.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges; want 3, 1", d.NodeCount(), d.EdgeCount())
	}

	d, _ = s.Fetch(context.Background(), Request{Query: "deploy"})
	if d.NodeCount() != 2 {
		t.Errorf("query should keep the match and its neighbour, got %d nodes", d.NodeCount())
	}
}

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Fetch(_ context.Context, req Request) (*graph.Data, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return sample().Filter(req.Query, req.MinStrength), nil
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingSource{}
	c := NewCached(inner, fc, time.Minute)

	for i := 0; i < 3; i++ {
		d, err := c.Fetch(ctx, Request{})
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if d.NodeCount() != 3 {
			t.Fatalf("got %d nodes", d.NodeCount())
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}

	if _, err := c.Fetch(ctx, Request{MinStrength: 0.4}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("different threshold should miss, calls = %d", inner.calls)
	}

	if err := c.Invalidate(ctx, Request{}); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, err := c.Fetch(ctx, Request{}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 3 {
		t.Errorf("invalidated request should refetch, calls = %d", inner.calls)
	}
}

func TestCachedErrorNotStored(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	inner := &countingSource{err: errors.NewFetchError(nil, "down")}
	c := NewCached(inner, fc, time.Minute)

	if _, err := c.Fetch(ctx, Request{}); !errors.IsFetchError(err) {
		t.Fatalf("Fetch() error = %v, want fetch error", err)
	}
	inner.err = nil
	if _, err := c.Fetch(ctx, Request{}); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("failed fetch must not be cached, calls = %d", inner.calls)
	}
}

func TestCachedNullCache(t *testing.T) {
	inner := &countingSource{}
	c := NewCached(inner, cache.NewNullCache(), 0)
	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background(), Request{}); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("null cache should always miss, calls = %d", inner.calls)
	}
	if c.Name() != "counting" {
		t.Errorf("Name() = %q", c.Name())
	}
}
