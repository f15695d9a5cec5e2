package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/memgraph/internal/sample"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

func newTestServer(src source.Source) *httptest.Server {
	return httptest.NewServer(New(src, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Version:        "test",
	}))
}

func getGraph(t *testing.T, url string) (*graph.Data, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}
	d, err := graph.Read(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return d, resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&source.Static{Data: sample.Data()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "test" || body["source"] != "static" {
		t.Errorf("health = %v", body)
	}
}

func TestGraphFiltering(t *testing.T) {
	srv := newTestServer(&source.Static{Data: sample.Data()})
	defer srv.Close()

	tests := []struct {
		name      string
		query     string
		wantNodes int
		wantEdges int
	}{
		{"default threshold", "", 10, 8},
		{"explicit zero keeps all", "?min_strength=0", 10, 10},
		{"strict", "?min_strength=0.9", 10, 3},
		{"query with neighbours", "?query=redis", 3, 2},
		{"no match", "?query=kubernetes", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, status := getGraph(t, srv.URL+"/api/graph"+tt.query)
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			if d.NodeCount() != tt.wantNodes || d.EdgeCount() != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges; want %d, %d", d.NodeCount(), d.EdgeCount(), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestGraphBadStrength(t *testing.T) {
	srv := newTestServer(&source.Static{Data: sample.Data()})
	defer srv.Close()

	for _, q := range []string{"abc", "1.5", "-0.1", "NaN"} {
		_, status := getGraph(t, srv.URL+"/api/graph?min_strength="+q)
		if status != http.StatusBadRequest {
			t.Errorf("min_strength=%s: status = %d, want 400", q, status)
		}
	}
}

type failingSource struct{ err error }

func (f failingSource) Name() string { return "failing" }

func (f failingSource) Fetch(context.Context, source.Request) (*graph.Data, error) {
	return nil, f.err
}

func TestGraphSourceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NewFetchError(nil, "upstream down"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		srv := newTestServer(failingSource{tt.err})
		_, status := getGraph(t, srv.URL+"/api/graph")
		srv.Close()
		if status != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, status, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(&source.Static{Data: sample.Data()})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/graph", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRunShutdown(t *testing.T) {
	s := New(&source.Static{Data: sample.Data()}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
