package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/source"
)

const graphJSON = `{
  "nodes": [
    {"id": 1, "content": "Deploy", "created_at": "2025-03-01T09:00:00Z"},
    {"id": 2, "content": "Keys", "created_at": "2025-03-02T09:00:00Z"}
  ],
  "edges": [{"source": 1, "target": 2, "strength": 0.8, "reason": "ops"}]
}`

func TestNewInvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8000", "://bad"} {
		if _, err := New(u); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("New(%q) error = %v, want INVALID_CONFIG", u, err)
		}
	}
}

func TestClientURL(t *testing.T) {
	c, err := New("http://localhost:8000/")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		req  source.Request
		want string
	}{
		{source.Request{}, "http://localhost:8000/api/graph?min_strength=0.75"},
		{source.Request{Query: "deploy keys", MinStrength: 0.5}, "http://localhost:8000/api/graph?min_strength=0.5&query=deploy+keys"},
	}
	for _, tt := range tests {
		if got := c.URL(tt.req); got != tt.want {
			t.Errorf("URL(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != GraphPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("min_strength"); got != "0.75" {
			t.Errorf("min_strength = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "memgraph/") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(graphJSON))
	}))
	defer server.Close()

	c, _ := New(server.URL)
	d, err := c.Fetch(context.Background(), source.Request{})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if d.NodeCount() != 2 || d.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
	}
	if e := d.Edges[0]; e.Strength != 0.8 || e.Reason != "ops" {
		t.Errorf("edge = %+v", e)
	}
	if !d.Nodes[0].CreatedAt.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("created_at = %v", d.Nodes[0].CreatedAt)
	}
}

func TestClientFetchEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": [], "edges": []}`))
	}))
	defer server.Close()

	c, _ := New(server.URL)
	d, err := c.Fetch(context.Background(), source.Request{})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !d.IsEmpty() || d.Edges == nil {
		t.Errorf("want empty, non-nil graph: %+v", d)
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail": "database unavailable"}`))
			},
			want: "status 500: database unavailable",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: "status 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"nodes": [`))
			},
			want: "decode graph response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(w, r)
			}))
			defer server.Close()

			c, _ := New(server.URL)
			_, err := c.Fetch(context.Background(), source.Request{})
			if !errors.IsFetchError(err) {
				t.Fatalf("error = %v, want fetch error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
			if calls != 1 {
				t.Errorf("server called %d times, want exactly 1 (no retries)", calls)
			}
		})
	}
}

func TestClientFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, _ := New(url, WithTimeout(time.Second))
	if _, err := c.Fetch(context.Background(), source.Request{}); !errors.IsFetchError(err) {
		t.Errorf("error = %v, want fetch error", err)
	}
}

func TestClientFetchInvalidStrength(t *testing.T) {
	c, _ := New("http://localhost:1")
	_, err := c.Fetch(context.Background(), source.Request{MinStrength: 2})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
