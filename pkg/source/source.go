// Package source fetches memory graph snapshots.
//
// # Overview
//
// A [Source] answers one question: given a query and a strength threshold,
// which memories and connections should the view show? Implementations live
// in subpackages:
//
//   - [api]: the memory service's HTTP endpoint (GET /api/graph)
//   - [file]: a JSON snapshot on disk, filtered locally
//   - [mongo]: the notes and memory_links collections directly
//
// [Cached] wraps any of them with a [cache.Cache].
//
// Sources never retry. A failed fetch is reported once, as a
// FETCH_FAILED error, and the caller decides whether to try again.
//
// [api]: github.com/matzehuels/memgraph/pkg/source/api
// [file]: github.com/matzehuels/memgraph/pkg/source/file
// [mongo]: github.com/matzehuels/memgraph/pkg/source/mongo
// [cache.Cache]: github.com/matzehuels/memgraph/pkg/cache.Cache
package source

import (
	"context"
	"math"
	"strings"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
)

// AnyStrength is a threshold that keeps every valid edge. A zero
// MinStrength means the default threshold instead.
const AnyStrength = math.SmallestNonzeroFloat64

// Request filters a graph fetch.
type Request struct {
	// Query restricts the graph to matching memories and their neighbours.
	// Blank means the most recent memories.
	Query string
	// MinStrength drops connections below this confidence. Zero means
	// graph.DefaultMinStrength; use AnyStrength to keep everything.
	MinStrength float64
}

// Normalize trims the query and applies the default threshold.
func (r Request) Normalize() Request {
	r.Query = strings.TrimSpace(r.Query)
	if r.MinStrength == 0 {
		r.MinStrength = graph.DefaultMinStrength
	}
	return r
}

// Validate rejects thresholds outside [0, 1].
func (r Request) Validate() error {
	if math.IsNaN(r.MinStrength) || r.MinStrength < 0 || r.MinStrength > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "min strength %v outside [0, 1]", r.MinStrength)
	}
	return nil
}

// Source fetches graph snapshots.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string
	// Fetch returns the snapshot for req. It never returns a nil Data
	// together with a nil error.
	Fetch(ctx context.Context, req Request) (*graph.Data, error)
}

// Invalidator is implemented by sources that hold cached responses.
type Invalidator interface {
	Invalidate(ctx context.Context, req Request) error
}

// Closer is implemented by sources holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Static serves a fixed snapshot filtered per request. It backs tests and
// the demo server's built-in sample data.
type Static struct {
	Data *graph.Data
}

// Name returns "static".
func (s *Static) Name() string { return "static" }

// Fetch applies the request filter to the fixed snapshot.
func (s *Static) Fetch(ctx context.Context, req Request) (*graph.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.Data.Filter(req.Query, req.MinStrength), nil
}
