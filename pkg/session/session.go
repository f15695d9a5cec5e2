// Package session owns the lifecycle of one graph view.
//
// # Overview
//
// A view shows one simulation at a time. Loading new data, by first open
// or by refresh, follows three steps:
//
//	t := s.Begin()          // stop the running simulation, show "loading"
//	r := s.Fetch(ctx, t)    // fetch and build a new simulation (no state touched)
//	s.Apply(r)              // install it, unless a newer Begin superseded t
//
// [Session.Load] and [Session.Refresh] run the three steps in sequence.
// Splitting them lets an event loop run Fetch off its own goroutine while
// keeping every state change on the loop: a stale result arriving after a
// newer Begin is discarded and its engine stopped, so at most one
// simulation is ever active.
//
// # Status
//
//	Idle → Loading → Ready | Empty | Failed
//
// A fetch that returns no memories is [StatusEmpty], not an error. Fetch
// and validation failures become [StatusFailed] with the error kept for
// display; they are never retried.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/layout/force"
	"github.com/matzehuels/memgraph/pkg/render"
	"github.com/matzehuels/memgraph/pkg/source"
)

// Status is the view state shown to the user.
type Status int

// View states.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Options configures a Session.
type Options struct {
	Request source.Request
	Layout  force.Config
	Style   render.Style
	Surface []render.SurfaceOption
	Logger  *log.Logger
}

// Ticket identifies one load. Only the result of the most recent ticket is
// applied.
type Ticket struct {
	gen        uint64
	req        source.Request
	invalidate bool
}

// Request returns the request the ticket was issued for.
func (t Ticket) Request() source.Request { return t.req }

// Result is the outcome of Fetch.
type Result struct {
	ticket  Ticket
	Data    *graph.Data
	Report  *force.Report
	Surface *render.Surface
	Elapsed time.Duration
	Err     error
}

// Session drives one view.
type Session struct {
	mu     sync.Mutex
	src    source.Source
	opts   Options
	logger *log.Logger

	gen     uint64
	status  Status
	err     error
	surface *render.Surface
	data    *graph.Data
	report  *force.Report
	closed  bool
}

// New creates an idle session reading from src.
func New(src source.Source, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.Request = opts.Request.Normalize()
	return &Session{src: src, opts: opts, logger: opts.Logger}
}

// SetRequest changes the filter used by the next load.
func (s *Session) SetRequest(req source.Request) {
	s.mu.Lock()
	s.opts.Request = req.Normalize()
	s.mu.Unlock()
}

// Request returns the current filter.
func (s *Session) Request() source.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Request
}

// Begin starts a load: the running simulation is stopped and released
// before Begin returns, and the view shows the loading state.
func (s *Session) Begin() Ticket {
	return s.begin(false)
}

// BeginRefresh is Begin for an explicit refresh: Fetch drops any cached
// response for the request first.
func (s *Session) BeginRefresh() Ticket {
	return s.begin(true)
}

func (s *Session) begin(invalidate bool) Ticket {
	s.mu.Lock()
	s.gen++
	old := s.surface
	s.surface = nil
	s.data = nil
	s.report = nil
	s.err = nil
	s.status = StatusLoading
	t := Ticket{gen: s.gen, req: s.opts.Request, invalidate: invalidate}
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return t
}

// Fetch loads the graph for t and builds a started simulation. It does not
// touch session state and is safe to call from any goroutine.
func (s *Session) Fetch(ctx context.Context, t Ticket) Result {
	start := time.Now()
	r := Result{ticket: t}

	if t.invalidate {
		if inv, ok := s.src.(source.Invalidator); ok {
			if err := inv.Invalidate(ctx, t.req); err != nil {
				s.logger.Warn("cache invalidation failed", "source", s.src.Name(), "err", err)
			}
		}
	}

	if err := s.opts.Layout.WithDefaults().Validate(); err != nil {
		r.Err = err
		return r
	}

	data, err := s.src.Fetch(ctx, t.req)
	if err != nil {
		r.Err = err
		r.Elapsed = time.Since(start)
		return r
	}
	st, report, err := force.BuildGraph(data.Nodes, data.Edges, s.opts.Layout)
	if err != nil {
		r.Err = err
		r.Elapsed = time.Since(start)
		return r
	}

	engine := force.NewEngine(st, s.opts.Layout)
	engine.Start()
	r.Data = data
	r.Report = report
	r.Surface = render.NewSurface(engine, s.opts.Style, s.opts.Surface...)
	r.Elapsed = time.Since(start)
	return r
}

// Apply installs r if its ticket is still current and reports whether it
// did. A superseded result is released.
func (s *Session) Apply(r Result) bool {
	s.mu.Lock()
	if s.closed || r.ticket.gen != s.gen {
		s.mu.Unlock()
		if r.Surface != nil {
			_ = r.Surface.Close()
		}
		s.logger.Debug("discarded stale graph", "ticket", r.ticket.gen)
		return false
	}
	defer s.mu.Unlock()

	if r.Err != nil {
		s.status = StatusFailed
		s.err = r.Err
		s.logger.Error("load graph", "source", s.src.Name(), "err", r.Err)
		return true
	}

	s.surface = r.Surface
	s.data = r.Data
	s.report = r.Report
	if r.Report != nil {
		for _, issue := range r.Report.Rejected {
			s.logger.Warn("dropped edge", "issue", issue.String())
		}
	}
	if r.Data.IsEmpty() {
		s.status = StatusEmpty
	} else {
		s.status = StatusReady
	}
	s.logger.Debug("graph loaded", "nodes", r.Data.NodeCount(), "edges", r.Data.EdgeCount(), "elapsed", r.Elapsed)
	return true
}

// Load fetches with the current request and installs the result.
func (s *Session) Load(ctx context.Context) error {
	r := s.Fetch(ctx, s.Begin())
	s.Apply(r)
	return r.Err
}

// Refresh is Load after dropping cached data for the request.
func (s *Session) Refresh(ctx context.Context) error {
	r := s.Fetch(ctx, s.BeginRefresh())
	s.Apply(r)
	return r.Err
}

// Status returns the view state and, for StatusFailed, the error.
func (s *Session) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.err
}

// Surface returns the active surface, or nil while loading or failed.
func (s *Session) Surface() *render.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Data returns the snapshot behind the active simulation.
func (s *Session) Data() *graph.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Report returns what the last build dropped or merged.
func (s *Session) Report() *force.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Close releases the active simulation and closes the source if it holds
// connections. Later results are discarded. Close is idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.gen++
	surf := s.surface
	s.surface = nil
	s.status = StatusIdle
	s.mu.Unlock()

	var err error
	if surf != nil {
		err = surf.Close()
	}
	if c, ok := s.src.(source.Closer); ok {
		if cerr := c.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
