// Package server is a small stand-in for the memory service. It serves
// GET /api/graph from any graph source so the viewer and front ends can be
// developed without the real backend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	mgerrors "github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	Version        string
	Logger         *log.Logger
}

// Server serves graph snapshots over HTTP.
type Server struct {
	src     source.Source
	router  chi.Router
	logger  *log.Logger
	version string
	started time.Time
}

// New creates a server reading from src.
func New(src source.Source, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{
		src:     src,
		logger:  opts.Logger,
		version: opts.Version,
		started: time.Now(),
	}
	s.routes(opts.AllowedOrigins)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(origins []string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.handleHealth)
	r.Get(apiGraphPath, s.handleGraph)
	s.router = r
}

const apiGraphPath = "/api/graph"

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"source":  s.src.Name(),
		"uptime":  time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	req := source.Request{Query: r.URL.Query().Get("query"), MinStrength: graph.DefaultMinStrength}
	if v := r.URL.Query().Get("min_strength"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_strength must be a number")
			return
		}
		req.MinStrength = f
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, mgerrors.UserMessage(err))
		return
	}
	if req.MinStrength == 0 {
		req.MinStrength = source.AnyStrength
	}
	data, err := s.src.Fetch(r.Context(), req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("fetch graph", "source", s.src.Name(), "err", err)
		writeError(w, mgerrors.HTTPStatus(err), mgerrors.UserMessage(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := graph.Write(data, w); err != nil {
		s.logger.Error("write graph", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "source", s.src.Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
