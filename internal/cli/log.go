package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/memgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// elapsed returns the time since the progress was created, rounded to the
// millisecond.
func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg along with the elapsed time.
// Example output: "Loaded graph (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards library events to the logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SimulationHooks = (*logHooks)(nil)
	_ observability.FetchHooks      = (*logHooks)(nil)
	_ observability.CacheHooks      = (*logHooks)(nil)
)

// registerHooks installs logger-backed hooks for every registry.
func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("hooks")}
	observability.SetSimulationHooks(h)
	observability.SetFetchHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnBuild(id string, nodes, edges, rejected int) {
	h.logger.Debug("simulation built", "id", shortID(id), "nodes", nodes, "edges", edges, "rejected", rejected)
}

func (h *logHooks) OnSettled(id string, ticks int, elapsed time.Duration) {
	h.logger.Debug("simulation settled", "id", shortID(id), "ticks", ticks, "elapsed", elapsed.Round(time.Millisecond))
}

func (h *logHooks) OnReheat(id string, target float64) {
	h.logger.Debug("simulation reheated", "id", shortID(id), "alpha_target", target)
}

func (h *logHooks) OnRequest(_ context.Context, source, target string) {
	h.logger.Debug("fetch", "source", source, "target", target)
}

func (h *logHooks) OnResponse(_ context.Context, source, target string, nodes, edges int, d time.Duration) {
	h.logger.Debug("fetched", "source", source, "nodes", nodes, "edges", edges, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, source, target string, err error) {
	h.logger.Debug("fetch failed", "source", source, "target", target, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

// shortID trims a uuid to its first group for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
