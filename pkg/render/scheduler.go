package render

import (
	"sync"
	"time"
)

// DefaultFPS is the draw rate of the interactive viewer.
const DefaultFPS = 30

// Scheduler coalesces redraw requests so at most one draw happens per frame
// interval, however fast the simulation ticks.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	dirty    bool
}

// NewScheduler returns a scheduler drawing at most fps times per second.
// A non-positive fps uses DefaultFPS.
func NewScheduler(fps int) *Scheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Scheduler{interval: time.Second / time.Duration(fps)}
}

// Interval returns the minimum time between draws.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// MarkDirty records that the picture changed.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// ShouldDraw reports whether a draw is due at now, and if so consumes the
// pending change.
func (s *Scheduler) ShouldDraw(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false
	}
	if !s.last.IsZero() && now.Sub(s.last) < s.interval {
		return false
	}
	s.dirty = false
	s.last = now
	return true
}
