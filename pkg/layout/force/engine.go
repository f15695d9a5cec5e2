package force

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/observability"
)

// Engine advances a [State] one tick at a time. The host drives it from its
// animation callback; the engine never starts goroutines of its own.
//
// All methods are safe for concurrent use. A pin written from another
// goroutine is applied atomically between ticks.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	state   *State
	degree  []int
	rng     *rand.Rand
	running bool
	started time.Time

	subs    map[int]func(Snapshot)
	nextSub int

	xs, ys, fx, fy     []float64
	cxs, cys, cdx, cdy []float64
}

// NewEngine returns a stopped engine over st. The engine takes ownership of
// st; callers must not modify it afterwards.
func NewEngine(st *State, cfg Config) *Engine {
	if st == nil {
		st = &State{}
	}
	if st.index == nil {
		st.index = make(map[int64]int, len(st.Nodes))
		for i, n := range st.Nodes {
			st.index[n.ID] = i
		}
	}
	cfg = cfg.WithDefaults()
	e := &Engine{
		cfg:    cfg,
		state:  st,
		degree: make([]int, len(st.Nodes)),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, edge := range st.Edges {
		e.degree[edge.Source]++
		e.degree[edge.Target]++
	}
	if len(st.Nodes) == 0 {
		st.Alpha = 0
		st.AlphaTarget = 0
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Start marks the engine running so Tick advances it.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		e.running = true
		e.started = time.Now()
	}
}

// Stop halts the engine. Subsequent ticks are no-ops until Start or Reheat.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// Running reports whether the engine has been started and not stopped.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Settled reports whether the simulation has reached equilibrium.
func (e *Engine) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settled()
}

func (e *Engine) settled() bool {
	st := e.state
	return st.Alpha < e.cfg.AlphaMin && st.AlphaTarget < e.cfg.AlphaMin
}

// Alpha returns the current energy term.
func (e *Engine) Alpha() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Alpha
}

// Tick advances the simulation by one step and notifies subscribers. It
// returns false without changing anything when the engine is stopped or
// settled.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	if !e.running || e.settled() {
		e.mu.Unlock()
		return false
	}
	e.step()
	settled := e.settled()
	snap := e.state.snapshot(settled)
	subs := e.subscribers()
	var elapsed time.Duration
	if settled {
		elapsed = time.Since(e.started)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	if settled {
		observability.Simulation().OnSettled(snap.ID.String(), snap.Tick, elapsed)
	}
	return true
}

// step performs one integration step. Callers hold e.mu.
func (e *Engine) step() {
	st := e.state
	n := len(st.Nodes)
	st.Alpha += (st.AlphaTarget - st.Alpha) * e.cfg.AlphaDecay
	st.Ticks++

	xs, ys := e.scratch(&e.xs, n), e.scratch(&e.ys, n)
	fx, fy := e.scratch(&e.fx, n), e.scratch(&e.fy, n)
	for i := range st.Nodes {
		xs[i], ys[i] = st.Nodes[i].X, st.Nodes[i].Y
		fx[i], fy[i] = 0, 0
	}

	e.accumulateLink(xs, ys, fx, fy)
	e.accumulateCharge(xs, ys, fx, fy)
	e.applyCenter(xs, ys)

	keep := 1 - e.cfg.VelocityDecay
	for i := range st.Nodes {
		nd := &st.Nodes[i]
		if nd.Pinned() {
			nd.X, nd.Y = *nd.FX, *nd.FY
			nd.VX, nd.VY = 0, 0
			continue
		}
		nd.VX = (nd.VX + st.Alpha*fx[i]) * keep
		nd.VY = (nd.VY + st.Alpha*fy[i]) * keep
		nd.X += nd.VX
		nd.Y += nd.VY
	}

	e.resolveCollisions()
}

// Reheat raises the energy floor to target and restarts the engine. Alpha
// is lifted to at least target. Repeated calls with the same target leave
// the same state; they never stack.
func (e *Engine) Reheat(target float64) {
	e.mu.Lock()
	st := e.state
	if len(st.Nodes) == 0 {
		e.mu.Unlock()
		return
	}
	st.AlphaTarget = target
	if st.Alpha < target {
		st.Alpha = target
	}
	if !e.running {
		e.running = true
		e.started = time.Now()
	}
	id := st.ID.String()
	e.mu.Unlock()
	observability.Simulation().OnReheat(id, target)
}

// Cool resets the energy floor so alpha decays toward equilibrium again.
func (e *Engine) Cool() {
	e.mu.Lock()
	e.state.AlphaTarget = 0
	e.mu.Unlock()
}

// OnTick registers fn to receive a snapshot after every tick. The returned
// function removes the subscription; calling it more than once is harmless.
func (e *Engine) OnTick(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

func (e *Engine) subscribers() []func(Snapshot) {
	if len(e.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		out[i] = e.subs[id]
	}
	return out
}

// Pin holds the node at (x, y). The node moves there immediately and stays
// until Unpin; the simulation never displaces it.
func (e *Engine) Pin(id int64, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.state.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %d not in graph", id)
	}
	nd := &e.state.Nodes[i]
	px, py := x, y
	nd.FX, nd.FY = &px, &py
	nd.X, nd.Y = x, y
	nd.VX, nd.VY = 0, 0
	return nil
}

// Unpin releases the node so forces move it again.
func (e *Engine) Unpin(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.state.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %d not in graph", id)
	}
	e.state.Nodes[i].FX, e.state.Nodes[i].FY = nil, nil
	return nil
}

// Position returns the current coordinates of a node.
func (e *Engine) Position(id int64) (x, y float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.state.Lookup(id)
	if !ok {
		return 0, 0, false
	}
	return e.state.Nodes[i].X, e.state.Nodes[i].Y, true
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot(e.settled())
}

// RunUntilSettled starts the engine and ticks until equilibrium, maxTicks
// steps (when positive), or ctx cancellation. It returns the number of
// ticks performed.
func (e *Engine) RunUntilSettled(ctx context.Context, maxTicks int) (int, error) {
	e.Start()
	ticks := 0
	for maxTicks <= 0 || ticks < maxTicks {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		if !e.Tick() {
			break
		}
		ticks++
	}
	return ticks, nil
}
