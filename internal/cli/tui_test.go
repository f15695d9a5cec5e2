package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/internal/sample"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/render/sink"
	"github.com/matzehuels/memgraph/pkg/session"
	"github.com/matzehuels/memgraph/pkg/source"
)

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Fetch(context.Context, source.Request) (*graph.Data, error) {
	return nil, errors.NewFetchError(nil, "graph API returned 503")
}

func newTestViewer(t *testing.T, src source.Source) *viewer {
	t.Helper()
	cfg := config.Default()
	sess := session.New(src, sessionOptions(cfg, 800, 600, nil))
	t.Cleanup(func() { _ = sess.Close(context.Background()) })

	v := newViewer(context.Background(), sess, cfg.View.Title, cfg.View.FPS, 1)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return v
}

// loadNow runs a load command synchronously and feeds its result back.
func loadNow(v *viewer, cmd tea.Cmd) {
	v.Update(cmd())
}

func TestViewerLoad(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})

	cmd := v.load(false)
	if status, _ := v.sess.Status(); status != session.StatusLoading {
		t.Fatalf("status before fetch = %v, want loading", status)
	}
	if !strings.Contains(v.View(), "Loading memories...") {
		t.Error("loading state not shown")
	}

	loadNow(v, cmd)
	if status, _ := v.sess.Status(); status != session.StatusReady {
		t.Fatalf("status = %v, want ready", status)
	}

	view := v.View()
	if got := strings.Count(view, "\n") + 1; got != 24 {
		t.Errorf("view has %d lines, want 24", got)
	}
	for _, want := range []string{"Memory Connection Graph", "10 nodes", "8 links", "strength ≥ 0.75", "r refresh"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewerTicksAdvanceSimulation(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})
	loadNow(v, v.load(false))

	before := v.sess.Surface().Snapshot().Tick
	_, cmd := v.Update(tickMsg{})
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if after := v.sess.Surface().Snapshot().Tick; after != before+1 {
		t.Errorf("tick = %d, want %d", after, before+1)
	}
}

func TestViewerEmpty(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: &graph.Data{}})
	loadNow(v, v.load(false))

	if status, _ := v.sess.Status(); status != session.StatusEmpty {
		t.Fatalf("status = %v, want empty", status)
	}
	if !strings.Contains(v.View(), "No memories yet.") {
		t.Error("empty message not shown")
	}
}

func TestViewerFailure(t *testing.T) {
	v := newTestViewer(t, failingSource{})
	loadNow(v, v.load(false))

	view := v.View()
	if !strings.Contains(view, "Failed to load memories") {
		t.Errorf("error state not shown:\n%s", view)
	}
	if !strings.Contains(view, "press r to try again") {
		t.Error("retry hint not shown")
	}
}

func TestViewerRefreshDiscardsStaleResult(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})
	loadNow(v, v.load(false))
	first := v.sess.Surface()

	stale := v.load(false)
	if !first.Closed() {
		t.Error("starting a load must stop the running simulation")
	}
	fresh := v.load(true)

	loadNow(v, stale)
	if v.sess.Surface() != nil {
		t.Error("a superseded result must not be installed")
	}
	loadNow(v, fresh)
	if v.sess.Surface() == nil {
		t.Fatal("latest result not installed")
	}
}

func TestViewerKeys(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})
	loadNow(v, v.load(false))
	surf := v.sess.Surface()

	k := surf.Transform().K
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if got := surf.Transform().K; got <= k {
		t.Errorf("zoom in: K = %v, want > %v", got, k)
	}

	x := surf.Transform().X
	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := surf.Transform().X; got <= x {
		t.Errorf("pan left: X = %v, want > %v", got, x)
	}

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	if got := surf.Transform().K; got != 1 {
		t.Errorf("centre: K = %v, want 1", got)
	}

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestViewerStrengthKeys(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})
	loadNow(v, v.load(false))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	if cmd == nil {
		t.Fatal("raising the strength should reload")
	}
	if got := v.sess.Request().MinStrength; got != 0.8 {
		t.Errorf("min strength = %v, want 0.8", got)
	}
	loadNow(v, cmd)
	if n := len(v.sess.Surface().Snapshot().Edges); n != 5 {
		t.Errorf("edges at 0.8 = %d, want 5", n)
	}

	for range 20 {
		if _, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}}); cmd != nil {
			loadNow(v, cmd)
		}
	}
	if got := v.sess.Request().MinStrength; got != source.AnyStrength {
		t.Errorf("min strength floor = %v, want AnyStrength", got)
	}
	if !strings.Contains(v.View(), "strength ≥ 0 ") {
		t.Error("header should show a zero minimum")
	}
}

func TestViewerMouse(t *testing.T) {
	v := newTestViewer(t, &source.Static{Data: sample.Data()})
	loadNow(v, v.load(false))
	surf := v.sess.Surface()

	k := surf.Transform().K
	v.Update(tea.MouseMsg{X: 40, Y: 12, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := surf.Transform().K; got <= k {
		t.Errorf("wheel up: K = %v, want > %v", got, k)
	}

	// Background drag pans.
	v.Update(tea.MouseMsg{X: 0, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if surf.Dragging() {
		t.Fatal("pressing on empty canvas should not drag a node")
	}
	x := surf.Transform().X
	v.Update(tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionMotion})
	v.Update(tea.MouseMsg{X: 3, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := surf.Transform().X; got != x+3*v.term.CellWidth {
		t.Errorf("pan: X = %v, want %v", got, x+3*v.term.CellWidth)
	}
	if v.panning {
		t.Error("release should end panning")
	}
}

func TestPointAt(t *testing.T) {
	v := &viewer{term: sink.NewTerminal(80, 22)}
	p := v.pointAt(0, headerRows)
	if p.X != v.term.CellWidth/2 || p.Y != v.term.CellHeight/2 {
		t.Errorf("pointAt(0, header) = %+v", p)
	}
}
