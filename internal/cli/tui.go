package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/render"
	"github.com/matzehuels/memgraph/pkg/render/sink"
	"github.com/matzehuels/memgraph/pkg/session"
	"github.com/matzehuels/memgraph/pkg/source"
)

const (
	headerRows = 1
	footerRows = 1

	wheelNotch   = 100.0 // wheel delta of one notch, as browsers report it
	zoomStep     = 1.25
	panCells     = 4
	fitPadding   = 24.0
	strengthStep = 0.05
)

var (
	styleHeaderSep = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus    = lipgloss.NewStyle().Foreground(colorGray)
	styleLoading   = lipgloss.NewStyle().Foreground(colorCyan).Italic(true)
	styleErrorBox  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(0, 2)
	styleHelpKey = lipgloss.NewStyle().Foreground(colorCyan)
)

// tickMsg drives the simulation. One message advances the engine by
// ticksPerFrame ticks.
type tickMsg time.Time

// loadedMsg carries a finished fetch back to the event loop.
type loadedMsg struct {
	result session.Result
}

// viewer is the bubbletea model of "memgraph view". Every session and
// surface call happens in Update or View, on the program's goroutine; only
// Session.Fetch runs inside a tea.Cmd.
type viewer struct {
	ctx           context.Context
	sess          *session.Session
	term          *sink.Terminal
	title         string
	interval      time.Duration
	ticksPerFrame int

	cols, rows int
	frame      string // last rendered canvas
	panning    bool
	panFrom    interact.Point
	lastLoad   time.Duration
}

func newViewer(ctx context.Context, sess *session.Session, title string, fps, ticksPerFrame int) *viewer {
	return &viewer{
		ctx:           ctx,
		sess:          sess,
		term:          sink.NewTerminal(80, 22),
		title:         title,
		interval:      render.NewScheduler(fps).Interval(),
		ticksPerFrame: max(1, ticksPerFrame),
	}
}

func (v *viewer) Init() tea.Cmd {
	return tea.Batch(v.load(false), v.tick())
}

func (v *viewer) tick() tea.Cmd {
	return tea.Tick(v.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// load stops the current simulation right away and fetches the next one
// in the background.
func (v *viewer) load(refresh bool) tea.Cmd {
	var t session.Ticket
	if refresh {
		t = v.sess.BeginRefresh()
	} else {
		t = v.sess.Begin()
	}
	v.frame = ""
	ctx, sess := v.ctx, v.sess
	return func() tea.Msg {
		return loadedMsg{result: sess.Fetch(ctx, t)}
	}
}

func (v *viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
	case tickMsg:
		if surf := v.sess.Surface(); surf != nil {
			surf.Step(v.ticksPerFrame)
		}
		return v, v.tick()
	case loadedMsg:
		if v.sess.Apply(msg.result) {
			v.lastLoad = msg.result.Elapsed
			if surf := v.sess.Surface(); surf != nil {
				surf.SetViewport(v.term.PixelSize())
				v.centre(surf)
			}
		}
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	case tea.MouseMsg:
		v.handleMouse(msg)
	}
	return v, nil
}

func (v *viewer) resize(width, height int) {
	v.cols, v.rows = width, height
	v.term = sink.NewTerminal(width, max(1, height-headerRows-footerRows))
	v.frame = ""
	if surf := v.sess.Surface(); surf != nil {
		surf.SetViewport(v.term.PixelSize())
	}
}

// centre moves the layout centre to the middle of the terminal at scale 1.
func (v *viewer) centre(surf *render.Surface) {
	cx, cy := surf.Engine().Config().Center()
	w, h := v.term.PixelSize()
	surf.ResetView()
	surf.Pan(w/2-cx, h/2-cy)
}

func (v *viewer) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "r":
		return v.load(true)
	case "[":
		return v.adjustStrength(-strengthStep)
	case "]":
		return v.adjustStrength(strengthStep)
	}

	surf := v.sess.Surface()
	if surf == nil {
		return nil
	}
	panX, panY := panCells*v.term.CellWidth, panCells*v.term.CellHeight/2
	switch msg.String() {
	case "+", "=":
		surf.ZoomBy(zoomStep)
	case "-", "_":
		surf.ZoomBy(1 / zoomStep)
	case "up", "k":
		surf.Pan(0, panY)
	case "down", "j":
		surf.Pan(0, -panY)
	case "left", "h":
		surf.Pan(panX, 0)
	case "right", "l":
		surf.Pan(-panX, 0)
	case "f":
		surf.Fit(fitPadding)
	case "0":
		v.centre(surf)
	}
	return nil
}

// adjustStrength changes the minimum link strength and reloads. Zero means
// every link.
func (v *viewer) adjustStrength(delta float64) tea.Cmd {
	req := v.sess.Request()
	ms := math.Round((req.MinStrength+delta)*100) / 100
	ms = math.Max(0, math.Min(1, ms))
	if ms == 0 {
		ms = source.AnyStrength
	}
	if ms == req.MinStrength {
		return nil
	}
	req.MinStrength = ms
	v.sess.SetRequest(req)
	return v.load(false)
}

func (v *viewer) handleMouse(msg tea.MouseMsg) {
	surf := v.sess.Surface()
	if surf == nil {
		return
	}
	p := v.pointAt(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		surf.Wheel(-wheelNotch, p)
	case msg.Button == tea.MouseButtonWheelDown:
		surf.Wheel(wheelNotch, p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !surf.PointerDown(p) {
			v.panning, v.panFrom = true, p
		}
	case msg.Action == tea.MouseActionMotion:
		if v.panning {
			surf.Pan(p.X-v.panFrom.X, p.Y-v.panFrom.Y)
			v.panFrom = p
			return
		}
		surf.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		surf.PointerUp()
		v.panning = false
	}
}

// pointAt maps a terminal cell to the centre of that cell in canvas pixels.
func (v *viewer) pointAt(col, row int) interact.Point {
	return interact.Point{
		X: (float64(col) + 0.5) * v.term.CellWidth,
		Y: (float64(row-headerRows) + 0.5) * v.term.CellHeight,
	}
}

func (v *viewer) View() string {
	if v.cols == 0 {
		return ""
	}
	return strings.Join([]string{v.header(), v.canvas(), v.footer()}, "\n")
}

func (v *viewer) canvas() string {
	status, err := v.sess.Status()
	switch status {
	case session.StatusIdle, session.StatusLoading:
		return v.place(styleLoading.Render("Loading memories..."))
	case session.StatusFailed:
		body := StyleError.Bold(true).Render("Failed to load memories") + "\n" +
			StyleValue.Render(errors.UserMessage(err)) + "\n\n" +
			StyleDim.Render("press r to try again")
		return v.place(styleErrorBox.Render(body))
	}

	surf := v.sess.Surface()
	if surf == nil {
		return v.place("")
	}
	if v.frame == "" || surf.ShouldDraw(time.Now()) {
		v.frame = v.term.Render(surf.Frame())
	}
	return v.frame
}

func (v *viewer) place(s string) string {
	return lipgloss.Place(v.term.Cols, v.term.Rows, lipgloss.Center, lipgloss.Center, s)
}

func (v *viewer) header() string {
	sep := styleHeaderSep.Render(" · ")
	parts := []string{StyleTitle.Render(v.title)}

	req := v.sess.Request()
	if req.Query != "" {
		parts = append(parts, styleStatus.Render(fmt.Sprintf("%q", req.Query)))
	}
	parts = append(parts, styleStatus.Render(fmt.Sprintf("strength ≥ %s", formatStrength(req.MinStrength))))

	status, _ := v.sess.Status()
	if surf := v.sess.Surface(); surf != nil && status != session.StatusLoading {
		snap := surf.Snapshot()
		parts = append(parts, styleStatus.Render(fmt.Sprintf("%d nodes", len(snap.Nodes))),
			styleStatus.Render(fmt.Sprintf("%d links", len(snap.Edges))))
		state := fmt.Sprintf("tick %d", snap.Tick)
		if snap.Settled {
			state = "settled"
		}
		parts = append(parts, StyleDim.Render(state))
		if v.lastLoad > 0 {
			parts = append(parts, StyleDim.Render(v.lastLoad.Round(time.Millisecond).String()))
		}
	} else {
		parts = append(parts, styleStatus.Render(status.String()))
	}
	return lipgloss.NewStyle().MaxWidth(v.cols).Render(strings.Join(parts, sep))
}

func formatStrength(s float64) string {
	if s < 0.005 {
		return "0"
	}
	return fmt.Sprintf("%.2f", s)
}

func (v *viewer) footer() string {
	keys := []struct{ key, desc string }{
		{"drag", "move"},
		{"wheel +/-", "zoom"},
		{"arrows", "pan"},
		{"f", "fit"},
		{"0", "centre"},
		{"[ ]", "strength"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = styleHelpKey.Render(k.key) + " " + StyleDim.Render(k.desc)
	}
	return lipgloss.NewStyle().MaxWidth(v.cols).Render(strings.Join(parts, StyleDim.Render("  ")))
}
