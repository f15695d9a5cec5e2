package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/memgraph/pkg/render"
)

// Default terminal cell size in frame pixels. Cells are roughly twice as
// tall as wide.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellEdge
	cellStrongEdge
	cellNode
	cellHovered
	cellPinned
	cellLabel
	cellWide // right half of a double-width rune
)

const (
	glyphNode    = '●'
	glyphHovered = '◉'
	glyphPinned  = '◆'
)

// strongEdge is the strength from which edges are drawn bold.
const strongEdge = 0.9

// tooltipCols is the text width of the tooltip box, about the 300px the
// browser view allows.
const tooltipCols = 38

// tooltipChrome is the border and padding the box adds around its text.
const tooltipChrome = 4

type cell struct {
	r    rune
	kind cellKind
}

// Terminal rasterises frames into a grid of styled characters.
type Terminal struct {
	Cols, Rows            int
	CellWidth, CellHeight float64

	styles map[cellKind]lipgloss.Style
	tip    lipgloss.Style
	empty  lipgloss.Style
}

// NewTerminal returns a terminal sink of the given size in cells.
func NewTerminal(cols, rows int) *Terminal {
	return &Terminal{
		Cols:       cols,
		Rows:       rows,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
		styles: map[cellKind]lipgloss.Style{
			cellEdge:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			cellStrongEdge: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			cellNode:       lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")),
			cellHovered:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6ee7b7")).Bold(true),
			cellPinned:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
			cellLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")),
		},
		tip: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("36")).
			Padding(0, 1),
		empty: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// PixelSize returns the frame size in pixels that fills the terminal.
func (t *Terminal) PixelSize() (width, height float64) {
	return float64(t.Cols) * t.CellWidth, float64(t.Rows) * t.CellHeight
}

// Render draws the frame. The result has exactly Rows lines.
func (t *Terminal) Render(f render.Frame) string {
	if t.Cols <= 0 || t.Rows <= 0 {
		return ""
	}
	if f.Empty {
		return lipgloss.Place(t.Cols, t.Rows, lipgloss.Center, lipgloss.Center, t.empty.Render(f.Message))
	}

	grid := make([][]cell, t.Rows)
	for i := range grid {
		grid[i] = make([]cell, t.Cols)
	}

	for _, l := range f.Lines {
		kind := cellEdge
		if l.Strength >= strongEdge {
			kind = cellStrongEdge
		}
		t.drawLine(grid, l, kind)
	}
	for _, l := range f.Labels {
		t.drawText(grid, l.X, l.Y, l.Text)
	}
	for _, m := range f.Markers {
		c, r := t.cellAt(m.X, m.Y)
		kind, glyph := cellNode, glyphNode
		switch {
		case m.Pinned:
			kind, glyph = cellPinned, glyphPinned
		case m.Hovered:
			kind, glyph = cellHovered, glyphHovered
		}
		t.set(grid, c, r, glyph, kind)
	}

	lines := make([]string, t.Rows)
	for r, row := range grid {
		lines[r] = t.renderCells(row)
	}

	if f.Tooltip != nil {
		c, r := t.cellAt(f.Tooltip.X, f.Tooltip.Y)
		t.overlay(grid, lines, t.tooltipBox(f.Tooltip.Lines()), c, r)
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) cellAt(x, y float64) (col, row int) {
	return int(math.Floor(x / t.CellWidth)), int(math.Floor(y / t.CellHeight))
}

func (t *Terminal) inside(c, r int) bool {
	return c >= 0 && c < t.Cols && r >= 0 && r < t.Rows
}

func (t *Terminal) set(grid [][]cell, c, r int, ch rune, kind cellKind) {
	if !t.inside(c, r) {
		return
	}
	grid[r][c] = cell{r: ch, kind: kind}
}

// drawLine rasterises an edge with Bresenham's algorithm, choosing a glyph
// from the line's slope in screen space.
func (t *Terminal) drawLine(grid [][]cell, l render.Line, kind cellKind) {
	c0, r0 := t.cellAt(l.X1, l.Y1)
	c1, r1 := t.cellAt(l.X2, l.Y2)
	glyph := slopeGlyph(l.X2-l.X1, l.Y2-l.Y1)

	// Lines far outside the viewport are clipped by bounding box first.
	if (c0 < 0 && c1 < 0) || (r0 < 0 && r1 < 0) || (c0 >= t.Cols && c1 >= t.Cols) || (r0 >= t.Rows && r1 >= t.Rows) {
		return
	}

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	e := dc + dr
	for steps := 0; steps <= 4*(t.Cols+t.Rows); steps++ {
		if t.inside(c0, r0) && grid[r0][c0].kind == cellBlank {
			grid[r0][c0] = cell{r: glyph, kind: kind}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func slopeGlyph(dx, dy float64) rune {
	// Cells are twice as tall as wide; compare in cell units.
	angle := math.Atan2(-dy/2, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '─'
	case angle < 67.5:
		return '╱'
	case angle < 112.5:
		return '│'
	default:
		return '╲'
	}
}

func (t *Terminal) drawText(grid [][]cell, x, y float64, text string) {
	c, r := t.cellAt(x, y)
	if r < 0 || r >= t.Rows {
		return
	}
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if c+w > t.Cols {
			return
		}
		if c >= 0 {
			grid[r][c] = cell{r: ch, kind: cellLabel}
			if w == 2 {
				grid[r][c+1] = cell{kind: cellWide}
			}
		}
		c += w
	}
}

// renderCells styles a row, batching runs of equal kind into one render
// call.
func (t *Terminal) renderCells(row []cell) string {
	var out, run strings.Builder
	kind := cellBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := t.styles[kind]; ok {
			out.WriteString(st.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range row {
		if c.kind == cellWide {
			continue
		}
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		if c.kind == cellBlank {
			run.WriteByte(' ')
		} else {
			run.WriteRune(c.r)
		}
	}
	flush()
	return out.String()
}

// tooltipBox wraps the tooltip text to fit the terminal and draws its box.
// Lines that do not fit vertically end in an ellipsis row.
func (t *Terminal) tooltipBox(text []string) string {
	cols := min(tooltipCols, t.Cols-tooltipChrome)
	if cols < 1 || t.Rows < 3 {
		return ""
	}
	var body []string
	for _, l := range text {
		for _, para := range strings.Split(l, "\n") {
			body = append(body, wrapCells(para, cols)...)
		}
	}
	if maxLines := t.Rows - 2; len(body) > maxLines {
		body = append(body[:maxLines-1], "…")
	}
	return t.tip.Render(strings.Join(body, "\n"))
}

// wrapCells breaks text on spaces into lines at most cols cells wide.
// Words longer than a line are split.
func wrapCells(text string, cols int) []string {
	var lines []string
	var line strings.Builder
	w := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		w = 0
	}
	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if w > 0 && w+1+ww > cols {
			flush()
		}
		for ww > cols {
			head := runewidth.Truncate(word, cols, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		if w > 0 {
			line.WriteByte(' ')
			w++
		}
		line.WriteString(word)
		w += ww
	}
	if w > 0 {
		flush()
	}
	return lines
}

// overlay splices a rendered box into the lines at cell (c, r), keeping it
// inside the terminal.
func (t *Terminal) overlay(grid [][]cell, lines []string, box string, c, r int) {
	if box == "" {
		return
	}
	boxLines := strings.Split(box, "\n")
	w := lipgloss.Width(box)
	h := len(boxLines)
	if w > t.Cols || h > t.Rows {
		return
	}
	c = max(0, min(c, t.Cols-w))
	r = max(0, min(r, t.Rows-h))
	for i, bl := range boxLines {
		row := grid[r+i]
		left := t.renderCells(blankWideEdge(row[:c]))
		right := t.renderCells(blankWideStart(row[c+w:]))
		lines[r+i] = left + bl + strings.Repeat(" ", w-lipgloss.Width(bl)) + right
	}
}

// blankWideEdge drops a wide rune cut in half at the right edge of a slice.
func blankWideEdge(row []cell) []cell {
	if n := len(row); n > 0 && runewidth.RuneWidth(row[n-1].r) == 2 && row[n-1].kind != cellWide {
		out := append([]cell(nil), row...)
		out[n-1] = cell{}
		return out
	}
	return row
}

// blankWideStart replaces an orphaned right half at the start of a slice.
func blankWideStart(row []cell) []cell {
	if len(row) > 0 && row[0].kind == cellWide {
		out := append([]cell(nil), row...)
		out[0] = cell{}
		return out
	}
	return row
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
