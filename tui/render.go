package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/topdown/cli"
	"github.com/nathoo/topdown/engine"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/types"
)

// World pixels covered by one terminal cell. Cells are about twice as tall
// as they are wide.
const (
	cellW = 8.0
	cellH = 16.0
)

type cell struct {
	r rune
	g glyph
}

// grid is a camera-relative character raster of the current map.
type grid struct {
	cols, rows int
	cam        types.Vec
	cells      [][]cell
}

func newGrid(cols, rows int, cam types.Vec) *grid {
	g := &grid{cols: cols, rows: rows, cam: cam, cells: make([][]cell, rows)}
	for y := range g.cells {
		g.cells[y] = make([]cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' ', g: glyphVoid}
		}
	}
	return g
}

// span converts a world rectangle to the inclusive cell range it covers,
// clipped to the grid. ok is false when nothing is on screen.
func (g *grid) span(r types.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = int(math.Floor((r.X - g.cam.X) / cellW))
	y0 = int(math.Floor((r.Y - g.cam.Y) / cellH))
	x1 = int(math.Ceil((r.X+r.W-g.cam.X)/cellW)) - 1
	y1 = int(math.Ceil((r.Y+r.H-g.cam.Y)/cellH)) - 1
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, g.cols-1), min(y1, g.rows-1)
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

func (g *grid) fill(r types.Rect, c cell) {
	x0, y0, x1, y1, ok := g.span(r)
	if !ok {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.cells[y][x] = c
		}
	}
}

// mark draws c on the cell under the centre of r.
func (g *grid) mark(r types.Rect, c cell) {
	x := int(math.Floor((r.X + r.W/2 - g.cam.X) / cellW))
	y := int(math.Floor((r.Y + r.H/2 - g.cam.Y) / cellH))
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y][x] = c
}

// String renders the grid, styling runs of equal glyph classes together.
func (g *grid) String() string {
	lines := make([]string, 0, g.rows)
	for _, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].g == row[start].g {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(glyphStyles[row[start].g].Render(string(run)))
			start = x
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// renderMap rasterizes the current map around the camera. During a map
// change the view is blank.
func renderMap(eng *engine.Engine, cols, rows int) string {
	m := eng.CurrentMap()
	cols, rows = max(cols, 1), max(rows, 1)
	if m == nil || eng.Fading() {
		return newGrid(cols, rows, types.Vec{}).String()
	}

	cam := eng.Camera(float64(cols)*cellW, float64(rows)*cellH)
	g := newGrid(cols, rows, cam)
	g.fill(types.Rect{W: m.Width, H: m.Height}, cell{r: '.', g: glyphFloor})
	for _, c := range m.Colliders {
		g.fill(c, cell{r: '#', g: glyphWall})
	}

	hovered := eng.Hovered()
	for i := range m.Spots {
		s := &m.Spots[i]
		if !eng.Visible(s) {
			continue
		}
		if eng.ShowSpots() {
			g.fill(s.Rect, cell{r: ':', g: glyphOutline})
		}
		r, cls := spotGlyph(s.Kind)
		if hovered != nil && hovered.ID == s.ID {
			cls = glyphHover
		}
		g.mark(s.Rect, cell{r: r, g: cls})
	}

	g.mark(eng.PlayerRect(), cell{r: '@', g: glyphPlayer})
	return g.String()
}

// renderDialog draws the open dialog as a card of the given outer width.
func renderDialog(eng *engine.Engine, width int) string {
	s := eng.Dialog()
	if s == nil {
		return ""
	}
	nav := eng.DialogNav()
	lines := cli.DialogLines(s, nav)
	// The last line is the typed-command hint; keys replace it here.
	if n := len(lines); n > 0 && strings.HasPrefix(lines[n-1], "(") {
		lines = lines[:n-1]
	}

	inner := max(width-4, 10)
	var body []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "== ") && strings.HasSuffix(line, " =="):
			body = append(body, styleCardTitle.Render(strings.TrimSuffix(strings.TrimPrefix(line, "== "), " ==")))
		case strings.HasSuffix(line, "(not enough coins)"), strings.HasSuffix(line, "(missing resources)"):
			body = append(body, styleDisabled.Render(wordwrap.String(line, inner)))
		default:
			body = append(body, wordwrap.String(line, inner))
		}
	}
	body = append(body, styleHint.Render(dialogHint(s, nav)))
	return styleCard.Width(max(width-2, 12)).Render(strings.Join(body, "\n"))
}

func dialogHint(s *dialog.Session, nav dialog.Nav) string {
	switch c := s.Content.(type) {
	case *dialog.Sequence:
		hint := "e: next"
		if c.Last() {
			hint = "e: close"
		}
		if nav.Back {
			hint += "  esc: back"
		} else {
			hint += "  esc: close"
		}
		return fmt.Sprintf("%s  (%d/%d)", hint, c.Index+1, len(c.Lines))
	case *dialog.Choice:
		return "1-9: choose  esc: close"
	case *dialog.Shop:
		return "1-9: buy  esc: close"
	case *dialog.Craft:
		return "1-9: craft  esc: close"
	default:
		return "esc: close"
	}
}

// renderInventory draws the coin balance and carried items.
func renderInventory(eng *engine.Engine, height int) string {
	lines := []string{
		styleCardTitle.Render("Inventory"),
		fmt.Sprintf("Coins: %d", eng.Balance()),
		"",
	}
	entries := eng.Inventory()
	if len(entries) == 0 {
		lines = append(lines, styleHint.Render("Empty"))
	}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%3dx %s", e.Qty, e.DisplayName()))
	}
	return stylePanel.Width(panelWidth - 2).Height(max(height-2, 1)).Render(strings.Join(lines, "\n"))
}

// renderToasts draws the live notices, newest last.
func renderToasts(toasts []toast, width int) string {
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, styleToast.Render(wordwrap.String("* "+t.text, max(width, 10))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
