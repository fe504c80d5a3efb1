package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapemotion/internal/core"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = '▀'

// cell is one terminal cell: a rune and the colors it is drawn with.
type cell struct {
	r      rune
	fg, bg core.Color
}

type cellStyle struct {
	fg, bg core.Color
}

// Renderer converts a pixel screen to styled terminal text. It caches one
// lipgloss style per color pair, so keep one renderer per view.
type Renderer struct {
	styles map[cellStyle]lipgloss.Style
}

// NewRenderer creates a renderer with an empty style cache.
func NewRenderer() *Renderer {
	return &Renderer{styles: make(map[cellStyle]lipgloss.Style)}
}

// Rows returns the number of terminal rows needed for a screen height.
func Rows(height int) int {
	return (height + 1) / 2
}

// Render draws two pixel rows per terminal row. Overlay strings are placed
// in the cell row holding their pixel position and keep their own colors.
// Adjacent cells with the same colors are grouped to minimize ANSI escape
// sequences.
func (r *Renderer) Render(s *core.Screen, bg core.Color) string {
	grid := cells(s, bg)

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(len(grid) * (s.Width()*4 + 1))

	for y, row := range grid {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < len(row) {
			key := cellStyle{fg: row[x].fg, bg: row[x].bg}

			var run strings.Builder
			for x < len(row) && row[x].fg == key.fg && row[x].bg == key.bg {
				run.WriteRune(row[x].r)
				x++
			}
			sb.WriteString(r.style(key).Render(run.String()))
		}
	}
	return sb.String()
}

func (r *Renderer) style(k cellStyle) lipgloss.Style {
	if st, ok := r.styles[k]; ok {
		return st
	}
	st := lipgloss.NewStyle().
		Foreground(lipgloss.Color(k.fg.Hex())).
		Background(lipgloss.Color(k.bg.Hex()))
	r.styles[k] = st
	return st
}

// cells builds the half-block grid and stamps the overlay text on top.
// A missing bottom pixel on an odd-height screen takes the background color.
func cells(s *core.Screen, bg core.Color) [][]cell {
	grid := make([][]cell, Rows(s.Height()))
	for cy := range grid {
		row := make([]cell, s.Width())
		top, bottom := 2*cy, 2*cy+1
		for x := range row {
			lower := bg
			if bottom < s.Height() {
				lower = s.Get(x, bottom)
			}
			row[x] = cell{r: upperHalf, fg: s.Get(x, top), bg: lower}
		}
		grid[cy] = row
	}

	for _, t := range s.Texts() {
		cy := t.At.Y / 2
		if t.At.Y < 0 || cy >= len(grid) {
			continue
		}
		for i, ch := range []rune(t.Text) {
			x := t.At.X + i
			if x >= 0 && x < s.Width() {
				grid[cy][x] = cell{r: ch, fg: t.Fg, bg: t.Bg}
			}
		}
	}
	return grid
}

// RenderScreen renders s with a throwaway renderer.
func RenderScreen(s *core.Screen, bg core.Color) string {
	return NewRenderer().Render(s, bg)
}
