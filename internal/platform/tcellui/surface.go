// Package tcellui runs a scene directly on a tcell screen. Pixels are drawn
// as upper half blocks, two pixel rows per cell row, and only the cells
// touched since the last frame are pushed to the terminal.
package tcellui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/shapemotion/internal/core"
)

const upperHalf = '▀'

// Surface is a pixel sink backed by a tcell screen. It keeps its own pixel
// buffer and records the areas written since the last Present.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen
	pixels *core.Screen
	bg     core.Color
	origin core.Vec2 // Cell of the top-left pixel pair
	title  string
	dirty  []core.Region
	all    bool
	status string
}

// NewSurface creates a surface for a display of w x h pixels drawn below a
// one-line title.
func NewSurface(screen tcell.Screen, w, h int, bg core.Color, title string) *Surface {
	return &Surface{
		screen: screen,
		pixels: core.NewScreen(w, h),
		bg:     bg,
		origin: core.V(0, 1),
		title:  title,
		all:    true,
	}
}

// SetArea selects the region for the following WriteColor calls.
func (s *Surface) SetArea(r core.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixels.SetArea(r)
	s.dirty = append(s.dirty, core.NewRegion(r.TopLeft, r.BotRight))
}

// WriteColor streams one pixel into the active area.
func (s *Surface) WriteColor(c core.Color) {
	s.mu.Lock()
	s.pixels.WriteColor(c)
	s.mu.Unlock()
}

// DrawString places text at a pixel position. It lands in the cell row that
// holds that pixel.
func (s *Surface) DrawString(at core.Vec2, text string, fg, bg core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixels.DrawString(at, text, fg, bg)
}

// Clear fills the buffer with c, drops the text and schedules a full repaint.
func (s *Surface) Clear(c core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixels.Clear(c)
	s.dirty = s.dirty[:0]
	s.all = true
}

// Invalidate schedules a full repaint, e.g. after a resize.
func (s *Surface) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = true
}

// Pixels returns the backing pixel buffer.
func (s *Surface) Pixels() *core.Screen {
	return s.pixels
}

// Present pushes the dirty cells and the status line for st to the
// terminal.
func (s *Surface) Present(st core.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.all {
		s.screen.Clear()
		s.status = ""
		s.drawText(0, 0, s.title, tcell.StyleDefault.Bold(true))
		s.paintRows(0, core.Max(0, (s.pixels.Height()+1)/2-1))
		s.all = false
	} else {
		for _, r := range s.dirty {
			s.paintRows(r.TopLeft.Y/2, r.BotRight.Y/2)
		}
	}
	s.dirty = s.dirty[:0]

	s.stampTexts()
	s.drawStatus(StatusLine(st))
	s.screen.Show()
}

// paintRows repaints cell rows first..last across the full display width.
func (s *Surface) paintRows(first, last int) {
	rows := (s.pixels.Height() + 1) / 2
	first = core.Max(first, 0)
	last = core.Min(last, rows-1)
	for cy := first; cy <= last; cy++ {
		top, bottom := 2*cy, 2*cy+1
		for x := 0; x < s.pixels.Width(); x++ {
			lower := s.bg
			if bottom < s.pixels.Height() {
				lower = s.pixels.Get(x, bottom)
			}
			st := tcell.StyleDefault.
				Foreground(tcellColor(s.pixels.Get(x, top))).
				Background(tcellColor(lower))
			s.screen.SetContent(s.origin.X+x, s.origin.Y+cy, upperHalf, nil, st)
		}
	}
}

// stampTexts redraws every overlay string on top of the pixel cells.
func (s *Surface) stampTexts() {
	rows := (s.pixels.Height() + 1) / 2
	for _, t := range s.pixels.Texts() {
		cy := t.At.Y / 2
		if t.At.Y < 0 || cy >= rows {
			continue
		}
		st := tcell.StyleDefault.Foreground(tcellColor(t.Fg)).Background(tcellColor(t.Bg))
		for i, ch := range []rune(t.Text) {
			x := t.At.X + i
			if x >= 0 && x < s.pixels.Width() {
				s.screen.SetContent(s.origin.X+x, s.origin.Y+cy, ch, nil, st)
			}
		}
	}
}

func (s *Surface) drawStatus(line string) {
	if line == s.status {
		return
	}
	y := s.origin.Y + (s.pixels.Height()+1)/2
	w, _ := s.screen.Size()
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
	s.drawText(0, y, line, tcell.StyleDefault)
	s.status = line
}

func (s *Surface) drawText(x, y int, text string, st tcell.Style) {
	for i, ch := range []rune(text) {
		s.screen.SetContent(x+i, y, ch, nil, st)
	}
}

// StatusLine formats the run counters and state for display.
func StatusLine(st core.State) string {
	line := fmt.Sprintf("steps %d  ticks %d  frames %d", st.Steps, st.Ticks, st.Frames)
	switch {
	case st.Lost:
		line += "  " + st.Message + "  r: restart  q: quit"
	case st.Paused:
		line += "  PAUSED"
	}
	return line
}

func tcellColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
