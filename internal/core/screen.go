package core

import (
	"strings"
)

// TextSpan is a string placed on the screen by the text overlay.
// At is in pixel coordinates; front ends decide how to map it to cells.
type TextSpan struct {
	At   Vec2
	Text string
	Fg   Color
	Bg   Color
}

// Screen is an in-memory pixel framebuffer.
// It mirrors a small LCD controller: callers select an active area and then
// stream colors into it in row-major order. This decouples compositing from
// the terminal, which only ever reads the finished buffer.
type Screen struct {
	width  int
	height int
	pixels [][]Color
	texts  []TextSpan

	area   Region
	cursor Vec2
	writes int
}

// NewScreen creates a screen of the given size filled with black.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear(ColorBlack)
	return s
}

// allocate creates the underlying pixel storage.
func (s *Screen) allocate() {
	s.pixels = make([][]Color, s.height)
	for y := range s.pixels {
		s.pixels[y] = make([]Color, s.width)
	}
	s.area = s.Bounds()
	s.cursor = s.area.TopLeft
}

// Width returns the screen width in pixels.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in pixels.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the region covering the whole screen.
func (s *Screen) Bounds() Region {
	return Region{TopLeft: V(0, 0), BotRight: V(s.width-1, s.height-1)}
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	oldPixels := s.pixels
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()

	// Copy old content
	copyW := Min(oldW, width)
	copyH := Min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(s.pixels[y][:copyW], oldPixels[y][:copyW])
	}
}

// Clear fills the entire screen with c and drops any overlay text.
func (s *Screen) Clear(c Color) {
	for y := range s.pixels {
		for x := range s.pixels[y] {
			s.pixels[y][x] = c
		}
	}
	s.texts = s.texts[:0]
}

// Set places a color at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.pixels[y][x] = c
}

// Get returns the color at the given position.
// Returns black for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return ColorBlack
	}
	return s.pixels[y][x]
}

// SetArea selects the active region for subsequent WriteColor calls and
// rewinds the write cursor to its top-left corner.
func (s *Screen) SetArea(r Region) {
	s.area = NewRegion(r.TopLeft, r.BotRight)
	s.cursor = s.area.TopLeft
}

// WriteColor stores c at the cursor and advances it row-major through the
// active area, wrapping back to the top-left after the last pixel.
// Pixels of the area that fall off-screen are consumed but not stored.
func (s *Screen) WriteColor(c Color) {
	s.Set(s.cursor.X, s.cursor.Y, c)
	s.writes++

	s.cursor.X++
	if s.cursor.X > s.area.BotRight.X {
		s.cursor.X = s.area.TopLeft.X
		s.cursor.Y++
		if s.cursor.Y > s.area.BotRight.Y {
			s.cursor.Y = s.area.TopLeft.Y
		}
	}
}

// Writes returns the number of WriteColor calls since creation.
func (s *Screen) Writes() int {
	return s.writes
}

// DrawString records an overlay string. Later spans at the same position
// replace earlier ones.
func (s *Screen) DrawString(at Vec2, text string, fg, bg Color) {
	for i, t := range s.texts {
		if t.At == at {
			s.texts[i] = TextSpan{At: at, Text: text, Fg: fg, Bg: bg}
			return
		}
	}
	s.texts = append(s.texts, TextSpan{At: at, Text: text, Fg: fg, Bg: bg})
}

// Texts returns the overlay strings in the order they were first drawn.
func (s *Screen) Texts() []TextSpan {
	return s.texts
}

// CopyFrom replaces the pixel content and overlay with those of src.
// Both screens must have the same size; otherwise dst is resized first.
func (s *Screen) CopyFrom(src *Screen) {
	s.Resize(src.width, src.height)
	for y := range src.pixels {
		copy(s.pixels[y], src.pixels[y])
	}
	s.texts = append(s.texts[:0], src.texts...)
}

// Equal reports whether both screens hold identical pixels.
func (s *Screen) Equal(o *Screen) bool {
	if s.width != o.width || s.height != o.height {
		return false
	}
	for y := range s.pixels {
		for x := range s.pixels[y] {
			if s.pixels[y][x] != o.pixels[y][x] {
				return false
			}
		}
	}
	return true
}

// ASCII converts the buffer to text, one rune per pixel.
// Background pixels become '.', everything else a glyph chosen by lightness.
func (s *Screen) ASCII(bg Color) string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height) // Pre-allocate for efficiency

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(s.Row(y, bg))
	}
	return sb.String()
}

// Row returns the ASCII form of a single row.
func (s *Screen) Row(y int, bg Color) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	row := make([]rune, s.width)
	for x, c := range s.pixels[y] {
		row[x] = glyph(c, bg)
	}
	return string(row)
}

// glyph maps a pixel to a density character.
func glyph(c, bg Color) rune {
	if c == bg {
		return '.'
	}
	ramp := []rune("#%*+o=-:")
	idx := int(c.Luminance() * float64(len(ramp)-1))
	return ramp[Clamp(idx, 0, len(ramp)-1)]
}

// Frame is ASCII with the overlay strings stamped over the pixels they
// start at. Text running past the right edge is cut off.
func (s *Screen) Frame(bg Color) string {
	rows := make([][]rune, s.height)
	for y := range rows {
		rows[y] = []rune(s.Row(y, bg))
	}
	for _, t := range s.texts {
		if t.At.Y < 0 || t.At.Y >= s.height {
			continue
		}
		for i, r := range []rune(t.Text) {
			x := t.At.X + i
			if x >= 0 && x < s.width {
				rows[t.At.Y][x] = r
			}
		}
	}

	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)
	for y, row := range rows {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}
