package core

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a flat 24-bit RGB pixel color.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Predefined colors matching the LCD palette names used by scene files.
var (
	ColorBlack   = RGB(0x00, 0x00, 0x00)
	ColorWhite   = RGB(0xff, 0xff, 0xff)
	ColorRed     = RGB(0xff, 0x00, 0x00)
	ColorGreen   = RGB(0x00, 0xff, 0x00)
	ColorBlue    = RGB(0x00, 0x00, 0xff)
	ColorYellow  = RGB(0xff, 0xff, 0x00)
	ColorCyan    = RGB(0x00, 0xff, 0xff)
	ColorMagenta = RGB(0xff, 0x00, 0xff)
	ColorOrange  = RGB(0xff, 0xa5, 0x00)
	ColorViolet  = RGB(0xee, 0x82, 0xee)
	ColorPurple  = RGB(0x80, 0x00, 0x80)
	ColorGray    = RGB(0x80, 0x80, 0x80)
	ColorBrown   = RGB(0xa5, 0x2a, 0x2a)
	ColorPink    = RGB(0xff, 0xc0, 0xcb)
)

var namedColors = map[string]Color{
	"black":   ColorBlack,
	"white":   ColorWhite,
	"red":     ColorRed,
	"green":   ColorGreen,
	"blue":    ColorBlue,
	"yellow":  ColorYellow,
	"cyan":    ColorCyan,
	"magenta": ColorMagenta,
	"orange":  ColorOrange,
	"violet":  ColorViolet,
	"purple":  ColorPurple,
	"gray":    ColorGray,
	"grey":    ColorGray,
	"brown":   ColorBrown,
	"pink":    ColorPink,
}

// ParseColor accepts a palette name ("orange") or a hex triplet ("#ff8800").
func ParseColor(s string) (Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	if !strings.HasPrefix(key, "#") {
		return Color{}, fmt.Errorf("core: unknown color %q", s)
	}
	cf, err := colorful.Hex(key)
	if err != nil {
		return Color{}, fmt.Errorf("core: bad hex color %q: %w", s, err)
	}
	return FromColorful(cf), nil
}

// ColorNames returns the palette names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(namedColors))
	for n := range namedColors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful returns c as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the "#rrggbb" form accepted by lipgloss and scene files.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Luminance returns a 0..1 perceptual lightness, used to pick ASCII glyphs.
func (c Color) Luminance() float64 {
	l, _, _ := c.Colorful().Lab()
	return l
}

func (c Color) String() string {
	for name, nc := range namedColors {
		if nc == c && name != "grey" {
			return name
		}
	}
	return c.Hex()
}
