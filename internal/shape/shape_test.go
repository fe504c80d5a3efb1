package shape

import (
	"testing"

	"github.com/vovakirdan/shapemotion/internal/core"
)

// coverage scans a generous window around center and returns the tight box
// of all pixels the shape contains, plus whether any pixel was found.
func coverage(s Shape, center core.Vec2, margin int) (core.Region, bool) {
	b := s.Bounds(center)
	found := false
	var tight core.Region
	for y := b.TopLeft.Y - margin; y <= b.BotRight.Y+margin; y++ {
		for x := b.TopLeft.X - margin; x <= b.BotRight.X+margin; x++ {
			p := core.V(x, y)
			if !s.Contains(center, p) {
				continue
			}
			if !found {
				tight = core.Region{TopLeft: p, BotRight: p}
				found = true
				continue
			}
			tight = tight.Union(core.Region{TopLeft: p, BotRight: p})
		}
	}
	return tight, found
}

func TestBoundsExact(t *testing.T) {
	centers := []core.Vec2{core.V(0, 0), core.V(50, 50), core.V(-7, 13), core.V(64, 145)}
	shapes := []Shape{
		Rect{Half: core.V(10, 2)},
		Rect{Half: core.V(0, 0)},
		Circle{Radius: 14},
		Circle{Radius: 1},
		Circle{Radius: 0},
		RectOutline{Half: core.V(54, 70), Thickness: 1},
		RectOutline{Half: core.V(6, 4), Thickness: 3},
	}

	for _, s := range shapes {
		for _, c := range centers {
			tight, ok := coverage(s, c, 3)
			if !ok {
				t.Fatalf("%s at %v contains no pixels", s.Kind(), c)
			}
			if got := s.Bounds(c); got != tight {
				t.Errorf("%s %+v at %v: Bounds() = %v, covered pixels span %v", s.Kind(), s, c, got, tight)
			}
		}
	}
}

func TestArrowBoundsConservative(t *testing.T) {
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		a := Arrow{Size: 30, Dir: dir}
		c := core.V(40, 40)
		tight, ok := coverage(a, c, 5)
		if !ok {
			t.Fatalf("arrow %s contains no pixels", dir)
		}
		if !a.Bounds(c).ContainsRegion(tight) {
			t.Errorf("arrow %s: Bounds() %v does not enclose %v", dir, a.Bounds(c), tight)
		}
	}
}

func TestArrowTipAndStem(t *testing.T) {
	c := core.V(0, 0)
	tests := []struct {
		dir  Direction
		tip  core.Vec2
		tail core.Vec2
		side core.Vec2 // widest head pixel
	}{
		{DirUp, core.V(0, -15), core.V(0, 15), core.V(15, 0)},
		{DirDown, core.V(0, 15), core.V(0, -15), core.V(-15, 0)},
		{DirLeft, core.V(-15, 0), core.V(15, 0), core.V(0, 15)},
		{DirRight, core.V(15, 0), core.V(-15, 0), core.V(0, -15)},
	}

	for _, tc := range tests {
		t.Run(string(tc.dir), func(t *testing.T) {
			a := Arrow{Size: 30, Dir: tc.dir}
			if !a.Contains(c, tc.tip) {
				t.Errorf("tip %v not contained", tc.tip)
			}
			if !a.Contains(c, tc.tail) {
				t.Errorf("stem end %v not contained", tc.tail)
			}
			if !a.Contains(c, tc.side) {
				t.Errorf("head corner %v not contained", tc.side)
			}
			beyond := tc.tip.Add(unit(tc.tip.Sub(c)))
			if a.Contains(c, beyond) {
				t.Errorf("pixel %v past the tip is contained", beyond)
			}
		})
	}
}

// unit returns the sign vector of v.
func unit(v core.Vec2) core.Vec2 {
	sign := func(n int) int {
		switch {
		case n > 0:
			return 1
		case n < 0:
			return -1
		}
		return 0
	}
	return core.V(sign(v.X), sign(v.Y))
}

func TestRectContainsClosed(t *testing.T) {
	r := Rect{Half: core.V(5, 1)}
	c := core.V(60, 10)

	tests := []struct {
		p        core.Vec2
		expected bool
	}{
		{core.V(60, 10), true},
		{core.V(55, 9), true},  // top-left corner
		{core.V(65, 11), true}, // bottom-right corner
		{core.V(54, 10), false},
		{core.V(66, 10), false},
		{core.V(60, 8), false},
		{core.V(60, 12), false},
	}

	for _, tc := range tests {
		if got := r.Contains(c, tc.p); got != tc.expected {
			t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
		}
	}
}

func TestCircleContainsMatchesAnalytic(t *testing.T) {
	c := Circle{Radius: 5}
	center := core.V(50, 50)

	for dy := -7; dy <= 7; dy++ {
		chord := c.Chord(dy)
		for dx := -7; dx <= 7; dx++ {
			expected := chord >= 0 && core.Abs(dx) <= chord
			if got := c.Contains(center, center.Add(core.V(dx, dy))); got != expected {
				t.Errorf("Contains(offset %d,%d) = %v, expected %v", dx, dy, got, expected)
			}
		}
	}

	// Axis extremes sit exactly on the boundary and are included
	for _, p := range []core.Vec2{core.V(55, 50), core.V(45, 50), core.V(50, 55), core.V(50, 45)} {
		if !c.Contains(center, p) {
			t.Errorf("boundary pixel %v not contained", p)
		}
	}
}

func TestOutlineBand(t *testing.T) {
	o := RectOutline{Half: core.V(10, 10), Thickness: 2}
	c := core.V(0, 0)

	tests := []struct {
		name     string
		p        core.Vec2
		expected bool
	}{
		{"outer edge", core.V(-10, 0), true},
		{"inner edge of band", core.V(-9, 0), true},
		{"just inside band", core.V(-8, 0), false},
		{"center", core.V(0, 0), false},
		{"bottom edge", core.V(3, 10), true},
		{"corner", core.V(10, 10), true},
		{"outside", core.V(11, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := o.Contains(c, tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		kind    Kind
		wantErr bool
	}{
		{"rect", Params{Kind: KindRect, Half: core.V(10, 2)}, KindRect, false},
		{"circle", Params{Kind: KindCircle, Radius: 8}, KindCircle, false},
		{"outline default thickness", Params{Kind: KindOutline, Half: core.V(54, 70)}, KindOutline, false},
		{"arrow default direction", Params{Kind: KindArrow, Size: 30}, KindArrow, false},
		{"negative radius", Params{Kind: KindCircle, Radius: -1}, "", true},
		{"negative half", Params{Kind: KindRect, Half: core.V(-1, 2)}, "", true},
		{"tiny arrow", Params{Kind: KindArrow, Size: 1}, "", true},
		{"bad direction", Params{Kind: KindArrow, Size: 10, Dir: "sideways"}, "", true},
		{"unknown kind", Params{Kind: "hexagon"}, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.params)
			if tc.wantErr {
				if err == nil {
					t.Errorf("New(%+v) expected error", tc.params)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%+v) error: %v", tc.params, err)
			}
			if s.Kind() != tc.kind {
				t.Errorf("Kind() = %q, expected %q", s.Kind(), tc.kind)
			}
		})
	}

	o, _ := New(Params{Kind: KindOutline, Half: core.V(3, 3)})
	if o.(RectOutline).Thickness != 1 {
		t.Errorf("default Thickness = %d, expected 1", o.(RectOutline).Thickness)
	}
	a, _ := New(Params{Kind: KindArrow, Size: 30})
	if a.(Arrow).Dir != DirUp {
		t.Errorf("default Dir = %q, expected up", a.(Arrow).Dir)
	}
}
