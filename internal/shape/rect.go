package shape

import "github.com/vovakirdan/shapemotion/internal/core"

// Rect is a filled axis-aligned rectangle described by its half extents.
// A Rect with Half (10,2) covers 21x5 pixels.
type Rect struct {
	Half core.Vec2
}

func (r Rect) Kind() Kind { return KindRect }

func (r Rect) Bounds(center core.Vec2) core.Region {
	return core.RegionAround(center, r.Half)
}

func (r Rect) Contains(center, p core.Vec2) bool {
	return r.Bounds(center).Contains(p)
}

// RectOutline is the border band of a rectangle, Thickness pixels wide,
// drawn inward from the edges.
type RectOutline struct {
	Half      core.Vec2
	Thickness int
}

func (o RectOutline) Kind() Kind { return KindOutline }

func (o RectOutline) Bounds(center core.Vec2) core.Region {
	return core.RegionAround(center, o.Half)
}

func (o RectOutline) Contains(center, p core.Vec2) bool {
	b := o.Bounds(center)
	if !b.Contains(p) {
		return false
	}
	t := o.Thickness
	if t <= 0 {
		t = 1
	}
	for _, a := range core.Axes {
		v := p.Get(a)
		if v-b.TopLeft.Get(a) < t || b.BotRight.Get(a)-v < t {
			return true
		}
	}
	return false
}
