package shape

import "github.com/vovakirdan/shapemotion/internal/core"

// Circle is a filled disc. A pixel belongs to it when its squared distance
// from the center is at most Radius², so the four axis extremes are always
// covered and the bounding box is exact.
type Circle struct {
	Radius int
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) Bounds(center core.Vec2) core.Region {
	return core.RegionAround(center, core.V(c.Radius, c.Radius))
}

func (c Circle) Contains(center, p core.Vec2) bool {
	d := p.Sub(center)
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

// Chord returns the half-width of the disc on the row dy away from the
// center, or -1 when the row misses the disc.
func (c Circle) Chord(dy int) int {
	dy = core.Abs(dy)
	if dy > c.Radius {
		return -1
	}
	r2 := c.Radius * c.Radius
	w := 0
	for (w+1)*(w+1)+dy*dy <= r2 {
		w++
	}
	return w
}
