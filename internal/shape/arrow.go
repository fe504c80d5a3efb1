package shape

import "github.com/vovakirdan/shapemotion/internal/core"

// Direction is the way an Arrow points.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

func (d Direction) valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// Arrow is a directional arrow polygon. Its tip sits Size/2 pixels from the
// center in the pointing direction; a triangular head widens over the first
// half of its length and a narrow stem fills the rest.
type Arrow struct {
	Size int
	Dir  Direction
}

func (a Arrow) Kind() Kind { return KindArrow }

func (a Arrow) half() int {
	return a.Size / 2
}

// stemHalf is the half-width of the shaft.
func (a Arrow) stemHalf() int {
	return a.half() / 3
}

// Bounds is the square center ± Size/2, which encloses the head and stem in
// every direction.
func (a Arrow) Bounds(center core.Vec2) core.Region {
	h := a.half()
	return core.RegionAround(center, core.V(h, h))
}

func (a Arrow) Contains(center, p core.Vec2) bool {
	h := a.half()
	along, lateral := a.local(p.Sub(center))
	if along < 0 || along > 2*h {
		return false
	}
	lateral = core.Abs(lateral)
	if along <= h {
		return lateral <= along
	}
	return lateral <= a.stemHalf()
}

// local maps an offset from the center into (distance from tip, sideways
// offset) for the arrow's direction.
func (a Arrow) local(d core.Vec2) (along, lateral int) {
	h := a.half()
	switch a.Dir {
	case DirDown:
		return h - d.Y, d.X
	case DirLeft:
		return d.X + h, d.Y
	case DirRight:
		return h - d.X, d.Y
	default:
		return d.Y + h, d.X
	}
}
