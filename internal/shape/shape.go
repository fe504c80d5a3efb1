// Package shape defines the immutable geometry descriptors that layers
// composite. A shape never owns a position: every query takes the center the
// shape is placed at.
package shape

import (
	"fmt"

	"github.com/vovakirdan/shapemotion/internal/core"
)

// Shape is the capability set every variant implements.
// Both methods are pure functions of their inputs.
type Shape interface {
	// Bounds returns the enclosing box for the shape placed at center.
	// Exact for Rect, Circle and RectOutline; conservative for Arrow.
	Bounds(center core.Vec2) core.Region

	// Contains reports whether p is part of the shape placed at center.
	// Regions are closed: pixels exactly on an edge are included.
	Contains(center, p core.Vec2) bool

	// Kind names the variant, as used in scene files.
	Kind() Kind
}

// Kind identifies a shape variant.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindOutline Kind = "outline"
	KindArrow   Kind = "arrow"
)

// Kinds lists every supported variant.
func Kinds() []Kind {
	return []Kind{KindRect, KindCircle, KindOutline, KindArrow}
}

// Params holds the union of variant parameters, as decoded from a scene.
// Only the fields relevant to Kind are read.
type Params struct {
	Kind      Kind
	Half      core.Vec2 // rect, outline
	Radius    int       // circle
	Thickness int       // outline
	Size      int       // arrow
	Dir       Direction // arrow
}

// New builds a shape from decoded parameters.
func New(p Params) (Shape, error) {
	switch p.Kind {
	case KindRect:
		if p.Half.X < 0 || p.Half.Y < 0 {
			return nil, fmt.Errorf("shape: rect half extent %v must not be negative", p.Half)
		}
		return Rect{Half: p.Half}, nil
	case KindCircle:
		if p.Radius < 0 {
			return nil, fmt.Errorf("shape: circle radius %d must not be negative", p.Radius)
		}
		return Circle{Radius: p.Radius}, nil
	case KindOutline:
		if p.Half.X < 0 || p.Half.Y < 0 {
			return nil, fmt.Errorf("shape: outline half extent %v must not be negative", p.Half)
		}
		thickness := p.Thickness
		if thickness <= 0 {
			thickness = 1
		}
		return RectOutline{Half: p.Half, Thickness: thickness}, nil
	case KindArrow:
		if p.Size < 2 {
			return nil, fmt.Errorf("shape: arrow size %d must be at least 2", p.Size)
		}
		dir := p.Dir
		if dir == "" {
			dir = DirUp
		}
		if !dir.valid() {
			return nil, fmt.Errorf("shape: unknown arrow direction %q", p.Dir)
		}
		return Arrow{Size: p.Size, Dir: dir}, nil
	default:
		return nil, fmt.Errorf("shape: unknown kind %q", p.Kind)
	}
}
