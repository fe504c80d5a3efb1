// Package collision implements the end-of-run proximity probe between a
// rectangle layer and a set of circle layers.
//
// The probe is an edge-proximity heuristic rather than exact shape
// intersection: a circle "hits" when its vertical extent spans the
// rectangle's band and its left edge is within a fixed slack of the
// rectangle's center.
package collision

import (
	"fmt"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/layer"
	"github.com/vovakirdan/shapemotion/internal/shape"
)

// RectConfig names the tracked rectangle. Nil constants are filled from the
// layer's shape by NewProbe; set ones are kept, zero included.
type RectConfig struct {
	Layer      layer.ID
	HalfWidth  *int
	HalfHeight *int
	Slack      *int
}

// RectTarget is the tracked rectangle with its resolved probe constants.
type RectTarget struct {
	Layer      layer.ID
	HalfWidth  int
	HalfHeight int
	Slack      int
}

// CircleTarget is a tracked circle. Radius 0 means "use the shape radius".
type CircleTarget struct {
	Layer  layer.ID
	Radius int
}

// Probe checks the tracked circles against the tracked rectangle.
type Probe struct {
	stack   *layer.Stack
	rect    RectTarget
	circles []CircleTarget
}

// NewProbe resolves defaults and checks that targets have the right shapes:
// the rectangle must be a shape.Rect and every circle a shape.Circle.
func NewProbe(stack *layer.Stack, rc RectConfig, circles []CircleTarget) (*Probe, error) {
	if !stack.Valid(rc.Layer) {
		return nil, fmt.Errorf("collision: unknown rectangle layer %d", rc.Layer)
	}
	rl := stack.At(rc.Layer)
	rs, ok := rl.Shape.(shape.Rect)
	if !ok {
		return nil, fmt.Errorf("collision: layer %q is a %s, expected rect", rl.Name, rl.Shape.Kind())
	}
	rect := RectTarget{
		Layer:      rc.Layer,
		HalfWidth:  valueOr(rc.HalfWidth, rs.Half.X),
		HalfHeight: valueOr(rc.HalfHeight, rs.Half.Y),
	}
	rect.Slack = valueOr(rc.Slack, 2*rect.HalfWidth)
	if rect.HalfWidth < 0 || rect.HalfHeight < 0 || rect.Slack < 0 {
		return nil, fmt.Errorf("collision: negative constants for layer %q: %+v", rl.Name, rect)
	}

	p := &Probe{
		stack:   stack,
		rect:    rect,
		circles: make([]CircleTarget, 0, len(circles)),
	}
	for _, c := range circles {
		if !stack.Valid(c.Layer) {
			return nil, fmt.Errorf("collision: unknown circle layer %d", c.Layer)
		}
		cl := stack.At(c.Layer)
		cs, ok := cl.Shape.(shape.Circle)
		if !ok {
			return nil, fmt.Errorf("collision: layer %q is a %s, expected circle", cl.Name, cl.Shape.Kind())
		}
		if c.Radius == 0 {
			c.Radius = cs.Radius
		}
		p.circles = append(p.circles, c)
	}
	return p, nil
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Rect returns the resolved rectangle target.
func (p *Probe) Rect() RectTarget {
	return p.rect
}

// Circles returns the resolved circle targets.
func (p *Probe) Circles() []CircleTarget {
	return p.circles
}

// Check returns the first circle that is in contact with the rectangle at
// the layers' current positions. The boolean is false when none is.
func (p *Probe) Check() (layer.ID, bool) {
	rpos := p.stack.At(p.rect.Layer).Pos
	for _, c := range p.circles {
		if Near(rpos, p.rect, p.stack.At(c.Layer).Pos, c.Radius) {
			return c.Layer, true
		}
	}
	return 0, false
}

// Near is the proximity rule for one circle centered at cpos with radius r
// against the rectangle centered at rpos.
func Near(rpos core.Vec2, rect RectTarget, cpos core.Vec2, r int) bool {
	return cpos.Y+r >= rpos.Y+rect.HalfHeight &&
		cpos.Y-r <= rpos.Y-rect.HalfHeight &&
		cpos.X-rect.HalfWidth-r <= rpos.X+rect.Slack
}
