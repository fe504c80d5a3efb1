// Package motion advances moving layers inside a rectangular fence using
// unit-step Euler integration with reflective walls.
package motion

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/layer"
)

// ErrTooFast is returned when a velocity could overshoot the fence by more
// than a single reflection can correct.
var ErrTooFast = errors.New("motion: velocity exceeds fence margin")

// FenceOf returns the boundary region for a set: the bounds of the boundary
// layer at its current position. It is computed once and kept for the run.
func FenceOf(stack *layer.Stack, boundary layer.ID) core.Region {
	return stack.At(boundary).Bounds()
}

// Entry annotates a layer with a per-step velocity.
// It references its layer by handle and does not own it.
type Entry struct {
	Layer    layer.ID
	Velocity core.Vec2
}

// Set is the ordered list of moving layers.
// Order is the order of advance and of redraw.
type Set struct {
	stack   *layer.Stack
	entries []Entry
	byLayer map[layer.ID]int
}

// NewSet validates that every entry refers to a distinct layer of stack.
func NewSet(stack *layer.Stack, entries []Entry) (*Set, error) {
	s := &Set{
		stack:   stack,
		entries: make([]Entry, 0, len(entries)),
		byLayer: make(map[layer.ID]int, len(entries)),
	}
	for _, e := range entries {
		if !stack.Valid(e.Layer) {
			return nil, fmt.Errorf("motion: entry refers to unknown layer %d", e.Layer)
		}
		if _, dup := s.byLayer[e.Layer]; dup {
			return nil, fmt.Errorf("motion: layer %q is already moving", stack.At(e.Layer).Name)
		}
		s.byLayer[e.Layer] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Stack returns the layer stack the set moves.
func (s *Set) Stack() *layer.Stack {
	return s.stack
}

// Len returns the number of moving entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns the entries in order. The slice aliases the set.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Find returns the entry moving the given layer.
func (s *Set) Find(id layer.ID) (*Entry, bool) {
	i, ok := s.byLayer[id]
	if !ok {
		return nil, false
	}
	return &s.entries[i], true
}

// SetVelocity replaces the velocity of the entry moving id.
func (s *Set) SetVelocity(id layer.ID, v core.Vec2) bool {
	e, ok := s.Find(id)
	if !ok {
		return false
	}
	e.Velocity = v
	return true
}

// Advance moves every entry one step inside fence.
//
// The step starts from PosNext rather than Pos so that several advances
// between two redraws accumulate. For each axis whose shape bounds leave the
// fence, the velocity component is negated and the position is pulled back
// by twice the new velocity.
func (s *Set) Advance(fence core.Region) {
	for i := range s.entries {
		e := &s.entries[i]
		l := s.stack.At(e.Layer)
		l.PosNext = Step(l.Shape.Bounds, l.PosNext, &e.Velocity, fence)
	}
}

// Step computes the next position for a shape with the given bounds function,
// reflecting vel in place on every axis that would leave fence.
func Step(bounds func(core.Vec2) core.Region, pos core.Vec2, vel *core.Vec2, fence core.Region) core.Vec2 {
	next := pos.Add(*vel)
	b := bounds(next)
	for _, a := range core.Axes {
		if b.TopLeft.Get(a) < fence.TopLeft.Get(a) || b.BotRight.Get(a) > fence.BotRight.Get(a) {
			v := -vel.Get(a)
			*vel = vel.With(a, v)
			next = next.With(a, next.Get(a)+2*v)
		}
	}
	return next
}

// CheckMargins verifies that no entry can overshoot the fence by more than one
// step. The free travel on each axis is the fence span minus the shape span at
// the current position.
func (s *Set) CheckMargins(fence core.Region) error {
	for _, e := range s.entries {
		if err := s.checkMargin(e.Layer, e.Velocity, fence); err != nil {
			return err
		}
	}
	return nil
}

// CheckSpeed verifies that id can move speed pixels per step on either axis
// without overshooting the fence by more than one step.
func (s *Set) CheckSpeed(id layer.ID, speed int, fence core.Region) error {
	return s.checkMargin(id, core.V(speed, speed), fence)
}

func (s *Set) checkMargin(id layer.ID, vel core.Vec2, fence core.Region) error {
	l := s.stack.At(id)
	b := l.Shape.Bounds(l.PosNext)
	if !fence.ContainsRegion(b) {
		return fmt.Errorf("motion: layer %q starts outside the fence %v", l.Name, fence)
	}
	for _, a := range core.Axes {
		span := fence.BotRight.Get(a) - fence.TopLeft.Get(a)
		shapeSpan := b.BotRight.Get(a) - b.TopLeft.Get(a)
		free := span - shapeSpan
		v := core.Abs(vel.Get(a))
		if v == 0 {
			continue
		}
		if 2*v > free {
			return fmt.Errorf("%w: layer %q moves %d per step on an axis with %d free pixels",
				ErrTooFast, l.Name, v, free)
		}
	}
	return nil
}
