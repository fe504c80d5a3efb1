// Package layer holds the composition nodes that pair a shape with a position
// and a color. Layers live in a Stack whose order is the front-to-back
// compositing order and never changes after the stack is built.
package layer

import (
	"fmt"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/shape"
)

// ID is a stable handle to a layer in its Stack.
type ID int

// Layer pairs a shape with a double-buffered position.
//
// Pos is what the rasterizer reads. PosNext is written by the motion step and
// only becomes Pos during a redraw swap. PosLast keeps the previous Pos so the
// old footprint can be erased.
type Layer struct {
	Name    string
	Shape   shape.Shape
	Pos     core.Vec2
	PosLast core.Vec2
	PosNext core.Vec2
	Color   core.Color

	initial core.Vec2
}

// Bounds returns the shape's box at the current position.
func (l *Layer) Bounds() core.Region {
	return l.Shape.Bounds(l.Pos)
}

// Contains reports whether p is covered at the current position.
func (l *Layer) Contains(p core.Vec2) bool {
	return l.Shape.Contains(l.Pos, p)
}

// Def describes a layer before it is placed in a stack.
type Def struct {
	Name  string
	Shape shape.Shape
	Pos   core.Vec2
	Color core.Color
}

// Stack owns every layer. Index order is composite order: index 0 is the
// frontmost layer.
type Stack struct {
	layers []Layer
	byName map[string]ID
}

// NewStack allocates all layers up front. Names must be unique and non-empty.
func NewStack(defs []Def) (*Stack, error) {
	s := &Stack{
		layers: make([]Layer, 0, len(defs)),
		byName: make(map[string]ID, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("layer: layer %d has no name", len(s.layers))
		}
		if d.Shape == nil {
			return nil, fmt.Errorf("layer: layer %q has no shape", d.Name)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("layer: duplicate layer name %q", d.Name)
		}
		s.byName[d.Name] = ID(len(s.layers))
		s.layers = append(s.layers, Layer{
			Name:    d.Name,
			Shape:   d.Shape,
			Pos:     d.Pos,
			PosLast: d.Pos,
			PosNext: d.Pos,
			Color:   d.Color,
			initial: d.Pos,
		})
	}
	return s, nil
}

// Init puts every layer back at its configured center with Pos, PosLast and
// PosNext equal.
func (s *Stack) Init() {
	for i := range s.layers {
		l := &s.layers[i]
		l.Pos = l.initial
		l.PosNext = l.initial
		l.PosLast = l.initial
	}
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// At returns the layer with the given handle. It panics on an invalid ID,
// which can only come from a different stack.
func (s *Stack) At(id ID) *Layer {
	return &s.layers[id]
}

// Lookup finds a layer by name.
func (s *Stack) Lookup(name string) (ID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Valid reports whether id refers to a layer of this stack.
func (s *Stack) Valid(id ID) bool {
	return id >= 0 && int(id) < len(s.layers)
}

// All returns the layers in composite order. The slice aliases the stack.
func (s *Stack) All() []Layer {
	return s.layers
}

// ColorAt returns the color of the frontmost layer covering p at its current
// position. The boolean is false when no layer covers p.
func (s *Stack) ColorAt(p core.Vec2) (core.Color, bool) {
	for i := range s.layers {
		l := &s.layers[i]
		if l.Shape.Contains(l.Pos, p) {
			return l.Color, true
		}
	}
	return core.Color{}, false
}
