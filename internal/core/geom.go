// Package core provides fundamental types and utilities for the shape engine.
// It contains no UI dependencies (especially no Bubble Tea) so the shape,
// layer and motion logic built on top of it stays pure and testable.
package core

import "fmt"

// Axis indexes a Vec2 component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Axes lists both axes in evaluation order.
var Axes = [2]Axis{AxisX, AxisY}

// Vec2 is an integer 2-D vector used for positions, velocities and corners.
type Vec2 struct {
	X, Y int
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y int) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Get returns the component on the given axis.
func (v Vec2) Get(a Axis) int {
	if a == AxisY {
		return v.Y
	}
	return v.X
}

// With returns a copy of v with the component on axis a replaced.
func (v Vec2) With(a Axis, val int) Vec2 {
	if a == AxisY {
		v.Y = val
	} else {
		v.X = val
	}
	return v
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Region is an axis-aligned box with inclusive corners.
// TopLeft is always componentwise <= BotRight.
type Region struct {
	TopLeft  Vec2
	BotRight Vec2
}

// NewRegion builds a normalized region from two arbitrary corners.
func NewRegion(a, b Vec2) Region {
	return Region{
		TopLeft:  Vec2{X: Min(a.X, b.X), Y: Min(a.Y, b.Y)},
		BotRight: Vec2{X: Max(a.X, b.X), Y: Max(a.Y, b.Y)},
	}
}

// RegionAround returns the box center ± half.
func RegionAround(center, half Vec2) Region {
	return NewRegion(center.Sub(half), center.Add(half))
}

// Width returns the number of columns covered (inclusive).
func (r Region) Width() int {
	return r.BotRight.X - r.TopLeft.X + 1
}

// Height returns the number of rows covered (inclusive).
func (r Region) Height() int {
	return r.BotRight.Y - r.TopLeft.Y + 1
}

// Area returns the number of pixels covered.
func (r Region) Area() int {
	return r.Width() * r.Height()
}

// Contains reports whether p lies inside r, edges included.
func (r Region) Contains(p Vec2) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BotRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BotRight.Y
}

// ContainsRegion reports whether o lies entirely inside r.
func (r Region) ContainsRegion(o Region) bool {
	return r.Contains(o.TopLeft) && r.Contains(o.BotRight)
}

// Intersects reports whether r and o share at least one pixel.
func (r Region) Intersects(o Region) bool {
	if r.BotRight.X < o.TopLeft.X || o.BotRight.X < r.TopLeft.X {
		return false
	}
	if r.BotRight.Y < o.TopLeft.Y || o.BotRight.Y < r.TopLeft.Y {
		return false
	}
	return true
}

// Intersect returns the overlap of r and o.
// The boolean is false when they do not overlap.
func (r Region) Intersect(o Region) (Region, bool) {
	if !r.Intersects(o) {
		return Region{}, false
	}
	return Region{
		TopLeft:  Vec2{X: Max(r.TopLeft.X, o.TopLeft.X), Y: Max(r.TopLeft.Y, o.TopLeft.Y)},
		BotRight: Vec2{X: Min(r.BotRight.X, o.BotRight.X), Y: Min(r.BotRight.Y, o.BotRight.Y)},
	}, true
}

// Union returns the smallest region covering both r and o.
func (r Region) Union(o Region) Region {
	return Region{
		TopLeft:  Vec2{X: Min(r.TopLeft.X, o.TopLeft.X), Y: Min(r.TopLeft.Y, o.TopLeft.Y)},
		BotRight: Vec2{X: Max(r.BotRight.X, o.BotRight.X), Y: Max(r.BotRight.Y, o.BotRight.Y)},
	}
}

// Center returns the integer center of the region.
func (r Region) Center() Vec2 {
	return Vec2{X: (r.TopLeft.X + r.BotRight.X) / 2, Y: (r.TopLeft.Y + r.BotRight.Y) / 2}
}

func (r Region) String() string {
	return fmt.Sprintf("[%s-%s]", r.TopLeft, r.BotRight)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
