// Package render composites the layer stack onto a pixel surface.
//
// Redraw is split into a short swap phase, run under the same lock the tick
// handler holds while it writes PosNext, and a long rasterize phase that only
// reads Pos and so runs unlocked.
package render

import (
	"sync"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/layer"
	"github.com/vovakirdan/shapemotion/internal/motion"
)

// Surface is the pixel sink: select an area, then stream its pixels in
// row-major order.
type Surface interface {
	SetArea(r core.Region)
	WriteColor(c core.Color)
}

// TextOverlay draws a fixed-position string.
type TextOverlay interface {
	DrawString(at core.Vec2, text string, fg, bg core.Color)
}

// RedrawMode selects which box is repainted for each moving layer.
type RedrawMode int

const (
	// RedrawTrail repaints the union of the previous and current boxes so a
	// layer that jumps never leaves a stale footprint behind.
	RedrawTrail RedrawMode = iota
	// RedrawCurrent repaints only the box at the current position.
	RedrawCurrent
)

// Compositor owns the lock that separates position swaps from motion steps.
type Compositor struct {
	mu         sync.Mutex
	stack      *layer.Stack
	background core.Color
	mode       RedrawMode
	clip       core.Region
	clipped    bool
}

// NewCompositor creates a compositor for stack painting bg where no layer
// covers a pixel.
func NewCompositor(stack *layer.Stack, bg core.Color, mode RedrawMode) *Compositor {
	return &Compositor{
		stack:      stack,
		background: bg,
		mode:       mode,
	}
}

// SetClip restricts every rasterized box to r, usually the display bounds.
func (c *Compositor) SetClip(r core.Region) {
	c.clip = r
	c.clipped = true
}

// Background returns the color used for uncovered pixels.
func (c *Compositor) Background() core.Color {
	return c.background
}

// Locked runs fn while holding the swap lock. The tick handler uses it so the
// motion step and the collision probe never interleave with a swap.
func (c *Compositor) Locked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// Swap commits pending positions for every moving layer as one indivisible
// step: PosLast takes Pos and Pos takes PosNext.
func (c *Compositor) Swap(set *motion.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range set.Entries() {
		l := c.stack.At(e.Layer)
		l.PosLast = l.Pos
		l.Pos = l.PosNext
	}
}

// Rasterize repaints the box of every moving layer, in set order.
func (c *Compositor) Rasterize(set *motion.Set, dst Surface) {
	for _, e := range set.Entries() {
		l := c.stack.At(e.Layer)
		box := l.Shape.Bounds(l.Pos)
		if c.mode == RedrawTrail {
			box = box.Union(l.Shape.Bounds(l.PosLast))
		}
		c.Fill(box, dst)
	}
}

// Redraw swaps pending positions in and repaints every moving layer.
// After it returns, every moving layer's Pos equals its PosNext from before
// the call.
func (c *Compositor) Redraw(set *motion.Set, dst Surface) {
	c.Swap(set)
	c.Rasterize(set, dst)
}

// DrawAll paints the box of every layer, moving or not. Used for the first
// frame.
func (c *Compositor) DrawAll(dst Surface) {
	for i := range c.stack.All() {
		c.Fill(c.stack.At(layer.ID(i)).Bounds(), dst)
	}
}

// Fill resolves every pixel of box against the stack, front to back, and
// streams the winners to dst in row-major order.
func (c *Compositor) Fill(box core.Region, dst Surface) {
	if c.clipped {
		var ok bool
		if box, ok = box.Intersect(c.clip); !ok {
			return
		}
	}
	dst.SetArea(box)
	for row := box.TopLeft.Y; row <= box.BotRight.Y; row++ {
		for col := box.TopLeft.X; col <= box.BotRight.X; col++ {
			color, ok := c.stack.ColorAt(core.V(col, row))
			if !ok {
				color = c.background
			}
			dst.WriteColor(color)
		}
	}
}
