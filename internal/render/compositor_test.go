package render

import (
	"sync"
	"testing"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/layer"
	"github.com/vovakirdan/shapemotion/internal/motion"
	"github.com/vovakirdan/shapemotion/internal/shape"
)

var fence = core.NewRegion(core.V(2, 2), core.V(57, 37))

// scene builds an overlapping stack: a circle over a rect over a field
// outline, with the circle and rect moving.
func scene(t *testing.T) (*layer.Stack, *motion.Set) {
	t.Helper()
	stack, err := layer.NewStack([]layer.Def{
		{Name: "ball", Shape: shape.Circle{Radius: 4}, Pos: core.V(20, 20), Color: core.ColorOrange},
		{Name: "paddle", Shape: shape.Rect{Half: core.V(6, 2)}, Pos: core.V(24, 22), Color: core.ColorRed},
		{Name: "arrow", Shape: shape.Arrow{Size: 10, Dir: shape.DirRight}, Pos: core.V(40, 12), Color: core.ColorGreen},
		{Name: "field", Shape: shape.RectOutline{Half: core.V(28, 18), Thickness: 1}, Pos: core.V(29, 19), Color: core.ColorBlack},
	})
	if err != nil {
		t.Fatalf("NewStack() failed: %v", err)
	}
	set, err := motion.NewSet(stack, []motion.Entry{
		{Layer: 0, Velocity: core.V(2, 1)},
		{Layer: 1, Velocity: core.V(-1, 0)},
	})
	if err != nil {
		t.Fatalf("NewSet() failed: %v", err)
	}
	return stack, set
}

// bruteForce resolves a single pixel the slow way.
func bruteForce(stack *layer.Stack, p core.Vec2, bg core.Color) core.Color {
	for _, l := range stack.All() {
		if l.Shape.Contains(l.Pos, p) {
			return l.Color
		}
	}
	return bg
}

func TestDrawAllMatchesPrecedence(t *testing.T) {
	stack, _ := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)
	screen := core.NewScreen(60, 40)
	screen.Clear(core.ColorBlue)
	c.SetClip(screen.Bounds())

	c.DrawAll(screen)

	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			p := core.V(x, y)
			if got, want := screen.Get(x, y), bruteForce(stack, p, core.ColorBlue); got != want {
				t.Fatalf("pixel %v = %v, expected %v", p, got, want)
			}
		}
	}

	// Overlap of ball and paddle belongs to the ball (earlier in the list)
	if screen.Get(20, 22) != core.ColorOrange {
		t.Errorf("overlap pixel = %v, expected orange", screen.Get(20, 22))
	}
	// Paddle-only pixel
	if screen.Get(29, 22) != core.ColorRed {
		t.Errorf("paddle pixel = %v, expected red", screen.Get(29, 22))
	}
}

func TestRedrawCommitsPendingPositions(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)
	screen := core.NewScreen(60, 40)

	set.Advance(fence)
	pending := []core.Vec2{stack.At(0).PosNext, stack.At(1).PosNext}
	before := []core.Vec2{stack.At(0).Pos, stack.At(1).Pos}

	c.Redraw(set, screen)

	for i, e := range set.Entries() {
		l := stack.At(e.Layer)
		if l.Pos != pending[i] {
			t.Errorf("%s Pos = %v, expected %v", l.Name, l.Pos, pending[i])
		}
		if l.PosLast != before[i] {
			t.Errorf("%s PosLast = %v, expected %v", l.Name, l.PosLast, before[i])
		}
	}
}

func TestRedrawOnlyTouchesMovingBoxes(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawCurrent)
	sentinel := core.ColorPink
	screen := core.NewScreen(60, 40)
	screen.Clear(sentinel)

	set.Advance(fence)
	c.Redraw(set, screen)

	var boxes []core.Region
	for _, e := range set.Entries() {
		boxes = append(boxes, stack.At(e.Layer).Bounds())
	}

	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			p := core.V(x, y)
			inBox := false
			for _, b := range boxes {
				if b.Contains(p) {
					inBox = true
				}
			}
			got := screen.Get(x, y)
			if inBox {
				if want := bruteForce(stack, p, core.ColorBlue); got != want {
					t.Fatalf("pixel %v in a moving box = %v, expected %v", p, got, want)
				}
			} else if got != sentinel {
				t.Fatalf("pixel %v outside moving boxes was repainted with %v", p, got)
			}
		}
	}
}

func TestTrailModeErasesOldFootprint(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)
	screen := core.NewScreen(60, 40)
	screen.Clear(core.ColorBlue)
	c.DrawAll(screen)

	// Teleport the ball far away in one frame
	stack.At(0).PosNext = core.V(45, 30)
	c.Redraw(set, screen)

	if screen.Get(20, 20) == core.ColorOrange {
		t.Error("old ball center still painted orange")
	}
	if screen.Get(45, 30) != core.ColorOrange {
		t.Errorf("new ball center = %v, expected orange", screen.Get(45, 30))
	}
}

func TestRasterizeIdempotent(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)

	set.Advance(fence)
	first := core.NewScreen(60, 40)
	c.Redraw(set, first)

	second := core.NewScreen(60, 40)
	second.CopyFrom(first)
	c.Rasterize(set, second)
	if !first.Equal(second) {
		t.Error("second Rasterize() produced different pixels")
	}

	// A full Redraw without an intervening advance is also stable
	c.Redraw(set, second)
	if !first.Equal(second) {
		t.Error("Redraw() without advance produced different pixels")
	}
}

// tickingSurface runs a motion step in the middle of rasterizing, the way a
// timer interrupt could preempt the foreground loop.
type tickingSurface struct {
	*core.Screen
	after int
	tick  func()
	fired bool
}

func (s *tickingSurface) WriteColor(col core.Color) {
	s.Screen.WriteColor(col)
	if !s.fired && s.Writes() == s.after {
		s.fired = true
		s.tick()
	}
}

func TestSwapIsolatedFromMidFrameTick(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawCurrent)

	set.Advance(fence)
	drawn := []core.Vec2{stack.At(0).PosNext, stack.At(1).PosNext}

	surface := &tickingSurface{
		Screen: core.NewScreen(60, 40),
		after:  10,
		tick: func() {
			c.Locked(func() { set.Advance(fence) })
		},
	}
	reference := core.NewScreen(60, 40)

	c.Redraw(set, surface)
	if !surface.fired {
		t.Fatal("tick never fired")
	}

	for i, e := range set.Entries() {
		l := stack.At(e.Layer)
		if l.Pos != drawn[i] {
			t.Errorf("%s Pos = %v after mid-frame tick, expected %v", l.Name, l.Pos, drawn[i])
		}
		if l.PosNext == l.Pos {
			t.Errorf("%s mid-frame tick did not queue a new PosNext", l.Name)
		}
	}

	// The frame must match one rendered without interference
	c.Rasterize(set, reference)
	for _, e := range set.Entries() {
		b := stack.At(e.Layer).Bounds()
		for y := b.TopLeft.Y; y <= b.BotRight.Y; y++ {
			for x := b.TopLeft.X; x <= b.BotRight.X; x++ {
				if surface.Get(x, y) != reference.Get(x, y) {
					t.Fatalf("pixel (%d,%d) differs from an uninterrupted frame", x, y)
				}
			}
		}
	}

	// The queued step shows up on the next redraw
	queued := []core.Vec2{stack.At(0).PosNext, stack.At(1).PosNext}
	c.Redraw(set, reference)
	if stack.At(0).Pos != queued[0] || stack.At(1).Pos != queued[1] {
		t.Error("queued positions were not applied on the next redraw")
	}
}

func TestConcurrentTicksAndRedraws(t *testing.T) {
	stack, set := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)
	screen := core.NewScreen(60, 40)
	c.SetClip(screen.Bounds())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.Locked(func() { set.Advance(fence) })
		}
	}()

	for i := 0; i < 50; i++ {
		c.Redraw(set, screen)
	}
	wg.Wait()

	c.Redraw(set, screen)
	for _, e := range set.Entries() {
		l := stack.At(e.Layer)
		if l.Pos != l.PosNext {
			t.Errorf("%s Pos = %v, PosNext = %v after final redraw", l.Name, l.Pos, l.PosNext)
		}
		if !fence.ContainsRegion(l.Bounds()) {
			t.Errorf("%s escaped the fence: %v", l.Name, l.Bounds())
		}
	}
}

func TestFillClipsToDisplay(t *testing.T) {
	stack, _ := scene(t)
	c := NewCompositor(stack, core.ColorBlue, RedrawTrail)
	screen := core.NewScreen(10, 10)
	c.SetClip(screen.Bounds())

	c.Fill(core.NewRegion(core.V(-5, -5), core.V(2, 2)), screen)
	if screen.Writes() != 9 {
		t.Errorf("Writes() = %d, expected 9 for the clipped 3x3 box", screen.Writes())
	}

	c.Fill(core.NewRegion(core.V(20, 20), core.V(30, 30)), screen)
	if screen.Writes() != 9 {
		t.Error("Fill() wrote pixels for a box entirely off the display")
	}
}
