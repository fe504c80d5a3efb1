// Package sim ties a scene's layers, motion set, compositor and collision
// probe into one simulation context.
//
// Two logical threads drive a Simulation. Tick is the periodic handler: it
// counts ticks, runs a motion step every divisor ticks, probes for a loss and
// raises the redraw-pending event. Redraw is the foreground side: it commits
// pending positions and repaints the moving layers. All state shared between
// the two lives behind the compositor's lock.
package sim

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapemotion/internal/collision"
	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/layer"
	"github.com/vovakirdan/shapemotion/internal/motion"
	"github.com/vovakirdan/shapemotion/internal/render"
	"github.com/vovakirdan/shapemotion/internal/shape"
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for run events. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// WithTickRate overrides the scene's tick source frequency.
// Values <= 0 keep the scene rate.
func WithTickRate(rate int) Option {
	return func(s *Simulation) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// Simulation is the explicit context for one scene.
type Simulation struct {
	scene   config.Scene
	display core.Region
	rate    int

	stack   *layer.Stack
	set     *motion.Set
	fence   core.Region
	comp    *render.Compositor
	probe   *collision.Probe
	pacer   *config.Pacer
	initial []core.Vec2

	control      layer.ID
	controlled   bool
	speed        int
	releaseStops bool

	message  string
	msgAt    core.Vec2
	msgFg    core.Color
	msgBg    core.Color
	freezeOn bool

	pending chan struct{}
	logger  *log.Logger

	// Guarded by the compositor lock
	count int
	state core.State
	shown bool
}

// New builds a simulation from a validated scene.
func New(sc config.Scene, opts ...Option) (*Simulation, error) {
	s := &Simulation{
		scene:   sc,
		display: core.NewRegion(core.V(0, 0), core.V(sc.Display.Width-1, sc.Display.Height-1)),
		rate:    sc.Tick.Rate,
		pending: make(chan struct{}, 1),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	shapes := make(map[string]shape.Shape, len(sc.Shapes))
	for name, p := range sc.Shapes {
		sh, err := shape.New(shape.Params{
			Kind:      shape.Kind(p.Kind),
			Half:      p.Half.Core(),
			Radius:    p.Radius,
			Thickness: p.Thickness,
			Size:      p.Size,
			Dir:       shape.Direction(p.Direction),
		})
		if err != nil {
			return nil, fmt.Errorf("sim: shape %q: %w", name, err)
		}
		shapes[name] = sh
	}

	defs := make([]layer.Def, 0, len(sc.Layers))
	for _, l := range sc.Layers {
		color := core.ColorWhite
		if l.Color != "" {
			c, err := core.ParseColor(l.Color)
			if err != nil {
				return nil, fmt.Errorf("sim: layer %q: %w", l.Name, err)
			}
			color = c
		}
		defs = append(defs, layer.Def{
			Name:  l.Name,
			Shape: shapes[l.Shape],
			Pos:   l.Pos.Core(),
			Color: color,
		})
	}
	stack, err := layer.NewStack(defs)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.stack = stack

	entries := make([]motion.Entry, 0, len(sc.Movers))
	for _, m := range sc.Movers {
		id, err := s.lookup(m.Layer)
		if err != nil {
			return nil, err
		}
		entries = append(entries, motion.Entry{Layer: id, Velocity: m.Velocity.Core()})
		s.initial = append(s.initial, m.Velocity.Core())
	}
	if s.set, err = motion.NewSet(stack, entries); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	fenceID, err := s.lookup(sc.Fence)
	if err != nil {
		return nil, err
	}
	s.fence = motion.FenceOf(stack, fenceID)
	if err := s.set.CheckMargins(s.fence); err != nil {
		return nil, fmt.Errorf("sim: %w: %w", config.ErrInvalidScene, err)
	}

	bg, err := core.ParseColor(sc.Background)
	if err != nil {
		return nil, fmt.Errorf("sim: background: %w", err)
	}
	mode := render.RedrawTrail
	if sc.Redraw == config.RedrawCurrent {
		mode = render.RedrawCurrent
	}
	s.comp = render.NewCompositor(stack, bg, mode)
	s.comp.SetClip(s.display)
	s.pacer = config.NewPacer(sc.Tick.Pace, sc.Tick.Divisor)

	if c := sc.Controls; c != nil {
		if s.control, err = s.lookup(c.Layer); err != nil {
			return nil, err
		}
		if _, moving := s.set.Find(s.control); moving {
			if err := s.set.CheckSpeed(s.control, c.Speed, s.fence); err != nil {
				return nil, fmt.Errorf("sim: %w: %w", config.ErrInvalidScene, err)
			}
		}
		s.controlled = true
		s.speed = c.Speed
		s.releaseStops = c.ReleaseStops
	}

	if c := sc.Collision; c != nil {
		if err := s.buildProbe(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Simulation) buildProbe(c *config.CollisionConfig) error {
	rid, err := s.lookup(c.Rect.Layer)
	if err != nil {
		return err
	}
	circles := make([]collision.CircleTarget, 0, len(c.Circles))
	for _, cc := range c.Circles {
		id, err := s.lookup(cc.Layer)
		if err != nil {
			return err
		}
		circles = append(circles, collision.CircleTarget{Layer: id, Radius: cc.Radius})
	}
	s.probe, err = collision.NewProbe(s.stack, collision.RectConfig{
		Layer:      rid,
		HalfWidth:  c.Rect.HalfWidth,
		HalfHeight: c.Rect.HalfHeight,
		Slack:      c.Rect.Slack,
	}, circles)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	s.message = c.Message.Text
	s.msgAt = c.Message.At.Core()
	if s.msgFg, err = core.ParseColor(c.Message.Fg); err != nil {
		return fmt.Errorf("sim: message: %w", err)
	}
	if s.msgBg, err = core.ParseColor(c.Message.Bg); err != nil {
		return fmt.Errorf("sim: message: %w", err)
	}
	s.freezeOn = c.OnLoss == config.OnLossFreeze
	return nil
}

func (s *Simulation) lookup(name string) (layer.ID, error) {
	id, ok := s.stack.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("sim: %w: unknown layer %q", config.ErrInvalidScene, name)
	}
	return id, nil
}

// ID returns the scene id.
func (s *Simulation) ID() string { return s.scene.ID }

// Title returns the scene title.
func (s *Simulation) Title() string { return s.scene.Title }

// Scene returns the scene the simulation was built from.
func (s *Simulation) Scene() config.Scene { return s.scene }

// Display returns the pixel bounds of the virtual display.
func (s *Simulation) Display() core.Region { return s.display }

// Fence returns the boundary computed from the fence layer.
func (s *Simulation) Fence() core.Region { return s.fence }

// TickRate returns the tick source frequency in ticks per second.
func (s *Simulation) TickRate() int { return s.rate }

// Background returns the scene background color.
func (s *Simulation) Background() core.Color { return s.comp.Background() }

// Stack returns the layer stack.
func (s *Simulation) Stack() *layer.Stack { return s.stack }

// Set returns the motion set.
func (s *Simulation) Set() *motion.Set { return s.set }

// Pending delivers one value when a motion step is waiting to be drawn.
func (s *Simulation) Pending() <-chan struct{} { return s.pending }

// State returns a snapshot of the run state.
func (s *Simulation) State() core.State {
	var st core.State
	s.comp.Locked(func() {
		st = s.snapshot()
	})
	return st
}

func (s *Simulation) snapshot() core.State {
	st := s.state
	st.Busy = len(s.pending) > 0
	return st
}

// SetPaused stops or resumes motion steps. Paused ticks are still counted.
func (s *Simulation) SetPaused(paused bool) {
	s.comp.Locked(func() {
		s.state.Paused = paused
	})
}

// clearer is implemented by surfaces that can fill themselves and drop any
// text drawn on them.
type clearer interface {
	Clear(c core.Color)
}

// Reset returns every layer and velocity to the scene's start, clears the run
// state and paints the first frame onto dst.
func (s *Simulation) Reset(dst render.Surface) {
	s.comp.Locked(func() {
		s.stack.Init()
		for i, e := range s.set.Entries() {
			s.set.SetVelocity(e.Layer, s.initial[i])
		}
		s.count = 0
		s.shown = false
		s.state = core.State{}
	})
	s.drain()

	if c, ok := dst.(clearer); ok {
		c.Clear(s.Background())
	} else {
		dst.SetArea(s.display)
		for i := 0; i < s.display.Area(); i++ {
			dst.WriteColor(s.Background())
		}
	}
	s.comp.DrawAll(dst)
	s.logger.Debug("scene reset", "scene", s.scene.ID)
}

// Tick is the periodic handler. Every divisor ticks it applies sw to the
// controlled layer, advances the motion set one step and runs the collision
// probe. The result's Redraw is true when a step was taken.
func (s *Simulation) Tick(sw core.Switches) core.StepResult {
	var res core.StepResult
	var lost string
	s.comp.Locked(func() {
		s.state.Ticks++
		if s.state.Paused || s.state.Frozen {
			res.State = s.snapshot()
			return
		}
		s.count++
		if s.count < s.pacer.Divisor(s.state.Steps) {
			res.State = s.snapshot()
			return
		}
		s.count = 0

		s.applyInput(sw)
		s.set.Advance(s.fence)
		s.state.Steps++

		if s.probe != nil && !s.state.Lost {
			if id, hit := s.probe.Check(); hit {
				s.state.Lost = true
				s.state.Message = s.message
				s.state.Frozen = s.freezeOn
				lost = s.stack.At(id).Name
			}
		}
		res.Redraw = true
		res.State = s.snapshot()
	})

	if res.Redraw {
		select {
		case s.pending <- struct{}{}:
		default:
		}
		res.State.Busy = true
	}
	if lost != "" {
		s.logger.Info("run lost", "scene", s.scene.ID, "layer", lost, "steps", res.State.Steps)
	}
	return res
}

// applyInput maps the switches onto the controlled layer's velocity.
// Right sets +speed on x and left sets -speed, with left winning when both
// are held; up and down do the same on y. Must hold the compositor lock.
func (s *Simulation) applyInput(sw core.Switches) {
	if !s.controlled {
		return
	}
	e, ok := s.set.Find(s.control)
	if !ok {
		return
	}
	v := e.Velocity
	switch {
	case sw.Has(core.SwitchLeft):
		v.X = -s.speed
	case sw.Has(core.SwitchRight):
		v.X = s.speed
	case s.releaseStops:
		v.X = 0
	}
	switch {
	case sw.Has(core.SwitchUp):
		v.Y = -s.speed
	case sw.Has(core.SwitchDown):
		v.Y = s.speed
	case s.releaseStops:
		v.Y = 0
	}
	e.Velocity = v
}

// Redraw commits pending positions and repaints every moving layer onto dst.
// The loss message is drawn once, on the first redraw after the probe fires,
// when dst supports text.
func (s *Simulation) Redraw(dst render.Surface) {
	s.drain()
	s.comp.Redraw(s.set, dst)

	var showMessage bool
	s.comp.Locked(func() {
		s.state.Frames++
		if s.state.Lost && !s.shown {
			s.shown = true
			showMessage = true
		}
	})
	if showMessage {
		if ov, ok := dst.(render.TextOverlay); ok {
			ov.DrawString(s.msgAt, s.message, s.msgFg, s.msgBg)
		}
	}
}

// StepFrame ticks until a motion step is taken and then redraws, so every
// frame shows exactly one step. It returns without drawing when the
// simulation is paused or frozen.
func (s *Simulation) StepFrame(dst render.Surface, sw core.Switches) core.StepResult {
	for {
		res := s.Tick(sw)
		if res.Redraw {
			s.Redraw(dst)
			res.State = s.State()
			return res
		}
		if res.State.Paused || res.State.Frozen {
			return res
		}
	}
}

func (s *Simulation) drain() {
	select {
	case <-s.pending:
	default:
	}
}
