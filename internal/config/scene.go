// Package config provides YAML scene documents and their search-order loader.
//
// A scene describes everything a simulation needs: the display, the shapes,
// the layer stack in front-to-back order, which layers move and how fast,
// which layer bounds the motion, the switch-controlled layer and the
// collision probe.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/shapemotion/internal/core"
)

// ErrInvalidScene is wrapped by every validation error.
var ErrInvalidScene = errors.New("invalid scene")

// Vec is a YAML pair written as [x, y].
type Vec [2]int

// Core converts the pair to a core.Vec2.
func (v Vec) Core() core.Vec2 {
	return core.V(v[0], v[1])
}

// Scene is a complete scene document.
type Scene struct {
	ID          string                 `yaml:"id"`
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Display     DisplayConfig          `yaml:"display"`
	Background  string                 `yaml:"background"`
	Tick        TickConfig             `yaml:"tick"`
	Shapes      map[string]ShapeConfig `yaml:"shapes"`
	Layers      []LayerConfig          `yaml:"layers"`
	Movers      []MoverConfig          `yaml:"movers"`
	Fence       string                 `yaml:"fence"`
	Controls    *ControlConfig         `yaml:"controls"`
	Collision   *CollisionConfig       `yaml:"collision"`
	Redraw      string                 `yaml:"redraw"` // trail | current
}

// DisplayConfig is the pixel size of the virtual display.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TickConfig paces the simulation. Rate is the tick source frequency and
// one motion step runs every Divisor ticks.
type TickConfig struct {
	Rate    int        `yaml:"rate"`
	Divisor int        `yaml:"divisor"`
	Pace    PaceConfig `yaml:"pace"`
}

// ShapeConfig describes one shape. Which fields apply depends on Kind.
type ShapeConfig struct {
	Kind      string `yaml:"kind"` // rect | circle | outline | arrow
	Half      Vec    `yaml:"half"`
	Radius    int    `yaml:"radius"`
	Thickness int    `yaml:"thickness"`
	Size      int    `yaml:"size"`
	Direction string `yaml:"direction"`
}

// LayerConfig places a named shape on the display.
type LayerConfig struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`
	Pos   Vec    `yaml:"pos"`
	Color string `yaml:"color"`
}

// MoverConfig gives a layer a per-step velocity.
type MoverConfig struct {
	Layer    string `yaml:"layer"`
	Velocity Vec    `yaml:"velocity"`
}

// ControlConfig binds the switches to one moving layer.
type ControlConfig struct {
	Layer        string `yaml:"layer"`
	Speed        int    `yaml:"speed"`
	ReleaseStops bool   `yaml:"release_stops"`
}

// CollisionConfig configures the rectangle/circle proximity probe.
type CollisionConfig struct {
	Rect    RectProbeConfig     `yaml:"rect"`
	Circles []CircleProbeConfig `yaml:"circles"`
	Message MessageConfig       `yaml:"message"`
	OnLoss  string              `yaml:"on_loss"` // freeze | continue
}

// RectProbeConfig names the rectangle layer. Omitted constants are taken
// from the layer's shape; an explicit 0 is kept.
type RectProbeConfig struct {
	Layer      string `yaml:"layer"`
	HalfWidth  *int   `yaml:"half_width"`
	HalfHeight *int   `yaml:"half_height"`
	Slack      *int   `yaml:"slack"`
}

// CircleProbeConfig names one tracked circle layer.
type CircleProbeConfig struct {
	Layer  string `yaml:"layer"`
	Radius int    `yaml:"radius"`
}

// MessageConfig is the text shown once when the probe fires.
type MessageConfig struct {
	Text string `yaml:"text"`
	At   Vec    `yaml:"at"`
	Fg   string `yaml:"fg"`
	Bg   string `yaml:"bg"`
}

const (
	RedrawTrail   = "trail"
	RedrawCurrent = "current"

	OnLossFreeze   = "freeze"
	OnLossContinue = "continue"
)

// Scene defaults, matching the classic board.
const (
	DefaultWidth   = 128
	DefaultHeight  = 160
	DefaultRate    = 250
	DefaultDivisor = 15
	DefaultMessage = "YOU LOSE! ;P"
)

// ApplyDefaults fills every zero field that has a sensible default.
func (s *Scene) ApplyDefaults() {
	if s.Display.Width == 0 {
		s.Display.Width = DefaultWidth
	}
	if s.Display.Height == 0 {
		s.Display.Height = DefaultHeight
	}
	if s.Background == "" {
		s.Background = "black"
	}
	if s.Tick.Rate == 0 {
		s.Tick.Rate = DefaultRate
	}
	if s.Tick.Divisor == 0 {
		s.Tick.Divisor = DefaultDivisor
	}
	if s.Redraw == "" {
		s.Redraw = RedrawTrail
	}
	if s.Title == "" {
		s.Title = s.ID
	}
	if s.Controls != nil && s.Controls.Speed == 0 {
		s.Controls.Speed = 1
	}
	if c := s.Collision; c != nil {
		if c.OnLoss == "" {
			c.OnLoss = OnLossFreeze
		}
		if c.Message.Text == "" {
			c.Message.Text = DefaultMessage
		}
		if c.Message.Fg == "" {
			c.Message.Fg = "white"
		}
		if c.Message.Bg == "" {
			c.Message.Bg = "black"
		}
	}
}

// Validate checks the references between shapes, layers, movers, the fence,
// the controls and the probe. Shape parameters themselves are checked when
// the shapes are built.
func (s *Scene) Validate() error {
	if s.ID == "" {
		return invalid("scene has no id")
	}
	if s.Display.Width <= 0 || s.Display.Height <= 0 {
		return invalid("display %dx%d is empty", s.Display.Width, s.Display.Height)
	}
	if s.Tick.Rate <= 0 || s.Tick.Divisor <= 0 {
		return invalid("tick rate %d and divisor %d must be positive", s.Tick.Rate, s.Tick.Divisor)
	}
	if err := s.Tick.Pace.validate(s.Tick.Divisor); err != nil {
		return err
	}
	if _, err := core.ParseColor(s.Background); err != nil {
		return invalid("background: %v", err)
	}
	if len(s.Layers) == 0 {
		return invalid("scene %q has no layers", s.ID)
	}

	layers := make(map[string]string, len(s.Layers))
	for i, l := range s.Layers {
		if l.Name == "" {
			return invalid("layer %d has no name", i)
		}
		if _, dup := layers[l.Name]; dup {
			return invalid("duplicate layer %q", l.Name)
		}
		sc, ok := s.Shapes[l.Shape]
		if !ok {
			return invalid("layer %q uses unknown shape %q", l.Name, l.Shape)
		}
		if l.Color != "" {
			if _, err := core.ParseColor(l.Color); err != nil {
				return invalid("layer %q: %v", l.Name, err)
			}
		}
		layers[l.Name] = sc.Kind
	}

	movers := make(map[string]bool, len(s.Movers))
	for _, m := range s.Movers {
		if _, ok := layers[m.Layer]; !ok {
			return invalid("mover refers to unknown layer %q", m.Layer)
		}
		if movers[m.Layer] {
			return invalid("layer %q is listed as a mover twice", m.Layer)
		}
		movers[m.Layer] = true
	}

	if s.Fence == "" {
		return invalid("scene %q has no fence layer", s.ID)
	}
	if _, ok := layers[s.Fence]; !ok {
		return invalid("fence refers to unknown layer %q", s.Fence)
	}

	if c := s.Controls; c != nil {
		if !movers[c.Layer] {
			return invalid("controlled layer %q is not a mover", c.Layer)
		}
		if c.Speed < 0 {
			return invalid("control speed %d is negative", c.Speed)
		}
	}

	if c := s.Collision; c != nil {
		if kind, ok := layers[c.Rect.Layer]; !ok {
			return invalid("collision rect refers to unknown layer %q", c.Rect.Layer)
		} else if kind != "rect" {
			return invalid("collision rect layer %q is a %s", c.Rect.Layer, kind)
		}
		for _, v := range []*int{c.Rect.HalfWidth, c.Rect.HalfHeight, c.Rect.Slack} {
			if v != nil && *v < 0 {
				return invalid("collision rect constant %d is negative", *v)
			}
		}
		for _, cc := range c.Circles {
			if kind, ok := layers[cc.Layer]; !ok {
				return invalid("collision circle refers to unknown layer %q", cc.Layer)
			} else if kind != "circle" {
				return invalid("collision circle layer %q is a %s", cc.Layer, kind)
			}
		}
		if c.OnLoss != OnLossFreeze && c.OnLoss != OnLossContinue {
			return invalid("on_loss must be %q or %q, got %q", OnLossFreeze, OnLossContinue, c.OnLoss)
		}
		for _, name := range []string{c.Message.Fg, c.Message.Bg} {
			if _, err := core.ParseColor(name); err != nil {
				return invalid("message: %v", err)
			}
		}
	}

	if s.Redraw != RedrawTrail && s.Redraw != RedrawCurrent {
		return invalid("redraw must be %q or %q, got %q", RedrawTrail, RedrawCurrent, s.Redraw)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}
