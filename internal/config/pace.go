package config

import "math"

// PaceConfig speeds the simulation up as a run goes on by shrinking the
// tick divisor from its base value toward MinDivisor.
type PaceConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = base divisor, 1.0 = MinDivisor
	MaxAt        int     `yaml:"max_at"`        // steps at which MinDivisor is reached
	MinDivisor   int     `yaml:"min_divisor"`
}

func (p PaceConfig) validate(base int) error {
	if !p.Enabled {
		return nil
	}
	if p.MinDivisor <= 0 || p.MinDivisor > base {
		return invalid("pace min_divisor %d must be in 1..%d", p.MinDivisor, base)
	}
	if p.InitialLevel < 0 || p.InitialLevel > 1 {
		return invalid("pace initial_level %.2f must be in 0..1", p.InitialLevel)
	}
	return nil
}

// Pacer computes the current tick divisor from the number of steps taken.
type Pacer struct {
	cfg  PaceConfig
	base int
}

// NewPacer creates a pacer around the scene's base divisor.
func NewPacer(cfg PaceConfig, base int) *Pacer {
	return &Pacer{cfg: cfg, base: base}
}

// Level returns the pace level (0.0 to 1.0) after steps motion steps.
func (p *Pacer) Level(steps int) float64 {
	if !p.cfg.Enabled {
		return 0
	}
	maxAt := float64(p.cfg.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(steps)/maxAt, 0, 1)

	// Interpolate from initial level to 1.0
	return p.cfg.InitialLevel + progress*(1.0-p.cfg.InitialLevel)
}

// Divisor returns the number of ticks per motion step after steps steps.
func (p *Pacer) Divisor(steps int) int {
	if !p.cfg.Enabled {
		return p.base
	}
	level := p.Level(steps)
	d := p.base - int(math.Round(level*float64(p.base-p.cfg.MinDivisor)))
	if d < p.cfg.MinDivisor {
		d = p.cfg.MinDivisor
	}
	return d
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
