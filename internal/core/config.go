package core

// RuntimeConfig contains configuration passed to a simulation at start.
// Front ends use it to size the viewport and pace the tick source.
type RuntimeConfig struct {
	ScreenW  int   // Viewport width in terminal cells
	ScreenH  int   // Viewport height in terminal cells
	TickRate int   // Tick source frequency (ticks per second), 0 = scene default
	Seed     int64 // Reserved for scenes with randomized starts
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 0, // use the scene's own rate
		Seed:     0,
	}
}

// State represents the current state of a simulation.
type State struct {
	Ticks   int  // Tick source invocations since reset
	Steps   int  // Motion steps applied since reset
	Frames  int  // Redraws performed since reset
	Lost    bool // Terminal collision condition reached
	Paused  bool // Ticks are being ignored
	Busy    bool // A redraw is pending
	Frozen  bool // Lost and configured to stop advancing
	Message string
}

// StepResult is returned after each tick.
type StepResult struct {
	State  State
	Redraw bool // The tick produced a motion step and a redraw is due
}
