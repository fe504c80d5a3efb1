package core

import (
	"fmt"
	"strings"
)

// Switches is the bitmask of currently active control inputs, as read from a
// four-switch input board. A set bit means the switch is held.
type Switches uint8

const (
	SwitchRight Switches = 1 << iota // S1 - push the controlled layer right
	SwitchLeft                       // S2 - push the controlled layer left
	SwitchUp                         // S3 - push the controlled layer up
	SwitchDown                       // S4 - push the controlled layer down
)

// SwitchMask covers every defined switch.
const SwitchMask = SwitchRight | SwitchLeft | SwitchUp | SwitchDown

// Has returns true if every bit of s is set.
func (w Switches) Has(s Switches) bool {
	return w&s == s
}

// Any returns true if at least one switch is held.
func (w Switches) Any() bool {
	return w&SwitchMask != 0
}

// String lists the held switches, e.g. "right|up".
func (w Switches) String() string {
	if !w.Any() {
		return "none"
	}
	var parts []string
	for _, s := range []Switches{SwitchRight, SwitchLeft, SwitchUp, SwitchDown} {
		if w.Has(s) {
			parts = append(parts, s.name())
		}
	}
	return strings.Join(parts, "|")
}

func (w Switches) name() string {
	switch w {
	case SwitchRight:
		return "right"
	case SwitchLeft:
		return "left"
	case SwitchUp:
		return "up"
	case SwitchDown:
		return "down"
	default:
		return "?"
	}
}

// ParseSwitches combines switch names ("right", "left", "up", "down") into
// a bitmask. Names are case-insensitive.
func ParseSwitches(names []string) (Switches, error) {
	var w Switches
	for _, n := range names {
		found := false
		for _, s := range []Switches{SwitchRight, SwitchLeft, SwitchUp, SwitchDown} {
			if strings.EqualFold(strings.TrimSpace(n), s.name()) {
				w |= s
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("core: unknown switch %q", n)
		}
	}
	return w, nil
}

// Action represents a semantic front-end action, abstracted from physical key
// presses. Movement actions translate to switches; the rest steer the session.
type Action int

const (
	ActionNone    Action = iota
	ActionRight          // D, Right arrow
	ActionLeft           // A, Left arrow
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionPause          // P - pause/unpause the simulation
	ActionRestart        // R - reload the scene
	ActionBack           // B, Escape - back to scene picker
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRight:
		return "Right"
	case ActionLeft:
		return "Left"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Switch returns the switch bit driven by a movement action, or 0.
func (a Action) Switch() Switches {
	switch a {
	case ActionRight:
		return SwitchRight
	case ActionLeft:
		return SwitchLeft
	case ActionUp:
		return SwitchUp
	case ActionDown:
		return SwitchDown
	default:
		return 0
	}
}

// InputFrame collects the input seen during one tick.
type InputFrame struct {
	Switches Switches
	Actions  map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame. Movement actions also
// latch their switch bit.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	f.Switches |= a.Switch()
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions and switches for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Switches = 0
}
