// Package tui runs scenes in the terminal with Bubble Tea, locally or over SSH.
// It maps keys to switches, drives the simulation's tick handler from
// tea.Tick and draws the pixel framebuffer with half-block cells.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent on every tick of the scene's tick source. Run identifies
// the model that scheduled it, so a tick left in flight by a closed scene
// is not picked up by the next one.
type TickMsg struct {
	Time time.Time
	Run  uint64
}

var runIDs atomic.Uint64

func nextRunID() uint64 {
	return runIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends one tick after 1/tickRate seconds.
func tickCmd(tickRate int, run uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Run: run}
	})
}
