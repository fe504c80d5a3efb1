package tcellui

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/sim"
	"github.com/vovakirdan/shapemotion/internal/storage"
)

// Config holds the optional parts of a tcell session.
type Config struct {
	Store  *storage.Store // Runs are recorded when set
	Player string
	Logger *log.Logger
}

// MapKey translates a tcell key event to an action.
func MapKey(ev *tcell.EventKey) core.Action {
	switch ev.Key() {
	case tcell.KeyRight:
		return core.ActionRight
	case tcell.KeyLeft:
		return core.ActionLeft
	case tcell.KeyUp:
		return core.ActionUp
	case tcell.KeyDown:
		return core.ActionDown
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'd', 'D', '1':
			return core.ActionRight
		case 'a', 'A', '2':
			return core.ActionLeft
		case 'w', 'W', '3':
			return core.ActionUp
		case 's', 'S', '4':
			return core.ActionDown
		case 'p', 'P', ' ':
			return core.ActionPause
		case 'r', 'R':
			return core.ActionRestart
		case 'q', 'Q':
			return core.ActionQuit
		}
	}
	return core.ActionNone
}

// session is one scene shown on one screen.
type session struct {
	screen  tcell.Screen
	sim     *sim.Simulation
	surface *Surface
	latch   sim.Latch
	cfg     Config

	last  core.State
	saved bool
}

// Run shows s on screen until the user quits or ctx is done. The caller owns
// the screen: it must be initialized before and finalized after Run.
func Run(ctx context.Context, screen tcell.Screen, s *sim.Simulation, cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	d := s.Display()
	ss := &session{
		screen:  screen,
		sim:     s,
		surface: NewSurface(screen, d.Width(), d.Height(), s.Background(), s.Title()),
		cfg:     cfg,
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return // Screen finalized
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		restart, err := ss.play(ctx, events)
		ss.saveRun()
		if err != nil || !restart {
			return err
		}
		ss.cfg.Logger.Debug("scene restarted", "scene", s.ID())
	}
}

// play animates the scene until a restart or quit request. It returns true
// for a restart.
func (ss *session) play(ctx context.Context, events <-chan tcell.Event) (bool, error) {
	ss.saved = false
	ss.last = core.State{}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- ss.sim.Run(runCtx, ss.surface, &ss.latch, ss.onFrame)
	}()

	stop := func() error {
		cancel()
		return <-done
	}

	for {
		select {
		case <-ctx.Done():
			return false, stop()

		case err := <-done:
			cancel()
			return false, err

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				ss.screen.Sync()
				ss.surface.Invalidate()
				ss.surface.Present(ss.sim.State())

			case *tcell.EventKey:
				switch a := MapKey(ev); a {
				case core.ActionQuit:
					return false, stop()
				case core.ActionRestart:
					return true, stop()
				case core.ActionPause:
					ss.sim.SetPaused(!ss.sim.State().Paused)
					ss.surface.Present(ss.sim.State())
				case core.ActionNone:
				default:
					ss.latch.Press(a.Switch())
				}
			}
		}
	}
}

// onFrame runs on the redraw goroutine after every frame.
func (ss *session) onFrame(st core.State) {
	ss.surface.Present(st)
	ss.last = st
	if st.Lost {
		ss.saveRun()
	}
}

// saveRun records the current run once. Runs that never took a step are
// not recorded.
func (ss *session) saveRun() {
	if ss.saved || ss.last.Steps == 0 {
		return
	}
	ss.saved = true
	if ss.cfg.Store == nil {
		return
	}
	_, err := ss.cfg.Store.SaveRun(storage.RunEntry{
		SceneID: ss.sim.ID(),
		Player:  ss.cfg.Player,
		Steps:   ss.last.Steps,
		Ticks:   ss.last.Ticks,
		Frames:  ss.last.Frames,
		Lost:    ss.last.Lost,
	})
	if err != nil {
		ss.cfg.Logger.Warn("could not save run", "error", err)
	}
}
