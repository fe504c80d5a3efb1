package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/render"
)

// Latch collects switch presses between motion steps. Terminals report key
// presses, not key state, so a press counts as "held" until the next step
// consumes it.
type Latch struct {
	v atomic.Uint32
}

// Press marks sw as held.
func (l *Latch) Press(sw core.Switches) {
	for {
		old := l.v.Load()
		if l.v.CompareAndSwap(old, old|uint32(sw)) {
			return
		}
	}
}

// Peek returns the held switches without releasing them.
func (l *Latch) Peek() core.Switches {
	return core.Switches(l.v.Load())
}

// Consume releases the switches in sw. Other held switches stay latched.
func (l *Latch) Consume(sw core.Switches) {
	for {
		old := l.v.Load()
		if l.v.CompareAndSwap(old, old&^uint32(sw)) {
			return
		}
	}
}

// shower is implemented by surfaces that buffer writes until flushed.
type shower interface {
	Show()
}

// Run resets the scene onto dst and animates it until ctx is done.
//
// A ticker goroutine plays the periodic handler. The calling goroutine waits
// on the redraw-pending event and redraws, calling onFrame (if non-nil) after
// every frame. Run returns nil when ctx is canceled.
func (s *Simulation) Run(ctx context.Context, dst render.Surface, in *Latch, onFrame func(core.State)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Reset(dst)
	s.flush(dst, onFrame)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second / time.Duration(s.rate))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sw := in.Peek()
				if res := s.Tick(sw); res.Redraw {
					in.Consume(sw)
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case <-s.pending:
			s.Redraw(dst)
			s.flush(dst, onFrame)
		}
	}
}

func (s *Simulation) flush(dst render.Surface, onFrame func(core.State)) {
	if sh, ok := dst.(shower); ok {
		sh.Show()
	}
	if onFrame != nil {
		onFrame(s.State())
	}
}
