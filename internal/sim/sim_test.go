package sim

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/motion"
)

// bounceScene is a single circle bouncing inside a (10,10)-(90,90) fence.
const bounceScene = `
id: bounce
display: {width: 100, height: 100}
background: blue
tick: {rate: 1000, divisor: 1}
shapes:
  ball: {kind: circle, radius: 5}
  field: {kind: outline, half: [40, 40]}
layers:
  - {name: ball, shape: ball, pos: [50, 50], color: orange}
  - {name: field, shape: field, pos: [50, 50], color: black}
movers:
  - {layer: ball, velocity: [3, 1]}
fence: field
`

// probeScene puts a small ball right on top of a paddle.
const probeScene = `
id: probe
display: {width: 100, height: 100}
background: blue
tick: {rate: 1000, divisor: 1}
shapes:
  ball: {kind: circle, radius: 3}
  paddle: {kind: rect, half: [5, 1]}
  field: {kind: outline, half: [40, 40]}
layers:
  - {name: ball, shape: ball, pos: [60, 42], color: orange}
  - {name: paddle, shape: paddle, pos: [60, 40], color: red}
  - {name: field, shape: field, pos: [50, 50], color: black}
movers:
  - {layer: ball, velocity: [1, 1]}
  - {layer: paddle, velocity: [0, 0]}
fence: field
controls: {layer: paddle, speed: 2}
collision:
  rect: {layer: paddle}
  circles: [{layer: ball}]
  message: {text: "GAME OVER", at: [2, 2], fg: green, bg: red}
  on_loss: freeze
`

func build(t *testing.T, doc string, opts ...Option) *Simulation {
	t.Helper()
	sc, err := config.ParseScene([]byte(doc))
	if err != nil {
		t.Fatalf("ParseScene() failed: %v", err)
	}
	s, err := New(sc, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func newScreen(s *Simulation) *core.Screen {
	d := s.Display()
	return core.NewScreen(d.Width(), d.Height())
}

// countingScreen records how often text is drawn.
type countingScreen struct {
	*core.Screen
	texts int
}

func (c *countingScreen) DrawString(at core.Vec2, text string, fg, bg core.Color) {
	c.texts++
	c.Screen.DrawString(at, text, fg, bg)
}

func TestClassicScene(t *testing.T) {
	data, ok := config.DefaultSceneYAML("classic")
	if !ok {
		t.Fatal("classic scene not embedded")
	}
	s := build(t, string(data))

	if want := core.NewRegion(core.V(10, 10), core.V(118, 150)); s.Fence() != want {
		t.Errorf("Fence() = %v, expected %v", s.Fence(), want)
	}
	if s.Background() != core.ColorBlue {
		t.Errorf("Background() = %v, expected blue", s.Background())
	}
	if s.Set().Len() != 3 {
		t.Errorf("Set().Len() = %d, expected 3", s.Set().Len())
	}
}

func TestResetPaintsFullFrame(t *testing.T) {
	s := build(t, bounceScene)
	screen := newScreen(s)
	screen.DrawString(core.V(0, 0), "stale", core.ColorWhite, core.ColorBlack)

	s.Reset(screen)

	if len(screen.Texts()) != 0 {
		t.Error("Reset() kept stale text")
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			want, ok := s.Stack().ColorAt(core.V(x, y))
			if !ok {
				want = core.ColorBlue
			}
			if got := screen.Get(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, expected %v", x, y, got, want)
			}
		}
	}
}

func TestTickDivisor(t *testing.T) {
	s := build(t, strings.Replace(bounceScene, "divisor: 1", "divisor: 15", 1))
	screen := newScreen(s)
	s.Reset(screen)

	for i := 1; i < 15; i++ {
		if res := s.Tick(0); res.Redraw {
			t.Fatalf("tick %d produced a step", i)
		}
	}
	res := s.Tick(0)
	if !res.Redraw {
		t.Fatal("tick 15 did not produce a step")
	}
	if res.State.Steps != 1 || res.State.Ticks != 15 {
		t.Errorf("state = %+v, expected 1 step after 15 ticks", res.State)
	}
	if !res.State.Busy {
		t.Error("Busy not set while a redraw is pending")
	}

	select {
	case <-s.Pending():
	default:
		t.Fatal("no redraw-pending event after a step")
	}
	s.Redraw(screen)
	if st := s.State(); st.Busy || st.Frames != 1 {
		t.Errorf("state after redraw = %+v, expected idle with 1 frame", st)
	}
}

func TestBounceThroughFrames(t *testing.T) {
	s := build(t, bounceScene)
	screen := newScreen(s)
	s.Reset(screen)
	ball := s.Stack().At(0)

	s.StepFrame(screen, 0)
	if ball.Pos != core.V(53, 51) {
		t.Fatalf("after one frame Pos = %v, expected (53,51)", ball.Pos)
	}

	for i := 0; i < 11; i++ {
		s.StepFrame(screen, 0)
	}
	if ball.Pos != core.V(80, 62) {
		t.Errorf("after the wall Pos = %v, expected (80,62)", ball.Pos)
	}
	if v := s.Set().Entries()[0].Velocity; v != core.V(-3, 1) {
		t.Errorf("velocity = %v, expected (-3,1)", v)
	}
	if st := s.State(); st.Steps != 12 || st.Frames != 12 {
		t.Errorf("state = %+v, expected 12 steps and frames", st)
	}
}

func TestStepsComposeBeforeRedraw(t *testing.T) {
	s := build(t, bounceScene)
	screen := newScreen(s)
	s.Reset(screen)
	ball := s.Stack().At(0)

	for i := 0; i < 3; i++ {
		s.Tick(0)
	}
	if ball.Pos != core.V(50, 50) {
		t.Errorf("Tick() moved Pos to %v before a redraw", ball.Pos)
	}
	if ball.PosNext != core.V(59, 53) {
		t.Errorf("PosNext = %v, expected (59,53)", ball.PosNext)
	}

	s.Redraw(screen)
	if ball.Pos != core.V(59, 53) || ball.PosLast != core.V(50, 50) {
		t.Errorf("after redraw Pos = %v PosLast = %v", ball.Pos, ball.PosLast)
	}
}

func TestInputMapping(t *testing.T) {
	tests := []struct {
		name         string
		releaseStops bool
		start        core.Vec2
		sw           core.Switches
		expected     core.Vec2
	}{
		{"right", false, core.V(0, 0), core.SwitchRight, core.V(2, 0)},
		{"left", false, core.V(0, 0), core.SwitchLeft, core.V(-2, 0)},
		{"left wins over right", false, core.V(0, 0), core.SwitchLeft | core.SwitchRight, core.V(-2, 0)},
		{"up and down axis", false, core.V(1, 0), core.SwitchUp, core.V(1, -2)},
		{"down", false, core.V(0, 0), core.SwitchDown, core.V(0, 2)},
		{"release keeps velocity", false, core.V(2, 0), 0, core.V(2, 0)},
		{"release stops", true, core.V(2, 2), 0, core.V(0, 0)},
		{"release stops other axis only", true, core.V(2, 2), core.SwitchRight, core.V(2, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := strings.Replace(probeScene, "on_loss: freeze", "on_loss: continue", 1)
			if tc.releaseStops {
				doc = strings.Replace(doc, "speed: 2}", "speed: 2, release_stops: true}", 1)
			}
			s := build(t, doc)
			paddle, _ := s.Stack().Lookup("paddle")
			s.Set().SetVelocity(paddle, tc.start)

			s.Tick(tc.sw)

			e, _ := s.Set().Find(paddle)
			if e.Velocity != tc.expected {
				t.Errorf("velocity = %v, expected %v", e.Velocity, tc.expected)
			}
		})
	}
}

func TestInputOnlyAppliedOnSteps(t *testing.T) {
	s := build(t, strings.Replace(probeScene, "divisor: 1", "divisor: 4", 1))
	paddle, _ := s.Stack().Lookup("paddle")

	s.Tick(core.SwitchRight)
	if e, _ := s.Set().Find(paddle); e.Velocity != core.V(0, 0) {
		t.Errorf("velocity changed to %v on a tick without a step", e.Velocity)
	}
}

func TestLossFreezesAndShowsMessageOnce(t *testing.T) {
	s := build(t, probeScene)
	screen := &countingScreen{Screen: core.NewScreen(100, 100)}
	s.Reset(screen)

	res := s.StepFrame(screen, 0)
	if !res.State.Lost || !res.State.Frozen {
		t.Fatalf("state = %+v, expected lost and frozen", res.State)
	}
	if res.State.Message != "GAME OVER" {
		t.Errorf("Message = %q, expected GAME OVER", res.State.Message)
	}
	if screen.texts != 1 {
		t.Fatalf("message drawn %d times, expected 1", screen.texts)
	}
	span := screen.Texts()[0]
	if span.At != core.V(2, 2) || span.Fg != core.ColorGreen || span.Bg != core.ColorRed {
		t.Errorf("text span = %+v", span)
	}

	ball := s.Stack().At(0)
	frozenAt := ball.PosNext
	for i := 0; i < 10; i++ {
		if r := s.Tick(0); r.Redraw {
			t.Fatal("frozen simulation took a step")
		}
	}
	if ball.PosNext != frozenAt {
		t.Errorf("frozen ball moved to %v", ball.PosNext)
	}
	if st := s.State(); st.Ticks != 11 {
		t.Errorf("Ticks = %d, expected frozen ticks to be counted", st.Ticks)
	}
}

func TestLossContinue(t *testing.T) {
	s := build(t, strings.Replace(probeScene, "on_loss: freeze", "on_loss: continue", 1))
	screen := &countingScreen{Screen: core.NewScreen(100, 100)}
	s.Reset(screen)

	for i := 0; i < 5; i++ {
		s.StepFrame(screen, 0)
	}
	st := s.State()
	if !st.Lost || st.Frozen {
		t.Errorf("state = %+v, expected lost but running", st)
	}
	if st.Steps != 5 {
		t.Errorf("Steps = %d, expected 5", st.Steps)
	}
	if screen.texts != 1 {
		t.Errorf("message drawn %d times, expected 1", screen.texts)
	}
}

func TestResetRestoresStart(t *testing.T) {
	s := build(t, probeScene)
	screen := newScreen(s)
	s.Reset(screen)
	s.StepFrame(screen, core.SwitchRight)

	s.Reset(screen)

	st := s.State()
	if st.Lost || st.Frozen || st.Steps != 0 || st.Ticks != 0 {
		t.Errorf("state after reset = %+v", st)
	}
	ball := s.Stack().At(0)
	if ball.Pos != core.V(60, 42) || ball.PosNext != core.V(60, 42) {
		t.Errorf("ball at %v/%v after reset", ball.Pos, ball.PosNext)
	}
	paddle, _ := s.Stack().Lookup("paddle")
	if e, _ := s.Set().Find(paddle); e.Velocity != core.V(0, 0) {
		t.Errorf("paddle velocity = %v after reset", e.Velocity)
	}
	if len(screen.Texts()) != 0 {
		t.Error("loss message survived reset")
	}
}

func TestPause(t *testing.T) {
	s := build(t, bounceScene)
	s.SetPaused(true)
	if res := s.Tick(0); res.Redraw || !res.State.Paused {
		t.Errorf("paused Tick() = %+v", res)
	}
	s.SetPaused(false)
	if res := s.Tick(0); !res.Redraw {
		t.Error("Tick() after resume took no step")
	}
}

func TestNewRejectsFastMover(t *testing.T) {
	sc, err := config.ParseScene([]byte(strings.Replace(bounceScene, "velocity: [3, 1]", "velocity: [40, 1]", 1)))
	if err != nil {
		t.Fatalf("ParseScene() failed: %v", err)
	}
	_, err = New(sc)
	if !errors.Is(err, config.ErrInvalidScene) || !errors.Is(err, motion.ErrTooFast) {
		t.Errorf("New() = %v, expected ErrInvalidScene and ErrTooFast", err)
	}
}

func TestNewRejectsFastControls(t *testing.T) {
	sc, err := config.ParseScene([]byte(strings.Replace(probeScene, "speed: 2", "speed: 60", 1)))
	if err != nil {
		t.Fatalf("ParseScene() failed: %v", err)
	}
	_, err = New(sc)
	if !errors.Is(err, config.ErrInvalidScene) || !errors.Is(err, motion.ErrTooFast) {
		t.Errorf("New() = %v, expected ErrInvalidScene and ErrTooFast", err)
	}
}

func TestLatch(t *testing.T) {
	var l Latch
	l.Press(core.SwitchRight)
	l.Press(core.SwitchUp)
	sw := l.Peek()
	if sw != core.SwitchRight|core.SwitchUp {
		t.Fatalf("Peek() = %v, expected right|up", sw)
	}

	// A press between Peek and Consume survives, the consumed ones do not
	l.Press(core.SwitchLeft)
	l.Consume(sw)
	if got := l.Peek(); got != core.SwitchLeft {
		t.Errorf("Peek() = %v after Consume(right|up), expected left", got)
	}

	l.Consume(l.Peek())
	if l.Peek() != 0 {
		t.Errorf("Peek() = %v after Consume(), expected none", l.Peek())
	}
}

func TestRunAnimatesUntilCanceled(t *testing.T) {
	s := build(t, bounceScene)
	screen := newScreen(s)
	var in Latch

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	frames := 0
	err := s.Run(ctx, screen, &in, func(st core.State) {
		mu.Lock()
		defer mu.Unlock()
		frames++
		if st.Frames >= 5 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	st := s.State()
	if st.Frames < 5 {
		t.Errorf("Frames = %d, expected at least 5", st.Frames)
	}
	if ball := s.Stack().At(0); !s.Fence().ContainsRegion(ball.Bounds()) {
		t.Errorf("ball escaped the fence: %v", ball.Bounds())
	}
	mu.Lock()
	defer mu.Unlock()
	if frames < 6 {
		t.Errorf("onFrame called %d times, expected the first frame plus 5", frames)
	}
}
