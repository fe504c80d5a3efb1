package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/sim"
	"github.com/vovakirdan/shapemotion/internal/storage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// frameCache holds the last rendered frame. The simulation only changes
// the screen on a redraw, so View reuses the string between redraws.
type frameCache struct {
	renderer *Renderer
	text     string
	dirty    bool
}

// Model is the Bubble Tea model for running one scene.
type Model struct {
	sim        *sim.Simulation
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	state      core.State
	frame      *frameCache
	run        uint64
	player     string
	canGoBack  bool
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current run has been recorded
}

// NewModel creates a new Bubble Tea model for the given simulation.
// player is recorded with each run; empty means "local".
func NewModel(s *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	d := s.Display()
	return Model{
		sim:        s,
		screen:     core.NewScreen(d.Width(), d.Height()),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		frame:      &frameCache{renderer: NewRenderer(), dirty: true},
		run:        nextRunID(),
		player:     player,
	}
}

// WithBack lets the back key leave the scene for the scene picker.
func (m Model) WithBack() Model {
	m.canGoBack = true
	return m
}

// tickRate is the runtime override if set, otherwise the scene's own rate.
func (m Model) tickRate() int {
	if m.config.TickRate > 0 {
		return m.config.TickRate
	}
	return m.sim.TickRate()
}

// Init paints the first frame and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.sim.Reset(m.screen)
	m.frame.dirty = true
	return tickCmd(m.tickRate(), m.run)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Run != m.run {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionPause:
		m.sim.SetPaused(!m.state.Paused)
		m.state = m.sim.State()
	case core.ActionRestart:
		m.saveRun()
		m.sim.Reset(m.screen)
		m.state = m.sim.State()
		m.runSaved = false
		m.inputFrame.Clear()
		m.frame.dirty = true
	case core.ActionBack:
		if m.canGoBack {
			m.saveRun()
			m.backToMenu = true
			return m, tea.Quit
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs the tick handler and, when it took a step, the redraw.
// Held switches stay latched until a step consumes them.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	result := m.sim.Tick(m.inputFrame.Switches)
	if result.Redraw {
		m.sim.Redraw(m.screen)
		m.inputFrame.Clear()
		m.frame.dirty = true
	}
	m.state = m.sim.State()

	// Record the run once when it is lost
	if m.state.Lost && !m.runSaved {
		m.saveRun()
	}

	return m, tickCmd(m.tickRate(), m.run)
}

// saveRun records the current run once. Runs that never took a step are
// not recorded.
func (m *Model) saveRun() {
	if m.runSaved || m.state.Steps == 0 {
		return
	}
	m.runSaved = true
	if m.store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, the scene continues regardless
	m.store.SaveRun(storage.RunEntry{
		SceneID: m.sim.ID(),
		Player:  m.player,
		Steps:   m.state.Steps,
		Ticks:   m.state.Ticks,
		Frames:  m.state.Frames,
		Lost:    m.state.Lost,
	})
}

// saveScreenshot writes the current frame as text.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".shapemotion", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.sim.ID(), timestamp))

	//nolint:errcheck // Best-effort save, the scene continues regardless
	os.WriteFile(path, []byte(m.screen.Frame(m.sim.Background())), 0o600)
}

// View renders the current frame with a title, a status line and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.frame.dirty {
		m.frame.text = m.frame.renderer.Render(m.screen, m.sim.Background())
		m.frame.dirty = false
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.sim.Title()))
	b.WriteString("\n")
	b.WriteString(m.frame.text)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keyMapper.Keys()))
	return b.String()
}

// statusLine shows counters, the busy indicator and the run state.
func (m Model) statusLine() string {
	busy := "○"
	if m.state.Busy {
		busy = busyStyle.Render("●")
	}
	line := statusStyle.Render(fmt.Sprintf("steps %d  ticks %d  frames %d ",
		m.state.Steps, m.state.Ticks, m.state.Frames)) + busy

	switch {
	case m.state.Lost:
		line += "  " + alertStyle.Render(m.state.Message) + statusStyle.Render("  r: restart")
	case m.state.Paused:
		line += "  " + alertStyle.Render("PAUSED")
	}
	return line
}

// State returns the last observed simulation state.
func (m Model) State() core.State {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the scene picker.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single scene.
func Run(s *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig) error {
	_, err := run(NewModel(s, store, cfg, ""))
	return err
}

// RunFromMenu runs a scene picked from the menu.
// Returns true if user wants to go back to the menu, false if quitting.
func RunFromMenu(s *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig) (goBack bool, err error) {
	m, err := run(NewModel(s, store, cfg, "").WithBack())
	if err != nil {
		return false, err
	}
	return m.BackToMenu(), nil
}

func run(model Model) (Model, error) {
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}
	if m, ok := finalModel.(Model); ok {
		return m, nil
	}
	return model, nil
}
