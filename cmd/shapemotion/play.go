package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/platform/tcellui"
	"github.com/vovakirdan/shapemotion/internal/platform/tui"
	"github.com/vovakirdan/shapemotion/internal/registry"
	"github.com/vovakirdan/shapemotion/internal/sim"
	"github.com/vovakirdan/shapemotion/internal/storage"
)

const (
	backendTUI   = "tui"
	backendTcell = "tcell"
)

var (
	flagConfig  string
	flagBackend string
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Run a scene",
	Long: `Run the specified scene, or pick one from a menu when no scene is given.

Controls:
  Right/D/1   - Switch 1: push the paddle right
  Left/A/2    - Switch 2: push the paddle left
  Up/W/3      - Switch 3: push the paddle up
  Down/S/4    - Switch 4: push the paddle down
  P/Space     - Pause
  R           - Restart
  Ctrl+S      - Save a text screenshot (tui backend)
  Esc/B       - Back to the scene picker
  Q/Ctrl+C    - Quit

Backends:
  tui    - Bubble Tea, with help bar and scene picker (default)
  tcell  - Direct cell drawing, only changed rows are repainted

Examples:
  shapemotion play
  shapemotion play classic
  shapemotion play compact --backend tcell
  shapemotion play classic --config ./my-classic.yaml
  shapemotion play --config ./my-scene.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scene YAML")
	playCmd.Flags().StringVar(&flagBackend, "backend", backendTUI, "Front end: tui or tcell")
}

func runPlay(_ *cobra.Command, args []string) {
	logger := newLogger("shapemotion")

	if flagBackend != backendTUI && flagBackend != backendTcell {
		fmt.Fprintf(os.Stderr, "Error: unknown backend %q (expected tui or tcell)\n", flagBackend)
		os.Exit(1)
	}

	var sceneID string
	if len(args) > 0 {
		sceneID = args[0]
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage - the scene still runs
		store = nil
	}

	cfg := terminalConfig()

	var runErr error
	switch {
	case sceneID == "" && flagConfig == "":
		runErr = runMenuLoop(store, cfg, logger)
	default:
		var s *sim.Simulation
		s, runErr = loadSimulation(sceneID, flagConfig, logger)
		if runErr == nil {
			runErr = runScene(s, store, cfg, logger)
		}
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, config.ErrInvalidScene) && !registry.Exists(sceneID) {
			fmt.Fprintln(os.Stderr, "Run 'shapemotion list' to see available scenes.")
		}
		os.Exit(1)
	}
}

// terminalConfig reads the terminal size into a runtime config.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     time.Now().UnixNano(),
	}
}

// loadSimulation builds a simulation for a registered scene, or for a scene
// file given only by path.
func loadSimulation(id, customPath string, logger *log.Logger) (*sim.Simulation, error) {
	opts := []sim.Option{sim.WithLogger(logger), sim.WithTickRate(flagFPS)}

	if id == "" || !registry.Exists(id) {
		if customPath == "" {
			return nil, fmt.Errorf("unknown scene %q: %w", id, config.ErrInvalidScene)
		}
		sc, err := config.LoadScene(id, customPath)
		if err != nil {
			return nil, err
		}
		return sim.New(sc, opts...)
	}
	return registry.Create(id, customPath, opts...)
}

// checkFits warns when the display does not fit the terminal.
func checkFits(s *sim.Simulation, cfg core.RuntimeConfig, logger *log.Logger) {
	d := s.Display()
	rows := tui.Rows(d.Height()) + 4 // Title, status and help lines
	if d.Width() > cfg.ScreenW || rows > cfg.ScreenH {
		logger.Warn("terminal is smaller than the scene display",
			"scene", s.ID(),
			"need", fmt.Sprintf("%dx%d", d.Width(), rows),
			"have", fmt.Sprintf("%dx%d", cfg.ScreenW, cfg.ScreenH))
	}
}

// runScene runs one scene on the selected backend.
func runScene(s *sim.Simulation, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	checkFits(s, cfg, logger)
	if flagBackend == backendTcell {
		return runTcell(s, store, logger)
	}
	return tui.Run(s, store, cfg)
}

// runTcell owns the tcell screen for the duration of one scene.
func runTcell(s *sim.Simulation, store *storage.Store, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tcellui.Run(ctx, screen, s, tcellui.Config{Store: store, Logger: logger})
}

// runMenuLoop alternates between the scene picker, the run history and the
// selected scene until the user quits.
func runMenuLoop(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantHistory {
			goBack, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from history
		}

		if menuResult.SceneID == "" {
			return nil
		}

		s, err := loadSimulation(menuResult.SceneID, "", logger)
		if err != nil {
			logger.Error("cannot load scene", "scene", menuResult.SceneID, "error", err)
			continue
		}

		if flagBackend == backendTcell {
			// The tcell runner has no back key; leaving the scene returns here
			if err := runTcell(s, store, logger); err != nil {
				return err
			}
			continue
		}

		goBack, err := tui.RunFromMenu(s, store, cfg)
		if err != nil {
			return err
		}
		if !goBack {
			return nil
		}
	}
}
