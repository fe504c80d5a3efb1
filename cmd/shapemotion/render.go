package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapemotion/internal/core"
	"github.com/vovakirdan/shapemotion/internal/platform/tui"
)

var (
	flagSteps        int
	flagEvery        int
	flagHold         []string
	flagColor        bool
	flagRenderConfig string
)

var renderCmd = &cobra.Command{
	Use:   "render <scene>",
	Short: "Print frames without a terminal UI",
	Long: `Run a scene headless for a number of motion steps and print the frames.

Every step is followed by a redraw, so frame N shows exactly N steps.
Background pixels print as '.', other pixels as a glyph picked by
lightness, and the loss message is stamped where the scene places it.

Examples:
  shapemotion render classic --steps 20
  shapemotion render classic --steps 100 --every 25
  shapemotion render compact --steps 10 --hold left
  shapemotion render arrows --color`,
	Args: cobra.ExactArgs(1),
	Run:  runRender,
}

func init() {
	renderCmd.Flags().IntVar(&flagSteps, "steps", 10, "Number of motion steps to run")
	renderCmd.Flags().IntVar(&flagEvery, "every", 0, "Print every N frames (0 = last frame only)")
	renderCmd.Flags().StringSliceVar(&flagHold, "hold", nil, "Switches held for the whole run: right, left, up, down")
	renderCmd.Flags().BoolVar(&flagColor, "color", false, "Print colored half blocks instead of ASCII")
	renderCmd.Flags().StringVar(&flagRenderConfig, "config", "", "Path to custom scene YAML")
}

func runRender(_ *cobra.Command, args []string) {
	logger := newLogger("shapemotion")

	held, err := core.ParseSwitches(flagHold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := loadSimulation(args[0], flagRenderConfig, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	d := s.Display()
	screen := core.NewScreen(d.Width(), d.Height())
	s.Reset(screen)

	show := func(st core.State) {
		fmt.Printf("step %d  frame %d", st.Steps, st.Frames)
		if st.Lost {
			fmt.Printf("  %s", st.Message)
		}
		fmt.Println()
		if flagColor {
			fmt.Println(tui.RenderScreen(screen, s.Background()))
		} else {
			fmt.Println(screen.Frame(s.Background()))
		}
		fmt.Println()
	}

	st := s.State()
	for i := 0; i < flagSteps; i++ {
		res := s.StepFrame(screen, held)
		st = res.State
		if res.State.Frozen {
			break
		}
		if flagEvery > 0 && st.Frames%flagEvery == 0 {
			show(st)
		}
	}

	if flagEvery <= 0 || st.Frames == 0 || st.Frames%flagEvery != 0 || st.Frozen {
		show(st)
	}
}
