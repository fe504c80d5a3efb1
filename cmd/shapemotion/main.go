// shapemotion animates layered 2-D shapes in the terminal: circles bounce
// inside a fence, a switch-driven paddle moves, and a proximity probe ends
// the run when a circle reaches the paddle.
//
// Usage:
//
//	shapemotion list                 - List available scenes
//	shapemotion play [scene]         - Run a scene (scene picker without an argument)
//	shapemotion render <scene>       - Print ASCII frames without a terminal UI
//	shapemotion history [scene]      - Show recorded runs
//	shapemotion serve                - Start SSH server for remote viewing
//
// Global flags:
//
//	--fps <rate>          - Override the scene tick rate (0 = scene default)
//	--db <path>           - Set database path (default: ~/.shapemotion/runs.db)
//	--log-level <level>   - debug, info, warn or error (default: warn)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import scenes to register them
	_ "github.com/vovakirdan/shapemotion/internal/scenes"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shapemotion",
	Short: "Shape Motion - layered shapes bouncing in your terminal",
	Long: `Shape Motion composites a small stack of vector shapes onto a pixel
display and animates them: moving shapes bounce inside a fence, one layer
follows the movement keys, and a run ends when a ball reaches the paddle.

Available commands:
  list     - Show all available scenes
  play     - Run a scene (or pick one from a menu)
  render   - Print frames as ASCII, no terminal UI
  history  - View recorded runs
  serve    - Start SSH server for remote viewing

Examples:
  shapemotion list
  shapemotion play classic
  shapemotion play classic --backend tcell
  shapemotion render classic --steps 20
  shapemotion serve --ssh :2222
  shapemotion history classic`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = scene default)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.shapemotion/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger for the --log-level flag.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}
