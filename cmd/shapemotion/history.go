package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapemotion/internal/registry"
	"github.com/vovakirdan/shapemotion/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [scene]",
	Short: "Show recorded runs",
	Long: `Display the longest recorded runs for a scene, or a summary of every
scene when no scene is given.

Examples:
  shapemotion history
  shapemotion history classic
  shapemotion history classic --recent --limit 20
  shapemotion history classic --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagRecent, "recent", false, "Order by date instead of length")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the scene")
}

func runHistory(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sceneID := args[0]
	if !registry.Exists(sceneID) {
		fmt.Fprintf(os.Stderr, "Warning: %q is not a built-in scene\n", sceneID)
	}

	if flagClear {
		if err := store.ClearRuns(sceneID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", sceneID)
		return
	}

	if err := printRuns(store, sceneID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRuns(store *storage.Store, sceneID string) error {
	var runs []storage.RunEntry
	var err error
	if flagRecent {
		runs, err = store.RecentRuns(sceneID, flagLimit)
	} else {
		runs, err = store.TopRuns(sceneID, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Runs - %s\n", sceneID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'shapemotion play %s' to record the first one!\n", sceneID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-7s  %-10s  %s\n", "Rank", "Steps", "Ticks", "Result", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-7s  %-10s  %s\n", "----", "-----", "-----", "------", "------", "----")

	for i, r := range runs {
		result := "stopped"
		if r.Lost {
			result = "lost"
		}
		fmt.Printf("  %-4d  %-8d  %-8d  %-7s  %-10s  %s\n",
			i+1, r.Steps, r.Ticks, result, r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetSceneStats(sceneID); err == nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("Runs: %d  Losses: %d  Best: %d  Average: %.1f\n",
			stats.Runs, stats.Losses, stats.BestSteps, stats.AvgSteps)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllScenesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %-6s  %-6s  %-6s  %-8s  %s\n", "Scene", "Runs", "Losses", "Best", "Average", "Last played")
	fmt.Printf("  %-12s  %-6s  %-6s  %-6s  %-8s  %s\n", "-----", "----", "------", "----", "-------", "-----------")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-12s  %-6d  %-6d  %-6d  %-8.1f  %s\n",
			id, st.Runs, st.Losses, st.BestSteps, st.AvgSteps, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
