package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTemp(t)

	runs := []RunEntry{
		{SceneID: "classic", Steps: 100, Ticks: 1500, Frames: 100, Lost: true},
		{SceneID: "classic", Steps: 50, Ticks: 750, Frames: 50, Player: "alice"},
		{SceneID: "classic", Steps: 200, Ticks: 3000, Frames: 198, Lost: true},
		{SceneID: "arrows", Steps: 500, Ticks: 1500},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("classic", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	expected := []int{200, 100, 50}
	for i, e := range top {
		if e.Steps != expected[i] {
			t.Errorf("Run %d: expected %d steps, got %d", i, expected[i], e.Steps)
		}
		if e.SceneID != "classic" {
			t.Errorf("Run %d: expected scene classic, got %s", i, e.SceneID)
		}
	}

	if !top[0].Lost || top[2].Lost {
		t.Errorf("lost flags = %v/%v, expected true/false", top[0].Lost, top[2].Lost)
	}
	if top[0].Player != "local" || top[2].Player != "alice" {
		t.Errorf("players = %q/%q, expected local/alice", top[0].Player, top[2].Player)
	}
	if top[0].Ticks != 3000 || top[0].Frames != 198 {
		t.Errorf("top run = %+v, expected 3000 ticks and 198 frames", top[0])
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTemp(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveRun(RunEntry{SceneID: "classic", Steps: i * 10}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("classic", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(top))
	}
	if top[0].Steps != 190 {
		t.Errorf("Expected longest run 190, got %d", top[0].Steps)
	}

	// Zero limit falls back to 10
	top, err = store.TopRuns("classic", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 10 {
		t.Errorf("Expected 10 runs for default limit, got %d", len(top))
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTemp(t)

	for _, steps := range []int{30, 10, 20} {
		if _, err := store.SaveRun(RunEntry{SceneID: "compact", Steps: steps}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns("compact", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Steps != 20 || recent[1].Steps != 10 {
		t.Errorf("RecentRuns() = %+v, expected steps 20 then 10", recent)
	}
}

func TestStoreLongestRun(t *testing.T) {
	store := openTemp(t)

	longest, err := store.LongestRun("classic")
	if err != nil {
		t.Fatalf("LongestRun() failed: %v", err)
	}
	if longest != 0 {
		t.Errorf("Expected 0 for empty history, got %d", longest)
	}

	for _, steps := range []int{100, 300, 200} {
		store.SaveRun(RunEntry{SceneID: "classic", Steps: steps})
	}

	longest, err = store.LongestRun("classic")
	if err != nil {
		t.Fatalf("LongestRun() failed: %v", err)
	}
	if longest != 300 {
		t.Errorf("Expected longest run 300, got %d", longest)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTemp(t)

	store.SaveRun(RunEntry{SceneID: "classic", Steps: 100})
	store.SaveRun(RunEntry{SceneID: "arrows", Steps: 200})

	if err := store.ClearRuns("classic"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.TopRuns("classic", 10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}

	runs, _ = store.TopRuns("arrows", 10)
	if len(runs) != 1 {
		t.Errorf("Expected 1 arrows run, got %d", len(runs))
	}
}

func TestStoreSceneStats(t *testing.T) {
	store := openTemp(t)

	store.SaveRun(RunEntry{SceneID: "classic", Steps: 100, Lost: true})
	store.SaveRun(RunEntry{SceneID: "classic", Steps: 300})
	store.SaveRun(RunEntry{SceneID: "arrows", Steps: 40})

	stats, err := store.GetSceneStats("classic")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Losses != 1 || stats.BestSteps != 300 {
		t.Errorf("stats = %+v, expected 2 runs, 1 loss, best 300", stats)
	}
	if stats.AvgSteps != 200 {
		t.Errorf("AvgSteps = %v, expected 200", stats.AvgSteps)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	empty, err := store.GetSceneStats("compact")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("stats for an unplayed scene = %+v", empty)
	}

	all, err := store.GetAllScenesStats()
	if err != nil {
		t.Fatalf("GetAllScenesStats() failed: %v", err)
	}
	if len(all) != 2 || all["arrows"].BestSteps != 40 {
		t.Errorf("GetAllScenesStats() = %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
