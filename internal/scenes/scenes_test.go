package scenes

import (
	"testing"

	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/registry"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range config.BuiltinIDs() {
		if !registry.Exists(id) {
			t.Errorf("scene %q not registered", id)
		}
	}

	list := registry.List()
	if len(list) != len(config.BuiltinIDs()) {
		t.Fatalf("List() = %d scenes, expected %d", len(list), len(config.BuiltinIDs()))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestCreateEveryScene(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := registry.Create(info.ID, "")
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if s.Title() != info.Title {
				t.Errorf("Title() = %q, expected %q", s.Title(), info.Title)
			}
		})
	}

	if _, err := registry.Create("missing", ""); err == nil {
		t.Error("Create() accepted an unknown scene")
	}
}
