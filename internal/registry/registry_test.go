package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/shapemotion/internal/config"
)

func TestRegisterAndLoad(t *testing.T) {
	var gotPath string
	Register(SceneInfo{ID: "test-load", Title: "Test"}, func(customPath string) (config.Scene, error) {
		gotPath = customPath
		return config.Scene{ID: "test-load"}, nil
	})

	if !Exists("test-load") {
		t.Fatal("Exists() = false after Register()")
	}
	sc, err := Load("test-load", "custom.yaml")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if sc.ID != "test-load" || gotPath != "custom.yaml" {
		t.Errorf("Load() = %q with path %q", sc.ID, gotPath)
	}

	if _, err := Load("test-missing", ""); err == nil {
		t.Error("Load() accepted an unknown scene")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	l := func(string) (config.Scene, error) { return config.Scene{}, nil }
	Register(SceneInfo{ID: "test-dup"}, l)

	defer func() {
		if recover() == nil {
			t.Error("second Register() did not panic")
		}
	}()
	Register(SceneInfo{ID: "test-dup"}, l)
}

func TestCreatePropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	Register(SceneInfo{ID: "test-broken"}, func(string) (config.Scene, error) {
		return config.Scene{}, boom
	})

	if _, err := Create("test-broken", ""); !errors.Is(err, boom) {
		t.Errorf("Create() = %v, expected the loader error", err)
	}
}
