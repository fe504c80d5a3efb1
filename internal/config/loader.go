package config

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultScenes embed.FS

// LoadScene loads a scene by id.
// Search order: customPath -> ~/.shapemotion/scenes/<id>.yaml -> ./scenes/<id>.yaml -> embedded default
//
// A custom path that cannot be read or parsed is an error. The user and local
// directories are skipped when the file is missing or does not parse.
func LoadScene(id, customPath string) (Scene, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Scene{}, fmt.Errorf("failed to read scene %s: %w", customPath, err)
		}
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(customPath), filepath.Ext(customPath))
		}
		sc, err := parse(data, id)
		if err != nil {
			return Scene{}, fmt.Errorf("failed to parse scene %s: %w", customPath, err)
		}
		return sc, nil
	}

	// Try user scenes directory
	if userPath := userScenePath(id + ".yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if sc, err := parse(data, id); err == nil {
				return sc, nil
			}
		}
	}

	// Try local scenes directory
	if data, err := os.ReadFile(filepath.Join("scenes", id+".yaml")); err == nil {
		if sc, err := parse(data, id); err == nil {
			return sc, nil
		}
	}

	// Use embedded default YAML
	data, ok := DefaultSceneYAML(id)
	if !ok {
		return Scene{}, fmt.Errorf("%w: unknown scene %q", ErrInvalidScene, id)
	}
	sc, err := parse(data, id)
	if err != nil {
		return Scene{}, fmt.Errorf("embedded scene %s: %w", id, err)
	}
	return sc, nil
}

// ParseScene decodes, defaults and validates a scene document.
func ParseScene(data []byte) (Scene, error) {
	return parse(data, "")
}

func parse(data []byte, id string) (Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scene{}, err
	}
	if sc.ID == "" {
		sc.ID = id
	}
	sc.ApplyDefaults()
	if err := sc.Validate(); err != nil {
		return Scene{}, err
	}
	return sc, nil
}

// DefaultSceneYAML returns the embedded document for a built-in scene.
func DefaultSceneYAML(id string) ([]byte, bool) {
	data, err := defaultScenes.ReadFile(path.Join("defaults", id+".yaml"))
	if err != nil {
		return nil, false
	}
	return data, true
}

// BuiltinIDs lists the embedded scenes in name order.
func BuiltinIDs() []string {
	entries, err := defaultScenes.ReadDir("defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids
}

// userScenePath returns the path to a user scene file, or empty if home is unavailable.
func userScenePath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shapemotion", "scenes", filename)
}
