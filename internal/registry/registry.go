// Package registry provides a global registry of scene loaders.
// Scenes register themselves in init() functions, allowing the front ends to
// discover and instantiate scenes without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/sim"
)

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID          string
	Title       string
	Description string
}

// Loader produces a scene document. customPath, when not empty, overrides
// the normal search order.
type Loader func(customPath string) (config.Scene, error)

var (
	loaders = make(map[string]Loader)
	infos   = make(map[string]SceneInfo)
	mu      sync.RWMutex
)

// Register adds a scene loader to the registry.
// Typically called from an init() function.
// Panics if a scene with the same ID is already registered.
func Register(info SceneInfo, l Loader) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := loaders[info.ID]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", info.ID))
	}

	loaders[info.ID] = l
	infos[info.ID] = info
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Load returns the scene document for id.
// Returns an error if the scene ID is not registered.
func Load(id, customPath string) (config.Scene, error) {
	mu.RLock()
	l, ok := loaders[id]
	mu.RUnlock()

	if !ok {
		return config.Scene{}, fmt.Errorf("registry: unknown scene %q", id)
	}
	return l(customPath)
}

// Create loads a scene by its ID and builds a simulation for it.
func Create(id, customPath string, opts ...sim.Option) (*sim.Simulation, error) {
	sc, err := Load(id, customPath)
	if err != nil {
		return nil, err
	}
	return sim.New(sc, opts...)
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := loaders[id]
	return ok
}
