// Package scenes registers the built-in scenes with the registry.
// Import it for side effects:
//
//	import _ "github.com/vovakirdan/shapemotion/internal/scenes"
package scenes

import (
	"github.com/vovakirdan/shapemotion/internal/config"
	"github.com/vovakirdan/shapemotion/internal/registry"
)

func init() {
	for _, id := range config.BuiltinIDs() {
		data, _ := config.DefaultSceneYAML(id)
		sc, err := config.ParseScene(data)
		if err != nil {
			panic("scenes: embedded scene " + id + ": " + err.Error())
		}

		registry.Register(registry.SceneInfo{
			ID:          sc.ID,
			Title:       sc.Title,
			Description: sc.Description,
		}, loader(sc.ID))
	}
}

func loader(id string) registry.Loader {
	return func(customPath string) (config.Scene, error) {
		return config.LoadScene(id, customPath)
	}
}
