package game

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"chosenoffset.com/crawler/internal/gamescanner"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/simulation"
	"chosenoffset.com/crawler/internal/world/maploader"
)

// LoadTextures creates the texture store, fills it with the built-in
// procedural art and loads the asset manifest named by cfg over it. A missing
// manifest is not an error.
func LoadTextures(cfg *simulation.Config) (*texture.Store, error) {
	store, err := texture.NewStore(cfg.Render.TextureSize)
	if err != nil {
		return nil, err
	}
	store.AddPlaceholders()
	if cfg.Assets.Manifest == "" {
		return store, nil
	}

	manifest := cfg.Assets.Manifest
	if !filepath.IsAbs(manifest) {
		manifest = filepath.Join(cfg.Assets.Dir, manifest)
	}
	if _, err := os.Stat(manifest); err != nil {
		log.Printf("Warning: no asset manifest at %s, using placeholders", manifest)
		return store, nil
	}

	loaded, errs := store.LoadManifest(manifest)
	log.Printf("Loaded %d images from %s (%d failed)", loaded, manifest, len(errs))
	return store, nil
}

// LoadLevel builds the level at path. An empty path selects the built-in demo
// level; a directory selects the first level found in it.
func LoadLevel(path string, cfg *simulation.Config) (*maploader.Level, error) {
	data, err := readLevel(path)
	if err != nil {
		return nil, err
	}
	return data.Build(maploader.BuildOptions{
		Ambient:       cfg.Lighting.Ambient,
		TorchRadius:   cfg.Lighting.TorchRadius,
		TorchStrength: cfg.Lighting.TorchStrength,
		FOV:           cfg.FOV(),
	})
}

func readLevel(path string) (*maploader.LevelData, error) {
	if path == "" {
		return maploader.DemoLevel(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open level %s: %w", path, err)
	}
	if !info.IsDir() {
		return maploader.LoadLevel(path)
	}

	log.Printf("Scanning %s for levels...", path)
	levels, err := gamescanner.ScanLevelDirectory(path)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels found in %s", path)
	}
	for _, l := range levels {
		log.Printf("  found %q (%s)", l.Name, l.Path)
	}
	return maploader.LoadLevel(levels[0].Path)
}
