package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/crawler/internal/placeholders"
	"chosenoffset.com/crawler/internal/render/texture"
)

func main() {
	dir := flag.String("out", "assets", "directory to write textures, sprites and the manifest to")
	size := flag.Int("size", placeholders.TileSize, "texture edge length in pixels (power of two)")
	flag.Parse()

	fmt.Println("Crawler Placeholder Graphics Generator")
	fmt.Println("======================================")
	fmt.Println()

	if *size <= 0 || *size&(*size-1) != 0 {
		fmt.Fprintf(os.Stderr, "Error: size %d is not a power of two\n", *size)
		os.Exit(1)
	}

	assets, err := placeholders.GenerateAssets(*dir, *size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manifest := filepath.Join(*dir, "manifest.json")
	if err := texture.WriteManifest(manifest, &texture.Manifest{
		Textures: assets.Textures,
		Sprites:  assets.Sprites,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d textures and %d sprites to %s\n", len(assets.Textures), len(assets.Sprites), *dir)
	fmt.Println()
	fmt.Println("Done! Placeholder graphics are ready to use.")
}
