package gamescanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chosenoffset.com/crawler/internal/world/maploader"
)

// LevelEntry represents a discoverable level file
type LevelEntry struct {
	Name string // Level name from the file, or the file name without extension
	Path string // Path to the level file
}

// ScanLevelDirectory scans a directory for level files.
// Returns one LevelEntry per file that parses as a valid level, sorted by path.
func ScanLevelDirectory(dir string) ([]LevelEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []LevelEntry
	for _, entry := range entries {
		// Skip directories
		if entry.IsDir() {
			continue
		}

		// Only JSON files, skipping hidden files and the texture manifest
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		if name == "manifest.json" || name == "config.json" {
			continue
		}

		path := filepath.Join(dir, name)
		level, err := maploader.LoadLevel(path)
		if err != nil {
			// Skip files that are not levels
			continue
		}

		display := level.Name
		if display == "" {
			display = strings.TrimSuffix(name, filepath.Ext(name))
		}
		levels = append(levels, LevelEntry{Name: display, Path: path})
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].Path < levels[j].Path })
	return levels, nil
}
