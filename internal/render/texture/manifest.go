package texture

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Manifest lists the images to load, keyed by the name the renderer asks for.
// Paths are relative to the manifest file.
type Manifest struct {
	Textures map[string]string `json:"textures"`
	Sprites  map[string]string `json:"sprites"`
}

// ReadManifest parses a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse texture manifest %s: %w", path, err)
	}
	return &m, nil
}

// WriteManifest saves m as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode texture manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write texture manifest %s: %w", path, err)
	}
	return nil
}

// LoadManifest loads every texture and sprite listed in the manifest at path.
// Individual failures are logged and collected; loading carries on so the
// renderer can fall back to placeholders. The returned count is the number of
// images loaded successfully.
func (s *Store) LoadManifest(path string) (int, []error) {
	m, err := ReadManifest(path)
	if err != nil {
		log.Printf("Warning: %v", err)
		return 0, []error{err}
	}
	base := filepath.Dir(path)

	var errs []error
	loaded := 0
	for _, name := range sortedKeys(m.Textures) {
		if _, err := s.LoadTexture(name, resolve(base, m.Textures[name])); err != nil {
			log.Printf("Warning: %v", err)
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	for _, name := range sortedKeys(m.Sprites) {
		if _, err := s.LoadSprite(name, resolve(base, m.Sprites[name])); err != nil {
			log.Printf("Warning: %v", err)
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	return loaded, errs
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
