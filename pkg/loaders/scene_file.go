package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func readFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return data, nil
}

// LoadScene reads a scene snapshot document
func LoadScene(filename string) (*scene.Scene, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := scene.ImportJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return s, nil
}

// SaveScene writes every stored entry of s as a snapshot document
func SaveScene(filename string, s *scene.Scene) error {
	data, err := s.ExportJSON()
	if err != nil {
		return fmt.Errorf("failed to export scene: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create scene directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}
