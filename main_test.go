package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name     string
		cfg      config.Config
		expected string
	}{
		{"preset", config.Config{Scene: "showcase"}, filepath.Join("output", "showcase", "render_20240309_140507.png")},
		{"scene file", config.Config{Scene: "default", SceneFile: "scenes/glass-spheres.json"},
			filepath.Join("output", "glass-spheres", "render_20240309_140507.png")},
		{"blender file", config.Config{Scene: "default", BlenderFile: "/tmp/export.json"},
			filepath.Join("output", "export", "render_20240309_140507.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultOutputPath(tt.cfg, now); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRender(t *testing.T) {
	var cfg config.Config
	cfg.Resolve(config.Flags{Width: 24, Height: 12, SamplesPerPixel: 1, MaxDepth: 2, Workers: 2})

	result, err := render(context.Background(), cfg, scene.NewDefaultScene())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bounds := result.Image.Bounds(); bounds.Dx() != 24 || bounds.Dy() != 12 {
		t.Errorf("Expected 24x12 image, got %v", bounds)
	}
	if result.Stats.TotalSamples != 24*12 {
		t.Errorf("Expected %d samples, got %d", 24*12, result.Stats.TotalSamples)
	}

	output := filepath.Join(t.TempDir(), "out", "render.png")
	if err := loaders.SaveImage(output, result.Image); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	img, err := loaders.LoadImage(output)
	if err != nil {
		t.Fatalf("Failed to load image: %v", err)
	}
	if img.Bounds() != result.Image.Bounds() {
		t.Errorf("Saved image bounds %v differ from %v", img.Bounds(), result.Image.Bounds())
	}
}

func TestRender_CancelledContext(t *testing.T) {
	var cfg config.Config
	cfg.Resolve(config.Flags{Width: 8, Height: 8, SamplesPerPixel: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if result, err := render(ctx, cfg, scene.NewDefaultScene()); err == nil || result != nil {
		t.Errorf("Expected a cancelled render to fail without an image, got %v, %v", result, err)
	}
}
