package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneType := flag.String("scene", "", "Built-in scene: default, random, cleared or showcase")
	sceneFile := flag.String("scene-file", "", "Scene snapshot JSON to load instead of a preset")
	blenderFile := flag.String("blender", "", "Blender JSON export to load instead of a preset")
	background := flag.String("background", "", "Sky color: name, #rrggbb or r,g,b")
	output := flag.String("output", "", "Output image (.png, .webp or .tga)")
	width := flag.Int("width", 0, "Image width in pixels (default: 400)")
	height := flag.Int("height", 0, "Image height in pixels (default: 225)")
	samples := flag.Int("spp", 0, "Samples per pixel (default: 4)")
	maxDepth := flag.Int("depth", 0, "Maximum bounces per path (default: 5)")
	workers := flag.Int("workers", 0, "Number of render workers (default: NumCPU)")
	seed := flag.Int64("seed", 0, "Seed for the random scene (default: 42)")
	unlimited := flag.Bool("unlimited", false, "Render every stored entry instead of the fixed slot counts")
	exportScene := flag.String("export-scene", "", "Also write the scene snapshot JSON to this path")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Scene Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.BuiltInScenes() {
			fmt.Printf("  %-9s - %s\n", info.ID, info.Description)
		}
		fmt.Println()
		fmt.Println("Output defaults to output/<scene>/render_<timestamp>.png")
		return
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:           *sceneType,
		SceneFile:       *sceneFile,
		BlenderFile:     *blenderFile,
		Background:      *background,
		Output:          *output,
		Width:           *width,
		Height:          *height,
		SamplesPerPixel: *samples,
		MaxDepth:        *maxDepth,
		Workers:         *workers,
		Seed:            *seed,
	})
	if *unlimited {
		cfg.UnlimitedCapacity = true
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutputPath(cfg, time.Now())
	}

	fmt.Println("Starting Scene Raytracer...")

	sc, err := cfg.BuildScene()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building scene: %v\n", err)
		os.Exit(1)
	}
	if *exportScene != "" {
		if err := loaders.SaveScene(*exportScene, sc); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting scene: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Scene saved as %s\n", *exportScene)
	}

	result, err := render(context.Background(), cfg, sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", result.Duration)
	fmt.Printf("Pixels: %d, samples per pixel: %.1f, tiles: %d\n",
		result.Stats.TotalPixels, result.Stats.AverageSamples, result.Stats.Tiles)

	if err := loaders.SaveImage(cfg.Output, result.Image); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", cfg.Output)
}

// render traces a single frame of sc with the resolved configuration
func render(ctx context.Context, cfg config.Config, sc *scene.Scene) (*renderer.FrameResult, error) {
	raytracer := renderer.NewRaytracer(
		integrator.NewPathTracingIntegrator(cfg.IntegratorConfig()),
		cfg.RendererConfig(),
	)
	defer raytracer.Close()

	session, err := renderer.NewSession(raytracer, sc, cfg.BuildCamera(), cfg.Width, cfg.Height, renderer.NewDefaultLogger())
	if err != nil {
		return nil, err
	}
	session.SetCapacity(cfg.Capacity())

	return session.RenderFrame(ctx)
}

// defaultOutputPath names the image after the scene source and the current time
func defaultOutputPath(cfg config.Config, now time.Time) string {
	name := cfg.Scene
	switch {
	case cfg.SceneFile != "":
		name = sourceName(cfg.SceneFile)
	case cfg.BlenderFile != "":
		name = sourceName(cfg.BlenderFile)
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
