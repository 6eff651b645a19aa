package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/web/server"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to config.json file")
	port := flag.Int("port", 0, "Port to serve on (default: 8080)")
	sceneType := flag.String("scene", "", "Built-in scene: default, random, cleared or showcase")
	sceneFile := flag.String("scene-file", "", "Scene snapshot JSON to load instead of a preset")
	blenderFile := flag.String("blender", "", "Blender JSON export to load instead of a preset")
	background := flag.String("background", "", "Sky color: name, #rrggbb or r,g,b")
	width := flag.Int("width", 0, "Display width in pixels (default: 400)")
	height := flag.Int("height", 0, "Display height in pixels (default: 225)")
	samples := flag.Int("spp", 0, "Samples per pixel per frame (default: 4)")
	maxDepth := flag.Int("depth", 0, "Maximum bounces per path (default: 5)")
	workers := flag.Int("workers", 0, "Number of render workers (default: NumCPU)")
	seed := flag.Int64("seed", 0, "Seed for the random scene (default: 42)")
	renderScale := flag.Float64("render-scale", 0, "Fraction of the display resolution to trace, in (0, 1]")
	unlimited := flag.Bool("unlimited", false, "Render every stored entry instead of the fixed slot counts")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Printf("Error loading config: %v", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:           *sceneType,
		SceneFile:       *sceneFile,
		BlenderFile:     *blenderFile,
		Background:      *background,
		Width:           *width,
		Height:          *height,
		SamplesPerPixel: *samples,
		MaxDepth:        *maxDepth,
		Workers:         *workers,
		Port:            *port,
		Seed:            *seed,
		RenderScale:     *renderScale,
	})
	if *unlimited {
		cfg.UnlimitedCapacity = true
	}

	sc, err := cfg.BuildScene()
	if err != nil {
		log.Printf("Error building scene: %v", err)
		os.Exit(1)
	}

	raytracer := renderer.NewRaytracer(
		integrator.NewPathTracingIntegrator(cfg.IntegratorConfig()),
		cfg.RendererConfig(),
	)
	defer raytracer.Close()

	session, err := renderer.NewSession(raytracer, sc, cfg.BuildCamera(), cfg.Width, cfg.Height, nil)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		os.Exit(1)
	}
	session.SetCapacity(cfg.Capacity())

	// Create and start web server
	webServer := server.NewServer(cfg, session)
	defer webServer.Close()
	session.SetLogger(webServer.Logger())

	log.Printf("Scene Raytracer Web Server")
	log.Printf("Visit http://localhost:%d/api/stream to watch frames", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
