package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
	"golang.org/x/image/colornames"
)

// Config holds scene selection and render settings shared by the CLI and the web server.
type Config struct {
	// Scene selection
	Scene       string `json:"scene"`        // Built-in preset id
	SceneFile   string `json:"scene_file"`   // Snapshot document, takes priority over Scene
	BlenderFile string `json:"blender_file"` // Blender export, takes priority over Scene
	ScenesDir   string `json:"scenes_dir"`   // Directory listed by the web server
	Seed        int64  `json:"seed"`         // Seed for the random preset
	Background  string `json:"background"`   // Color name, #rrggbb or "r,g,b"

	// Render settings
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	SamplesPerPixel   int     `json:"samples_per_pixel"`
	MaxDepth          int     `json:"max_depth"`
	TileSize          int     `json:"tile_size"`
	Workers           int     `json:"workers"`
	RenderScale       float32 `json:"render_scale"`
	FOV               float32 `json:"fov"` // Degrees
	UnlimitedCapacity bool    `json:"unlimited_capacity"`

	// Outputs
	Output string `json:"output"` // Image path for the CLI; extension picks the format
	Port   int    `json:"port"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene           string
	SceneFile       string
	BlenderFile     string
	Background      string
	Output          string
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Workers         int
	Port            int
	Seed            int64
	RenderScale     float64
}

// Resolve applies CLI flags over the file settings and fills the remaining empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.SceneFile != "" {
		c.SceneFile = flags.SceneFile
	}
	if flags.BlenderFile != "" {
		c.BlenderFile = flags.BlenderFile
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.SamplesPerPixel > 0 {
		c.SamplesPerPixel = flags.SamplesPerPixel
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Port > 0 {
		c.Port = flags.Port
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.RenderScale > 0 {
		c.RenderScale = float32(flags.RenderScale)
	}

	// Defaults
	if c.Scene == "" {
		c.Scene = "default"
	}
	if c.ScenesDir == "" {
		c.ScenesDir = "scenes"
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.Width <= 0 {
		c.Width = 400
	}
	if c.Height <= 0 {
		c.Height = 225 // 16:9 aspect ratio
	}
	if c.SamplesPerPixel <= 0 {
		c.SamplesPerPixel = renderer.DefaultConfig().SamplesPerPixel
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = integrator.DefaultConfig().MaxDepth
	}
	if c.TileSize <= 0 {
		c.TileSize = renderer.DefaultConfig().TileSize
	}
	if c.RenderScale <= 0 || c.RenderScale > 1 {
		c.RenderScale = 1
	}
	if c.FOV <= 0 {
		c.FOV = renderer.DefaultFOVDegrees
	}
	if c.Port <= 0 {
		c.Port = 8080
	}
}

// RendererConfig returns the frame renderer settings
func (c Config) RendererConfig() renderer.Config {
	return renderer.Config{
		SamplesPerPixel: c.SamplesPerPixel,
		TileSize:        c.TileSize,
		NumWorkers:      c.Workers,
		Gamma:           renderer.DefaultConfig().Gamma,
		RenderScale:     c.RenderScale,
	}
}

// IntegratorConfig returns the path construction settings
func (c Config) IntegratorConfig() integrator.Config {
	config := integrator.DefaultConfig()
	config.MaxDepth = c.MaxDepth
	return config
}

// Capacity returns the render capacity policy
func (c Config) Capacity() scene.Capacity {
	if c.UnlimitedCapacity {
		return scene.UnlimitedCapacity()
	}
	return scene.DefaultCapacity()
}

// BackgroundColor parses the configured background. ok is false when none is set.
func (c Config) BackgroundColor() (color core.Vec3, ok bool, err error) {
	if strings.TrimSpace(c.Background) == "" {
		return core.Vec3{}, false, nil
	}
	color, err = ParseColor(c.Background)
	if err != nil {
		return core.Vec3{}, false, err
	}
	return color, true, nil
}

// ParseColor accepts an SVG color name ("skyblue"), a hex triplet ("#87ceeb") or
// three comma separated linear components ("0.5,0.7,1").
func ParseColor(s string) (core.Vec3, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return core.Vec3{}, fmt.Errorf("config: color %q needs three components", s)
		}
		var components [3]float32
		for i, part := range parts {
			value, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
			if err != nil {
				return core.Vec3{}, fmt.Errorf("config: color %q: %w", s, err)
			}
			if value < 0 {
				return core.Vec3{}, fmt.Errorf("config: color %q has a negative component", s)
			}
			components[i] = float32(value)
		}
		return core.NewVec3(components[0], components[1], components[2]), nil
	}

	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return core.Vec3{}, fmt.Errorf("config: unknown color name %q", s)
	}
	return rgb8(named.R, named.G, named.B), nil
}

func parseHex(s string) (core.Vec3, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return core.Vec3{}, fmt.Errorf("config: hex color %q must have six digits", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("config: hex color %q: %w", s, err)
	}
	return rgb8(uint8(value>>16), uint8(value>>8), uint8(value)), nil
}

func rgb8(r, g, b uint8) core.Vec3 {
	return core.NewVec3(float32(r)/255, float32(g)/255, float32(b)/255)
}
