package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Config contains frame rendering configuration
type Config struct {
	SamplesPerPixel int     // Jittered camera rays per pixel
	TileSize        int     // Size of each square tile
	NumWorkers      int     // Number of parallel workers (0 = use CPU count)
	Gamma           float32 // Display gamma applied after tone mapping
	RenderScale     float32 // Fraction of the display resolution actually traced, in (0, 1]
}

// DefaultConfig returns the interactive renderer's settings
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 4,
		TileSize:        32,
		NumWorkers:      0, // Auto-detect CPU count
		Gamma:           2.2,
		RenderScale:     1,
	}
}

// withDefaults fills unset fields from DefaultConfig
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.SamplesPerPixel <= 0 {
		c.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if c.TileSize <= 0 {
		c.TileSize = defaults.TileSize
	}
	if c.Gamma <= 0 {
		c.Gamma = defaults.Gamma
	}
	if c.RenderScale <= 0 || c.RenderScale > 1 {
		c.RenderScale = defaults.RenderScale
	}
	return c
}

// Snapshot is the immutable input of one frame
type Snapshot struct {
	Frame       *scene.Frame
	Camera      Camera
	FrameNumber uint64 // Seeds the per-tile random generators
}

// ErrInvalidSize is returned for frames without pixels
var ErrInvalidSize = errors.New("frame size must be positive")

// Raytracer renders whole frames by splitting them into tiles for a worker pool
type Raytracer struct {
	config     Config
	workerPool *WorkerPool
}

// NewRaytracer creates a raytracer and starts its workers
func NewRaytracer(integratorInst integrator.Integrator, config Config) *Raytracer {
	config = config.withDefaults()
	pool := NewWorkerPool(NewTileRenderer(integratorInst), config.NumWorkers)
	pool.Start()

	return &Raytracer{
		config:     config,
		workerPool: pool,
	}
}

// Config returns the raytracer's settings
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Close stops the worker pool. The raytracer must not be used afterwards.
func (rt *Raytracer) Close() {
	rt.workerPool.Stop()
}

// RenderFrame traces snapshot at width x height. The image is only returned once every tile
// succeeded; a cancelled context discards the whole frame.
func (rt *Raytracer) RenderFrame(ctx context.Context, snapshot Snapshot, width, height int) (*image.RGBA, RenderStats, error) {
	if width <= 0 || height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if snapshot.Frame == nil {
		return nil, RenderStats{}, errors.New("snapshot has no frame")
	}

	// Frame-private buffer, one entry per pixel
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, rt.config.TileSize)
	results := make(chan TileResult, len(tiles)) // Workers never block on a frame's results

	submitted := 0
	var submitErr error
	for _, tile := range tiles {
		task := TileTask{
			Ctx:             ctx,
			Snapshot:        snapshot,
			Tile:            tile,
			Width:           width,
			Height:          height,
			SamplesPerPixel: rt.config.SamplesPerPixel,
			PixelStats:      pixelStats,
			Results:         results,
		}
		if submitErr = rt.workerPool.SubmitTask(ctx, task); submitErr != nil {
			break
		}
		submitted++
	}

	// Wait for every submitted tile so no worker writes the buffer after we return
	var stats RenderStats
	firstErr := submitErr
	for i := 0; i < submitted; i++ {
		result := <-results
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	stats.finalize()
	return rt.assembleImage(pixelStats, width, height), stats, nil
}

// assembleImage converts accumulated radiance into display pixels
func (rt *Raytracer) assembleImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, rt.vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	return img
}

// vec3ToColor converts linear radiance to RGBA: tone map, gamma correct, clamp
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.ToneMap()
	colorVec = colorVec.GammaCorrect(rt.config.Gamma)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255*colorVec.X + 0.5),
		G: uint8(255*colorVec.Y + 0.5),
		B: uint8(255*colorVec.Z + 0.5),
		A: 255,
	}
}
