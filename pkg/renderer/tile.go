package renderer

import (
	"context"
	"image"
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}

	return tiles
}

// tileRandom returns the deterministic generator for a tile of a given frame
func tileRandom(frameNumber uint64, tileID int) *rand.Rand {
	seed := int64(frameNumber)*1_000_003 + int64(tileID) + 42 // +42 to avoid seed 0
	return rand.New(rand.NewSource(seed))
}

// TileRenderer renders individual tiles using an integrator
type TileRenderer struct {
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given integrator
func NewTileRenderer(integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{integrator: integratorInst}
}

// RenderTileBounds renders pixels within bounds into pixelStats, which is indexed by global image
// coordinates. It stops between rows once ctx is done and returns the context error.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, snapshot Snapshot, bounds image.Rectangle, width, height int,
	pixelStats [][]PixelStats, random *rand.Rand, samplesPerPixel int) (RenderStats, error) {
	sampler := core.NewRandomSampler(random)
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			for s := 0; s < samplesPerPixel; s++ {
				// Jitter inside the pixel
				px := float32(i) + sampler.Get1D()
				py := float32(j) + sampler.Get1D()
				ray := snapshot.Camera.Ray(px, py, width, height)
				ps.AddSample(tr.integrator.RayColor(ray, snapshot.Frame, sampler))
			}
			stats.TotalSamples += samplesPerPixel
		}
	}

	stats.finalize()
	return stats, nil
}
