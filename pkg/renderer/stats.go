package renderer

import (
	"image"
	"sync"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// RenderStats contains statistics about a rendered frame or tile
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	Tiles          int     // Number of tiles the frame was split into
}

// merge folds tile statistics into frame statistics
func (s *RenderStats) merge(tile RenderStats) {
	s.TotalPixels += tile.TotalPixels
	s.TotalSamples += tile.TotalSamples
	s.Tiles++
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats accumulates samples for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // Linear RGB accumulator
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Divide(float32(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff)
			total += float64(c.Luminance())
		}
	}
	return total / float64(pixels)
}

// FPSWindow is the number of frame intervals the frame timer averages over
const FPSWindow = 60

// FrameTimer tracks a rolling window of frame intervals
type FrameTimer struct {
	mu        sync.Mutex
	intervals []time.Duration
	next      int
	last      time.Time
	now       func() time.Time
}

// NewFrameTimer creates a frame timer using the wall clock
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		intervals: make([]time.Duration, 0, FPSWindow),
		now:       time.Now,
	}
}

// Tick records that a frame was presented and returns the rolling FPS
func (ft *FrameTimer) Tick() float64 {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	now := ft.now()
	if !ft.last.IsZero() {
		ft.record(now.Sub(ft.last))
	}
	ft.last = now
	return ft.fps()
}

// FPS returns the rolling frames per second, or 0 before two frames were recorded
func (ft *FrameTimer) FPS() float64 {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.fps()
}

// Reset discards the recorded intervals
func (ft *FrameTimer) Reset() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.intervals = ft.intervals[:0]
	ft.next = 0
	ft.last = time.Time{}
}

func (ft *FrameTimer) record(interval time.Duration) {
	if len(ft.intervals) < FPSWindow {
		ft.intervals = append(ft.intervals, interval)
		return
	}
	ft.intervals[ft.next] = interval
	ft.next = (ft.next + 1) % FPSWindow
}

func (ft *FrameTimer) fps() float64 {
	if len(ft.intervals) == 0 {
		return 0
	}
	var total time.Duration
	for _, interval := range ft.intervals {
		total += interval
	}
	if total <= 0 {
		return 0
	}
	return float64(len(ft.intervals)) / total.Seconds()
}
