package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// FrameResult is one finished frame plus the camera state it was rendered with
type FrameResult struct {
	Image          *image.RGBA
	Width, Height  int // Display size; the traced size may be smaller, see Config.RenderScale
	FrameNumber    uint64
	CameraPosition core.Vec3
	CameraForward  core.Vec3
	CameraRight    core.Vec3
	CameraUp       core.Vec3
	Camera         Camera        // Full camera snapshot
	Duration       time.Duration // Time spent producing this frame
	FPS            float64       // Rolling frames per second
	Stats          RenderStats
}

// Session owns the mutable scene and camera shared by the display and control surfaces.
// Edits take the write lock; every frame renders from a copied snapshot.
type Session struct {
	mu       sync.RWMutex
	scene    *scene.Scene
	camera   Camera
	capacity scene.Capacity
	width    int
	height   int

	frames atomic.Uint64

	frameMu    sync.Mutex // guards cancel and generation
	cancel     context.CancelFunc
	generation uint64

	raytracer *Raytracer
	timer     *FrameTimer
	logger    core.Logger
}

// NewSession creates a session rendering sc from camera at width x height
func NewSession(raytracer *Raytracer, sc *scene.Scene, camera Camera, width, height int, logger core.Logger) (*Session, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if sc == nil {
		sc = scene.NewScene()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	camera.SetAspectRatio(float32(width) / float32(height))

	return &Session{
		scene:     sc,
		camera:    camera,
		capacity:  scene.DefaultCapacity(),
		width:     width,
		height:    height,
		raytracer: raytracer,
		timer:     NewFrameTimer(),
		logger:    logger,
	}, nil
}

// SetLogger redirects session messages such as capacity overflows
func (s *Session) SetLogger(logger core.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger == nil {
		logger = core.NopLogger{}
	}
	s.logger = logger
}

// SetCapacity changes how many entries per primitive type are rendered
func (s *Session) SetCapacity(capacity scene.Capacity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity = capacity
}

// Capacity returns the render capacity policy
func (s *Session) Capacity() scene.Capacity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

// UpdateScene applies fn to the scene under the write lock
func (s *Session) UpdateScene(fn func(sc *scene.Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.scene)
}

// ReplaceScene swaps in a new scene
func (s *Session) ReplaceScene(sc *scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc
}

// Scene returns a deep copy of the current scene
func (s *Session) Scene() *scene.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene.Clone()
}

// ExportJSON serializes every stored entry of the scene
func (s *Session) ExportJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene.ExportJSON()
}

// ImportJSON replaces the scene from a snapshot document. On error the scene is left untouched.
func (s *Session) ImportJSON(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.LoadSnapshot(data)
}

// Camera returns a copy of the camera
func (s *Session) Camera() Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

// UpdateCamera applies fn to the camera under the write lock
func (s *Session) UpdateCamera(fn func(c *Camera)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.camera)
	s.camera.SetAspectRatio(float32(s.width) / float32(s.height))
}

// Size returns the display size
func (s *Session) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Resize changes the display size and abandons the in-flight frame
func (s *Session) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s.mu.Lock()
	s.width, s.height = width, height
	s.camera.SetAspectRatio(float32(width) / float32(height))
	s.mu.Unlock()

	s.Abandon()
	s.timer.Reset()
	return nil
}

// Snapshot copies the capped scene and the camera for one frame
func (s *Session) Snapshot() Snapshot {
	snapshot, _, _ := s.snapshot()
	return snapshot
}

func (s *Session) snapshot() (Snapshot, int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	number := s.frames.Add(1)
	for _, overflow := range s.capacity.Exceeded(s.scene) {
		s.logger.Printf("Frame %d: %s\n", number, overflow)
	}

	return Snapshot{
		Frame:       s.scene.Frame(s.capacity),
		Camera:      s.camera,
		FrameNumber: number,
	}, s.width, s.height
}

// Abandon cancels the in-flight frame, if any
func (s *Session) Abandon() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// beginFrame abandons the previous frame and returns the context for a new one
func (s *Session) beginFrame(ctx context.Context) (context.Context, uint64) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	frameCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	return frameCtx, s.generation
}

func (s *Session) endFrame(generation uint64) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.generation == generation && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// RenderFrame renders the current state. Starting a frame abandons the previous one, which then
// returns context.Canceled and no image.
func (s *Session) RenderFrame(ctx context.Context) (*FrameResult, error) {
	frameCtx, generation := s.beginFrame(ctx)
	defer s.endFrame(generation)

	start := time.Now()
	snapshot, width, height := s.snapshot()
	traceWidth, traceHeight := ScaledSize(width, height, s.raytracer.Config().RenderScale)

	img, stats, err := s.raytracer.RenderFrame(frameCtx, snapshot, traceWidth, traceHeight)
	if err != nil {
		return nil, err
	}
	img = UpscaleToDisplay(img, width, height)

	camera := snapshot.Camera
	return &FrameResult{
		Image:          img,
		Width:          width,
		Height:         height,
		FrameNumber:    snapshot.FrameNumber,
		CameraPosition: camera.Position(),
		CameraForward:  camera.Forward(),
		CameraRight:    camera.Right(),
		CameraUp:       camera.Up(),
		Camera:         camera,
		Duration:       time.Since(start),
		FPS:            s.timer.Tick(),
		Stats:          stats,
	}, nil
}
