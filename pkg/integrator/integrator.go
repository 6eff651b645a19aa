package integrator

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use over a shared frame.
type Integrator interface {
	// RayColor computes the linear (pre tone mapping) color carried back along ray
	RayColor(ray core.Ray, frame *scene.Frame, sampler core.Sampler) core.Vec3
}

// Config contains path construction parameters
type Config struct {
	MaxDepth int     // Maximum number of bounces per sample
	TMin     float32 // Closest accepted intersection, avoids self-hits
	TMax     float32 // Farthest accepted intersection
	Lighting LightingConfig
}

// DefaultConfig returns the interactive renderer's settings
func DefaultConfig() Config {
	return Config{
		MaxDepth: 5,
		TMin:     0.001,
		TMax:     1000.0,
		Lighting: DefaultLightingConfig(),
	}
}
