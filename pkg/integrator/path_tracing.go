package integrator

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// PathTracingIntegrator builds one path per sample with a direct lighting pass at every bounce
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}
	if config.TMax <= config.TMin {
		config.TMin, config.TMax = DefaultConfig().TMin, DefaultConfig().TMax
	}
	if config.Lighting == (LightingConfig{}) {
		config.Lighting = DefaultLightingConfig()
	}
	return &PathTracingIntegrator{config: config}
}

// Config returns the integrator's settings
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor computes the color for a single ray by iterating bounces up to MaxDepth
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, frame *scene.Frame, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		hit, isHit := frame.NearestHit(ray, pt.config.TMin, pt.config.TMax)
		if !isHit {
			return throughput.MultiplyVec(SkyColor(ray, frame.Background()))
		}

		// Direct lighting tints the surface before the material's own attenuation
		throughput = throughput.MultiplyVec(DirectLighting(frame, hit, pt.config.Lighting))

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit reached without escaping
	return core.Vec3{}
}

// SkyColor blends from white for rays pointing straight down to background for rays pointing straight up
func SkyColor(ray core.Ray, background core.Vec3) core.Vec3 {
	t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
	return core.NewVec3(1, 1, 1).Lerp(background, t)
}
