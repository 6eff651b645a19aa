package integrator

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// LightingConfig controls the direct lighting pass
type LightingConfig struct {
	Ambient       core.Vec3 // Added regardless of occlusion
	ShadowEpsilon float32   // Offset of shadow ray origins along the normal
}

// DefaultLightingConfig returns the standard ambient term and shadow offset
func DefaultLightingConfig() LightingConfig {
	return LightingConfig{
		Ambient:       core.NewVec3(0.1, 0.1, 0.1),
		ShadowEpsilon: 1e-3,
	}
}

// DirectLighting sums the unoccluded contribution of every live light at the hit point plus ambient
func DirectLighting(frame *scene.Frame, hit *material.HitRecord, config LightingConfig) core.Vec3 {
	eps := config.ShadowEpsilon
	origin := hit.Point.Add(hit.Normal.Multiply(eps))

	diffuse := core.Vec3{}
	for _, light := range frame.Lights() {
		sample := light.Sample(hit.Point)

		shadowRay := core.NewRay(origin, sample.Direction)
		if frame.Occluded(shadowRay, eps, sample.Distance-eps) {
			continue
		}

		cosine := max(hit.Normal.Dot(sample.Direction), 0)
		diffuse = diffuse.Add(sample.Emission.Multiply(cosine))
	}

	return config.Ambient.Add(diffuse)
}
