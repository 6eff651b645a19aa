package material

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Color     core.Vec3 // Metal color
	Roughness float32   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, roughness float32) *Metal {
	// Clamp roughness to valid range
	if roughness > 1.0 {
		roughness = 1.0
	}
	if roughness < 0.0 {
		roughness = 0.0
	}
	return &Metal{Color: albedo, Roughness: roughness}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)

	// Perturb the mirror direction by the roughness
	direction := reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Roughness)).Normalize()

	// Directions below the surface are absorbed
	if direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Color,
	}, true
}

// Kind implements Material
func (m *Metal) Kind() Kind { return KindMetal }

// Albedo implements Material
func (m *Metal) Albedo() core.Vec3 { return m.Color }

func (m *Metal) material() {}
