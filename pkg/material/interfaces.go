package material

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Kind identifies a material variant. The numeric values are the wire codes
// used by scene snapshots.
type Kind int

const (
	KindLambertian Kind = 0
	KindMetal      Kind = 1
	KindDielectric Kind = 2
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return "unknown"
	}
}

// Material is a closed set of surface models: *Lambertian, *Metal and *Dielectric.
type Material interface {
	// Scatter decides how a ray continues after hitting the surface.
	// Returns false when the path is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Kind reports the variant for serialization
	Kind() Kind

	// Albedo returns the base color of the surface
	Albedo() core.Vec3

	material()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, facing the incoming ray
	T         float32   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Default returns the neutral grey diffuse material
func Default() Material {
	return NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
}
