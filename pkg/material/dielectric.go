package material

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	Tint            core.Vec3 // Slight color tint applied on every bounce
	RefractiveIndex float32   // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float32) *Dielectric {
	return NewTintedDielectric(core.NewVec3(1, 1, 1), refractiveIndex)
}

// NewTintedDielectric creates a dielectric with a color tint
func NewTintedDielectric(tint core.Vec3, refractiveIndex float32) *Dielectric {
	return &Dielectric{Tint: tint, RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Mostly transparent with a slight tint
	attenuation := d.Tint.Multiply(0.95).Add(core.Splat(0.05))

	// Determine if we're entering or exiting the material
	var refractionRatio float32
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // Ray is entering the material (from air to glass)
	} else {
		refractionRatio = d.RefractiveIndex // Ray is exiting the material (from glass to air)
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math32.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math32.Sqrt(math32.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, d.RefractiveIndex) > sampler.Get1D() {
		direction = unitDirection.Reflect(hit.Normal)
	} else if refracted, ok := unitDirection.Refract(hit.Normal, refractionRatio); ok {
		direction = refracted
	} else {
		direction = unitDirection.Reflect(hit.Normal)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// Kind implements Material
func (d *Dielectric) Kind() Kind { return KindDielectric }

// Albedo implements Material
func (d *Dielectric) Albedo() core.Vec3 { return d.Tint }

func (d *Dielectric) material() {}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractiveIndex float32) float32 {
	// R0 is the reflectance at normal incidence
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}
