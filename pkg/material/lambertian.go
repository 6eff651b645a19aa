package material

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Color core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Color: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Normal plus a point on the unit sphere gives a cosine-weighted direction
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))
	if direction.LengthSquared() < 1e-12 {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction.Normalize()),
		Attenuation: l.Color,
	}, true
}

// Kind implements Material
func (l *Lambertian) Kind() Kind { return KindLambertian }

// Albedo implements Material
func (l *Lambertian) Albedo() core.Vec3 { return l.Color }

func (l *Lambertian) material() {}
