package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// parallelEpsilon is the smallest |normal·direction| treated as a crossing
const parallelEpsilon = 1e-4

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Normal vector
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) Plane {
	return Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Hit tests if a ray intersects with the plane
func (p Plane) Hit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool) {
	// Edits may store a non-unit normal
	normal := p.Normal.Normalize()

	denominator := ray.Direction.Dot(normal)
	if math32.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(normal) / denominator
	if !inRange(t, tMin, tMax) {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: materialOrDefault(p.Material),
	}
	hitRecord.SetFaceNormal(ray, normal)

	return hitRecord, true
}
