package geometry

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// triangleEpsilon is the determinant threshold for rays lying in the triangle's plane
const triangleEpsilon = 1e-8

// Triangle represents a single triangle. Its normal is derived from the winding order.
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   material.Material
}

// NewTriangle creates a new triangle
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2, Material: mat}
}

// Normal returns the unit normal (V1-V0)×(V2-V0)
func (t Triangle) Normal() core.Vec3 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Normalize()
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t Triangle) Hit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle, or the triangle is degenerate
	if a > -triangleEpsilon && a < triangleEpsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tParam := f * edge2.Dot(q)
	if !inRange(tParam, tMin, tMax) {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        tParam,
		Point:    ray.At(tParam),
		Material: materialOrDefault(t.Material),
	}
	hitRecord.SetFaceNormal(ray, edge1.Cross(edge2).Normalize())

	return hitRecord, true
}
