package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Box represents an axis-aligned rectangular box
type Box struct {
	Center   core.Vec3         // Center point of the box
	Size     core.Vec3         // Full extent along each axis (width, height, depth)
	Material material.Material // Material for all faces
}

// NewBox creates a new axis-aligned box
func NewBox(center, size core.Vec3, mat material.Material) Box {
	return Box{
		Center:   center,
		Size:     size,
		Material: mat,
	}
}

// Min returns the minimum corner
func (b Box) Min() core.Vec3 {
	return b.Center.Subtract(b.Size.Multiply(0.5))
}

// Max returns the maximum corner
func (b Box) Max() core.Vec3 {
	return b.Center.Add(b.Size.Multiply(0.5))
}

// Hit tests if a ray intersects the box using the slab method
func (b Box) Hit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool) {
	lo := b.Min().Array()
	hi := b.Max().Array()
	origin := ray.Origin.Array()
	direction := ray.Direction.Array()

	tNear := math32.Inf(-1)
	tFar := math32.Inf(1)
	nearAxis, farAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		if direction[axis] == 0 {
			// Parallel to this slab: must already be between the faces
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return nil, false
			}
			continue
		}

		invD := 1.0 / direction[axis]
		t0 := (lo[axis] - origin[axis]) * invD
		t1 := (hi[axis] - origin[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear, nearAxis = t0, axis
		}
		if t1 < tFar {
			tFar, farAxis = t1, axis
		}
		if tNear > tFar {
			return nil, false
		}
	}

	t, axis := tNear, nearAxis
	if !inRange(t, tMin, tMax) || axis < 0 {
		t, axis = tFar, farAxis
		if !inRange(t, tMin, tMax) || axis < 0 {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: materialOrDefault(b.Material),
	}
	hitRecord.SetFaceNormal(ray, b.faceNormal(hitRecord.Point, axis))

	return hitRecord, true
}

// faceNormal returns the outward normal of the face crossed on the given axis
func (b Box) faceNormal(point core.Vec3, axis int) core.Vec3 {
	var n [3]float32
	if point.Array()[axis] > b.Center.Array()[axis] {
		n[axis] = 1
	} else {
		n[axis] = -1
	}
	return core.NewVec3(n[0], n[1], n[2])
}
