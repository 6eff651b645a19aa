package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// cylinderEpsilon is the threshold below which the ray is parallel to the side or a cap
const cylinderEpsilon = 1e-6

// Cylinder represents a finite cylinder closed by two end caps
type Cylinder struct {
	Base     core.Vec3 // Center of the bottom cap
	Axis     core.Vec3 // Direction from base to top cap; its length is the height
	Radius   float32
	Material material.Material
}

// NewCylinder creates a new cylinder
func NewCylinder(base, axis core.Vec3, radius float32, mat material.Material) Cylinder {
	return Cylinder{
		Base:     base,
		Axis:     axis,
		Radius:   radius,
		Material: mat,
	}
}

// Top returns the center of the top cap
func (c Cylinder) Top() core.Vec3 {
	return c.Base.Add(c.Axis)
}

// Hit tests if a ray intersects with the cylinder side or either cap
func (c Cylinder) Hit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool) {
	height := c.Axis.Length()
	if height == 0 || c.Radius <= 0 {
		return nil, false
	}
	axis := c.Axis.Divide(height)

	closestT := tMax
	var outwardNormal core.Vec3
	found := false

	if t, n, ok := c.hitSide(ray, axis, height, tMin, closestT); ok {
		closestT, outwardNormal, found = t, n, true
	}
	if t, ok := c.hitCap(ray, c.Base, axis, tMin, closestT); ok {
		closestT, outwardNormal, found = t, axis.Negate(), true
	}
	if t, ok := c.hitCap(ray, c.Top(), axis, tMin, closestT); ok {
		closestT, outwardNormal, found = t, axis, true
	}

	if !found {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        closestT,
		Point:    ray.At(closestT),
		Material: materialOrDefault(c.Material),
	}
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// hitSide intersects the infinite cylinder and keeps roots between the caps
func (c Cylinder) hitSide(ray core.Ray, axis core.Vec3, height, tMin, tMax float32) (float32, core.Vec3, bool) {
	delta := ray.Origin.Subtract(c.Base)

	dv := ray.Direction.Dot(axis)
	deltaV := delta.Dot(axis)

	// a = |D|² - (D·V)², b = 2[Δ·D - (Δ·V)(D·V)], cc = |Δ|² - (Δ·V)² - r²
	a := ray.Direction.LengthSquared() - dv*dv
	if math32.Abs(a) < cylinderEpsilon {
		return 0, core.Vec3{}, false
	}
	b := 2.0 * (delta.Dot(ray.Direction) - deltaV*dv)
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return 0, core.Vec3{}, false
	}
	sqrtD := math32.Sqrt(discriminant)

	for _, t := range [2]float32{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		if !inRange(t, tMin, tMax) {
			continue
		}
		h := ray.At(t).Subtract(c.Base).Dot(axis)
		if h < 0 || h > height {
			continue
		}
		axisPoint := c.Base.Add(axis.Multiply(h))
		return t, ray.At(t).Subtract(axisPoint).Normalize(), true
	}

	return 0, core.Vec3{}, false
}

// hitCap intersects the disc of the cylinder's radius centered at center
func (c Cylinder) hitCap(ray core.Ray, center, axis core.Vec3, tMin, tMax float32) (float32, bool) {
	denominator := ray.Direction.Dot(axis)
	if math32.Abs(denominator) < cylinderEpsilon {
		return 0, false
	}

	t := center.Subtract(ray.Origin).Dot(axis) / denominator
	if !inRange(t, tMin, tMax) {
		return 0, false
	}
	if ray.At(t).Subtract(center).LengthSquared() > c.Radius*c.Radius {
		return 0, false
	}

	return t, true
}
