package scene

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Frame is an immutable, capacity-truncated copy of a scene used for exactly
// one rendered frame. It is safe for concurrent use by render workers.
type Frame struct {
	spheres    []geometry.Sphere
	planes     []geometry.Plane
	boxes      []geometry.Box
	cylinders  []geometry.Cylinder
	triangles  []geometry.Triangle
	lights     []lights.PointLight
	background core.Vec3
}

// Frame copies the first entries of each type allowed by capacity
func (s *Scene) Frame(capacity Capacity) *Frame {
	return &Frame{
		spheres:    s.Spheres.First(capacity.Spheres),
		planes:     s.Planes.First(capacity.Planes),
		boxes:      s.Boxes.First(capacity.Boxes),
		cylinders:  s.Cylinders.First(capacity.Cylinders),
		triangles:  s.Triangles.First(capacity.Triangles),
		lights:     s.Lights.First(capacity.Lights),
		background: s.Background,
	}
}

// Background returns the sky color
func (f *Frame) Background() core.Vec3 {
	return f.background
}

// Lights returns the live lights. The slice must not be modified.
func (f *Frame) Lights() []lights.PointLight {
	return f.lights
}

// Counts returns the number of live entries per type
func (f *Frame) Counts() Capacity {
	return Capacity{
		Spheres:   len(f.spheres),
		Planes:    len(f.planes),
		Boxes:     len(f.boxes),
		Cylinders: len(f.cylinders),
		Triangles: len(f.triangles),
		Lights:    len(f.lights),
	}
}

// Inspection identifies the primitive behind a nearest hit
type Inspection struct {
	Kind  string // "sphere", "plane", "box", "cylinder" or "triangle"
	Index int    // Index into the scene collection of that kind
	Hit   *material.HitRecord
}

// NearestHit finds the closest intersection in (tMin, tMax) across every live primitive
func (f *Frame) NearestHit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool) {
	inspection, ok := f.Inspect(ray, tMin, tMax)
	return inspection.Hit, ok
}

// Inspect is NearestHit that also reports which primitive was hit
func (f *Frame) Inspect(ray core.Ray, tMin, tMax float32) (Inspection, bool) {
	var found Inspection
	closestT := tMax

	for i, s := range f.spheres {
		if hit, ok := s.Hit(ray, tMin, closestT); ok {
			found, closestT = Inspection{Kind: "sphere", Index: i, Hit: hit}, hit.T
		}
	}
	for i, p := range f.planes {
		if hit, ok := p.Hit(ray, tMin, closestT); ok {
			found, closestT = Inspection{Kind: "plane", Index: i, Hit: hit}, hit.T
		}
	}
	for i, b := range f.boxes {
		if hit, ok := b.Hit(ray, tMin, closestT); ok {
			found, closestT = Inspection{Kind: "box", Index: i, Hit: hit}, hit.T
		}
	}
	for i, c := range f.cylinders {
		if hit, ok := c.Hit(ray, tMin, closestT); ok {
			found, closestT = Inspection{Kind: "cylinder", Index: i, Hit: hit}, hit.T
		}
	}
	for i, t := range f.triangles {
		if hit, ok := t.Hit(ray, tMin, closestT); ok {
			found, closestT = Inspection{Kind: "triangle", Index: i, Hit: hit}, hit.T
		}
	}

	return found, found.Hit != nil
}

// Occluded reports whether any live primitive intersects the ray in (tMin, tMax)
func (f *Frame) Occluded(ray core.Ray, tMin, tMax float32) bool {
	for _, s := range f.spheres {
		if _, ok := s.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	for _, p := range f.planes {
		if _, ok := p.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	for _, b := range f.boxes {
		if _, ok := b.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	for _, c := range f.cylinders {
		if _, ok := c.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	for _, t := range f.triangles {
		if _, ok := t.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}
