package scene

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// DefaultBackground is the sky blue every new scene starts with
var DefaultBackground = core.NewVec3(0.5, 0.7, 1.0)

// Scene contains all the elements needed for rendering. Entries are stored
// without limit; per-type caps are applied when a Frame is built.
type Scene struct {
	Spheres    Collection[geometry.Sphere]
	Planes     Collection[geometry.Plane]
	Boxes      Collection[geometry.Box]
	Cylinders  Collection[geometry.Cylinder]
	Triangles  Collection[geometry.Triangle]
	Lights     Collection[lights.PointLight]
	Background core.Vec3
}

// NewScene creates an empty scene with the default background
func NewScene() *Scene {
	grey := material.Default()
	return &Scene{
		Spheres: NewCollection(geometry.NewSphere(core.Vec3{}, 1, grey)),
		Planes:  NewCollection(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), grey)),
		Boxes:   NewCollection(geometry.NewBox(core.Vec3{}, core.Splat(1), grey)),
		Cylinders: NewCollection(geometry.NewCylinder(
			core.Vec3{}, core.NewVec3(0, 1, 0), 1, grey)),
		Triangles: NewCollection(geometry.NewTriangle(
			core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), grey)),
		Lights:     NewCollection(lights.NewPointLight(core.Vec3{}, core.Splat(1), 0)),
		Background: DefaultBackground,
	}
}

// AddSphere adds a sphere and returns its index
func (s *Scene) AddSphere(sphere geometry.Sphere) int { return s.Spheres.Add(sphere) }

// AddPlane adds a plane and returns its index
func (s *Scene) AddPlane(plane geometry.Plane) int { return s.Planes.Add(plane) }

// AddBox adds a box and returns its index
func (s *Scene) AddBox(box geometry.Box) int { return s.Boxes.Add(box) }

// AddCylinder adds a cylinder and returns its index
func (s *Scene) AddCylinder(cylinder geometry.Cylinder) int { return s.Cylinders.Add(cylinder) }

// AddTriangle adds a triangle and returns its index
func (s *Scene) AddTriangle(triangle geometry.Triangle) int { return s.Triangles.Add(triangle) }

// AddLight adds a point light and returns its index
func (s *Scene) AddLight(light lights.PointLight) int { return s.Lights.Add(light) }

// SetBackground sets the sky color used for rays that escape the scene
func (s *Scene) SetBackground(color core.Vec3) {
	s.Background = color
}

// Clone returns an independent deep copy. Materials are shared; they are
// never mutated in place.
func (s *Scene) Clone() *Scene {
	return &Scene{
		Spheres:    s.Spheres.clone(),
		Planes:     s.Planes.clone(),
		Boxes:      s.Boxes.clone(),
		Cylinders:  s.Cylinders.clone(),
		Triangles:  s.Triangles.clone(),
		Lights:     s.Lights.clone(),
		Background: s.Background,
	}
}

// Counts returns the number of stored entries per type
func (s *Scene) Counts() Capacity {
	return Capacity{
		Spheres:   s.Spheres.Len(),
		Planes:    s.Planes.Len(),
		Boxes:     s.Boxes.Len(),
		Cylinders: s.Cylinders.Len(),
		Triangles: s.Triangles.Len(),
		Lights:    s.Lights.Len(),
	}
}

// GetPrimitiveCount returns the total number of stored primitives, lights excluded
func (s *Scene) GetPrimitiveCount() int {
	c := s.Counts()
	return c.Spheres + c.Planes + c.Boxes + c.Cylinders + c.Triangles
}
