package integrator

import (
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func groundHit() *material.HitRecord {
	return &material.HitRecord{
		Point:     core.Vec3{},
		Normal:    core.NewVec3(0, 1, 0),
		T:         1,
		FrontFace: true,
		Material:  material.Default(),
	}
}

func TestDirectLighting(t *testing.T) {
	tests := []struct {
		name     string
		build    func(s *scene.Scene)
		expected core.Vec3
	}{
		{
			name:     "No lights gives ambient",
			build:    func(s *scene.Scene) {},
			expected: core.Splat(0.1),
		},
		{
			name: "Overhead light",
			build: func(s *scene.Scene) {
				// 10 / (3² + 1) = 1
				s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(1, 0.5, 0.25), 10))
			},
			expected: core.NewVec3(1.1, 0.6, 0.35),
		},
		{
			name: "Light below the surface",
			build: func(s *scene.Scene) {
				s.AddLight(lights.NewPointLight(core.NewVec3(0, -3, 0), core.NewVec3(1, 1, 1), 10))
			},
			expected: core.Splat(0.1),
		},
		{
			name: "Occluded light",
			build: func(s *scene.Scene) {
				s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1), 10))
				s.AddSphere(geometry.NewSphere(core.NewVec3(0, 1.5, 0), 0.5, nil))
			},
			expected: core.Splat(0.1),
		},
		{
			name: "Blocker beyond the light",
			build: func(s *scene.Scene) {
				s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1), 10))
				s.AddSphere(geometry.NewSphere(core.NewVec3(0, 6, 0), 0.5, nil))
			},
			expected: core.Splat(1.1),
		},
		{
			name: "Two lights add",
			build: func(s *scene.Scene) {
				s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1), 10))
				s.AddLight(lights.NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1), 2))
			},
			expected: core.Splat(2.1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene()
			tt.build(s)
			frame := s.Frame(scene.DefaultCapacity())

			got := DirectLighting(frame, groundHit(), DefaultLightingConfig())
			if !got.ApproxEqual(tt.expected, 1e-4) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDirectLighting_RespectsLightCapacity(t *testing.T) {
	s := scene.NewScene()
	for i := 0; i < 6; i++ {
		s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 1), 10))
	}

	got := DirectLighting(s.Frame(scene.DefaultCapacity()), groundHit(), DefaultLightingConfig())

	// Only four lights are live
	expected := core.Splat(4.1)
	if !got.ApproxEqual(expected, 1e-4) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
