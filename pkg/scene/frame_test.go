package scene

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

func TestFrame_NearestHitAcrossTypes(t *testing.T) {
	red := material.NewLambertian(core.NewVec3(1, 0, 0))
	blue := material.NewLambertian(core.NewVec3(0, 0, 1))

	s := NewScene()
	// Farther sphere stored first
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -10), 1, red))
	s.AddBox(geometry.NewBox(core.NewVec3(0, 0, -4), core.NewVec3(2, 2, 2), blue))
	frame := s.Frame(DefaultCapacity())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := frame.NearestHit(ray, 0.001, 1000)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math32.Abs(hit.T-3) > 1e-5 {
		t.Errorf("Expected box front at t=3, got %f", hit.T)
	}
	if hit.Material != blue {
		t.Error("Expected the box's material")
	}
}

func TestFrame_NearestHitMiss(t *testing.T) {
	frame := NewScene().Frame(DefaultCapacity())
	if _, ok := frame.NearestHit(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), 0.001, 1000); ok {
		t.Error("Empty scene should never hit")
	}
}

func TestFrame_InspectReportsPrimitive(t *testing.T) {
	s := NewScene()
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -10), 1, nil))
	s.AddTriangle(geometry.NewTriangle(core.NewVec3(-1, -1, -3), core.NewVec3(1, -1, -3), core.NewVec3(0, 1, -3), nil))
	s.AddTriangle(geometry.NewTriangle(core.NewVec3(-1, -1, -2), core.NewVec3(1, -1, -2), core.NewVec3(0, 1, -2), nil))
	frame := s.Frame(DefaultCapacity())

	inspection, ok := frame.Inspect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 1000)
	if !ok {
		t.Fatal("Expected hit")
	}
	if inspection.Kind != "triangle" || inspection.Index != 1 {
		t.Errorf("Expected triangle 1, got %s %d", inspection.Kind, inspection.Index)
	}
	if math32.Abs(inspection.Hit.T-2) > 1e-5 {
		t.Errorf("Expected t=2, got %f", inspection.Hit.T)
	}
}

func TestFrame_Occluded(t *testing.T) {
	s := NewScene()
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 5, 0), 1, nil))
	frame := s.Frame(DefaultCapacity())

	up := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	tests := []struct {
		name     string
		tMax     float32
		expected bool
	}{
		{"Blocker inside interval", 10, true},
		{"Blocker beyond interval", 3.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frame.Occluded(up, 0.001, tt.tMax); got != tt.expected {
				t.Errorf("Occluded = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFrame_TruncatedEntriesNeverHit(t *testing.T) {
	s := NewScene()
	for i := 0; i < 10; i++ {
		s.AddSphere(geometry.NewSphere(core.NewVec3(float32(i)*10, 100, 0), 1, nil))
	}
	// Eleventh sphere sits directly in front of the ray
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, nil))

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	if _, ok := s.Frame(DefaultCapacity()).NearestHit(ray, 0.001, 1000); ok {
		t.Error("Sphere beyond capacity should not render")
	}
	if _, ok := s.Frame(UnlimitedCapacity()).NearestHit(ray, 0.001, 1000); !ok {
		t.Error("Sphere should render without a capacity")
	}
}

func TestFrame_IsolatedFromEdits(t *testing.T) {
	s := NewDefaultScene()
	frame := s.Frame(DefaultCapacity())

	s.Spheres.Clear()
	s.SetBackground(core.NewVec3(0, 0, 0))

	if frame.Counts().Spheres != 4 {
		t.Errorf("Frame should keep its spheres, got %d", frame.Counts().Spheres)
	}
	if frame.Background() != DefaultBackground {
		t.Errorf("Frame background changed to %v", frame.Background())
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		id      string
		spheres int
		lights  int
	}{
		{"default", 4, 3},
		{"random", 8, 3},
		{"cleared", 0, 0},
		{"showcase", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := NewPreset(tt.id, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("NewPreset(%q) error: %v", tt.id, err)
			}
			if s.Spheres.Len() != tt.spheres || s.Lights.Len() != tt.lights {
				t.Errorf("Got %d spheres and %d lights, want %d and %d",
					s.Spheres.Len(), s.Lights.Len(), tt.spheres, tt.lights)
			}
			if s.Planes.Len() != 1 {
				t.Errorf("Expected a ground plane, got %d planes", s.Planes.Len())
			}
		})
	}

	if _, err := NewPreset("nope", nil); err == nil {
		t.Error("Expected error for unknown preset")
	}
}
