package geometry

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Horizontal plane at y=0
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math32.Abs(hit.T-1.0) > tolerance {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if !hit.Point.ApproxEqual(core.NewVec3(0, 0, 0), tolerance) {
		t.Errorf("Expected hit point at origin, got %v", hit.Point)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit from above")
	}
}

func TestPlane_Hit_ParallelRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"Exactly parallel", core.NewVec3(1, 0, 0)},
		{"Nearly parallel", core.NewVec3(1, -5e-5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 1, 0), tt.direction)
			if hit, isHit := plane.Hit(ray, 0.001, 1e9); isHit {
				t.Errorf("Expected miss for parallel ray, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)

	// Ray pointing away from the plane
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	if hit, isHit := plane.Hit(ray, 0.001, 1000.0); isHit {
		t.Errorf("Expected miss for plane behind ray, but got hit at t=%f", hit.T)
	}
}

func TestPlane_Hit_BackFace(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)
	ray := core.NewRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))

	hit, isHit := plane.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit from below")
	}
	if hit.FrontFace {
		t.Error("Expected back face hit from below")
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(0, -1, 0), tolerance) {
		t.Errorf("Expected normal facing the ray, got %v", hit.Normal)
	}
}

func TestPlane_Hit_UnnormalizedNormal(t *testing.T) {
	// Stored directly, bypassing NewPlane
	plane := Plane{Point: core.NewVec3(0, -1, 0), Normal: core.NewVec3(0, 10, 0)}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math32.Abs(hit.T-2.0) > tolerance {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}
	if math32.Abs(hit.Normal.Length()-1) > tolerance {
		t.Errorf("Expected unit normal, got %v", hit.Normal)
	}
}
