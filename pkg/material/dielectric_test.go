package material

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	result, scattered := glass.Scatter(ray, hit, sampler)
	if !scattered {
		t.Error("Dielectric should always scatter")
	}

	// Clear glass: 1*0.95 + 0.05
	expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
	if !result.Attenuation.ApproxEqual(expectedAttenuation, 1e-6) {
		t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
	}

	hasRefraction := false
	for seed := int64(0); seed < 1000 && !hasRefraction; seed++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
		result, _ := glass.Scatter(ray, hit, sampler)

		// Refracted rays continue below the surface
		if result.Scattered.Direction.Y < 0 {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
}

func TestDielectricNearNormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	cosTheta := ray.Direction.Negate().Dot(hit.Normal)
	sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)
	if sinTheta/1.5 >= 1 {
		t.Fatalf("Near-normal incidence must not be total internal reflection, sinTheta=%f", sinTheta)
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(11)))
	refracted := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		result, _ := glass.Scatter(ray, hit, sampler)
		if result.Scattered.Direction.Y < 0 {
			refracted++
		}
	}

	// Schlick reflectance at normal incidence is 4%
	if refracted < trials*9/10 {
		t.Errorf("Expected most rays to refract at normal incidence, got %d/%d", refracted, trials)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Ray inside the glass at a grazing angle to the surface
	ray := core.NewRay(core.NewVec3(0, -0.1, 0), core.NewVec3(1, 0.1, 0).Normalize())
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, -1, 0),
		FrontFace: false,
	}

	for seed := int64(0); seed < 100; seed++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
		result, ok := glass.Scatter(ray, hit, sampler)
		if !ok {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Y >= 0 {
			t.Fatalf("Expected total internal reflection back into the glass, got %v", result.Scattered.Direction)
		}
	}
}

func TestDielectricTint(t *testing.T) {
	glass := NewTintedDielectric(core.NewVec3(0, 0.5, 1), 1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	result, _ := glass.Scatter(ray, hit, core.NewRandomSampler(rand.New(rand.NewSource(1))))
	expected := core.NewVec3(0.05, 0.525, 1.0)
	if !result.Attenuation.ApproxEqual(expected, 1e-6) {
		t.Errorf("Expected attenuation %v, got %v", expected, result.Attenuation)
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float32
		ior      float32
		expected float32
	}{
		{"Normal incidence glass", 1.0, 1.5, 0.04},
		{"Grazing incidence", 0.0, 1.5, 1.0},
		{"Matched index", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ior)
			if math32.Abs(got-tt.expected) > 1e-5 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
