package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Default camera placement for the built-in scenes
var (
	DefaultCameraPosition = core.NewVec3(0, 2, 5)
	DefaultCameraTarget   = core.NewVec3(0, 0, 0)
)

// NewDefaultScene creates the default scene: four spheres over a ground plane
func NewDefaultScene() *Scene {
	s := NewScene()

	// Create materials
	lambertianRed := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.1)
	glassGreen := material.NewTintedDielectric(core.NewVec3(0.9, 1.0, 0.9), 1.5)
	glassPink := material.NewTintedDielectric(core.NewVec3(1.0, 0.9, 0.9), 1.3)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, lambertianRed))
	s.AddSphere(geometry.NewSphere(core.NewVec3(-2, 0, -1), 0.5, metalSilver))
	s.AddSphere(geometry.NewSphere(core.NewVec3(2, 0, -1), 0.5, glassGreen))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 1, -2), 0.3, glassPink))

	addGround(s)
	addStudioLights(s)

	return s
}

// NewClearedScene creates an empty scene with only the ground plane
func NewClearedScene() *Scene {
	s := NewScene()
	addGround(s)
	return s
}

// NewRandomScene creates eight randomly placed spheres of random material
func NewRandomScene(random *rand.Rand) *Scene {
	s := NewClearedScene()

	for i := 0; i < 8; i++ {
		x := (float32(i)-4.0)*2.0 + (random.Float32()-0.5)*1.5
		z := -2.0 - random.Float32()*4.0
		radius := 0.3 + random.Float32()*0.5

		kind := material.Kind(random.Intn(3))
		albedo := core.NewVec3(random.Float32(), random.Float32(), random.Float32())

		s.AddSphere(geometry.NewSphere(core.NewVec3(x, 0, z), radius, presetMaterial(kind, albedo)))
	}

	addStudioLights(s)
	return s
}

// NewShowcaseScene creates a scene with one of every primitive type
func NewShowcaseScene() *Scene {
	s := NewClearedScene()

	s.AddSphere(geometry.NewSphere(core.NewVec3(-2.2, 0, 0), 1.0,
		material.NewMetal(core.NewVec3(0.9, 0.8, 0.6), 0.2)))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -0.4, 1.5), 0.6,
		material.NewDielectric(1.5)))

	s.AddBox(geometry.NewBox(core.NewVec3(0, -0.25, -1), core.NewVec3(1.5, 1.5, 1.5),
		material.NewLambertian(core.NewVec3(0.2, 0.4, 0.8))))

	s.AddCylinder(geometry.NewCylinder(core.NewVec3(2.2, -1, 0), core.NewVec3(0, 2, 0), 0.6,
		material.NewLambertian(core.NewVec3(0.8, 0.5, 0.2))))

	s.AddTriangle(geometry.NewTriangle(
		core.NewVec3(-3, -1, -3),
		core.NewVec3(3, -1, -3),
		core.NewVec3(0, 3, -3.5),
		material.NewMetal(core.NewVec3(0.95, 0.95, 0.95), 0.0),
	))

	addStudioLights(s)
	return s
}

// NewPreset builds a built-in scene by ID. The random source is only used by "random".
func NewPreset(id string, random *rand.Rand) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(), nil
	case "random":
		if random == nil {
			random = rand.New(rand.NewSource(rand.Int63()))
		}
		return NewRandomScene(random), nil
	case "cleared":
		return NewClearedScene(), nil
	case "showcase":
		return NewShowcaseScene(), nil
	default:
		return nil, fmt.Errorf("unknown scene preset %q", id)
	}
}

// addGround adds the grey ground plane at y=-1
func addGround(s *Scene) {
	s.AddPlane(geometry.NewPlane(
		core.NewVec3(0, -1, 0),
		core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	))
}

// addStudioLights adds the sun, sky and overhead lights
func addStudioLights(s *Scene) {
	s.AddLight(lights.NewPointLight(core.NewVec3(10, 10, 10), core.NewVec3(1.0, 1.0, 0.9), 200))
	s.AddLight(lights.NewPointLight(core.NewVec3(-5, 8, 5), core.NewVec3(0.7, 0.8, 1.0), 80))
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 15, 0), core.NewVec3(0.9, 0.9, 0.8), 150))
}

// presetMaterial builds a material of the given kind with the editor's defaults
func presetMaterial(kind material.Kind, albedo core.Vec3) material.Material {
	switch kind {
	case material.KindMetal:
		return material.NewMetal(albedo, 0.1)
	case material.KindDielectric:
		return material.NewTintedDielectric(albedo, 1.5)
	default:
		return material.NewLambertian(albedo)
	}
}
