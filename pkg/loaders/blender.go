package loaders

import (
	"encoding/json"
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Blender import defaults
const (
	BlenderMeshAlbedo   = 0.7
	BlenderLightEnergy  = 10.0
	blenderMinComponent = 3
)

// BlenderDocument is the simplified scene export of a Blender add-on
type BlenderDocument struct {
	Objects []BlenderObject `json:"objects"`
}

// BlenderObject is one exported object. Only MESH and LIGHT objects are imported.
type BlenderObject struct {
	Name     string    `json:"name,omitempty"`
	Type     string    `json:"type"`
	Location []float32 `json:"location"`
	Scale    []float32 `json:"scale"`
	Energy   *float32  `json:"energy,omitempty"`
}

// ImportBlenderJSON builds a scene from a Blender export. Meshes become grey spheres at their
// location with radius scale[0]; lights become white point lights with their energy as intensity.
// Objects of other types, or without three location components, are skipped.
func ImportBlenderJSON(data []byte) (*scene.Scene, error) {
	var doc BlenderDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &scene.ConfigurationError{Msg: "malformed Blender JSON", Err: err}
	}

	s := scene.NewScene()
	for _, obj := range doc.Objects {
		if len(obj.Location) < blenderMinComponent {
			continue
		}
		location := core.NewVec3(obj.Location[0], obj.Location[1], obj.Location[2])

		switch obj.Type {
		case "MESH":
			if len(obj.Scale) < blenderMinComponent {
				continue
			}
			albedo := core.Splat(BlenderMeshAlbedo)
			s.AddSphere(geometry.NewSphere(location, obj.Scale[0], material.NewLambertian(albedo)))
		case "LIGHT":
			energy := float32(BlenderLightEnergy)
			if obj.Energy != nil {
				energy = *obj.Energy
			}
			s.AddLight(lights.NewPointLight(location, core.NewVec3(1, 1, 1), energy))
		}
	}

	return s, nil
}

// LoadBlenderScene reads and imports a Blender export file
func LoadBlenderScene(filename string) (*scene.Scene, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := ImportBlenderJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", filename, err)
	}
	return s, nil
}
