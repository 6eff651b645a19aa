package scene

import (
	"encoding/json"
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// ConfigurationError reports a malformed scene document. The scene the
// document was meant for is left untouched.
type ConfigurationError struct {
	Path string // Location inside the document, e.g. "spheres[2].radius"
	Msg  string
	Err  error // Underlying decode error, if any
}

func (e *ConfigurationError) Error() string {
	msg := "invalid scene configuration"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Vec3Doc is a vector as it appears in a scene document
type Vec3Doc struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func docVec(v core.Vec3) Vec3Doc { return Vec3Doc{X: v.X, Y: v.Y, Z: v.Z} }

// Vec returns the document vector as a core.Vec3
func (d Vec3Doc) Vec() core.Vec3 { return core.NewVec3(d.X, d.Y, d.Z) }

// MaterialDoc is a material as it appears in a scene document
type MaterialDoc struct {
	Type      int     `json:"type"` // 0 lambertian, 1 metal, 2 dielectric
	Albedo    Vec3Doc `json:"albedo"`
	Roughness float32 `json:"roughness"`
	IOR       float32 `json:"ior"`
}

// SphereDoc is the document form of geometry.Sphere
type SphereDoc struct {
	Center   Vec3Doc     `json:"center"`
	Radius   float32     `json:"radius"`
	Material MaterialDoc `json:"material"`
}

// PlaneDoc is the document form of geometry.Plane
type PlaneDoc struct {
	Point    Vec3Doc     `json:"point"`
	Normal   Vec3Doc     `json:"normal"`
	Material MaterialDoc `json:"material"`
}

// BoxDoc is the document form of geometry.Box
type BoxDoc struct {
	Center   Vec3Doc     `json:"center"`
	Size     Vec3Doc     `json:"size"`
	Material MaterialDoc `json:"material"`
}

// CylinderDoc is the document form of geometry.Cylinder
type CylinderDoc struct {
	Base     Vec3Doc     `json:"base"`
	Axis     Vec3Doc     `json:"axis"`
	Radius   float32     `json:"radius"`
	Material MaterialDoc `json:"material"`
}

// TriangleDoc is the document form of geometry.Triangle
type TriangleDoc struct {
	V0       Vec3Doc     `json:"v0"`
	V1       Vec3Doc     `json:"v1"`
	V2       Vec3Doc     `json:"v2"`
	Material MaterialDoc `json:"material"`
}

// LightDoc is the document form of lights.PointLight
type LightDoc struct {
	Position  Vec3Doc `json:"position"`
	Color     Vec3Doc `json:"color"`
	Intensity float32 `json:"intensity"`
}

// Snapshot is the textual scene document. Export writes every stored entry,
// including those beyond any render capacity.
type Snapshot struct {
	Spheres         []SphereDoc   `json:"spheres"`
	Planes          []PlaneDoc    `json:"planes"`
	Boxes           []BoxDoc      `json:"boxes"`
	Cylinders       []CylinderDoc `json:"cylinders"`
	Triangles       []TriangleDoc `json:"triangles"`
	Lights          []LightDoc    `json:"lights"`
	BackgroundColor *Vec3Doc      `json:"background_color"`
}

// Snapshot converts the scene into its document form
func (s *Scene) Snapshot() Snapshot {
	background := docVec(s.Background)
	snap := Snapshot{
		Spheres:         make([]SphereDoc, 0, s.Spheres.Len()),
		Planes:          make([]PlaneDoc, 0, s.Planes.Len()),
		Boxes:           make([]BoxDoc, 0, s.Boxes.Len()),
		Cylinders:       make([]CylinderDoc, 0, s.Cylinders.Len()),
		Triangles:       make([]TriangleDoc, 0, s.Triangles.Len()),
		Lights:          make([]LightDoc, 0, s.Lights.Len()),
		BackgroundColor: &background,
	}

	for _, sp := range s.Spheres.All() {
		snap.Spheres = append(snap.Spheres, SphereDoc{
			Center: docVec(sp.Center), Radius: sp.Radius, Material: docMaterial(sp.Material),
		})
	}
	for _, p := range s.Planes.All() {
		snap.Planes = append(snap.Planes, PlaneDoc{
			Point: docVec(p.Point), Normal: docVec(p.Normal), Material: docMaterial(p.Material),
		})
	}
	for _, b := range s.Boxes.All() {
		snap.Boxes = append(snap.Boxes, BoxDoc{
			Center: docVec(b.Center), Size: docVec(b.Size), Material: docMaterial(b.Material),
		})
	}
	for _, c := range s.Cylinders.All() {
		snap.Cylinders = append(snap.Cylinders, CylinderDoc{
			Base: docVec(c.Base), Axis: docVec(c.Axis), Radius: c.Radius, Material: docMaterial(c.Material),
		})
	}
	for _, t := range s.Triangles.All() {
		snap.Triangles = append(snap.Triangles, TriangleDoc{
			V0: docVec(t.V0), V1: docVec(t.V1), V2: docVec(t.V2), Material: docMaterial(t.Material),
		})
	}
	for _, l := range s.Lights.All() {
		snap.Lights = append(snap.Lights, LightDoc{
			Position: docVec(l.Position), Color: docVec(l.Color), Intensity: l.Intensity,
		})
	}

	return snap
}

// ExportJSON serializes the scene to an indented JSON document
func (s *Scene) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Snapshot(), "", "  ")
}

// ImportJSON parses and validates a scene document into a new scene
func ImportJSON(data []byte) (*Scene, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &ConfigurationError{Msg: "malformed JSON", Err: err}
	}
	return FromSnapshot(snap)
}

// LoadSnapshot replaces the scene's contents with the parsed document.
// On error the scene is unchanged.
func (s *Scene) LoadSnapshot(data []byte) error {
	loaded, err := ImportJSON(data)
	if err != nil {
		return err
	}
	*s = *loaded
	return nil
}

// FromSnapshot validates a document and builds a scene from it
func FromSnapshot(snap Snapshot) (*Scene, error) {
	s := NewScene()
	if snap.BackgroundColor != nil {
		s.Background = snap.BackgroundColor.Vec()
	}

	for i, d := range snap.Spheres {
		path := fmt.Sprintf("spheres[%d]", i)
		mat, err := buildMaterial(path, d.Material)
		if err != nil {
			return nil, err
		}
		if d.Radius <= 0 {
			return nil, &ConfigurationError{Path: path + ".radius", Msg: "must be positive"}
		}
		s.AddSphere(geometry.NewSphere(d.Center.Vec(), d.Radius, mat))
	}
	for i, d := range snap.Planes {
		path := fmt.Sprintf("planes[%d]", i)
		mat, err := buildMaterial(path, d.Material)
		if err != nil {
			return nil, err
		}
		if d.Normal.Vec().IsZero() {
			return nil, &ConfigurationError{Path: path + ".normal", Msg: "must be non-zero"}
		}
		// Stored as given so export reproduces the document
		s.AddPlane(geometry.Plane{Point: d.Point.Vec(), Normal: d.Normal.Vec(), Material: mat})
	}
	for i, d := range snap.Boxes {
		path := fmt.Sprintf("boxes[%d]", i)
		mat, err := buildMaterial(path, d.Material)
		if err != nil {
			return nil, err
		}
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			return nil, &ConfigurationError{Path: path + ".size", Msg: "must be positive on every axis"}
		}
		s.AddBox(geometry.NewBox(d.Center.Vec(), d.Size.Vec(), mat))
	}
	for i, d := range snap.Cylinders {
		path := fmt.Sprintf("cylinders[%d]", i)
		mat, err := buildMaterial(path, d.Material)
		if err != nil {
			return nil, err
		}
		if d.Radius <= 0 {
			return nil, &ConfigurationError{Path: path + ".radius", Msg: "must be positive"}
		}
		if d.Axis.Vec().IsZero() {
			return nil, &ConfigurationError{Path: path + ".axis", Msg: "must be non-zero"}
		}
		s.AddCylinder(geometry.NewCylinder(d.Base.Vec(), d.Axis.Vec(), d.Radius, mat))
	}
	for i, d := range snap.Triangles {
		path := fmt.Sprintf("triangles[%d]", i)
		mat, err := buildMaterial(path, d.Material)
		if err != nil {
			return nil, err
		}
		s.AddTriangle(geometry.NewTriangle(d.V0.Vec(), d.V1.Vec(), d.V2.Vec(), mat))
	}
	for i, d := range snap.Lights {
		if d.Intensity < 0 {
			return nil, &ConfigurationError{Path: fmt.Sprintf("lights[%d].intensity", i), Msg: "must not be negative"}
		}
		s.AddLight(lights.NewPointLight(d.Position.Vec(), d.Color.Vec(), d.Intensity))
	}

	return s, nil
}

func docMaterial(m material.Material) MaterialDoc {
	switch mat := m.(type) {
	case *material.Metal:
		return MaterialDoc{Type: int(material.KindMetal), Albedo: docVec(mat.Color), Roughness: mat.Roughness}
	case *material.Dielectric:
		return MaterialDoc{Type: int(material.KindDielectric), Albedo: docVec(mat.Tint), IOR: mat.RefractiveIndex}
	case *material.Lambertian:
		return MaterialDoc{Type: int(material.KindLambertian), Albedo: docVec(mat.Color)}
	default:
		return docMaterial(material.Default())
	}
}

func buildMaterial(path string, d MaterialDoc) (material.Material, error) {
	path += ".material"
	switch material.Kind(d.Type) {
	case material.KindLambertian:
		return material.NewLambertian(d.Albedo.Vec()), nil
	case material.KindMetal:
		if d.Roughness < 0 || d.Roughness > 1 {
			return nil, &ConfigurationError{Path: path + ".roughness", Msg: "must be within [0, 1]"}
		}
		return material.NewMetal(d.Albedo.Vec(), d.Roughness), nil
	case material.KindDielectric:
		if d.IOR <= 0 {
			return nil, &ConfigurationError{Path: path + ".ior", Msg: "must be positive"}
		}
		return material.NewTintedDielectric(d.Albedo.Vec(), d.IOR), nil
	default:
		return nil, &ConfigurationError{Path: path + ".type", Msg: fmt.Sprintf("unknown material type %d", d.Type)}
	}
}
