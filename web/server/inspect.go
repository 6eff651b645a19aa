package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Inspection ray limits
const (
	inspectTMin = 0.001
	inspectTMax = 1000
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Index        int                    `json:"index"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = m.Color.Array()
		properties["color"] = hexColor(m.Color)
	case *material.Metal:
		properties["albedo"] = m.Color.Array()
		properties["color"] = hexColor(m.Color)
		properties["roughness"] = m.Roughness
	case *material.Dielectric:
		properties["tint"] = m.Tint.Array()
		properties["color"] = hexColor(m.Tint)
		properties["refractiveIndex"] = m.RefractiveIndex
	default:
		return "unknown", properties
	}
	return mat.Kind().String(), properties
}

// extractGeometryInfo describes the primitive at index of the given kind
func extractGeometryInfo(sc *scene.Scene, kind string, index int) map[string]interface{} {
	properties := make(map[string]interface{})

	switch kind {
	case "sphere":
		sphere := sc.Spheres.Get(index)
		properties["center"] = sphere.Center.Array()
		properties["radius"] = sphere.Radius
	case "plane":
		plane := sc.Planes.Get(index)
		properties["point"] = plane.Point.Array()
		properties["normal"] = plane.Normal.Array()
	case "box":
		box := sc.Boxes.Get(index)
		properties["center"] = box.Center.Array()
		properties["size"] = box.Size.Array()
	case "cylinder":
		cylinder := sc.Cylinders.Get(index)
		properties["base"] = cylinder.Base.Array()
		properties["axis"] = cylinder.Axis.Array()
		properties["radius"] = cylinder.Radius
	case "triangle":
		triangle := sc.Triangles.Get(index)
		properties["v0"] = triangle.V0.Array()
		properties["v1"] = triangle.V1.Array()
		properties["v2"] = triangle.V2.Array()
	}
	return properties
}

// handleInspect casts a ray through the center of pixel (x, y) of the current view
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	width, height := s.session.Size()
	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, errors.New("x and y are required"))
		return
	}

	x, err := parseFloatParam(query, "x", 0, 0, float64(width-1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseFloatParam(query, "y", 0, 0, float64(height-1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Pixel center, no jitter
	camera := s.session.Camera()
	ray := camera.Ray(float32(x)+0.5, float32(y)+0.5, width, height)

	sc := s.session.Scene()
	inspection, ok := sc.Frame(s.session.Capacity()).Inspect(ray, inspectTMin, inspectTMax)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Index: -1})
		return
	}

	hit := inspection.Hit
	materialType, materialProps := extractMaterialInfo(hit.Material)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: inspection.Kind,
		Index:        inspection.Index,
		MaterialType: materialType,
		Point:        hit.Point.Array(),
		Normal:       hit.Normal.Array(),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": extractGeometryInfo(sc, inspection.Kind, inspection.Index),
		},
	})
}
