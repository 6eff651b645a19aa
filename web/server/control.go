package server

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/chewxy/math32"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// maxSceneBytes bounds an imported scene document
const maxSceneBytes = 8 << 20

// PresetRequest selects a built-in scene or a scene file by ID
type PresetRequest struct {
	ID   string `json:"id"`
	Seed *int64 `json:"seed,omitempty"` // Only used by "random"
}

// CameraCommand is a batch of camera edits. Fields are applied in declaration order
// and absent fields are left alone.
type CameraCommand struct {
	Position  *scene.Vec3Doc `json:"position,omitempty"`
	Target    *scene.Vec3Doc `json:"target,omitempty"`
	Rotate    *[2]float32    `json:"rotate,omitempty"`    // Yaw, pitch deltas in degrees
	Move      *[3]float32    `json:"move,omitempty"`      // Forward, right, up distances
	Translate *scene.Vec3Doc `json:"translate,omitempty"` // World-space offset
	FOV       *float32       `json:"fov,omitempty"`       // Degrees
}

// SceneCounts reports how many entries of each type the scene stores
type SceneCounts struct {
	Spheres   int `json:"spheres"`
	Planes    int `json:"planes"`
	Boxes     int `json:"boxes"`
	Cylinders int `json:"cylinders"`
	Triangles int `json:"triangles"`
	Lights    int `json:"lights"`
}

func newSceneCounts(c scene.Capacity) SceneCounts {
	return SceneCounts{
		Spheres:   c.Spheres,
		Planes:    c.Planes,
		Boxes:     c.Boxes,
		Cylinders: c.Cylinders,
		Triangles: c.Triangles,
		Lights:    c.Lights,
	}
}

// ResizeRequest changes the display size
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func toRadians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

// handleExportScene returns every stored entry of the scene as a snapshot document
func (s *Server) handleExportScene(w http.ResponseWriter, r *http.Request) {
	data, err := s.session.ExportJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImportScene replaces the scene with the posted snapshot document
func (s *Server) handleImportScene(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read scene: %w", err))
		return
	}
	if err := s.session.ImportJSON(data); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	counts := s.session.Scene().Counts()
	s.logger.Printf("Imported scene: %d spheres, %d planes, %d boxes, %d cylinders, %d triangles, %d lights\n",
		counts.Spheres, counts.Planes, counts.Boxes, counts.Cylinders, counts.Triangles, counts.Lights)
	writeJSON(w, http.StatusOK, newSceneCounts(counts))
}

// handlePreset loads a built-in preset or a "file:<name>" scene from the scenes directory
func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := s.loadPreset(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.session.ReplaceScene(sc)
	s.logger.Printf("Loaded scene %q\n", req.ID)
	writeJSON(w, http.StatusOK, newSceneCounts(sc.Counts()))
}

func (s *Server) loadPreset(req PresetRequest) (*scene.Scene, error) {
	if strings.HasPrefix(req.ID, "file:") {
		files, err := scene.ListSceneFiles(s.config.ScenesDir)
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == req.ID {
				return loaders.LoadScene(info.FilePath)
			}
		}
		return nil, fmt.Errorf("unknown scene file %q", strings.TrimPrefix(req.ID, "file:"))
	}

	seed := s.config.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	return scene.NewPreset(req.ID, rand.New(rand.NewSource(seed)))
}

// handleGetCamera reports the current camera
func (s *Server) handleGetCamera(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCameraState(s.session.Camera()))
}

// handleCamera applies a CameraCommand and returns the resulting camera
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	var cmd CameraCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.session.UpdateCamera(func(c *renderer.Camera) {
		if cmd.Position != nil {
			c.SetPosition(cmd.Position.Vec())
		}
		if cmd.Target != nil {
			c.LookAt(cmd.Target.Vec())
		}
		if cmd.Rotate != nil {
			c.Rotate(toRadians(cmd.Rotate[0]), toRadians(cmd.Rotate[1]))
		}
		if cmd.Move != nil {
			c.MoveRelative(cmd.Move[0], cmd.Move[1], cmd.Move[2])
		}
		if cmd.Translate != nil {
			c.MoveAbsolute(cmd.Translate.Vec())
		}
		if cmd.FOV != nil {
			c.SetFOVDegrees(*cmd.FOV)
		}
	})

	writeJSON(w, http.StatusOK, newCameraState(s.session.Camera()))
}

// handleResize changes the display size, abandoning the frame in flight
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	for _, dim := range []struct {
		name  string
		value int
	}{{"width", req.Width}, {"height", req.Height}} {
		if dim.value < minDimension || dim.value > maxDimension {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%s must be between %d and %d, got: %d",
				dim.name, minDimension, maxDimension, dim.value))
			return
		}
	}

	if err := s.session.Resize(req.Width, req.Height); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Printf("Resized to %dx%d\n", req.Width, req.Height)
	writeJSON(w, http.StatusOK, req)
}
