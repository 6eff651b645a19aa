package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/integrator"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

const (
	testWidth  = 32
	testHeight = 16
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	var cfg config.Config
	cfg.Resolve(config.Flags{Width: testWidth, Height: testHeight, SamplesPerPixel: 1, MaxDepth: 2, Workers: 2})
	cfg.ScenesDir = t.TempDir()

	rt := renderer.NewRaytracer(integrator.NewPathTracingIntegrator(cfg.IntegratorConfig()), cfg.RendererConfig())
	t.Cleanup(rt.Close)

	session, err := renderer.NewSession(rt, scene.NewDefaultScene(), cfg.BuildCamera(), cfg.Width, cfg.Height, nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	srv := NewServer(cfg, session)
	t.Cleanup(srv.Close)
	session.SetLogger(srv.Logger())
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header")
	}
}

func TestHandleFrame(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/frame", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var update FrameUpdate
	decode(t, w, &update)

	if update.Width != testWidth || update.Height != testHeight {
		t.Errorf("Expected %dx%d, got %dx%d", testWidth, testHeight, update.Width, update.Height)
	}
	if update.MimeType != "image/png" {
		t.Errorf("Expected image/png, got %s", update.MimeType)
	}
	if update.Stats.TotalPixels != testWidth*testHeight {
		t.Errorf("Expected %d pixels, got %d", testWidth*testHeight, update.Stats.TotalPixels)
	}
	if update.Camera.Position != scene.DefaultCameraPosition.Array() {
		t.Errorf("Expected camera at %v, got %v", scene.DefaultCameraPosition, update.Camera.Position)
	}

	data, err := base64.StdEncoding.DecodeString(update.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != testWidth || img.Bounds().Dy() != testHeight {
		t.Errorf("Unexpected image bounds %v", img.Bounds())
	}
}

func TestHandleFrame_Formats(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query    string
		status   int
		mimeType string
	}{
		{"?format=png", http.StatusOK, "image/png"},
		{"?format=webp", http.StatusOK, "image/webp"},
		{"?format=bmp", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/api/frame"+tt.query, "")
			if w.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, w.Code)
			}
			if tt.status != http.StatusOK {
				return
			}
			var update FrameUpdate
			decode(t, w, &update)
			if update.MimeType != tt.mimeType {
				t.Errorf("Expected %s, got %s", tt.mimeType, update.MimeType)
			}
		})
	}
}

func TestHandleScene_ExportImport(t *testing.T) {
	srv := newTestServer(t)

	exported := do(t, srv, http.MethodGet, "/api/scene", "")
	if exported.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", exported.Code)
	}
	if _, err := scene.ImportJSON(exported.Body.Bytes()); err != nil {
		t.Fatalf("Exported scene does not import: %v", err)
	}

	// Replace with an empty scene, then restore the export
	do(t, srv, http.MethodPost, "/api/scene/preset", `{"id":"cleared"}`)
	w := do(t, srv, http.MethodPost, "/api/scene", exported.Body.String())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var counts SceneCounts
	decode(t, w, &counts)
	if counts.Spheres != 4 || counts.Planes != 1 || counts.Lights != 3 {
		t.Errorf("Unexpected counts after import: %+v", counts)
	}
}

func TestHandleImportScene_InvalidDocument(t *testing.T) {
	srv := newTestServer(t)
	before := do(t, srv, http.MethodGet, "/api/scene", "").Body.String()

	w := do(t, srv, http.MethodPost, "/api/scene", `{"spheres":[{"center":{"x":0,"y":0,"z":0},"radius":-1}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if resp.Path != "spheres[0].radius" {
		t.Errorf("Expected path spheres[0].radius, got %q", resp.Path)
	}

	if after := do(t, srv, http.MethodGet, "/api/scene", "").Body.String(); after != before {
		t.Errorf("Rejected import changed the scene")
	}
}

func TestHandlePreset(t *testing.T) {
	srv := newTestServer(t)
	if err := loaders.SaveScene(filepath.Join(srv.config.ScenesDir, "my-scene.json"), scene.NewShowcaseScene()); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	showcase := scene.NewShowcaseScene().Counts()

	tests := []struct {
		name    string
		body    string
		status  int
		spheres int
	}{
		{"cleared", `{"id":"cleared"}`, http.StatusOK, 0},
		{"default", `{"id":"default"}`, http.StatusOK, 4},
		{"random with seed", `{"id":"random","seed":7}`, http.StatusOK, 8},
		{"scene file", `{"id":"file:my-scene"}`, http.StatusOK, showcase.Spheres},
		{"unknown preset", `{"id":"nope"}`, http.StatusBadRequest, 0},
		{"unknown file", `{"id":"file:missing"}`, http.StatusBadRequest, 0},
		{"unknown field", `{"scene":"default"}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/scene/preset", tt.body)
			if w.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var counts SceneCounts
			decode(t, w, &counts)
			if counts.Spheres != tt.spheres {
				t.Errorf("Expected %d spheres, got %d", tt.spheres, counts.Spheres)
			}
			if got := srv.session.Scene().Counts().Spheres; got != tt.spheres {
				t.Errorf("Session scene has %d spheres, expected %d", got, tt.spheres)
			}
		})
	}
}

func TestHandleScenes(t *testing.T) {
	srv := newTestServer(t)
	if err := loaders.SaveScene(filepath.Join(srv.config.ScenesDir, "glass.json"), scene.NewDefaultScene()); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	w := do(t, srv, http.MethodGet, "/api/scenes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp scene.ScenesResponse
	decode(t, w, &resp)

	if len(resp.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(resp.Groups))
	}
	if resp.Groups[0].Name != "Built-in Scenes" || len(resp.Groups[0].Scenes) != len(scene.BuiltInScenes()) {
		t.Errorf("Unexpected built-in group %+v", resp.Groups[0])
	}
	if resp.Groups[1].Scenes[0].ID != "file:glass" {
		t.Errorf("Expected file:glass, got %s", resp.Groups[1].Scenes[0].ID)
	}
}

func TestHandleCamera(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/camera", "")
	var initial CameraState
	decode(t, w, &initial)
	if math32.Abs(initial.FOV-renderer.DefaultFOVDegrees) > 1e-3 {
		t.Errorf("Expected default FOV, got %f", initial.FOV)
	}

	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, state CameraState)
	}{
		{
			name:   "fov",
			body:   `{"fov":60}`,
			status: http.StatusOK,
			check: func(t *testing.T, state CameraState) {
				if math32.Abs(state.FOV-60) > 1e-3 {
					t.Errorf("Expected FOV 60, got %f", state.FOV)
				}
			},
		},
		{
			name:   "position and target",
			body:   `{"position":{"x":0,"y":0,"z":10},"target":{"x":0,"y":0,"z":0}}`,
			status: http.StatusOK,
			check: func(t *testing.T, state CameraState) {
				if state.Position != [3]float32{0, 0, 10} {
					t.Errorf("Expected position (0,0,10), got %v", state.Position)
				}
				if math32.Abs(state.Forward[2]+1) > 1e-5 {
					t.Errorf("Expected forward -Z, got %v", state.Forward)
				}
			},
		},
		{
			name:   "translate",
			body:   `{"translate":{"x":1,"y":0,"z":0}}`,
			status: http.StatusOK,
			check: func(t *testing.T, state CameraState) {
				if math32.Abs(state.Position[0]-1) > 1e-5 {
					t.Errorf("Expected x=1, got %v", state.Position)
				}
			},
		},
		{
			name:   "pitch clamp",
			body:   `{"rotate":[0,1000]}`,
			status: http.StatusOK,
			check: func(t *testing.T, state CameraState) {
				if math32.Abs(state.Pitch-renderer.MaxPitchDegrees) > 1e-3 {
					t.Errorf("Expected pitch clamped to %.0f, got %f", renderer.MaxPitchDegrees, state.Pitch)
				}
			},
		},
		{name: "unknown field", body: `{"zoom":2}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"fov":`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/camera", tt.body)
			if w.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.check != nil {
				var state CameraState
				decode(t, w, &state)
				tt.check(t, state)
			}
		})
	}
}

func TestHandleResize(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/resize", `{"width":64,"height":48}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if width, height := srv.session.Size(); width != 64 || height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", width, height)
	}

	for _, body := range []string{`{"width":1,"height":48}`, `{"width":64,"height":5000}`} {
		if w := do(t, srv, http.MethodPost, "/api/resize", body); w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", body, w.Code)
		}
	}
	if width, height := srv.session.Size(); width != 64 || height != 48 {
		t.Errorf("Rejected resize changed the size to %dx%d", width, height)
	}
}

func TestHandleInspect(t *testing.T) {
	srv := newTestServer(t)

	// The default camera looks straight at the red sphere at the origin
	w := do(t, srv, http.MethodGet, "/api/inspect?x=16&y=8", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp InspectResponse
	decode(t, w, &resp)

	if !resp.Hit || resp.GeometryType != "sphere" || resp.Index != 0 {
		t.Fatalf("Expected a hit on sphere 0, got %+v", resp)
	}
	if resp.MaterialType != "lambertian" {
		t.Errorf("Expected lambertian, got %s", resp.MaterialType)
	}
	if !resp.FrontFace {
		t.Errorf("Expected a front face hit")
	}
	// Camera sits sqrt(29) from the center of a unit sphere
	if expected := math32.Sqrt(29) - 1; math32.Abs(resp.Distance-expected) > 0.05 {
		t.Errorf("Expected distance near %f, got %f", expected, resp.Distance)
	}
}

func TestHandleInspect_Miss(t *testing.T) {
	srv := newTestServer(t)
	srv.session.ReplaceScene(scene.NewScene())

	w := do(t, srv, http.MethodGet, "/api/inspect?x=16&y=8", "")
	var resp InspectResponse
	decode(t, w, &resp)
	if resp.Hit {
		t.Errorf("Expected a miss in an empty scene, got %+v", resp)
	}
}

func TestHandleInspect_InvalidCoordinates(t *testing.T) {
	srv := newTestServer(t)

	for _, query := range []string{"", "?x=1", "?x=-1&y=0", "?x=0&y=16", "?x=a&y=0"} {
		if w := do(t, srv, http.MethodGet, "/api/inspect"+query, ""); w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %q, got %d", query, w.Code)
		}
	}
}

func TestHandleStream(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/stream?frames=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", contentType)
	}

	body := w.Body.String()
	if got := strings.Count(body, "event: frame\n"); got != 2 {
		t.Errorf("Expected 2 frame events, got %d", got)
	}
	if !strings.Contains(body, "event: complete\ndata: Sent 2 frames\n\n") {
		t.Errorf("Expected a complete event, got %q", body)
	}
}

func TestHandleStream_InvalidFrames(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, http.MethodGet, "/api/stream?frames=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, http.MethodDelete, "/api/scene", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}
