package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"

	"github.com/chewxy/math32"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// FrameUpdate is one rendered frame as sent to clients
type FrameUpdate struct {
	FrameNumber uint64      `json:"frameNumber"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	MimeType    string      `json:"mimeType"`
	ImageData   string      `json:"imageData"` // Base64 encoded image
	Camera      CameraState `json:"camera"`
	FrameTimeMs float64     `json:"frameTimeMs"`
	FPS         float64     `json:"fps"`
	Stats       Stats       `json:"stats"`
}

// CameraState reports the camera a frame was rendered with
type CameraState struct {
	Position [3]float32 `json:"position"`
	Forward  [3]float32 `json:"forward"`
	Right    [3]float32 `json:"right"`
	Up       [3]float32 `json:"up"`
	Target   [3]float32 `json:"target,omitempty"`
	Yaw      float32    `json:"yaw"`   // Degrees
	Pitch    float32    `json:"pitch"` // Degrees
	FOV      float32    `json:"fov"`   // Degrees
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	AverageLuminance float64 `json:"averageLuminance"`
	Tiles            int     `json:"tiles"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

func toDegrees(radians float32) float32 {
	return radians * 180 / math32.Pi
}

func newCameraState(camera renderer.Camera) CameraState {
	return CameraState{
		Position: camera.Position().Array(),
		Forward:  camera.Forward().Array(),
		Right:    camera.Right().Array(),
		Up:       camera.Up().Array(),
		Target:   camera.Target().Array(),
		Yaw:      toDegrees(camera.Yaw()),
		Pitch:    toDegrees(camera.Pitch()),
		FOV:      toDegrees(camera.FOV()),
	}
}

// parseImageFormat reads the "format" query parameter
func parseImageFormat(r *http.Request) (loaders.ImageFormat, error) {
	switch format := loaders.ImageFormat(r.URL.Query().Get("format")); format {
	case "":
		return loaders.FormatPNG, nil
	case loaders.FormatPNG, loaders.FormatWebP:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported frame format %q", format)
	}
}

// encodeImage converts an image to base64 in the requested format
func encodeImage(img image.Image, format loaders.ImageFormat) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, format); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// newFrameUpdate builds the client payload for a finished frame
func (s *Server) newFrameUpdate(result *renderer.FrameResult, format loaders.ImageFormat) (FrameUpdate, error) {
	imageData, err := encodeImage(result.Image, format)
	if err != nil {
		return FrameUpdate{}, fmt.Errorf("failed to encode frame: %w", err)
	}

	return FrameUpdate{
		FrameNumber: result.FrameNumber,
		Width:       result.Width,
		Height:      result.Height,
		MimeType:    "image/" + string(format),
		ImageData:   imageData,
		Camera:      newCameraState(result.Camera),
		FrameTimeMs: float64(result.Duration.Microseconds()) / 1000,
		FPS:         result.FPS,
		Stats: Stats{
			TotalPixels:      result.Stats.TotalPixels,
			TotalSamples:     result.Stats.TotalSamples,
			AverageSamples:   result.Stats.AverageSamples,
			AverageLuminance: renderer.CalculateAverageLuminance(result.Image),
			Tiles:            result.Stats.Tiles,
		},
	}, nil
}

// handleFrame renders one frame. It abandons any frame still in flight.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format, err := parseImageFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.session.RenderFrame(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, fmt.Errorf("frame abandoned: %w", err))
		return
	}

	update, err := s.newFrameUpdate(result, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// handleStream sends frames as Server-Sent Events until the client disconnects or the
// requested number of frames was delivered. Console messages are interleaved.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	format, err := parseImageFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	frames, err := parseIntParam(r.URL.Query(), "frames", 0, 0, maxFrames)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()

	consoleChan := s.console.subscribe()
	defer s.console.unsubscribe(consoleChan)
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()

	s.renderFrames(ctx, sseEventChan, format, frames)

	// Stop the console forwarder before closing the channel it writes to
	stopConsole()
	<-consoleDone
	close(sseEventChan)
	<-writerDone
}

// renderFrames renders until ctx is done or frames (if positive) were sent
func (s *Server) renderFrames(ctx context.Context, sseEventChan chan<- SSEEvent, format loaders.ImageFormat, frames int) {
	sent := 0
	for frames == 0 || sent < frames {
		result, err := s.renderStreamFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return // Client disconnected
			}
			if errors.Is(err, context.Canceled) {
				continue // Abandoned by a resize or another request, render again
			}
			s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", err))
			return
		}

		update, err := s.newFrameUpdate(result, format)
		if err != nil {
			s.sendEvent(ctx, sseEventChan, "error", err.Error())
			return
		}
		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling frame update: %v", err)
			return
		}
		if !s.sendEvent(ctx, sseEventChan, "frame", string(data)) {
			return
		}
		sent++
	}

	s.sendEvent(ctx, sseEventChan, "complete", fmt.Sprintf("Sent %d frames", sent))
}

// renderStreamFrame serializes streaming clients so they do not abandon each other's frames
func (s *Server) renderStreamFrame(ctx context.Context) (*renderer.FrameResult, error) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	return s.session.RenderFrame(ctx)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// sendEvent queues an event, returning false once the client is gone
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) bool {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
		return true
	case <-ctx.Done():
		return false
	}
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			if !s.sendEvent(ctx, sseEventChan, "console", string(data)) {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
