package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Request limits
const (
	minDimension = 16
	maxDimension = 2000
	maxFrames    = 100000
)

// Server exposes a render session over HTTP
type Server struct {
	config  config.Config
	session *renderer.Session
	logger  core.Logger

	consoleChan chan ConsoleMessage
	console     *consoleHub
	done        chan struct{}
	closeOnce   sync.Once

	streamMu sync.Mutex // one streaming client renders at a time
}

// NewServer creates a server for session. Log messages written through Logger() are
// forwarded to connected streams.
func NewServer(cfg config.Config, session *renderer.Session) *Server {
	s := &Server{
		config:      cfg,
		session:     session,
		consoleChan: make(chan ConsoleMessage, 100),
		console:     newConsoleHub(),
		done:        make(chan struct{}),
	}
	s.logger = NewWebLogger("server", s.consoleChan)
	go s.console.run(s.consoleChan, s.done)
	return s
}

// Logger returns the logger whose messages reach the web console
func (s *Server) Logger() core.Logger {
	return s.logger
}

// Close stops the console fan-out
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/frame", s.handleFrame)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/scene", s.handleExportScene)
	mux.HandleFunc("POST /api/scene", s.handleImportScene)
	mux.HandleFunc("POST /api/scene/preset", s.handlePreset)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/camera", s.handleGetCamera)
	mux.HandleFunc("POST /api/camera", s.handleCamera)
	mux.HandleFunc("POST /api/resize", s.handleResize)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return withCORS(mux)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in presets and the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"` // Document location of a configuration error
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	response := ErrorResponse{Error: err.Error()}
	var configErr *scene.ConfigurationError
	if errors.As(err, &configErr) {
		response.Path = configErr.Path
	}
	writeJSON(w, status, response)
}

// decodeJSON reads a request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
