package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	source      string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a web logger tagging its messages with source
func NewWebLogger(source string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		source:      source,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Print(message)

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Source:    wl.source,
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

// consoleHub fans console messages out to every connected stream
type consoleHub struct {
	mu          sync.Mutex
	subscribers map[chan ConsoleMessage]struct{}
}

func newConsoleHub() *consoleHub {
	return &consoleHub{subscribers: make(map[chan ConsoleMessage]struct{})}
}

// run forwards messages from in until done is closed
func (h *consoleHub) run(in <-chan ConsoleMessage, done <-chan struct{}) {
	for {
		select {
		case msg := <-in:
			h.broadcast(msg)
		case <-done:
			return
		}
	}
}

func (h *consoleHub) broadcast(msg ConsoleMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow subscriber, drop the message
		}
	}
}

func (h *consoleHub) subscribe() chan ConsoleMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan ConsoleMessage, 50)
	h.subscribers[ch] = struct{}{}
	return ch
}

func (h *consoleHub) unsubscribe(ch chan ConsoleMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, ch)
}
