// internal/output/status_spinner.go
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StatusSpinner animates a single status line on stderr while a transaction
// waits to confirm, showing how long the wait has been running.
// Thread-safe for concurrent updates.
type StatusSpinner struct {
	out     io.Writer
	mu      sync.Mutex
	message string
	frame   int
	started time.Time
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewStatusSpinner creates a new StatusSpinner writing to stderr.
func NewStatusSpinner() *StatusSpinner {
	return &StatusSpinner{out: os.Stderr}
}

// Start begins the spinner animation with the given message.
func (s *StatusSpinner) Start(message string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.message = message
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		defer close(s.done)

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.render()
			}
		}
	}()
}

// Update changes the status message and redraws immediately.
func (s *StatusSpinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
	s.render()
}

// Stop halts the animation and clears the line.
func (s *StatusSpinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	<-s.done
	fmt.Fprintf(s.out, "\r%80s\r", "")
}

func (s *StatusSpinner) render() {
	s.mu.Lock()
	msg := s.message
	frame := spinnerFrames[s.frame]
	s.frame = (s.frame + 1) % len(spinnerFrames)
	elapsed := time.Since(s.started).Round(time.Second)
	s.mu.Unlock()

	fmt.Fprintf(s.out, "\r%s %s  %s          ", frame, elapsed, msg)
}
