package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the time between frames.
const spinnerInterval = 80 * time.Millisecond

// Spinner draws a progress indicator on one terminal line until stopped or
// until its context is cancelled. The message can change while it runs.
type Spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	started atomic.Bool
	stopped atomic.Bool

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
	frame   int
}

// newSpinner creates a spinner on stderr.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner on stderr that stops when ctx is
// cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{w: w, ctx: ctx, cancel: cancel, message: message, done: make(chan struct{})}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw()
			}
		}
	}()
}

func (s *Spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	glyph := spinnerFrames[s.frame%len(spinnerFrames)]
	s.frame++
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.cancel()
	if s.started.Load() {
		<-s.done
	}
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithWarning stops the spinner and prints a warning line.
func (s *Spinner) StopWithWarning(message string) {
	s.Stop()
	printWarning("%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil && !s.stopped.Load()
}
