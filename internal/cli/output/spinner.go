package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// spinnerInterval is the delay between frames.
const spinnerInterval = 100 * time.Millisecond

// Spinner displays a progress animation on a single line.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string

	mu     sync.Mutex
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// NewSpinner creates a new spinner.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// SetMessage replaces the text shown next to the animation.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			s.mu.Unlock()
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.finish("\r\033[K")
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	s.finish(fmt.Sprintf("\r✓ %s\n", message))
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.finish(fmt.Sprintf("\r✗ %s\n", message))
}

// finish is safe to call more than once and before Start.
func (s *Spinner) finish(line string) {
	s.once.Do(func() {
		close(s.done)
		select {
		case <-s.exited:
		case <-time.After(2 * spinnerInterval):
		}
		s.mu.Lock()
		fmt.Fprint(s.w, line)
		s.mu.Unlock()
	})
}
