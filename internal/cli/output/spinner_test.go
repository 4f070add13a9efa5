package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Spinner)
		want   string
	}{
		{"stop", (*Spinner).Stop, "\r\033[K"},
		{"success", func(s *Spinner) { s.Success("ready") }, "✓ ready\n"},
		{"fail", func(s *Spinner) { s.Fail("timed out") }, "✗ timed out\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := NewSpinner(&buf, "waiting")
			s.Start()
			time.Sleep(150 * time.Millisecond)
			s.SetMessage("still waiting")
			tt.finish(s)
			tt.finish(s)

			out := buf.String()
			if !strings.Contains(out, "waiting") {
				t.Errorf("output %q has no frame", out)
			}
			if !strings.HasSuffix(out, tt.want) || strings.Count(out, tt.want) != 1 {
				t.Errorf("output %q should end once with %q", out, tt.want)
			}
		})
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "idle")
	s.Stop()
	if got := buf.String(); got != "\r\033[K" {
		t.Errorf("output = %q", got)
	}
}
