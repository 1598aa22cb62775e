package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func TestSpinner_AnimatesUntilSuccess(t *testing.T) {
	var status syncBuffer
	var out bytes.Buffer

	s := newSpinner(context.Background(), &status, newPrinter(&out), "Resolving org.foo:bar:1.0.2")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.StopWithSuccess("Downloaded %s", "org.foo:bar:1.0.2")

	if !strings.Contains(status.String(), "Resolving org.foo:bar:1.0.2") {
		t.Errorf("status line never rendered: %q", status.String())
	}
	if !strings.HasSuffix(status.String(), "\r") {
		t.Errorf("status line not cleared: %q", status.String())
	}
	if strings.Contains(status.String(), "Downloaded") {
		t.Error("result line written to the status stream")
	}
	if !strings.Contains(out.String(), "Downloaded org.foo:bar:1.0.2") {
		t.Errorf("result line = %q", out.String())
	}
}

func TestSpinner_QuietPrintsResultOnly(t *testing.T) {
	var out bytes.Buffer

	s := newSpinner(context.Background(), nil, newPrinter(&out), "Resolving org.foo:bar:1.0.2-SNAPSHOT")
	s.Start()
	s.StopWithError("%s not found in %d repositories", "org.foo:bar:1.0.2-SNAPSHOT", 2)

	if got := out.String(); !strings.Contains(got, "org.foo:bar:1.0.2-SNAPSHOT not found in 2 repositories") {
		t.Errorf("result line = %q", got)
	}
	if strings.Contains(out.String(), "Resolving") {
		t.Error("status text leaked into the result stream")
	}
}

func TestSpinner_Cancelled(t *testing.T) {
	tests := []struct {
		name   string
		cancel bool
		want   bool
	}{
		{"resolution interrupted", true, true},
		{"stopped by caller", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var status syncBuffer
			s := newSpinner(ctx, &status, newPrinter(&bytes.Buffer{}), "Resolving org.foo:baz:2.0")
			s.Start()
			if tt.cancel {
				cancel()
			}
			s.Stop()

			if got := s.Cancelled(); got != tt.want {
				t.Errorf("Cancelled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpinner_StopsWhenParentEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*spinnerInterval)
	defer cancel()

	var status syncBuffer
	s := newSpinner(ctx, &status, newPrinter(&bytes.Buffer{}), "Resolving org.foo:baz:2.0")
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("animation still running after the context ended")
	}
	s.Stop()
	s.Stop()
}

func TestSpinner_ShowsElapsedTime(t *testing.T) {
	var status syncBuffer
	s := newSpinner(context.Background(), &status, newPrinter(&bytes.Buffer{}), "Resolving org.foo:bar:1.0.2")
	s.start = time.Now().Add(-3 * time.Second)
	s.render(spinnerFrames[0])

	if !strings.Contains(status.String(), "(3s)") {
		t.Errorf("status line = %q, want elapsed seconds", status.String())
	}
}
