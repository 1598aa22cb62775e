package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a resolution is in flight and
// then settles into one result line on the printer.
//
// A nil w disables the animation; the result line is still printed.
type spinner struct {
	w       io.Writer
	p       *printer
	parent  context.Context
	message string
	start   time.Time

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	started bool

	mu    sync.Mutex
	width int // width of the last rendered frame
}

// newSpinner creates a spinner for an operation running under ctx.
func newSpinner(ctx context.Context, w io.Writer, p *printer, message string) *spinner {
	return &spinner{
		w:       w,
		p:       p,
		parent:  ctx,
		message: message,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. The animation ends on its own when the
// parent context is done.
func (s *spinner) Start() {
	s.start = time.Now()
	if s.w == nil {
		return
	}
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.parent.Done():
				s.clear()
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.render(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) render(frame string) {
	text := s.message
	if elapsed := time.Since(s.start); elapsed >= time.Second {
		text += fmt.Sprintf(" (%ds)", int(elapsed.Seconds()))
	}
	line := styleSpinnerFrame.Render(frame) + " " + StyleDim.Render(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.width = lipgloss.Width(line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.width = 0
}

// Stop ends the animation and erases the status line. It is safe to call
// more than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		if s.started {
			<-s.stopped
			s.clear()
		}
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	s.p.success(format, args...)
}

// StopWithError stops the spinner and prints a failure line.
func (s *spinner) StopWithError(format string, args ...any) {
	s.Stop()
	s.p.failure(format, args...)
}

// Cancelled reports whether the operation's context ended, as opposed to
// the spinner being stopped by its caller.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
