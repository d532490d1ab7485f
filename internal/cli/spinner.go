package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/assemblage/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows a progress line on stderr while the pipeline runs.
//
// Spinner implements observability.PipelineHooks: once registered with
// follow, its message tracks the stage the runner is in (placing, filling,
// rendering). If the parent context is cancelled the line is replaced with
// a cancellation notice naming the interrupted stage.
type Spinner struct {
	observability.NoopPipelineHooks

	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	message string
	width   int
	started bool
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				if s.Cancelled() {
					s.mu.Lock()
					fmt.Fprintf(s.w, "%s %s\n", styleIconError.Render(iconError), StyleDim.Render(strings.TrimSuffix(s.message, "...")+" cancelled"))
					s.mu.Unlock()
				}
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
				s.width = max(s.width, len(s.message)+4)
				fmt.Fprintf(s.w, "\r%s", line)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and clears the line. Stop is idempotent and safe
// to call on a spinner that was never started.
func (s *Spinner) Stop() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.cancel()
	if started {
		<-s.stopped
	}
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Cancelled reports whether the parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Message returns the current spinner text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// SetMessage replaces the spinner text from the next frame on.
func (s *Spinner) SetMessage(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = fmt.Sprintf(format, args...)
}

// follow registers s as the pipeline hooks and returns a func that restores
// the previous hooks.
func (s *Spinner) follow() (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(s)
	return func() { observability.SetPipelineHooks(prev) }
}

// =============================================================================
// Pipeline Stages
// =============================================================================

// OnComposeStart implements observability.PipelineHooks.
func (s *Spinner) OnComposeStart(_ context.Context, variation string, imageCount int) {
	s.SetMessage("Placing %d images (%s layout)...", imageCount, variation)
}

// OnFillStart implements observability.PipelineHooks.
func (s *Spinner) OnFillStart(_ context.Context, fragments int, blankRatio float64) {
	s.SetMessage("Filling negative space around %d fragments (%.0f%% blank)...", fragments, blankRatio*100)
}

// OnRenderStart implements observability.PipelineHooks.
func (s *Spinner) OnRenderStart(_ context.Context, formats []string) {
	s.SetMessage("Rendering %s...", strings.Join(formats, ", "))
}
