package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/assemblage/pkg/observability"
)

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Composing collage...")
	s.w = &buf
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Composing collage...") {
		t.Errorf("output %q does not show the message", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop alone should not count as cancellation")
	}
	if strings.Contains(buf.String(), "cancelled") {
		t.Errorf("output %q reports a cancellation after a plain Stop", buf.String())
	}
}

func TestSpinnerCancelledByParent(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Filling negative space...")
	s.w = &buf
	s.Start()
	cancel()
	<-s.stopped

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its parent context")
	}
	if !strings.Contains(buf.String(), "Filling negative space cancelled") {
		t.Errorf("output %q lacks the cancellation notice", buf.String())
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Rendering svg...")
	s.w = &bytes.Buffer{}
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("Rendering svg...")
	s.w = &bytes.Buffer{}
	s.Stop()
}

func TestSpinnerFollowsPipelineStages(t *testing.T) {
	ctx := context.Background()
	s := newSpinner("Composing collage...")
	restore := s.follow()

	if observability.Pipeline() != observability.PipelineHooks(s) {
		t.Fatal("follow should register the spinner as pipeline hooks")
	}

	observability.Pipeline().OnComposeStart(ctx, "organic", 6)
	if got, want := s.Message(), "Placing 6 images (organic layout)..."; got != want {
		t.Errorf("compose message = %q, want %q", got, want)
	}
	observability.Pipeline().OnFillStart(ctx, 12, 0.42)
	if got, want := s.Message(), "Filling negative space around 12 fragments (42% blank)..."; got != want {
		t.Errorf("fill message = %q, want %q", got, want)
	}
	observability.Pipeline().OnRenderStart(ctx, []string{"svg", "png"})
	if got, want := s.Message(), "Rendering svg, png..."; got != want {
		t.Errorf("render message = %q, want %q", got, want)
	}

	restore()
	if observability.Pipeline() == observability.PipelineHooks(s) {
		t.Error("restore should unregister the spinner")
	}
}
