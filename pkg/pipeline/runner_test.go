package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/assemblage/pkg/cache"
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/errors"
	"github.com/matzehuels/assemblage/pkg/observability"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func mustJSON(t *testing.T, c collage.Composition) []byte {
	t.Helper()
	data, err := collage.MarshalComposition(c)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestComposeDeterministic(t *testing.T) {
	opts := Options{Variation: "organic", Seed: 9}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	a, err := Compose(opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Compose(opts)
	if !bytes.Equal(mustJSON(t, a), mustJSON(t, b)) {
		t.Error("same seed should give the same composition")
	}

	opts.Seed = 10
	c, _ := Compose(opts)
	if bytes.Equal(mustJSON(t, a), mustJSON(t, c)) {
		t.Error("different seeds should give different compositions")
	}
}

func TestComposeProperties(t *testing.T) {
	for _, v := range collage.Variations {
		opts := Options{Variation: string(v)}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		comp, err := Compose(opts)
		if err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		if n := len(comp.Fragments); n < 3 || n > opts.MaxFragments {
			t.Errorf("%s: %d fragments", v, n)
		}
		if comp.Background == "" {
			t.Errorf("%s: no background", v)
		}
		if comp.BlankRatio < 0 || comp.BlankRatio > 1 {
			t.Errorf("%s: blank ratio %g", v, comp.BlankRatio)
		}
		anchors := 0
		for i, f := range comp.Fragments {
			if f.SourceImageRef < 0 || f.SourceImageRef >= opts.ImageCount {
				t.Errorf("%s: fragment %d ref %d", v, i, f.SourceImageRef)
			}
			if i > 0 && comp.Fragments[i-1].Depth > f.Depth {
				t.Errorf("%s: fragments not sorted by depth", v)
			}
			if f.ForceFullOpacity {
				anchors++
			}
		}
		if anchors > 1 {
			t.Errorf("%s: %d anchors", v, anchors)
		}
	}
}

func TestComposeNoMasks(t *testing.T) {
	opts := Options{NoMasks: true}
	_ = opts.ValidateAndSetDefaults()
	comp, _ := Compose(opts)
	for _, f := range comp.Fragments {
		if f.Mask != nil {
			t.Fatal("masks should not be assigned")
		}
	}
}

func TestFillComposition(t *testing.T) {
	opts := Options{}
	_ = opts.ValidateAndSetDefaults()
	comp, _ := Compose(opts)

	filled, res := FillComposition(comp, opts)
	if len(filled.Fragments) != len(comp.Fragments)+res.Iterations {
		t.Errorf("fragments = %d, want %d", len(filled.Fragments), len(comp.Fragments)+res.Iterations)
	}
	if filled.Cloned() != res.Iterations {
		t.Errorf("Cloned() = %d, want %d", filled.Cloned(), res.Iterations)
	}
	if filled.BlankRatio > filled.InitialBlankRatio {
		t.Errorf("blank ratio grew: %g -> %g", filled.InitialBlankRatio, filled.BlankRatio)
	}
	if comp.Cloned() != 0 {
		t.Error("input composition was modified")
	}
}

func TestRender(t *testing.T) {
	opts := Options{Formats: []string{FormatSVG, FormatPNG, FormatJSON}}
	_ = opts.ValidateAndSetDefaults()
	comp, _ := Compose(opts)

	artifacts, err := Render(comp, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should start with <svg")
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact should carry the PNG signature")
	}
	var decoded map[string]any
	if err := json.Unmarshal(artifacts[FormatJSON], &decoded); err != nil {
		t.Errorf("json artifact: %v", err)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	if _, err := Render(collage.Composition{}, Options{Formats: []string{"tiff"}}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	opts := Options{Formats: []string{FormatSVG, FormatJSON}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.ComposeHit || first.CacheInfo.FillHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if first.Stats.Fragments != len(first.Composition.Fragments) {
		t.Errorf("Stats.Fragments = %d", first.Stats.Fragments)
	}
	if first.Stats.Cloned != first.Composition.FillIterations {
		t.Errorf("Stats.Cloned = %d, iterations = %d", first.Stats.Cloned, first.Composition.FillIterations)
	}
	if first.CompositionHash == "" {
		t.Error("CompositionHash should be set")
	}
	if len(first.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(first.Artifacts))
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ComposeHit || !second.CacheInfo.FillHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit every stage: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
}

func TestRunnerExecuteNoFill(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{NoFill: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Cloned != 0 || res.Composition.FillIterations != 0 {
		t.Errorf("no-fill run cloned %d fragments", res.Stats.Cloned)
	}
	if res.Stats.InitialBlankRatio != res.Stats.BlankRatio {
		t.Errorf("blank ratio changed without fill: %g -> %g", res.Stats.InitialBlankRatio, res.Stats.BlankRatio)
	}
}

func TestRunnerUsageBypassesComposeCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	usage := collage.NewUsage(0)

	opts := Options{Usage: usage, NoFill: true}
	if _, hit, err := r.ComposeWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("first: hit=%v err=%v", hit, err)
	}
	first := usage.Total()
	if first == 0 {
		t.Fatal("usage should record picks")
	}

	if _, hit, _ := r.ComposeWithCacheInfo(ctx, opts); hit {
		t.Error("compose with a usage session must not hit the cache")
	}
	if usage.Total() != 2*first {
		t.Errorf("Total = %d, want %d", usage.Total(), 2*first)
	}
}

func TestRunnerRefreshSkipsCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Compose(ctx, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := r.ComposeWithCacheInfo(ctx, Options{}); !hit {
		t.Error("second compose should hit")
	}
	if _, hit, _ := r.ComposeWithCacheInfo(ctx, Options{Refresh: true}); hit {
		t.Error("refresh should not hit")
	}
}

func TestRunnerFillIgnoresIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	comp, _ := r.Compose(ctx, Options{})
	if _, hit, _ := r.FillWithCacheInfo(ctx, comp, Options{}); hit {
		t.Fatal("first fill should miss")
	}

	comp.ID = "stored-copy"
	comp.CreatedAt = time.Now()
	if _, hit, _ := r.FillWithCacheInfo(ctx, comp, Options{}); !hit {
		t.Error("fill of the same layout should hit regardless of ID")
	}
}

func TestRunnerRejectsOversizedCanvas(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	comp := collage.Composition{
		Canvas:    collage.Canvas{Width: 1e8, Height: 1e8},
		Fragments: []collage.Fragment{{Width: 10, Height: 10}},
	}

	if _, _, err := r.FillWithCacheInfo(ctx, comp, Options{}); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("fill err = %v, want INVALID_DIMENSIONS", err)
	}
	if _, _, err := r.RenderWithCacheInfo(ctx, comp, Options{Formats: []string{FormatPNG}}); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("render err = %v, want INVALID_DIMENSIONS", err)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	composed int
	filled   int
	rendered int
}

func (h *countingHooks) OnComposeComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.composed++
}

func (h *countingHooks) OnFillComplete(context.Context, int, float64, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filled++
}

func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered++
}

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.composed != 1 || hooks.filled != 1 || hooks.rendered != 1 {
		t.Errorf("hooks = %d/%d/%d, want 1/1/1", hooks.composed, hooks.filled, hooks.rendered)
	}
}
