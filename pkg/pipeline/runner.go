package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assemblage/pkg/cache"
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeComposition = "composition"
	keyTypeFill        = "fill"
	keyTypeArtifact    = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, as long as they don't share a Usage.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → fill → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Compose
	composeStart := time.Now()
	comp, composeHit, err := r.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Stats.ComposeTime = time.Since(composeStart)
	result.CacheInfo.ComposeHit = composeHit

	r.Logger.Info("composed layout",
		"variation", comp.Variation,
		"fragments", len(comp.Fragments),
		"blank", fmt.Sprintf("%.3f", comp.BlankRatio),
		"duration", result.Stats.ComposeTime)

	// Stage 2: Fill
	if !opts.NoFill {
		fillStart := time.Now()
		filled, fillHit, err := r.FillWithCacheInfo(ctx, comp, opts)
		if err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		comp = filled
		result.Stats.FillTime = time.Since(fillStart)
		result.CacheInfo.FillHit = fillHit

		r.Logger.Info("filled negative space",
			"iterations", comp.FillIterations,
			"cloned", comp.Cloned(),
			"blank", fmt.Sprintf("%.3f", comp.BlankRatio),
			"duration", result.Stats.FillTime)
	}

	result.Composition = comp
	result.Stats.Fragments = len(comp.Fragments)
	result.Stats.Cloned = comp.Cloned()
	result.Stats.InitialBlankRatio = comp.InitialBlankRatio
	result.Stats.BlankRatio = comp.BlankRatio
	if opts.NoFill {
		result.Stats.InitialBlankRatio = comp.BlankRatio
	}
	if hash, err := compositionHash(comp); err == nil {
		result.CompositionHash = hash
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, comp, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComposeWithCacheInfo generates a composition with caching and returns cache hit info.
// The cache is skipped when a usage session is attached or a refresh is requested.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, opts Options) (collage.Composition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompose(); err != nil {
		return collage.Composition{}, false, err
	}

	cacheKey := r.Keyer.CompositionKey(opts.CompositionKeyOpts())

	// Try cache first
	if opts.Cacheable() {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := collage.UnmarshalComposition(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeComposition)
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeComposition)
	}

	start := time.Now()
	observability.Pipeline().OnComposeStart(ctx, opts.Variation, opts.ImageCount)
	comp, err := Compose(opts)
	observability.Pipeline().OnComposeComplete(ctx, opts.Variation, len(comp.Fragments), time.Since(start), err)
	if err != nil {
		return collage.Composition{}, false, err
	}

	// Cache the result
	if opts.Cacheable() {
		r.store(ctx, keyTypeComposition, cacheKey, comp, r.ttl(cache.TTLComposition))
	}

	return comp, false, nil // Cache miss
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, opts Options) (collage.Composition, error) {
	comp, _, err := r.ComposeWithCacheInfo(ctx, opts)
	return comp, err
}

// FillWithCacheInfo fills a composition's negative space with caching and returns cache hit info.
func (r *Runner) FillWithCacheInfo(ctx context.Context, comp collage.Composition, opts Options) (collage.Composition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFill(); err != nil {
		return collage.Composition{}, false, err
	}
	if err := comp.Canvas.Validate(); err != nil {
		return collage.Composition{}, false, err
	}

	hash, err := compositionHash(comp)
	if err != nil {
		return collage.Composition{}, false, fmt.Errorf("serialize composition for cache key: %w", err)
	}
	cacheKey := r.Keyer.FillKey(hash, opts.FillKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := collage.UnmarshalComposition(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeFill)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeFill)
	}

	start := time.Now()
	observability.Pipeline().OnFillStart(ctx, len(comp.Fragments), comp.BlankRatio)
	filled, res := FillComposition(comp, opts)
	observability.Pipeline().OnFillComplete(ctx, res.Iterations, res.FinalBlankRatio, time.Since(start))

	if !opts.Refresh {
		r.store(ctx, keyTypeFill, cacheKey, filled, r.ttl(cache.TTLFill))
	}

	return filled, false, nil
}

// Fill is a convenience wrapper that calls FillWithCacheInfo and discards the cache hit info.
func (r *Runner) Fill(ctx context.Context, comp collage.Composition, opts Options) (collage.Composition, error) {
	filled, _, err := r.FillWithCacheInfo(ctx, comp, opts)
	return filled, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, comp collage.Composition, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := comp.Canvas.Validate(); err != nil {
		return nil, false, err
	}

	// Compute cache key from composition data
	hash, err := compositionHash(comp)
	if err != nil {
		return nil, false, fmt.Errorf("serialize composition for cache key: %w", err)
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	// Render all formats
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(comp, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, comp collage.Composition, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, comp, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a composition to the cache, ignoring cache failures.
func (r *Runner) store(ctx context.Context, keyType, key string, comp collage.Composition, ttl time.Duration) {
	data, err := collage.MarshalComposition(comp)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// compositionHash is the content hash used to key fill and render results.
// Creation time and ID do not affect the layout, so they are left out.
func compositionHash(comp collage.Composition) (string, error) {
	comp.ID = ""
	comp.CreatedAt = time.Time{}
	data, err := collage.MarshalComposition(comp)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
