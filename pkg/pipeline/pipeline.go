// Package pipeline provides the collage pipeline shared by the CLI and the API.
//
// This package implements the complete compose → fill → render pipeline. By
// centralizing this logic, every entry point applies the same defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Compose: count, plan, depth-process and mask fragments for a canvas
//  2. Fill: clone fragments into the largest blank regions
//  3. Render: generate output in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ImageCount: 6,
//	    Variation:  "organic",
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	comp, err := runner.Compose(ctx, opts)
//	comp, err = runner.Fill(ctx, comp, opts)
//	artifacts, err := runner.Render(ctx, comp, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assemblage/pkg/cache"
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/fill"
	"github.com/matzehuels/assemblage/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultImageCount is used when neither an image count nor image URLs
	// are given.
	DefaultImageCount = 5

	// DefaultComplexity scales the fragment count per image.
	DefaultComplexity = 6.0

	// DefaultMaxFragments caps the fragment count.
	DefaultMaxFragments = 8

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG pixel scale.
	DefaultScale = 1.0

	// MaxScale bounds the PNG pixel scale.
	MaxScale = 4.0

	// MaxCanvasSide bounds each canvas side so rasters stay small.
	MaxCanvasSide = collage.MaxCanvasSide
)

// DefaultVariation is the default composition variation.
const DefaultVariation = collage.Classic

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the collage pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compose options
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	ImageCount   int     `json:"image_count,omitempty"`
	Variation    string  `json:"variation,omitempty"`
	Complexity   float64 `json:"complexity,omitempty"`
	MaxFragments int     `json:"max_fragments,omitempty"`
	NoRepetition bool    `json:"no_repetition,omitempty"` // Each image at most once per cycle
	NoMasks      bool    `json:"no_masks,omitempty"`      // Skip mask assignment
	Seed         uint64  `json:"seed,omitempty"`
	Refresh      bool    `json:"refresh,omitempty"`

	// Fill options. Zero values select the fill package defaults; NoFill
	// is the way to skip filling.
	NoFill           bool    `json:"no_fill,omitempty"`
	TargetBlankRatio float64 `json:"target_blank_ratio,omitempty"`
	MaxIterations    int     `json:"max_iterations,omitempty"`
	MinBlankAreaSize float64 `json:"min_blank_area_size,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"` // Overrides the composition background
	ImageURLs  []string `json:"image_urls,omitempty"` // Indexed by source_image_ref
	Outline    bool     `json:"outline,omitempty"`
	Scale      float64  `json:"scale,omitempty"` // PNG only

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Usage receives the image picks of this run. Compositions composed
	// with a usage session are never cached.
	Usage *collage.Usage `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Composition is the final (possibly filled) layout.
	Composition collage.Composition

	// CompositionHash is the content hash of the composition.
	CompositionHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Fragments         int
	Cloned            int
	InitialBlankRatio float64
	BlankRatio        float64
	ComposeTime       time.Duration
	FillTime          time.Duration
	RenderTime        time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComposeHit bool // Whether the composition came from cache
	FillHit    bool // Whether the fill result came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVariation checks that a variation name is valid.
func ValidateVariation(name string) error {
	_, err := collage.ParseVariation(name)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompose(); err != nil {
		return err
	}
	if err := o.ValidateForFill(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetComposeDefaults sets default values for composition.
func (o *Options) SetComposeDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.ImageCount == 0 {
		o.ImageCount = len(o.ImageURLs)
	}
	if o.ImageCount == 0 {
		o.ImageCount = DefaultImageCount
	}
	if o.Variation == "" {
		o.Variation = string(DefaultVariation)
	}
	if o.Complexity == 0 {
		o.Complexity = DefaultComplexity
	}
	if o.MaxFragments == 0 {
		o.MaxFragments = DefaultMaxFragments
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompose validates and sets defaults for composition.
func (o *Options) ValidateForCompose() error {
	o.SetComposeDefaults()
	if err := o.Canvas().Validate(); err != nil {
		return err
	}
	if o.ImageCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image_count must not be negative")
	}
	if o.Complexity < 0 || o.MaxFragments < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "complexity and max_fragments must not be negative")
	}
	v, err := collage.ParseVariation(o.Variation)
	if err != nil {
		return err
	}
	o.Variation = string(v)
	return nil
}

// SetFillDefaults sets default values for negative-space filling.
func (o *Options) SetFillDefaults() {
	if o.TargetBlankRatio == 0 {
		o.TargetBlankRatio = fill.DefaultTargetBlankRatio
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = fill.DefaultMaxIterations
	}
	if o.MinBlankAreaSize == 0 {
		o.MinBlankAreaSize = fill.DefaultMinBlankAreaSize
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForFill validates and sets defaults for negative-space filling.
func (o *Options) ValidateForFill() error {
	o.SetFillDefaults()
	if o.TargetBlankRatio < 0 || o.TargetBlankRatio > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "target_blank_ratio must be within [0, 1]")
	}
	if o.MaxIterations < 0 || o.MinBlankAreaSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_iterations and min_blank_area_size must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be within (0, %g]", MaxScale)
	}
	for _, u := range o.ImageURLs {
		if err := errors.ValidateURL(u); err != nil {
			return err
		}
	}
	return nil
}

// Canvas returns the canvas described by Width and Height.
func (o *Options) Canvas() collage.Canvas {
	return collage.Canvas{Width: o.Width, Height: o.Height}
}

// Cacheable reports whether compositions may be served from or written to
// the cache. A usage session makes every run depend on earlier runs.
func (o *Options) Cacheable() bool {
	return o.Usage == nil && !o.Refresh
}

// CompositionKeyOpts returns cache key options for composition.
func (o *Options) CompositionKeyOpts() cache.CompositionKeyOpts {
	return cache.CompositionKeyOpts{
		Width:           o.Width,
		Height:          o.Height,
		ImageCount:      o.ImageCount,
		Variation:       o.Variation,
		Complexity:      o.Complexity,
		MaxFragments:    o.MaxFragments,
		AllowRepetition: !o.NoRepetition,
		Masks:           !o.NoMasks,
		Seed:            o.Seed,
	}
}

// FillKeyOpts returns cache key options for filling.
func (o *Options) FillKeyOpts() cache.FillKeyOpts {
	return cache.FillKeyOpts{
		TargetBlankRatio: o.TargetBlankRatio,
		MaxIterations:    o.MaxIterations,
		MinBlankAreaSize: o.MinBlankAreaSize,
		Seed:             o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Background: o.Background,
		Images:     o.ImageURLs,
		Outline:    o.Outline,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
