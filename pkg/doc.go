// Package pkg provides the core libraries for Assemblage collage layouts.
//
// # Overview
//
// Assemblage places fragments of source images on a canvas with seeded
// randomness, fills the negative space they leave with clones, and renders
// the result. The pkg directory is organized into four areas:
//
//  1. [collage] - Domain logic (fragments, placement, depth, masks, fill, sinks)
//  2. [cache], [session], [store] - Infrastructure (caching, usage sessions, archives)
//  3. [pipeline] - Orchestration (compose → fill → render)
//  4. [api], [config] - Outer surfaces (HTTP API, TOML configuration)
//
// # Architecture
//
// The typical data flow:
//
//	Canvas + image count + variation
//	         ↓
//	    [collage/placement] (fragment count, sizes, positions)
//	         ↓
//	    [collage/depth], [collage/mask] (layers, visibility, masks)
//	         ↓
//	    [collage/fill] (clone fragments into blank regions)
//	         ↓
//	    [collage/sink] (SVG/PNG/JSON output)
//
// # Quick Start
//
// Compose, fill and render a collage:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/assemblage/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    ImageCount: 6,
//	    Variation:  "focal",
//	    Formats:    []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
//   - [collage]: Fragment, Canvas, Composition and Usage types
//   - [collage/scale]: contain-style scaling of masks into target boxes
//   - [collage/size], [collage/placement]: size models and the placement planner
//   - [collage/depth], [collage/mask]: post-processing and mask assignment
//   - [collage/fill]: the negative-space filler
//   - [collage/sink]: SVG, PNG and JSON renderers
//   - [pipeline]: shared CLI/API orchestration with caching
//   - [cache]: file, redis and null caches
//   - [session]: image-usage sessions (memory and file backends)
//   - [store]: composition archive (memory and MongoDB backends)
//   - [observability]: pipeline, cache and server hooks
//   - [errors]: coded errors shared by every entry point
package pkg
