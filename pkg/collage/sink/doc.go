// Package sink renders compositions to output formats.
//
// The engine does not decode images, so the SVG and PNG sinks draw each
// fragment as a coloured rectangle keyed by its source image. When image URLs
// are supplied to the SVG sink, fragments reference them as <image> elements
// instead, cropped to the fragment box.
//
// Fragments are drawn in list order, which for engine output is depth order
// followed by fill clones. Opacity comes from the fragment's own opacity, else
// from its depth; the anchor fragment is always fully opaque.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG document
//   - [RenderPNG]: raster preview via fogleman/gg
//   - [RenderJSON]: the composition itself, indented
package sink
