package pipeline

import (
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/sink"
	"github.com/matzehuels/assemblage/pkg/errors"
)

// Render generates output artifacts in the requested formats.
func Render(comp collage.Composition, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(comp, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(comp, buildPNGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(comp)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if len(opts.ImageURLs) > 0 {
		svgOpts = append(svgOpts, sink.WithImages(opts.ImageURLs))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Outline {
		svgOpts = append(svgOpts, sink.WithOutline())
	}
	return svgOpts
}

// buildPNGOptions builds PNG rendering options. Image URLs are not fetched;
// PNG output always uses placeholder colours.
func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	if opts.Outline {
		pngOpts = append(pngOpts, sink.WithPNGOutline())
	}
	return pngOpts
}
