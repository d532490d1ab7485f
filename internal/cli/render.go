package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// renderOpts holds the command-line options for the render command.
type renderOpts struct {
	formats    string
	output     string
	imageURLs  []string
	outline    bool
	scale      float64
	background string
	noCache    bool
}

// renderCommand creates the render command for saved compositions.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [composition.json]",
		Short: "Render a composition as SVG, PNG or JSON",
		Long: `Render draws a saved composition. Fragments reference source images by
index; pass --image once per image to embed their URLs in the SVG output.`,
		Example: `  assemblage render collage.json
  assemblage render collage.json -f svg,png --scale 2 -o out/poster
  assemblage render collage.json --outline --image a.jpg --image b.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default: input name)")
	cmd.Flags().StringArrayVar(&opts.imageURLs, "image", nil, "source image URL (repeatable)")
	cmd.Flags().BoolVar(&opts.outline, "outline", false, "draw fragment outlines")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel scale")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color override")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	comp, err := collage.ReadCompositionFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded composition", "path", input, "fragments", len(comp.Fragments))

	popts := c.cfg.PipelineOptions()
	changed := cmd.Flags().Changed
	if changed("format") {
		popts.Formats = parseFormats(opts.formats)
	}
	if changed("outline") {
		popts.Outline = opts.outline
	}
	if changed("scale") {
		popts.Scale = opts.scale
	}
	if changed("background") {
		popts.Background = opts.background
	}
	popts.ImageURLs = opts.imageURLs
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, comp, popts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(basePath(opts.output, stemOf(input)), popts.Formats, artifacts, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d formats", len(paths))
	printStats(len(comp.Fragments), comp.Cloned(), comp.BlankRatio, hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
