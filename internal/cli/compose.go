package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/pipeline"
	"github.com/matzehuels/assemblage/pkg/session"
)

// composeOpts holds the command-line options for the compose command.
// Flags that are not set keep the value from the config file.
type composeOpts struct {
	width        float64
	height       float64
	images       int
	variation    string
	complexity   float64
	maxFragments int
	noRepetition bool
	noMasks      bool
	seed         uint64

	noFill     bool
	target     float64
	iterations int
	minArea    float64

	formats    string
	output     string
	imageURLs  []string
	outline    bool
	scale      float64
	background string

	session     bool
	maxRepeats  int
	noCache     bool
	refresh     bool
	interactive bool
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	opts := &composeOpts{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a collage and render it",
		Long: `Compose places image fragments on a canvas, fills the negative space they
leave with clones, and renders the result.

Each fragment refers to a source image by index. Pass --image once per image
to embed URLs in the SVG output; otherwise --images sets the image count.`,
		Example: `  assemblage compose --images 6 --variation organic -o collage.svg
  assemblage compose -f svg,png,json --seed 7 -o out/collage
  assemblage compose --session --max-repeats 2 --no-repetition`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	flags.Float64Var(&opts.height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	flags.IntVarP(&opts.images, "images", "n", pipeline.DefaultImageCount, "number of source images")
	flags.StringVar(&opts.variation, "variation", string(pipeline.DefaultVariation), "layout variation: classic, organic, focal")
	flags.Float64Var(&opts.complexity, "complexity", pipeline.DefaultComplexity, "fragments per image multiplier")
	flags.IntVar(&opts.maxFragments, "max-fragments", pipeline.DefaultMaxFragments, "maximum number of fragments")
	flags.BoolVar(&opts.noRepetition, "no-repetition", false, "use each image at most once until all are used")
	flags.BoolVar(&opts.noMasks, "no-masks", false, "do not assign masks")
	flags.Uint64Var(&opts.seed, "seed", pipeline.DefaultSeed, "random seed")

	flags.BoolVar(&opts.noFill, "no-fill", false, "skip negative-space filling")
	flags.Float64Var(&opts.target, "target", 0, "target blank ratio for filling (default from config)")
	flags.IntVar(&opts.iterations, "iterations", 0, "maximum fill iterations (default from config)")
	flags.Float64Var(&opts.minArea, "min-area", 0, "minimum blank region area in px² (default from config)")

	flags.StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, json (comma-separated)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file or base path (default collage)")
	flags.StringArrayVar(&opts.imageURLs, "image", nil, "source image URL (repeatable)")
	flags.BoolVar(&opts.outline, "outline", false, "draw fragment outlines")
	flags.Float64Var(&opts.scale, "scale", 0, "PNG pixel scale")
	flags.StringVar(&opts.background, "background", "", "background color override")

	flags.BoolVar(&opts.session, "session", false, "track image usage in the CLI session")
	flags.IntVar(&opts.maxRepeats, "max-repeats", 0, "cap how often each image is used per session")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached stages")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "pick the variation interactively")

	return cmd
}

// composePipelineOptions overlays the flags that were set on the config defaults.
func (c *CLI) composePipelineOptions(cmd *cobra.Command, opts *composeOpts) pipeline.Options {
	p := c.cfg.PipelineOptions()
	changed := cmd.Flags().Changed

	if changed("width") {
		p.Width = opts.width
	}
	if changed("height") {
		p.Height = opts.height
	}
	if changed("images") {
		p.ImageCount = opts.images
	}
	if changed("variation") {
		p.Variation = opts.variation
	}
	if changed("complexity") {
		p.Complexity = opts.complexity
	}
	if changed("max-fragments") {
		p.MaxFragments = opts.maxFragments
	}
	if changed("no-repetition") {
		p.NoRepetition = opts.noRepetition
	}
	if changed("no-masks") {
		p.NoMasks = opts.noMasks
	}
	if changed("seed") {
		p.Seed = opts.seed
	}
	if changed("no-fill") {
		p.NoFill = opts.noFill
	}
	if changed("target") {
		p.TargetBlankRatio = opts.target
	}
	if changed("iterations") {
		p.MaxIterations = opts.iterations
	}
	if changed("min-area") {
		p.MinBlankAreaSize = opts.minArea
	}
	if changed("format") {
		p.Formats = parseFormats(opts.formats)
	}
	if changed("outline") {
		p.Outline = opts.outline
	}
	if changed("scale") {
		p.Scale = opts.scale
	}
	if changed("background") {
		p.Background = opts.background
	}
	if len(opts.imageURLs) > 0 {
		p.ImageURLs = opts.imageURLs
		if !changed("images") {
			p.ImageCount = len(opts.imageURLs)
		}
	}
	p.Refresh = opts.refresh
	p.Logger = c.Logger
	return p
}

func (c *CLI) runCompose(cmd *cobra.Command, opts *composeOpts) error {
	ctx := cmd.Context()
	popts := c.composePipelineOptions(cmd, opts)

	if opts.interactive {
		v, err := pickVariation(popts.Variation)
		if err != nil {
			return err
		}
		if v == "" {
			printDetail("No selection made")
			return nil
		}
		popts.Variation = string(v)
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var (
		store *session.CLIStore
		sess  *session.Session
	)
	if opts.session {
		var err error
		if store, err = session.NewCLIStore(sessionDir()); err != nil {
			return err
		}
		maxRepeats := opts.maxRepeats
		if maxRepeats == 0 {
			maxRepeats = c.cfg.Layout.MaxRepeats
		}
		if sess, err = store.LoadOrCreate(ctx, maxRepeats); err != nil {
			return err
		}
		popts.Usage = sess.Usage
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Composing collage...")
	restore := spinner.follow()
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	restore()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(basePath(opts.output, "collage"), popts.Formats, result.Artifacts, "")
	if err != nil {
		return err
	}

	if sess != nil {
		sess.Touch(session.DefaultTTL)
		if err := store.SaveSession(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	prog.done(fmt.Sprintf("Wrote %d files", len(paths)))

	printComposeResult(result, paths, sess)
	return nil
}

func printComposeResult(result *pipeline.Result, paths []string, sess *session.Session) {
	comp := result.Composition
	printSuccess("Composed %s collage", StyleHighlight.Render(string(comp.Variation)))
	printStats(result.Stats.Fragments, result.Stats.Cloned, result.Stats.BlankRatio, result.CacheInfo.ComposeHit)
	if comp.FillIterations > 0 {
		printDetail("blank %.1f%% → %.1f%% in %d iterations",
			result.Stats.InitialBlankRatio*100, result.Stats.BlankRatio*100, comp.FillIterations)
	}
	for _, p := range paths {
		printFile(p)
	}
	if sess != nil {
		printDetail("session: %d compositions, %d image uses", sess.Compositions, sess.Usage.Total())
	}
	if len(paths) > 0 && strings.HasSuffix(paths[0], "."+pipeline.FormatJSON) {
		printNewline()
		printNextStep("Render it", "assemblage render "+paths[0])
	}
}

// pickVariation runs the interactive variation picker. It returns an empty
// variation when the user quits without choosing.
func pickVariation(current string) (collage.Variation, error) {
	m := NewVariationListModel(collage.Variations)
	if v, err := collage.ParseVariation(current); err == nil {
		for i, candidate := range m.Variations {
			if candidate == v {
				m.Cursor = i
			}
		}
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(VariationListModel)
	if !ok || fm.Selected == nil {
		return "", nil
	}
	return *fm.Selected, nil
}
