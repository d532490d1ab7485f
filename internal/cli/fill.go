package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// fillOpts holds the command-line options for the fill command.
type fillOpts struct {
	target     float64
	iterations int
	minArea    float64
	seed       uint64
	output     string
	noCache    bool
	refresh    bool
}

// fillCommand creates the fill command for filling a saved composition.
func (c *CLI) fillCommand() *cobra.Command {
	opts := &fillOpts{}

	cmd := &cobra.Command{
		Use:   "fill [composition.json]",
		Short: "Fill the negative space of a composition",
		Long: `Fill clones fragments into the largest blank regions of a composition
until the blank ratio drops below the target or the iteration limit is reached.

The clone placement is seeded by the composition's own seed unless --seed is set.`,
		Example: `  assemblage fill collage.json
  assemblage fill collage.json --target 0.02 --iterations 20 -o dense.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFill(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.target, "target", 0, "target blank ratio (default from config)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "maximum iterations (default from config)")
	cmd.Flags().Float64Var(&opts.minArea, "min-area", 0, "minimum blank region area in px² (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: composition seed)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>_filled.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite the cached result")

	return cmd
}

func (c *CLI) runFill(cmd *cobra.Command, input string, opts *fillOpts) error {
	ctx := cmd.Context()

	comp, err := collage.ReadCompositionFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded composition", "path", input, "fragments", len(comp.Fragments))

	popts := c.cfg.PipelineOptions()
	popts.Seed = comp.Seed
	changed := cmd.Flags().Changed
	if changed("target") {
		popts.TargetBlankRatio = opts.target
	}
	if changed("iterations") {
		popts.MaxIterations = opts.iterations
	}
	if changed("min-area") {
		popts.MinBlankAreaSize = opts.minArea
	}
	if changed("seed") {
		popts.Seed = opts.seed
	}
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Filling negative space...")
	restore := spinner.follow()
	spinner.Start()
	filled, hit, err := runner.FillWithCacheInfo(ctx, comp, popts)
	spinner.Stop()
	restore()
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = stemOf(input) + "_filled.json"
	}
	if err := collage.WriteCompositionFile(filled, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Filled composition")
	printStats(len(filled.Fragments), filled.Cloned(), filled.BlankRatio, hit)
	printDetail("blank %.1f%% → %.1f%% in %d iterations",
		filled.InitialBlankRatio*100, filled.BlankRatio*100, filled.FillIterations)
	printFile(output)
	printNewline()
	printNextStep("Render it", "assemblage render "+output)
	return nil
}
