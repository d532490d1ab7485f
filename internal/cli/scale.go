package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/collage/scale"
	"github.com/matzehuels/assemblage/pkg/errors"
)

// scaleCommand creates the scale command, which fits a mask into a box.
func (c *CLI) scaleCommand() *cobra.Command {
	var maxZoom float64

	cmd := &cobra.Command{
		Use:   "scale <mask-width> <mask-height> <target-width> <target-height>",
		Short: "Fit a mask into a target box",
		Long: `Scale computes the size of a mask that spans 90% of the constraining axis
of the target box while keeping its aspect ratio, so it always fits inside
the box. The zoom factor is capped by --max-zoom.`,
		Example: `  assemblage scale 100 50 400 400
  assemblage scale 10 10 400 400 --max-zoom 4`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, err := parseDimensions(args)
			if err != nil {
				return err
			}
			size, err := scale.ToCover(dims[0], dims[1], dims[2], dims[3], scale.WithMaxZoom(maxZoom))
			if err != nil {
				return err
			}
			c.Logger.Debug("scaled mask", "mask", fmt.Sprintf("%gx%g", dims[0], dims[1]),
				"target", fmt.Sprintf("%gx%g", dims[2], dims[3]), "max_zoom", maxZoom)

			printKeyValue("width", StyleNumber.Render(strconv.FormatFloat(size.Width, 'f', 2, 64)))
			printKeyValue("height", StyleNumber.Render(strconv.FormatFloat(size.Height, 'f', 2, 64)))
			printKeyValue("zoom", StyleNumber.Render(strconv.FormatFloat(size.Width/dims[0], 'f', 3, 64)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&maxZoom, "max-zoom", scale.DefaultMaxZoom, "maximum zoom factor")
	return cmd
}

// parseDimensions parses positional arguments as floats.
func parseDimensions(args []string) ([]float64, error) {
	dims := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidDimensions, "%q is not a number", a)
		}
		dims[i] = v
	}
	return dims, nil
}
