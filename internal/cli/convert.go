package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

// convertFlags holds the flag values for the convert command.
type convertFlags struct {
	rotationFlags
	to string // --to: output representation
}

// NewConvertCommand creates the "convert" cobra command.
//
// The command reads one rotation in any representation and prints it in
// another. Euler input and output default to the --order convention;
// --euler-order changes the convention of the input only, which turns the
// command into a convention converter.
func NewConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a rotation between representations",
		Long: `Convert a rotation from one representation to another.

Representations: matrix, axis-angle, quaternion, euler, tilt-torsion.

Examples:
  rotkit convert --euler 0.1,0.2,0.3 --to quaternion
  rotkit convert --axis 0,0,1 --angle 1.5708 --to euler --order xyz
  rotkit convert --euler 0.1,0.2,0.3 --euler-order zyz --to euler --order xyz
  rotkit convert --matrix "0,-1,0;1,0,0;0,0,1" --to axis-angle --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.rotation(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd.Context(), cmd.OutOrStdout(), in, flags.to)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&flags.to, "to", "matrix", "Output representation")

	return cmd
}

// runConvert converts in to the representation named by rawTo and prints it.
func runConvert(ctx context.Context, w io.Writer, in convert.Rotation, rawTo string) error {
	to, err := parseOutput(rawTo, model.ReprMatrix)
	if err != nil {
		return err
	}
	order := cfg.EulerOrder()

	v, err := applyOnce(ctx, "convert", func() (any, error) {
		return convert.Convert(in, to, order)
	})
	if err != nil {
		return err
	}
	return printRotation(w, v.(convert.Rotation))
}
