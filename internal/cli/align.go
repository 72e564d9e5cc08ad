package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/model"
)

type alignFlags struct {
	from []float64
	onto []float64
	to   string
}

// NewAlignCommand creates the "align" cobra command.
func NewAlignCommand() *cobra.Command {
	flags := &alignFlags{}

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Rotation taking one direction onto another",
		Long: `Print the smallest rotation that takes the direction of --from onto
the direction of --onto. Vector lengths are ignored.

Examples:
  rotkit align --from 1,0,0 --onto 0,1,0
  rotkit align --from 0,0,1 --onto 1,1,1 --to axis-angle`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().Float64SliceVar(&flags.from, "from", nil, "Start direction x,y,z")
	cmd.Flags().Float64SliceVar(&flags.onto, "onto", nil, "Target direction x,y,z")
	cmd.Flags().StringVar(&flags.to, "to", "matrix", "Output representation")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("onto")

	return cmd
}

func runAlign(ctx context.Context, w io.Writer, flags *alignFlags) error {
	to, err := parseOutput(flags.to, model.ReprMatrix)
	if err != nil {
		return err
	}
	order := cfg.EulerOrder()

	v, err := applyOnce(ctx, "align", func() (any, error) {
		R, err := convert.Align(flags.from, flags.onto)
		if err != nil {
			return nil, err
		}
		return convert.FromMatrix(R, to, order)
	})
	if err != nil {
		return err
	}
	return printRotation(w, v.(convert.Rotation))
}
