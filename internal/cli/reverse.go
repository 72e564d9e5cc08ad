package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/convert"
)

// NewReverseCommand creates the "reverse" cobra command.
func NewReverseCommand() *cobra.Command {
	flags := &rotationFlags{}

	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Print the inverse of a rotation",
		Long: `Print the inverse of a rotation in the representation it was given in.

Euler angles keep their convention, so for zyz the reverse of
(alpha, beta, gamma) describes the same rotation as (-gamma, -beta, -alpha).

Examples:
  rotkit reverse --euler 0.1,0.2,0.3
  rotkit reverse --quaternion 0.9,0.1,0.3,0.2 --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.rotation(cmd)
			if err != nil {
				return err
			}
			return runReverse(cmd.Context(), cmd.OutOrStdout(), in)
		},
	}

	flags.bind(cmd)

	return cmd
}

func runReverse(ctx context.Context, w io.Writer, in convert.Rotation) error {
	order := cfg.EulerOrder()

	v, err := applyOnce(ctx, "reverse", func() (any, error) {
		return convert.Reverse(in, order)
	})
	if err != nil {
		return err
	}
	return printRotation(w, v.(convert.Rotation))
}
