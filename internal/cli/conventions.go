package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/model"
)

type conventionJSON struct {
	Order  string   `json:"order"`
	Kind   string   `json:"kind"`
	Axes   []string `json:"axes"`
	Active bool     `json:"default"`
}

// NewConventionsCommand creates the "conventions" cobra command.
func NewConventionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "conventions",
		Short: "List the supported Euler conventions",
		Long: `List the twelve Euler conventions. An order "abc" rotates by alpha about
the fixed a axis, then by beta about b, then by gamma about c.

Proper orders repeat the first axis and have beta in [0, pi]; Tait-Bryan
orders use three distinct axes and have beta in [-pi/2, pi/2].`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return printConventions(cmd.OutOrStdout(), cfg.EulerOrder())
		},
	}
}

func printConventions(w io.Writer, active model.EulerOrder) error {
	entries := make([]conventionJSON, 0, len(model.EulerOrders))
	for _, o := range model.EulerOrders {
		axes := o.Axes()
		kind := "tait-bryan"
		if o.IsProper() {
			kind = "proper"
		}
		entries = append(entries, conventionJSON{
			Order:  o.String(),
			Kind:   kind,
			Axes:   []string{axes[0].String(), axes[1].String(), axes[2].String()},
			Active: o == active,
		})
	}

	if IsJSONOutput() {
		return writeJSON(w, map[string]any{"conventions": entries})
	}

	if _, err := fmt.Fprintf(w, "%-8s %-12s %s\n", "ORDER", "KIND", "BETA RANGE"); err != nil {
		return err
	}
	for _, e := range entries {
		betaRange := "[-pi/2, pi/2]"
		if e.Kind == "proper" {
			betaRange = "[0, pi]"
		}
		marker := ""
		if e.Active {
			marker = "  (default)"
		}
		if _, err := fmt.Fprintf(w, "%-8s %-12s %s%s\n", e.Order, e.Kind, betaRange, marker); err != nil {
			return err
		}
	}
	return nil
}
