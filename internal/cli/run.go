package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/script"
)

type runFlags struct {
	output string
	seed   uint64
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a batch script of rotation operations",
		Long: `Run a batch script. Steps are queued on the interpreter and executed in
order; a failing step is reported without stopping the steps after it.

Scripts are JSON (comments allowed) or YAML, chosen by file extension.

Exit codes:
  2  the script is invalid
  3  the script file does not exist
  4  one or more steps failed

Examples:
  rotkit run rotations.yaml
  rotkit run rotations.json --output yaml --seed 7`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			seed := cfg.Seed
			if cmd.Flags().Changed("seed") {
				seed = &flags.seed
			}
			return runScript(cmd.Context(), cmd.OutOrStdout(), args[0], flags.output, seed)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "text", "Report format: text, json, yaml")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Base seed for random steps without their own")

	return cmd
}

func runScript(ctx context.Context, w io.Writer, path, output string, seed *uint64) error {
	if IsJSONOutput() {
		output = string(script.FormatJSON)
	}
	switch output {
	case "text", string(script.FormatJSON), string(script.FormatYAML):
	default:
		return model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("invalid --output %q: valid values are text, json, yaml", output))
	}

	s, err := script.LoadScript(path)
	if err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return err
		}
		return model.WrapCLIError(model.ExitInvalidInput, "invalid script", err)
	}
	VerboseLog("Loaded script %q with %d steps", s.Name, len(s.Steps))

	logger := newLogger(os.Stderr, false, slog.LevelWarn)
	interp, err := startInterpreter(logger)
	if err != nil {
		return err
	}
	defer func() { _ = interp.Stop(context.Background()) }()

	opts := []script.RunnerOption{
		script.WithDefaultOrder(cfg.EulerOrder()),
		script.WithRunnerLogger(logger),
	}
	if seed != nil {
		opts = append(opts, script.WithSeed(*seed))
	}

	report, err := script.NewRunner(interp, opts...).Run(ctx, s)
	if err != nil {
		var verrs script.ValidationErrors
		if errors.As(err, &verrs) {
			return model.WrapCLIError(model.ExitInvalidInput, "invalid script", err)
		}
		return model.WrapCLIError(model.ExitGeneralError, "script run interrupted", err)
	}

	report = report.Rounded(cfg.Precision)
	if output == "text" {
		err = printReportText(w, report)
	} else {
		err = report.Encode(w, script.Format(output))
	}
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write report", err)
	}

	if !report.OK() {
		return model.NewCLIError(model.ExitScriptFailed,
			fmt.Sprintf("%d of %d steps failed", report.Failed, len(report.Steps)))
	}
	return nil
}

// printReportText writes one block per step:
//
//	[0] to-quaternion (convert): ok
//	    quaternion: 1.000000 0.000000 0.000000 0.000000
//	[1] bad (convert): error: no rotation given
func printReportText(w io.Writer, report *script.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Script %q (order %s)\n", report.Name, report.Order)

	for _, step := range report.Steps {
		if step.Error != "" {
			fmt.Fprintf(&b, "[%d] %s (%s): error: %s\n", step.Index, step.Name, step.Op, step.Error)
			continue
		}
		fmt.Fprintf(&b, "[%d] %s (%s): ok\n", step.Index, step.Name, step.Op)
		for _, r := range step.Rotations {
			for _, line := range strings.Split(strings.TrimSuffix(FormatRotation(r, cfg.Precision), "\n"), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}

	fmt.Fprintf(&b, "%d steps, %d failed\n", len(report.Steps), report.Failed)
	_, err := io.WriteString(w, b.String())
	return err
}
