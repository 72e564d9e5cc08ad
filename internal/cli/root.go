// Package cli implements the cobra-based CLI commands for rotkit.
//
// Each subcommand (convert, reverse, align, random, run, serve,
// conventions) is defined in its own file within this package. This file
// defines the root command that serves as the parent for all subcommands
// and handles global flags and configuration.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmr-relax/rotkit/internal/config"
	"github.com/nmr-relax/rotkit/internal/interpreter"
	"github.com/nmr-relax/rotkit/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// configPath points at a YAML config file. Empty means the default
	// location, which may be missing.
	configPath string

	// orderFlag and precisionFlag override the config file when set.
	orderFlag     string
	precisionFlag int

	// cfg is the effective configuration, loaded before any subcommand runs.
	cfg = config.Default()
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It provides help
// text, global flags and configuration loading; subcommands do the work.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rotkit",
		Short: "Rotation conversions for structural biology",
		Long: `rotkit converts between rotation matrices, axis-angle pairs, unit
quaternions, Euler angles in all twelve conventions and tilt-torsion
angles. It can reverse, compose and align rotations, draw random ones,
run batch scripts and serve the same operations over HTTP.

Angles are in radians. Euler conventions are named by their rotation
axes about the fixed frame, e.g. "zyz" or "xyz".`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/rotkit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&orderFlag, "order", "", "Default Euler convention (default from config: zyz)")
	rootCmd.PersistentFlags().IntVar(&precisionFlag, "precision", 0, "Decimal places in output (default from config: 6)")

	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewReverseCommand())
	rootCmd.AddCommand(NewAlignCommand())
	rootCmd.AddCommand(NewRandomCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewConventionsCommand())

	return rootCmd
}

// loadConfig builds cfg from the config file, the environment and the
// global flags, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("order") {
		loaded.Order = orderFlag
	}
	if flags.Changed("precision") {
		loaded.Precision = precisionFlag
	}
	if err := loaded.Validate(); err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid configuration", err)
	}

	cfg = loaded
	VerboseLog("Configuration: order=%s precision=%d queueSize=%d", cfg.Order, cfg.Precision, cfg.QueueSize)
	return nil
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError values carry their own exit codes; other errors exit with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// newLogger returns the slog logger used by the interpreter and server.
// Text at warn level by default; debug with --verbose.
func newLogger(w io.Writer, asJSON bool, level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// startInterpreter creates and starts an interpreter sized from cfg.
func startInterpreter(logger *slog.Logger, opts ...interpreter.Option) (*interpreter.Interpreter, error) {
	opts = append([]interpreter.Option{
		interpreter.WithQueueSize(cfg.QueueSize),
		interpreter.WithLogger(logger),
	}, opts...)

	interp, err := interpreter.New(opts...)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to create interpreter", err)
	}
	interp.Start()
	return interp, nil
}

// applyOnce runs fn as a single apply-mode call on a short-lived
// interpreter. Errors from fn are reported as invalid input.
func applyOnce(ctx context.Context, name string, fn func() (any, error)) (any, error) {
	interp, err := startInterpreter(newLogger(os.Stderr, false, slog.LevelWarn))
	if err != nil {
		return nil, err
	}
	defer func() { _ = interp.Stop(context.Background()) }()

	VerboseLog("Running %s", name)
	v, err := interp.Apply(ctx, name, func(context.Context) (any, error) { return fn() })
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidInput, name+" failed", err)
	}
	return v, nil
}
