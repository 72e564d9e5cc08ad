// Package main is the entry point for the rotkit CLI.
//
// It delegates all functionality to the internal/cli package, which
// defines the cobra commands. A .env file in the working directory is
// loaded before the configuration is read.
package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/nmr-relax/rotkit/internal/cli"
)

// version, commit, and date are set at build time via ldflags
// (-X main.version=...). They provide binary identification for the
// --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
