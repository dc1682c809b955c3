// Package main is the entry point for the quarry CLI.
//
// The quarry client can be used either as a library (SDK) or through this
// standalone binary with YAML configuration.
//
// Usage:
//
//	quarry run -c config.yaml -- train.py --epochs 10  # Submit a run and wait
//	quarry status -c config.yaml <run-id>              # Show a run's status
//	quarry logs -c config.yaml <run-id>                # Print a run's log
//	quarry upload -c config.yaml local.csv data/x.csv  # Upload a file
//	quarry validate -c config.yaml                     # Validate configuration
//	quarry version                                     # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-go"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "A command-line client for the Quarry platform",
	Long: `quarry is a command-line client for the Quarry data-science platform.

It submits runs, waits for their completion, fetches logs, and uploads
project files, using a YAML config file for connection settings.

Quick start:
  1. Create a config file (quarry.yaml) with your host and project
  2. Export your API key: export QUARRY_API_KEY=...
  3. Run: quarry run -c quarry.yaml -- train.py

Example config:
  host: https://quarry.example.com
  project: alice/churn-model
  poll_interval: 10s
  max_wait: 2h`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this quarry binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quarry %s (sdk %s)\n", version, quarry.Version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
