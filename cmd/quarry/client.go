package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-go"
	"github.com/quarrylabs/quarry-go/config"
)

// addConfigFlag registers the shared --config flag on a subcommand.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
}

// buildClient loads the config named by the --config flag and constructs
// an SDK client from it. Returned alongside the parsed config so commands
// can pick up poll tuning.
func buildClient(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*quarry.Client, *config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	opts, err := config.ClientOptions(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	client, err := quarry.New(ctx, cfg.Project, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
