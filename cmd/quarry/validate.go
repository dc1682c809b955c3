package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-go/config"
)

// validateCmd validates a config file without contacting the deployment.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a quarry configuration file without contacting the deployment.

This command parses the YAML, applies defaults, and validates all fields.
It's useful for CI/CD pipelines or pre-deployment checks. Credentials are
not checked; only the file itself.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  quarry validate -c quarry.yaml
  quarry validate --config /etc/quarry/quarry.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConfigFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Host:          %s\n", cfg.Host)
	fmt.Printf("  Project:       %s\n", cfg.Project)
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Printf("  Max wait:      %s\n", cfg.MaxWait.Duration())
	fmt.Printf("  Max retries:   %d\n", *cfg.MaxRetries)

	return nil
}
