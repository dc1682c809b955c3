package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd shows the status of a single run.
var statusCmd = &cobra.Command{
	Use:   "status -c config.yaml <run-id>",
	Short: "Show a run's status",
	Long: `Show the current status of a run.

Prints the run's status and, once the run's results have been saved, the
output commit ID.

Example:
  quarry status -c quarry.yaml 64f1c7a9e4b0`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	addConfigFlag(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := buildClient(ctx, cmd, newLogger())
	if err != nil {
		return err
	}
	defer client.Close()

	run, err := client.RunsStatus(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run:           %s\n", run.ID)
	if run.Title != "" {
		fmt.Printf("Title:         %s\n", run.Title)
	}
	fmt.Printf("Status:        %s\n", run.Status)
	if run.OutputCommitID != "" {
		fmt.Printf("Output commit: %s\n", run.OutputCommitID)
	}
	return nil
}
