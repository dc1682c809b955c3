package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// logsCmd prints a run's output log.
var logsCmd = &cobra.Command{
	Use:   "logs -c config.yaml <run-id>",
	Short: "Print a run's output log",
	Long: `Print the unified log of a run: the environment setup log followed by
the command's stdout. Pass --no-setup to print only the stdout portion.

Example:
  quarry logs -c quarry.yaml 64f1c7a9e4b0
  quarry logs -c quarry.yaml --no-setup 64f1c7a9e4b0`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	addConfigFlag(logsCmd)
	logsCmd.Flags().Bool("no-setup", false, "omit the environment setup log")
}

func runLogs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := buildClient(ctx, cmd, newLogger())
	if err != nil {
		return err
	}
	defer client.Close()

	noSetup, _ := cmd.Flags().GetBool("no-setup")
	log, err := client.RunLog(ctx, args[0], !noSetup)
	if err != nil {
		return err
	}

	fmt.Println(log)
	return nil
}
