package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// uploadCmd uploads a local file into the project.
var uploadCmd = &cobra.Command{
	Use:   "upload -c config.yaml <local-file> <project-path>",
	Short: "Upload a file to the project",
	Long: `Upload a local file to a path inside the project, creating a new
commit on the deployment.

Example:
  quarry upload -c quarry.yaml ./features.csv data/features.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	addConfigFlag(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := buildClient(ctx, cmd, newLogger())
	if err != nil {
		return err
	}
	defer client.Close()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer file.Close()

	if err := client.FileUpload(ctx, args[1], file); err != nil {
		return err
	}

	fmt.Printf("Uploaded %s to %s\n", args[0], args[1])
	return nil
}
