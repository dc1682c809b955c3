package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-go"
	"github.com/quarrylabs/quarry-go/config"
)

// runCmd submits a run and blocks until it completes.
var runCmd = &cobra.Command{
	Use:   "run -c config.yaml -- <file> [args...]",
	Short: "Submit a run and wait for it to finish",
	Long: `Submit a run to the deployment and wait for it to finish.

The command polls the run's status at the configured interval until the
run completes, the wall-clock budget is exhausted, or too many consecutive
status fetches fail. On completion the run's output log is printed to
stdout.

Exit codes:
  0 - Run succeeded
  1 - Run failed, timed out, or could not be polled

Example:
  quarry run -c quarry.yaml -- train.py --epochs 10
  quarry run -c quarry.yaml --title "nightly" --tier gpu-small -- train.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addConfigFlag(runCmd)
	runCmd.Flags().String("title", "", "title for the run")
	runCmd.Flags().String("tier", "", "hardware tier to run on")
	runCmd.Flags().String("commit", "", "input commit to launch from")
	runCmd.Flags().Bool("direct", false, "pass the command directly to a shell")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	// let Ctrl+C abort the wait; the run keeps executing remotely
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, cfg, err := buildClient(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	runOpts, err := runOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	run, log, err := client.RunsStartBlocking(ctx, args, runOpts, config.WaitOptions(cfg)...)
	if err != nil {
		var failed *quarry.RunFailedError
		if errors.As(err, &failed) {
			// surface the remote log before failing
			fmt.Fprintln(os.Stderr, failed.Log)
			return fmt.Errorf("run %s finished with status %s", failed.RunID, failed.Status)
		}
		return err
	}

	fmt.Println(log)
	logger.Info("run succeeded", "run_id", run.ID, "output_commit", run.OutputCommitID)
	return nil
}

func runOptionsFromFlags(cmd *cobra.Command) ([]quarry.RunOption, error) {
	var opts []quarry.RunOption

	if title, _ := cmd.Flags().GetString("title"); title != "" {
		opts = append(opts, quarry.WithTitle(title))
	}
	if tier, _ := cmd.Flags().GetString("tier"); tier != "" {
		opts = append(opts, quarry.WithTier(tier))
	}
	if commit, _ := cmd.Flags().GetString("commit"); commit != "" {
		opts = append(opts, quarry.WithCommit(commit))
	}
	if direct, _ := cmd.Flags().GetBool("direct"); direct {
		opts = append(opts, quarry.WithDirect())
	}

	return opts, nil
}
