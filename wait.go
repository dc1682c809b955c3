package quarry

import (
	"context"
	"fmt"
	"time"

	"github.com/quarrylabs/quarry-go/internal/api"
)

// WaitForRun blocks until the run identified by runID completes, fails, or
// the wait budget is exhausted.
//
// The poller fetches the run's info once per iteration and sleeps the poll
// interval between iterations. A run is complete only when it has an output
// commit: a Succeeded status without one means the results are still being
// materialized, and polling continues. On the terminal iteration exactly
// one output log fetch is performed.
//
// Transient fetch failures (network errors, 429, 5xx) are retried up to the
// configured consecutive-retry budget; the counter resets on every
// successful fetch. Wall-clock time is strictly cumulative: retry sleeps
// and poll sleeps burn the same maximum-wait budget.
//
// On success, WaitForRun returns the run's final info and its output log.
// Failures are typed:
//
//   - *RetryExhaustedError: too many consecutive transient fetch failures
//   - *TimeoutError: the wall-clock budget elapsed before completion
//   - *UnknownRunError: the deployment has no record of runID
//   - *RunFailedError: the run finished without succeeding (log attached)
//
// Cancelling ctx aborts the wait between fetches and returns the context's
// error. The run itself keeps executing on the deployment; use
// [Client.RunStop] to stop it.
func (c *Client) WaitForRun(ctx context.Context, runID string, opts ...WaitOption) (*Run, string, error) {
	cfg := waitConfig{
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
		maxRetries:   defaultMaxRetries,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, "", err
		}
	}

	start := time.Now()
	failures := 0

	for {
		run, err := c.RunInfo(ctx, runID)
		if err != nil {
			if !api.IsTransient(err) {
				return nil, "", fmt.Errorf("get info for run %s: %w", runID, err)
			}
			failures++
			c.logger.Warn("failed to get run info", "run_id", runID, "error", err)
			if failures > cfg.maxRetries {
				return nil, "", &RetryExhaustedError{RunID: runID, Attempts: failures, Err: err}
			}
			c.logger.Info("retrying run info fetch", "run_id", runID, "attempt", failures, "max_retries", cfg.maxRetries)
			if err := sleep(ctx, cfg.pollInterval); err != nil {
				return nil, "", err
			}
			continue
		}
		failures = 0

		if elapsed := time.Since(start); elapsed >= cfg.maxWait {
			return nil, "", &TimeoutError{RunID: runID, Waited: elapsed, Budget: cfg.maxWait}
		}

		if run == nil {
			return nil, "", &UnknownRunError{RunID: runID}
		}

		// no output commit yet: still in progress regardless of status
		if run.OutputCommitID == "" {
			if err := sleep(ctx, cfg.pollInterval); err != nil {
				return nil, "", err
			}
			continue
		}

		log, err := c.RunStdout(ctx, runID)
		if err != nil {
			return nil, "", fmt.Errorf("get output log for run %s: %w", runID, err)
		}

		if run.Status != StatusSucceeded {
			return nil, "", &RunFailedError{RunID: runID, Status: run.Status, Log: log}
		}

		c.logger.Info("run completed",
			"run_id", runID,
			"output_commit", run.OutputCommitID,
			"elapsed", time.Since(start).String(),
		)
		return run, log, nil
	}
}

// RunsStartBlocking submits a run and waits for it to complete.
//
// It is equivalent to [Client.RunsStart] followed by [Client.WaitForRun].
// runOpts configure the submission (may be nil); waitOpts tune the poll
// loop. The submission itself is never retried.
//
// Returns the run's final info and output log, or one of the typed errors
// documented on [Client.WaitForRun].
func (c *Client) RunsStartBlocking(ctx context.Context, command []string, runOpts []RunOption, waitOpts ...WaitOption) (*Run, string, error) {
	submission, err := c.RunsStart(ctx, command, runOpts...)
	if err != nil {
		return nil, "", err
	}
	return c.WaitForRun(ctx, submission.RunID, waitOpts...)
}

// sleep pauses for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
