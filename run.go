package quarry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quarrylabs/quarry-go/internal/api"
)

// RunStatus is the lifecycle state of a run as reported by the deployment.
//
// The set of values is owned by the deployment; unknown statuses pass
// through unmodified. Use [RunStatus.Terminal] rather than comparing
// against individual values when checking whether a run has finished.
type RunStatus string

const (
	// StatusQueued indicates the run is waiting for capacity.
	StatusQueued RunStatus = "Queued"

	// StatusScheduled indicates the run has been assigned to an executor.
	StatusScheduled RunStatus = "Scheduled"

	// StatusPreparing indicates the executor is building the environment.
	StatusPreparing RunStatus = "Preparing"

	// StatusRunning indicates the command is executing.
	StatusRunning RunStatus = "Running"

	// StatusStopping indicates a stop was requested and is in progress.
	StatusStopping RunStatus = "Stopping"

	// StatusStopped indicates the run was stopped before completion.
	StatusStopped RunStatus = "Stopped"

	// StatusSucceeded indicates the run finished with a zero exit status.
	StatusSucceeded RunStatus = "Succeeded"

	// StatusFailed indicates the run finished with a non-zero exit status.
	StatusFailed RunStatus = "Failed"

	// StatusError indicates the platform failed to execute the run.
	StatusError RunStatus = "Error"
)

// String returns the string representation of the status.
func (s RunStatus) String() string {
	return string(s)
}

// Terminal reports whether the status indicates the run has stopped
// executing. Note that a terminal status alone does not mean the run's
// output has been materialized; see [Run.OutputCommitID].
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusStopped, StatusSucceeded, StatusFailed, StatusError:
		return true
	}
	return false
}

// Run describes a single run as reported by the deployment.
//
// Only the fields the client interprets are typed; the full payload is
// preserved verbatim and available via [Run.Raw], so fields added by newer
// deployments are never lost.
type Run struct {
	// ID is the run's opaque identifier, immutable once issued.
	ID string `json:"id"`

	// ProjectID identifies the owning project.
	ProjectID string `json:"projectId,omitempty"`

	// Title is the optional human-readable run title.
	Title string `json:"title,omitempty"`

	// Status is the run's reported lifecycle state.
	Status RunStatus `json:"status"`

	// CommitID is the input commit the run was launched from.
	CommitID string `json:"commitId,omitempty"`

	// OutputCommitID identifies the commit holding the run's results.
	// It is empty until the run's output has been materialized; its
	// presence, not the Status field, signals that the run is complete.
	OutputCommitID string `json:"outputCommitId,omitempty"`

	raw json.RawMessage
}

// runAlias avoids recursing into UnmarshalJSON.
type runAlias Run

// UnmarshalJSON decodes the typed fields and preserves the full payload.
func (r *Run) UnmarshalJSON(data []byte) error {
	var a runAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Run(a)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns a copy of the run's full JSON payload as received from the
// deployment, including fields the client does not interpret.
func (r *Run) Raw() json.RawMessage {
	return append(json.RawMessage(nil), r.raw...)
}

// RunSubmission is the deployment's response to starting a run.
type RunSubmission struct {
	// RunID is the handle for the newly submitted run.
	RunID string `json:"runId"`

	// Message is an optional informational message from the deployment.
	Message string `json:"message,omitempty"`
}

// runRequest is the submission payload. Unset optional fields are sent as
// JSON null so the deployment applies its own defaults.
type runRequest struct {
	Command            []string `json:"command"`
	IsDirect           bool     `json:"isDirect"`
	CommitID           *string  `json:"commitId"`
	Title              *string  `json:"title"`
	Tier               *string  `json:"tier"`
	PublishAPIEndpoint *bool    `json:"publishApiEndpoint"`
}

// stopRequest is the run stop payload.
type stopRequest struct {
	SaveChanges     bool    `json:"saveChanges"`
	CommitMessage   *string `json:"commitMessage"`
	IgnoreRepoState bool    `json:"ignoreRepoState"`
}

// runStdout is the stdout route's response envelope.
type runStdout struct {
	Setup  string `json:"setup"`
	Stdout string `json:"stdout"`
}

// RunsList returns all runs in the project, newest first as ordered by the
// deployment.
func (c *Client) RunsList(ctx context.Context) ([]Run, error) {
	var envelope struct {
		Data []Run `json:"data"`
	}
	if err := c.api.GetJSON(ctx, c.routes.RunsList(), &envelope); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return envelope.Data, nil
}

// RunsStart submits a run executing command on the deployment and returns
// its handle. The first element of command is the file to run; the rest are
// arguments.
//
// Optional behaviour is configured with [RunOption] values such as
// [WithTitle], [WithCommit], [WithTier], [WithDirect], and
// [WithPublishEndpoint].
//
// Submission happens exactly once and is never retried.
func (c *Client) RunsStart(ctx context.Context, command []string, opts ...RunOption) (*RunSubmission, error) {
	if len(command) == 0 {
		return nil, errors.New("command cannot be empty")
	}

	request := runRequest{Command: command}
	for _, opt := range opts {
		if err := opt(&request); err != nil {
			return nil, err
		}
	}

	var submission RunSubmission
	if err := c.api.PostJSON(ctx, c.routes.RunsList(), request, &submission); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	if submission.RunID == "" {
		return nil, errors.New("start run: deployment did not return a run id")
	}

	c.logger.Info("run submitted", "run_id", submission.RunID, "command", command[0])
	return &submission, nil
}

// RunInfo looks up a run by ID in the project's run list.
//
// Returns (nil, nil) when the deployment has no record of the ID; callers
// that require the run to exist should treat that as [UnknownRunError].
func (c *Client) RunInfo(ctx context.Context, runID string) (*Run, error) {
	runs, err := c.RunsList(ctx)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].ID == runID {
			return &runs[i], nil
		}
	}
	return nil, nil
}

// RunsStatus fetches the deployment's status record for a single run.
func (c *Client) RunsStatus(ctx context.Context, runID string) (*Run, error) {
	var run Run
	if err := c.api.GetJSON(ctx, c.routes.RunsStatus(runID), &run); err != nil {
		return nil, fmt.Errorf("get run status: %w", err)
	}
	return &run, nil
}

// RunStop requests that a run be stopped.
//
// By default the run's changes are saved; pass [WithDiscardChanges] to
// discard them, and [WithStopCommitMessage] to set the output commit
// message. Returns [UnknownRunError] if the deployment does not recognize
// the run ID.
func (c *Client) RunStop(ctx context.Context, runID string, opts ...StopOption) error {
	request := stopRequest{SaveChanges: true}
	for _, opt := range opts {
		if err := opt(&request); err != nil {
			return err
		}
	}

	err := c.api.PostJSON(ctx, c.routes.RunStop(runID), request, nil)
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusBadRequest {
			return &UnknownRunError{RunID: runID}
		}
		return fmt.Errorf("stop run: %w", err)
	}
	return nil
}

// RunStdout returns the stdout emitted by a run.
func (c *Client) RunStdout(ctx context.Context, runID string) (string, error) {
	var out runStdout
	if err := c.api.GetJSON(ctx, c.routes.RunStdout(runID), &out); err != nil {
		return "", fmt.Errorf("get run stdout: %w", err)
	}
	return out.Stdout, nil
}

// RunLog returns the unified log for a run. When includeSetup is true the
// environment setup log is prepended to the stdout log.
func (c *Client) RunLog(ctx context.Context, runID string, includeSetup bool) (string, error) {
	var out runStdout
	if err := c.api.GetJSON(ctx, c.routes.RunStdout(runID), &out); err != nil {
		return "", fmt.Errorf("get run log: %w", err)
	}
	if includeSetup {
		return out.Setup + "\n" + out.Stdout, nil
	}
	return out.Stdout, nil
}
