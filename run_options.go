package quarry

import "errors"

// RunOption configures an individual run submission.
//
// RunOption implements the functional options pattern, replacing the loose
// keyword-style parameters of other platform clients with named, documented
// options. Options return an error if validation fails.
//
// Built-in options: [WithDirect], [WithCommit], [WithTitle], [WithTier],
// [WithPublishEndpoint].
type RunOption func(*runRequest) error

// WithDirect passes the command directly to a shell instead of treating the
// first element as a file to execute.
//
// Default: off (the command names a file in the project).
func WithDirect() RunOption {
	return func(r *runRequest) error {
		r.IsDirect = true
		return nil
	}
}

// WithCommit launches the run from a specific input commit.
//
// Default: the project's latest commit.
//
// Returns an error if the commit ID is empty.
func WithCommit(commitID string) RunOption {
	return func(r *runRequest) error {
		if commitID == "" {
			return errors.New("commit id cannot be empty")
		}
		r.CommitID = &commitID
		return nil
	}
}

// WithTitle sets a human-readable title for the run, shown in the
// deployment UI and in run listings.
//
// Default: untitled.
func WithTitle(title string) RunOption {
	return func(r *runRequest) error {
		r.Title = &title
		return nil
	}
}

// WithTier selects the hardware tier the run executes on.
//
// Default: the project's default tier.
//
// Returns an error if the tier name is empty.
func WithTier(tier string) RunOption {
	return func(r *runRequest) error {
		if tier == "" {
			return errors.New("hardware tier cannot be empty")
		}
		r.Tier = &tier
		return nil
	}
}

// WithPublishEndpoint publishes an API endpoint from the run's output once
// it completes.
//
// Default: off.
func WithPublishEndpoint() RunOption {
	return func(r *runRequest) error {
		publish := true
		r.PublishAPIEndpoint = &publish
		return nil
	}
}

// StopOption configures a run stop request.
//
// Built-in options: [WithDiscardChanges], [WithStopCommitMessage].
type StopOption func(*stopRequest) error

// WithDiscardChanges discards the run's results instead of saving them.
//
// Default: changes are saved.
func WithDiscardChanges() StopOption {
	return func(r *stopRequest) error {
		r.SaveChanges = false
		return nil
	}
}

// WithStopCommitMessage sets the commit message used when the stopped
// run's changes are saved.
//
// Default: the deployment's generated message.
func WithStopCommitMessage(message string) StopOption {
	return func(r *stopRequest) error {
		if message == "" {
			return errors.New("commit message cannot be empty")
		}
		r.CommitMessage = &message
		return nil
	}
}
