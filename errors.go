package quarry

import (
	"fmt"
	"time"
)

// IncompatibleVersionError is returned by [New] when the connected
// deployment is older than the minimum version this client supports.
type IncompatibleVersionError struct {
	// Server is the version reported by the deployment.
	Server string

	// MinSupported is the oldest deployment version this client works with.
	MinSupported string
}

// Error implements the error interface.
func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("deployment version %s is not compatible with this client (requires at least %s)",
		e.Server, e.MinSupported)
}

// UnsupportedError is returned when an operation requires a newer
// deployment version than the one the client is connected to.
type UnsupportedError struct {
	// Operation names the client method that was refused.
	Operation string

	// Required is the minimum deployment version for the operation.
	Required string

	// Server is the version reported by the deployment.
	Server string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s requires deployment version %s or newer, but the deployment is running %s",
		e.Operation, e.Required, e.Server)
}

// RetryExhaustedError is returned by the run poller when too many
// consecutive status fetches failed with transient errors.
type RetryExhaustedError struct {
	// RunID identifies the run being polled.
	RunID string

	// Attempts is the number of consecutive failed fetches.
	Attempts int

	// Err is the error from the last failed fetch.
	Err error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("cannot get info for run %s: %d consecutive fetches failed: %v", e.RunID, e.Attempts, e.Err)
}

// Unwrap returns the last fetch error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned by the run poller when the wall-clock wait
// budget is exceeded before the run produces an output commit.
type TimeoutError struct {
	// RunID identifies the run being polled.
	RunID string

	// Waited is the wall-clock time spent polling, including retry sleeps.
	Waited time.Duration

	// Budget is the configured maximum wait.
	Budget time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s exceeded the maximum wait of %s (waited %s)", e.RunID, e.Budget, e.Waited)
}

// UnknownRunError is returned when the deployment has no record of a run
// ID. It is never retried: a missing run will not appear later.
type UnknownRunError struct {
	// RunID is the identifier the deployment did not recognize.
	RunID string
}

// Error implements the error interface.
func (e *UnknownRunError) Error() string {
	return fmt.Sprintf("run %s does not exist on the deployment", e.RunID)
}

// RunFailedError is returned by the run poller when a run finishes without
// succeeding. The output log is attached for diagnosis.
type RunFailedError struct {
	// RunID identifies the failed run.
	RunID string

	// Status is the terminal status reported by the deployment.
	Status RunStatus

	// Log is the run's output log at the time of failure.
	Log string
}

// Error implements the error interface.
func (e *RunFailedError) Error() string {
	return fmt.Sprintf("run %s finished with status %s but did not succeed:\n%s", e.RunID, e.Status, e.Log)
}
