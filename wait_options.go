package quarry

import (
	"errors"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 100 * time.Minute
	defaultMaxRetries   = 5
)

// waitConfig holds mutable state while wait options are applied.
type waitConfig struct {
	pollInterval time.Duration
	maxWait      time.Duration
	maxRetries   int
}

// WaitOption tunes the blocking run poller.
//
// WaitOption implements the functional options pattern. Options return an
// error if validation fails.
//
// Built-in options: [WithPollInterval], [WithMaxWait], [WithMaxRetries].
type WaitOption func(*waitConfig) error

// WithPollInterval sets the sleep between poll iterations. The same
// interval is used before retrying a failed fetch.
//
// Default: 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithMaxWait sets the wall-clock budget for the whole wait. Time spent
// sleeping before retries counts against the same budget.
//
// Default: 100 minutes.
//
// Returns an error if the duration is zero or negative.
func WithMaxWait(d time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if d <= 0 {
			return errors.New("max wait must be positive")
		}
		cfg.maxWait = d
		return nil
	}
}

// WithMaxRetries sets how many consecutive transient fetch failures are
// tolerated before the poller gives up. The counter resets to zero on every
// successful fetch. Zero means a single failure aborts the wait.
//
// Default: 5.
//
// Returns an error if the value is negative.
func WithMaxRetries(n int) WaitOption {
	return func(cfg *waitConfig) error {
		if n < 0 {
			return errors.New("max retries cannot be negative")
		}
		cfg.maxRetries = n
		return nil
	}
}
