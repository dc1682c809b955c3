// Package config provides YAML configuration parsing for the quarry CLI.
//
// This package enables using the quarry client as a standalone binary with
// a configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	host: https://quarry.example.com
//	project: alice/churn-model
//	api_key_env: QUARRY_API_KEY
//
//	poll_interval: 10s
//	max_wait: 2h
//	max_retries: 5
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minPollInterval is the minimum allowed polling interval. This prevents
// accidental hammering of the deployment's status route.
const minPollInterval = 1 * time.Second

// defaults applied by Parse when fields are unset
const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 100 * time.Minute
	defaultMaxRetries   = 5
	defaultAPIKeyEnv    = "QUARRY_API_KEY"
)

// Config is the root configuration structure for the quarry CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Host is the deployment base URL, e.g. "https://quarry.example.com".
	// Falls back to the QUARRY_HOST environment variable when empty.
	Host string `yaml:"host"`

	// Project is the owner/name pair the CLI operates on.
	Project string `yaml:"project"`

	// APIKeyEnv names the environment variable holding the user API key.
	// Defaults to QUARRY_API_KEY. The key itself never lives in the file.
	APIKeyEnv string `yaml:"api_key_env"`

	// TokenFile is the path to a bearer-token file. Takes precedence over
	// the API key when both are available.
	TokenFile string `yaml:"token_file"`

	// PollInterval is the sleep between run status polls.
	// Accepts duration strings like "10s", "1m", "500ms". Defaults to 5s.
	PollInterval Duration `yaml:"poll_interval"`

	// MaxWait is the wall-clock budget for waiting on a run.
	// Defaults to 100m.
	MaxWait Duration `yaml:"max_wait"`

	// MaxRetries bounds consecutive transient poll failures.
	// Defaults to 5.
	MaxRetries *int `yaml:"max_retries"`

	// SkipVersionCheck disables the deployment version probe at startup.
	SkipVersionCheck bool `yaml:"skip_version_check"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = os.Getenv("QUARRY_HOST")
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = defaultAPIKeyEnv
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}
	if c.MaxWait == 0 {
		c.MaxWait = Duration(defaultMaxWait)
	}
	if c.MaxRetries == nil {
		retries := defaultMaxRetries
		c.MaxRetries = &retries
	}
}

// Validate checks the config for errors after defaults are applied.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required (set host in the config file or QUARRY_HOST in the environment)")
	}
	if !strings.HasPrefix(c.Host, "http://") && !strings.HasPrefix(c.Host, "https://") {
		return fmt.Errorf("host %q must start with http:// or https://", c.Host)
	}

	owner, name, ok := strings.Cut(c.Project, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("project must be written as owner/name, got %q", c.Project)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	if c.MaxWait.Duration() <= 0 {
		return fmt.Errorf("max_wait must be positive, got %s", c.MaxWait.Duration())
	}
	if *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", *c.MaxRetries)
	}
	return nil
}
