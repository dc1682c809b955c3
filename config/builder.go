package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quarrylabs/quarry-go"
)

// ClientOptions converts parsed configuration into SDK client options.
//
// The API key is resolved from the environment variable named by
// APIKeyEnv; it is an error for both that variable and TokenFile to be
// empty. The logger is always included so CLI logging stays injected.
func ClientOptions(cfg *Config, logger *slog.Logger) ([]quarry.Option, error) {
	opts := []quarry.Option{
		quarry.WithHost(cfg.Host),
		quarry.WithLogger(logger),
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	switch {
	case cfg.TokenFile != "":
		opts = append(opts, quarry.WithTokenFile(cfg.TokenFile))
	case apiKey != "":
		opts = append(opts, quarry.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("no credentials: set token_file in the config or export %s", cfg.APIKeyEnv)
	}

	if cfg.SkipVersionCheck {
		opts = append(opts, quarry.WithoutVersionCheck())
	}

	return opts, nil
}

// WaitOptions converts parsed configuration into run poller options.
func WaitOptions(cfg *Config) []quarry.WaitOption {
	return []quarry.WaitOption{
		quarry.WithPollInterval(cfg.PollInterval.Duration()),
		quarry.WithMaxWait(cfg.MaxWait.Duration()),
		quarry.WithMaxRetries(*cfg.MaxRetries),
	}
}
