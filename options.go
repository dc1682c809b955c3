package quarry

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/quarrylabs/quarry-go/internal/api"
)

// environment variables consulted when the corresponding option is absent
const (
	hostEnv      = "QUARRY_HOST"
	apiKeyEnv    = "QUARRY_API_KEY"
	tokenFileEnv = "QUARRY_TOKEN_FILE"
)

// clientConfig holds mutable state during client construction.
type clientConfig struct {
	host             string
	apiKey           string
	tokenFile        string
	logger           *slog.Logger
	httpClient       *http.Client
	skipVersionCheck bool
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		host:      os.Getenv(hostEnv),
		apiKey:    os.Getenv(apiKeyEnv),
		tokenFile: os.Getenv(tokenFileEnv),
	}
}

// credentials picks the authentication strategy: a token file wins over an
// API key, and at least one must be configured.
func (cfg *clientConfig) credentials() (api.Credentials, error) {
	switch {
	case cfg.tokenFile != "":
		return api.TokenFile(cfg.tokenFile), nil
	case cfg.apiKey != "":
		return api.APIKey(cfg.apiKey), nil
	default:
		return nil, errors.New("no credentials configured: pass WithAPIKey or WithTokenFile, " +
			"or set " + apiKeyEnv + " or " + tokenFileEnv)
	}
}

// Option is a function that configures a [Client] during construction.
//
// Option implements the functional options pattern. Options return an
// error if validation fails.
//
// Built-in options: [WithHost], [WithAPIKey], [WithTokenFile],
// [WithLogger], [WithHTTPClient], [WithoutVersionCheck].
type Option func(*clientConfig) error

// WithHost sets the deployment base URL, e.g. "https://quarry.example.com".
//
// Defaults to the QUARRY_HOST environment variable. A trailing slash is
// tolerated. Returns an error if the URL is empty or has no scheme.
func WithHost(host string) Option {
	return func(cfg *clientConfig) error {
		if host == "" {
			return errors.New("host cannot be empty")
		}
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			return errors.New("host must start with http:// or https://")
		}
		cfg.host = host
		return nil
	}
}

// WithAPIKey authenticates with a user API key (HTTP basic auth).
//
// Defaults to the QUARRY_API_KEY environment variable. Ignored when a
// token file is also configured.
func WithAPIKey(key string) Option {
	return func(cfg *clientConfig) error {
		if key == "" {
			return errors.New("API key cannot be empty")
		}
		cfg.apiKey = key
		return nil
	}
}

// WithTokenFile authenticates with a bearer token read from the given
// file. The file is re-read on every request, so rotated tokens are picked
// up automatically.
//
// Defaults to the QUARRY_TOKEN_FILE environment variable. Takes precedence
// over an API key.
func WithTokenFile(path string) Option {
	return func(cfg *clientConfig) error {
		if path == "" {
			return errors.New("token file path cannot be empty")
		}
		cfg.tokenFile = path
		return nil
	}
}

// WithLogger sets the [slog.Logger] the client logs through.
//
// The client holds no global logging state; all logging flows through the
// supplied logger. Defaults to [slog.Default].
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithHTTPClient replaces the underlying [http.Client], e.g. to configure
// proxies or custom TLS. When unset, a pooled client with per-request
// context timeouts is used.
//
// Returns an error if the client is nil.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(cfg *clientConfig) error {
		if httpClient == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = httpClient
		return nil
	}
}

// WithoutVersionCheck skips the deployment version probe during [New].
//
// With the check skipped, [Client.ServerVersion] is empty and
// version-fenced methods do not refuse old deployments. Intended for
// deployments that do not expose the version route.
func WithoutVersionCheck() Option {
	return func(cfg *clientConfig) error {
		cfg.skipVersionCheck = true
		return nil
	}
}
