package quarry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quarrylabs/quarry-go/internal/api"
	"github.com/quarrylabs/quarry-go/internal/routes"
)

// Client is a client for one project on a Quarry deployment.
//
// Client exposes one method per deployment API endpoint (runs, files,
// blobs, apps, models, environments, collaborators, endpoint publishing)
// plus the blocking run poller [Client.WaitForRun]. It is created with
// [New] and functional options, and is safe for concurrent use.
//
// The typical lifecycle is:
//
//	client, err := quarry.New(ctx, "alice/churn-model",
//	    quarry.WithHost("https://quarry.example.com"),
//	    quarry.WithAPIKey(os.Getenv("QUARRY_API_KEY")),
//	)
//	if err != nil {
//	    slog.Error("failed to create client", "error", err)
//	    os.Exit(1)
//	}
//
//	run, log, err := client.RunsStartBlocking(ctx, []string{"main.py", "--epochs", "10"}, nil)
type Client struct {
	owner   string
	name    string
	host    string
	version string

	api    *api.Client
	routes *routes.Builder
	logger *slog.Logger
}

// New creates a [Client] for the given project, written as "owner/name".
//
// The deployment host and credentials are taken from options or, when not
// supplied, from the QUARRY_HOST, QUARRY_TOKEN_FILE, and QUARRY_API_KEY
// environment variables. A token file takes precedence over an API key when
// both are configured; at least one of the two is required.
//
// Unless [WithoutVersionCheck] is given, New probes the deployment's
// version and fails with *[IncompatibleVersionError] when the deployment is
// older than [MinSupportedVersion]. The probe is the only network call New
// makes, governed by ctx.
//
// Logging goes to the logger supplied with [WithLogger], or
// [slog.Default] otherwise; the client never touches global logging state.
func New(ctx context.Context, project string, opts ...Option) (*Client, error) {
	owner, name, ok := strings.Cut(project, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("project must be written as owner/name, got %q", project)
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.host == "" {
		return nil, fmt.Errorf("no deployment host configured: pass WithHost or set %s", hostEnv)
	}

	creds, err := cfg.credentials()
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	routeBuilder := routes.New(cfg.host, owner, name)
	client := &Client{
		owner:  owner,
		name:   name,
		host:   routeBuilder.Host(),
		api:    api.NewClient(creds, cfg.httpClient, logger, userAgent),
		routes: routeBuilder,
		logger: logger,
	}

	if !cfg.skipVersionCheck {
		version, err := client.DeploymentVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("probe deployment version: %w", err)
		}
		client.version = version
		if olderThan(version, MinSupportedVersion) {
			return nil, &IncompatibleVersionError{Server: version, MinSupported: MinSupportedVersion}
		}
		logger.Info("connected to deployment", "host", client.host, "version", version)
	}

	return client, nil
}

// Project returns the owner/name pair the client is bound to.
func (c *Client) Project() string {
	return c.owner + "/" + c.name
}

// Host returns the deployment base URL.
func (c *Client) Host() string {
	return c.host
}

// ServerVersion returns the deployment version discovered when the client
// was created, or the empty string when the version check was skipped.
func (c *Client) ServerVersion() string {
	return c.version
}

// Close releases idle connections held by the client's connection pool.
// The client remains usable after Close.
func (c *Client) Close() {
	c.api.Close()
}
