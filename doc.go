// Package quarry is a Go client for the Quarry data-science platform
// REST API.
//
// A [Client] is bound to one project on one deployment and exposes one
// method per API endpoint: runs, files, blobs, apps, models, environments,
// collaborators, and endpoint publishing. The client is configured via the
// functional options pattern and logs through a caller-supplied
// [log/slog.Logger] rather than any global state.
//
// # Quick Start
//
// Create a client and execute a run, blocking until it completes:
//
//	ctx := context.Background()
//	client, err := quarry.New(ctx, "alice/churn-model",
//	    quarry.WithHost("https://quarry.example.com"),
//	    quarry.WithAPIKey(os.Getenv("QUARRY_API_KEY")),
//	)
//	if err != nil {
//	    slog.Error("failed to create client", "error", err)
//	    os.Exit(1)
//	}
//	defer client.Close()
//
//	run, log, err := client.RunsStartBlocking(ctx,
//	    []string{"train.py", "--epochs", "10"},
//	    []quarry.RunOption{quarry.WithTitle("nightly training")},
//	    quarry.WithPollInterval(10*time.Second),
//	)
//
// # Authentication
//
// Two credential types are supported: a user API key ([WithAPIKey], sent
// as basic auth) and a bearer token file ([WithTokenFile], re-read per
// request so rotated tokens are picked up). When neither option is passed,
// the QUARRY_API_KEY and QUARRY_TOKEN_FILE environment variables are
// consulted; the token file wins when both are present.
//
// # Waiting For Runs
//
// [Client.WaitForRun] polls a run until it completes, with bounded retries
// of transient fetch failures and a wall-clock wait budget. A run counts as
// complete only once its output commit exists; a Succeeded status alone
// means the results are still being materialized. Failures are typed
// ([RetryExhaustedError], [TimeoutError], [UnknownRunError],
// [RunFailedError]) and carry diagnostic context, including the run's
// output log when the run finished unsuccessfully.
//
// # Version Compatibility
//
// [New] probes the deployment version and refuses deployments older than
// [MinSupportedVersion]. Methods that need newer deployments (collaborator
// management, the model manager) additionally fail with
// [UnsupportedError] when the connected deployment predates them.
//
// # Architecture
//
// The public API lives in this package. Internal packages hold the
// machinery:
//
//   - internal/api: pooled HTTP client, credentials, error classification
//   - internal/routes: URL construction for every deployment route
//
// The config package parses YAML configuration for the quarry CLI
// (cmd/quarry), which wraps this SDK for shell use.
package quarry
