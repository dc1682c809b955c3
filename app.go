package quarry

import (
	"context"
	"errors"
	"fmt"
)

// placeholder ID the app creation route expects for new records
const unsavedAppID = "000000000000000000000000"

// appConfig holds mutable state while app options are applied.
type appConfig struct {
	name             string
	hardwareTier     string
	unpublishRunning bool
}

// AppOption configures [Client.AppPublish].
//
// Built-in options: [WithAppName], [WithAppTier], [WithKeepRunning].
type AppOption func(*appConfig) error

// WithAppName sets the title of the app created when the project has none.
//
// Default: untitled.
func WithAppName(name string) AppOption {
	return func(cfg *appConfig) error {
		cfg.name = name
		return nil
	}
}

// WithAppTier overrides the hardware tier the app runs on.
//
// Default: the project's default tier.
//
// Returns an error if the tier name is empty.
func WithAppTier(tier string) AppOption {
	return func(cfg *appConfig) error {
		if tier == "" {
			return errors.New("hardware tier cannot be empty")
		}
		cfg.hardwareTier = tier
		return nil
	}
}

// WithKeepRunning leaves an already-running app in place instead of
// unpublishing it first.
//
// Default: a running app is unpublished before the new one starts.
func WithKeepRunning() AppOption {
	return func(cfg *appConfig) error {
		cfg.unpublishRunning = false
		return nil
	}
}

// AppPublish publishes the project's app.
//
// Any running app is unpublished first (disable with [WithKeepRunning]).
// If the project has no app record yet, one is created before starting.
func (c *Client) AppPublish(ctx context.Context, opts ...AppOption) error {
	cfg := appConfig{unpublishRunning: true}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return err
		}
	}

	if cfg.unpublishRunning {
		if err := c.AppUnpublish(ctx); err != nil {
			return err
		}
	}

	appID, err := c.appID(ctx)
	if err != nil {
		return err
	}
	if appID == "" {
		appID, err = c.appCreate(ctx, cfg.name)
		if err != nil {
			return err
		}
	}

	request := struct {
		HardwareTierID *string `json:"hardwareTierId"`
	}{}
	if cfg.hardwareTier != "" {
		request.HardwareTierID = &cfg.hardwareTier
	}

	if err := c.api.PostJSON(ctx, c.routes.AppStart(appID), request, nil); err != nil {
		return fmt.Errorf("start app %s: %w", appID, err)
	}
	c.logger.Info("app published", "app_id", appID)
	return nil
}

// AppUnpublish stops the project's running app. A project with no app
// record is a no-op.
func (c *Client) AppUnpublish(ctx context.Context) error {
	appID, err := c.appID(ctx)
	if err != nil {
		return err
	}
	if appID == "" {
		return nil
	}
	if err := c.api.PostJSON(ctx, c.routes.AppStop(appID), struct{}{}, nil); err != nil {
		return fmt.Errorf("stop app %s: %w", appID, err)
	}
	return nil
}

// appID returns the project's app ID, or "" when no app record exists.
func (c *Client) appID(ctx context.Context) (string, error) {
	projectID, err := c.projectID(ctx)
	if err != nil {
		return "", err
	}

	var apps []struct {
		ID string `json:"id"`
	}
	if err := c.api.GetJSON(ctx, c.routes.AppList(projectID), &apps); err != nil {
		return "", fmt.Errorf("list apps: %w", err)
	}
	if len(apps) == 0 {
		return "", nil
	}
	return apps[0].ID, nil
}

// appCreate registers an unpublished app record for the project and
// returns its ID.
func (c *Client) appCreate(ctx context.Context, name string) (string, error) {
	projectID, err := c.projectID(ctx)
	if err != nil {
		return "", err
	}

	request := map[string]any{
		"modelProductType": "APP",
		"projectId":        projectID,
		"name":             name,
		"id":               unsavedAppID,
		"permissionsData": map[string]any{
			"visibility":   "GRANT_BASED",
			"discoverable": true,
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.api.PostJSON(ctx, c.routes.AppCreate(), request, &created); err != nil {
		return "", fmt.Errorf("create app: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("create app: deployment did not return an app id")
	}
	return created.ID, nil
}
