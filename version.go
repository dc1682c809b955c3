package quarry

import (
	"context"
	"fmt"
)

// Version is the client library version, reported in the User-Agent of
// every request.
const Version = "1.2.0"

// MinSupportedVersion is the oldest deployment version this client works
// with. [New] refuses older deployments with *[IncompatibleVersionError].
const MinSupportedVersion = "1.40.0.0"

const userAgent = "quarry-go/" + Version

// DeploymentVersion fetches the version string reported by the deployment.
func (c *Client) DeploymentVersion(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.api.GetJSON(ctx, c.routes.DeploymentVersion(), &out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "", fmt.Errorf("deployment at %s did not report a version", c.host)
	}
	return out.Version, nil
}

// olderThan reports whether server is older than required.
//
// Deployment versions are dotted ordinals compared as plain strings, the
// same comparison the deployment itself applies.
func olderThan(server, required string) bool {
	return server < required
}

// requireVersion refuses operation when the deployment is known to be
// older than min. Deployments with an unknown version (version check
// skipped) are let through.
func (c *Client) requireVersion(operation, min string) error {
	if c.version == "" {
		return nil
	}
	if olderThan(c.version, min) {
		return &UnsupportedError{Operation: operation, Required: min, Server: c.version}
	}
	return nil
}
