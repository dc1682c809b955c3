package quarry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/quarrylabs/quarry-go/internal/api"
)

// the project creation and collaborator routes sit behind CSRF protection
// meant for browser sessions; API clients opt out explicitly
var csrfNoCheck = api.WithHeader("Csrf-Token", "nocheck")

// collaboratorsMinVersion fences the collaborator routes, which older
// deployments do not expose.
const collaboratorsMinVersion = "1.53.0.0"

// Collaborator is a user with access to the project.
type Collaborator struct {
	ID       string `json:"id"`
	Username string `json:"userName"`
	Email    string `json:"email,omitempty"`
}

// ProjectCreate creates a new project named name, owned by the
// authenticated user. A non-empty ownerOverride creates the project under
// another username instead (requires admin rights on the deployment).
func (c *Client) ProjectCreate(ctx context.Context, name, ownerOverride string) error {
	if name == "" {
		return errors.New("project name cannot be empty")
	}

	form := url.Values{}
	form.Set("projectName", name)
	if ownerOverride != "" {
		form.Set("ownerOverrideUsername", ownerOverride)
	}

	if err := c.api.PostForm(ctx, c.routes.ProjectCreate(), form, nil, csrfNoCheck); err != nil {
		return fmt.Errorf("create project %s: %w", name, err)
	}
	c.logger.Info("project created", "project", name)
	return nil
}

// Fork forks the client's project into a new project named targetName
// owned by the authenticated user.
func (c *Client) Fork(ctx context.Context, targetName string) error {
	if targetName == "" {
		return errors.New("target project name cannot be empty")
	}

	projectID, err := c.projectID(ctx)
	if err != nil {
		return err
	}

	request := struct {
		Name string `json:"name"`
	}{Name: targetName}

	if err := c.api.PostJSON(ctx, c.routes.ProjectFork(projectID), request, nil); err != nil {
		return fmt.Errorf("fork project: %w", err)
	}
	return nil
}

// CollaboratorsList returns the project's collaborators.
//
// Requires deployment version 1.53.0.0 or newer; older deployments yield
// *[UnsupportedError].
func (c *Client) CollaboratorsList(ctx context.Context) ([]Collaborator, error) {
	if err := c.requireVersion("CollaboratorsList", collaboratorsMinVersion); err != nil {
		return nil, err
	}

	var collaborators []Collaborator
	if err := c.api.GetJSON(ctx, c.routes.CollaboratorsList(), &collaborators); err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	return collaborators, nil
}

// CollaboratorAdd invites a user, by username or email, to collaborate on
// the project. welcomeMessage may be empty.
//
// Requires deployment version 1.53.0.0 or newer; older deployments yield
// *[UnsupportedError].
func (c *Client) CollaboratorAdd(ctx context.Context, usernameOrEmail, welcomeMessage string) error {
	if err := c.requireVersion("CollaboratorAdd", collaboratorsMinVersion); err != nil {
		return err
	}
	if usernameOrEmail == "" {
		return errors.New("username or email cannot be empty")
	}

	form := url.Values{}
	form.Set("collaboratorUsernameOrEmail", usernameOrEmail)
	form.Set("welcomeMessage", welcomeMessage)

	// the route answers with a browser redirect on success; don't follow it
	err := c.api.PostForm(ctx, c.routes.CollaboratorAdd(), form, nil, csrfNoCheck, api.WithoutRedirects())
	if err != nil {
		return fmt.Errorf("add collaborator %s: %w", usernameOrEmail, err)
	}
	c.logger.Info("collaborator invited", "collaborator", usernameOrEmail)
	return nil
}

// projectID resolves the bound owner/name pair to the deployment's
// internal project ID, needed by the fork, app, and model routes.
func (c *Client) projectID(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.api.GetJSON(ctx, c.routes.FindProject(), &out); err != nil {
		return "", fmt.Errorf("resolve project id: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("deployment did not return an id for project %s", c.Project())
	}
	return out.ID, nil
}
