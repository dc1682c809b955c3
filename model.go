package quarry

import (
	"context"
	"errors"
	"fmt"
)

// modelsMinVersion fences the model manager and environment routes, which
// older deployments do not expose.
const modelsMinVersion = "2.5.0"

// Model is a published model as reported by the model manager.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
}

// ModelVersion is one published version of a model.
type ModelVersion struct {
	ID       string `json:"id"`
	ModelID  string `json:"modelId,omitempty"`
	Number   int    `json:"number,omitempty"`
	CommitID string `json:"commitId,omitempty"`
}

// Environment is a compute environment available on the deployment.
type Environment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModelDef describes a model to publish: the file and function to serve,
// the environment to serve it in, and presentation metadata.
type ModelDef struct {
	// Name is the model's display name.
	Name string

	// Description explains what the model does.
	Description string

	// File is the project file containing the serving function.
	File string

	// Function is the name of the function to invoke per request.
	Function string

	// EnvironmentID selects the compute environment the model runs in.
	EnvironmentID string

	// ExcludeFiles lists project files to leave out of the model image.
	ExcludeFiles []string
}

func (d ModelDef) validate() error {
	if d.Name == "" {
		return errors.New("model name is required")
	}
	if d.File == "" || d.Function == "" {
		return errors.New("model file and function are required")
	}
	if d.EnvironmentID == "" {
		return errors.New("model environment id is required")
	}
	return nil
}

// modelPublishRequest is the wire form of a ModelDef.
type modelPublishRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ProjectID     string   `json:"projectId"`
	File          string   `json:"file"`
	Function      string   `json:"function"`
	ExcludeFiles  []string `json:"excludeFiles"`
	EnvironmentID string   `json:"environmentId"`
}

func (c *Client) modelRequest(ctx context.Context, def ModelDef) (*modelPublishRequest, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	projectID, err := c.projectID(ctx)
	if err != nil {
		return nil, err
	}
	excluded := def.ExcludeFiles
	if excluded == nil {
		excluded = []string{}
	}
	return &modelPublishRequest{
		Name:          def.Name,
		Description:   def.Description,
		ProjectID:     projectID,
		File:          def.File,
		Function:      def.Function,
		ExcludeFiles:  excluded,
		EnvironmentID: def.EnvironmentID,
	}, nil
}

// ModelsList returns the models visible to the authenticated user.
//
// Requires deployment version 2.5.0 or newer; older deployments yield
// *[UnsupportedError].
func (c *Client) ModelsList(ctx context.Context) ([]Model, error) {
	if err := c.requireVersion("ModelsList", modelsMinVersion); err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Model `json:"data"`
	}
	if err := c.api.GetJSON(ctx, c.routes.ModelsList(), &envelope); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return envelope.Data, nil
}

// ModelPublish publishes a new model from the client's project.
//
// Requires deployment version 2.5.0 or newer.
func (c *Client) ModelPublish(ctx context.Context, def ModelDef) (*Model, error) {
	if err := c.requireVersion("ModelPublish", modelsMinVersion); err != nil {
		return nil, err
	}

	request, err := c.modelRequest(ctx, def)
	if err != nil {
		return nil, err
	}

	var model Model
	if err := c.api.PostJSON(ctx, c.routes.ModelsList(), request, &model); err != nil {
		return nil, fmt.Errorf("publish model %s: %w", def.Name, err)
	}
	c.logger.Info("model published", "model_id", model.ID, "name", def.Name)
	return &model, nil
}

// ModelVersions returns the published versions of a model.
//
// Requires deployment version 2.5.0 or newer.
func (c *Client) ModelVersions(ctx context.Context, modelID string) ([]ModelVersion, error) {
	if err := c.requireVersion("ModelVersions", modelsMinVersion); err != nil {
		return nil, err
	}
	if modelID == "" {
		return nil, errors.New("model id cannot be empty")
	}

	var envelope struct {
		Data []ModelVersion `json:"data"`
	}
	if err := c.api.GetJSON(ctx, c.routes.ModelVersions(modelID), &envelope); err != nil {
		return nil, fmt.Errorf("list versions of model %s: %w", modelID, err)
	}
	return envelope.Data, nil
}

// ModelVersionPublish publishes a new version of an existing model.
//
// Requires deployment version 2.5.0 or newer.
func (c *Client) ModelVersionPublish(ctx context.Context, modelID string, def ModelDef) (*ModelVersion, error) {
	if err := c.requireVersion("ModelVersionPublish", modelsMinVersion); err != nil {
		return nil, err
	}
	if modelID == "" {
		return nil, errors.New("model id cannot be empty")
	}

	request, err := c.modelRequest(ctx, def)
	if err != nil {
		return nil, err
	}

	var version ModelVersion
	if err := c.api.PostJSON(ctx, c.routes.ModelVersions(modelID), request, &version); err != nil {
		return nil, fmt.Errorf("publish version of model %s: %w", modelID, err)
	}
	c.logger.Info("model version published", "model_id", modelID, "version_id", version.ID)
	return &version, nil
}

// EnvironmentsList returns the compute environments available on the
// deployment.
//
// Requires deployment version 2.5.0 or newer.
func (c *Client) EnvironmentsList(ctx context.Context) ([]Environment, error) {
	if err := c.requireVersion("EnvironmentsList", modelsMinVersion); err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Environment `json:"data"`
	}
	if err := c.api.GetJSON(ctx, c.routes.EnvironmentsList(), &envelope); err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	return envelope.Data, nil
}
