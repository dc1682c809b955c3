package quarry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// EndpointState describes the project's published API endpoint.
type EndpointState struct {
	// IsPublished reports whether an endpoint is currently serving.
	IsPublished bool `json:"isPublished"`

	raw json.RawMessage
}

type endpointStateAlias EndpointState

// UnmarshalJSON decodes the typed fields and preserves the full payload.
func (s *EndpointState) UnmarshalJSON(data []byte) error {
	var a endpointStateAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = EndpointState(a)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns a copy of the full JSON payload as received from the
// deployment.
func (s *EndpointState) Raw() json.RawMessage {
	return append(json.RawMessage(nil), s.raw...)
}

// EndpointStatus returns the state of the project's published API
// endpoint.
func (c *Client) EndpointStatus(ctx context.Context) (*EndpointState, error) {
	var state EndpointState
	if err := c.api.GetJSON(ctx, c.routes.EndpointState(), &state); err != nil {
		return nil, fmt.Errorf("get endpoint state: %w", err)
	}
	return &state, nil
}

// EndpointPublish publishes an API endpoint serving function from file at
// commitID.
func (c *Client) EndpointPublish(ctx context.Context, file, function, commitID string) error {
	if file == "" || function == "" {
		return errors.New("file and function are required")
	}
	if commitID == "" {
		return errors.New("commit id cannot be empty")
	}

	request := struct {
		CommitID          string `json:"commitId"`
		BindingDefinition struct {
			File     string `json:"file"`
			Function string `json:"function"`
		} `json:"bindingDefinition"`
	}{CommitID: commitID}
	request.BindingDefinition.File = file
	request.BindingDefinition.Function = function

	if err := c.api.PostJSON(ctx, c.routes.EndpointPublish(), request, nil); err != nil {
		return fmt.Errorf("publish endpoint: %w", err)
	}
	c.logger.Info("endpoint published", "file", file, "function", function, "commit", commitID)
	return nil
}

// EndpointUnpublish takes down the project's published API endpoint.
func (c *Client) EndpointUnpublish(ctx context.Context) error {
	if err := c.api.Delete(ctx, c.routes.Endpoint()); err != nil {
		return fmt.Errorf("unpublish endpoint: %w", err)
	}
	return nil
}
