package quarry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// blob keys are 40-character content hashes
var blobKeyPattern = regexp.MustCompile(`^\w{40}$`)

// Commit is one entry in the project's commit history.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
	Author  string `json:"author,omitempty"`
}

// FileEntry describes one file in the project tree at a given commit.
type FileEntry struct {
	// Path is the file's path within the project.
	Path string `json:"path"`

	// Key is the blob key for the file's content, usable with
	// [Client.BlobGet].
	Key string `json:"key"`

	// Size is the file size in bytes.
	Size int64 `json:"size,omitempty"`
}

// CommitsList returns the project's commit history.
func (c *Client) CommitsList(ctx context.Context) ([]Commit, error) {
	var commits []Commit
	if err := c.api.GetJSON(ctx, c.routes.CommitsList(), &commits); err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	return commits, nil
}

// FilesList returns the project tree at commitID, rooted at path. Pass "/"
// for the whole tree.
func (c *Client) FilesList(ctx context.Context, commitID, path string) ([]FileEntry, error) {
	if commitID == "" {
		return nil, errors.New("commit id cannot be empty")
	}
	if path == "" {
		path = "/"
	}

	var entries struct {
		Data []FileEntry `json:"data"`
	}
	if err := c.api.GetJSON(ctx, c.routes.FilesList(commitID, path), &entries); err != nil {
		return nil, fmt.Errorf("list files at %s: %w", commitID, err)
	}
	return entries.Data, nil
}

// FileUpload uploads content to path in the project, creating a new
// commit. Parent directories in path are created as needed by the
// deployment.
func (c *Client) FileUpload(ctx context.Context, path string, content io.Reader) error {
	if strings.Trim(path, "/") == "" {
		return errors.New("upload path cannot be empty")
	}
	if err := c.api.Put(ctx, c.routes.FileUpload(path), content, nil); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	c.logger.Info("file uploaded", "path", path)
	return nil
}

// BlobGet downloads a file's content by its blob key, as returned in
// [FileEntry.Key].
//
// Returns an error before any request is made if the key is not a
// 40-character blob key; a file path passed by accident is the usual cause.
func (c *Client) BlobGet(ctx context.Context, key string) ([]byte, error) {
	if !blobKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("%q is not a blob key: blob keys are 40 alphanumeric characters; "+
			"if you have a file path, use FilesList to look up its blob key", key)
	}

	data, err := c.api.GetRaw(ctx, c.routes.BlobGet(key))
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}
