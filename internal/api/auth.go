package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Credentials injects authentication into an outgoing request.
//
// Two strategies are provided: [APIKey] (basic auth) and [TokenFile]
// (bearer token read from disk). Apply is called once per request.
type Credentials interface {
	Apply(req *http.Request) error
}

// APIKey authenticates requests using HTTP basic auth with an empty
// username and the key as the password.
type APIKey string

// Apply sets the Authorization header using basic auth.
func (k APIKey) Apply(req *http.Request) error {
	if k == "" {
		return errors.New("API key is empty")
	}
	req.SetBasicAuth("", string(k))
	return nil
}

// TokenFile authenticates requests using a bearer token stored in a file.
//
// The file is re-read on every request so that rotated tokens are picked up
// without restarting the client. Leading and trailing whitespace in the file
// is ignored.
type TokenFile string

// Apply reads the token file and sets the Authorization header.
func (t TokenFile) Apply(req *http.Request) error {
	data, err := os.ReadFile(string(t))
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file %s is empty", string(t))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
