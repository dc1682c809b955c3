package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_SetsIdentifyingHeaders(t *testing.T) {
	var auth, requestID, userAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-Id")
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "quarry-go/test")
	if err := client.GetJSON(context.Background(), ts.URL, nil); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}

	if !strings.HasPrefix(auth, "Basic ") {
		t.Errorf("Authorization = %q, want basic auth", auth)
	}
	if requestID == "" {
		t.Error("X-Request-Id header not set")
	}
	if userAgent != "quarry-go/test" {
		t.Errorf("User-Agent = %q", userAgent)
	}
}

func TestClient_UniqueRequestIDs(t *testing.T) {
	seen := make(map[string]bool)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-Id")] = true
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "")
	for i := 0; i < 3; i++ {
		if err := client.GetJSON(context.Background(), ts.URL, nil); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if len(seen) != 3 {
		t.Errorf("got %d distinct request IDs across 3 requests", len(seen))
	}
}

func TestClient_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "")
	err := client.GetJSON(context.Background(), ts.URL, nil)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
	if httpErr.RequestID == "" {
		t.Error("RequestID not recorded on error")
	}
	if !strings.Contains(httpErr.Error(), "not found") {
		t.Errorf("Error() = %q, want the response body included", httpErr.Error())
	}
}

func TestHTTPError_Transient(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		err := &HTTPError{StatusCode: tt.status}
		if got := err.Transient(); got != tt.transient {
			t.Errorf("HTTPError{%d}.Transient() = %v, want %v", tt.status, got, tt.transient)
		}
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Error("IsTransient(nil) = true")
	}
	if IsTransient(context.Canceled) {
		t.Error("IsTransient(context.Canceled) = true")
	}
	if IsTransient(context.DeadlineExceeded) {
		t.Error("IsTransient(context.DeadlineExceeded) = true")
	}
	if !IsTransient(&url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}) {
		t.Error("IsTransient(network error) = false")
	}
	if !IsTransient(&HTTPError{StatusCode: 500}) {
		t.Error("IsTransient(HTTP 500) = false")
	}
	if IsTransient(&HTTPError{StatusCode: 404}) {
		t.Error("IsTransient(HTTP 404) = true")
	}
	// wrapped errors still classify
	wrapped := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("reset")}
	if !IsTransient(errWrap("list runs", wrapped)) {
		t.Error("IsTransient(wrapped network error) = false")
	}
}

// errWrap mimics the fmt.Errorf("%s: %w") wrapping used by callers.
func errWrap(msg string, err error) error {
	return &wrappedError{msg: msg, err: err}
}

type wrappedError struct {
	msg string
	err error
}

func (w *wrappedError) Error() string { return w.msg + ": " + w.err.Error() }
func (w *wrappedError) Unwrap() error { return w.err }

func TestClient_WithoutRedirects(t *testing.T) {
	targetHit := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/redirect":
			http.Redirect(w, r, "/target", http.StatusSeeOther)
		case "/target":
			targetHit = true
		}
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "")
	err := client.PostForm(context.Background(), ts.URL+"/redirect", url.Values{"a": {"b"}}, nil, WithoutRedirects())
	if err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if targetHit {
		t.Error("redirect was followed despite WithoutRedirects")
	}

	// the shared client still follows redirects afterwards
	if err := client.PostForm(context.Background(), ts.URL+"/redirect", url.Values{"a": {"b"}}, nil); err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if !targetHit {
		t.Error("default request did not follow the redirect")
	}
}

func TestClient_PostFormEncoding(t *testing.T) {
	var contentType, body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "")
	form := url.Values{}
	form.Set("projectName", "demo project")
	if err := client.PostForm(context.Background(), ts.URL, form, nil); err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}

	if contentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if body != "projectName=demo+project" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	client := NewClient(APIKey("secret"), nil, testLogger(), "")
	var out map[string]any
	if err := client.GetJSON(context.Background(), ts.URL, &out); err == nil {
		t.Error("expected decode error, got nil")
	}
}

func TestClient_Close(t *testing.T) {
	client := NewClient(APIKey("secret"), nil, testLogger(), "")

	// idempotent and nil-safe
	client.Close()
	client.Close()

	var nilClient *Client
	nilClient.Close()
}
