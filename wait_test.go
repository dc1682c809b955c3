package quarry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
)

// fastWait keeps poll loops quick in tests.
func fastWait(maxRetries int) []WaitOption {
	return []WaitOption{
		WithPollInterval(5 * time.Millisecond),
		WithMaxWait(5 * time.Second),
		WithMaxRetries(maxRetries),
	}
}

// runListServer serves the runs-list and stdout routes from a script of
// responses, advancing one step per status fetch. The last step repeats.
type runListServer struct {
	mu          sync.Mutex
	steps       []func(w http.ResponseWriter)
	statusCalls int
	logCalls    int
	stdout      string
}

func (s *runListServer) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/v1/projects/alice/demo/runs":
		step := s.statusCalls
		if step >= len(s.steps) {
			step = len(s.steps) - 1
		}
		s.statusCalls++
		s.steps[step](w)
	case "/v1/projects/alice/demo/runs/r1/stdout":
		s.logCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"setup": "setup log", "stdout": s.stdout})
	default:
		http.NotFound(w, r)
	}
}

func (s *runListServer) counts() (status, log int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls, s.logCalls
}

// listWith responds with a single-run list in the deployment's envelope.
func listWith(status RunStatus, outputCommit string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		run := map[string]any{"id": "r1", "status": string(status)}
		if outputCommit != "" {
			run["outputCommitId"] = outputCommit
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{run}})
	}
}

func serverError(w http.ResponseWriter) {
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func TestWaitForRun_Succeeds(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){
			listWith(StatusRunning, ""),
			listWith(StatusRunning, ""),
			listWith(StatusSucceeded, "out-commit-1"),
		},
		stdout: "hello from the run",
	}
	client := newTestClient(t, rs.handler)

	run, log, err := client.WaitForRun(context.Background(), "r1", fastWait(2)...)
	if err != nil {
		t.Fatalf("WaitForRun() error = %v", err)
	}
	if run.OutputCommitID != "out-commit-1" {
		t.Errorf("OutputCommitID = %q, want %q", run.OutputCommitID, "out-commit-1")
	}
	if log != "hello from the run" {
		t.Errorf("log = %q, want %q", log, "hello from the run")
	}

	statusCalls, logCalls := rs.counts()
	if statusCalls != 3 {
		t.Errorf("status fetches = %d, want 3", statusCalls)
	}
	// the log is fetched exactly once, on the terminal iteration
	if logCalls != 1 {
		t.Errorf("log fetches = %d, want 1", logCalls)
	}
}

// A reported Succeeded status without an output commit means the run is
// still finishing; the poller must keep waiting and eventually time out.
func TestWaitForRun_TimeoutWithoutOutputCommit(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){listWith(StatusSucceeded, "")},
	}
	client := newTestClient(t, rs.handler)

	_, _, err := client.WaitForRun(context.Background(), "r1",
		WithPollInterval(5*time.Millisecond),
		WithMaxWait(60*time.Millisecond),
		WithMaxRetries(2),
	)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected *TimeoutError, got %v", err)
	}
	if timeout.RunID != "r1" {
		t.Errorf("RunID = %q, want %q", timeout.RunID, "r1")
	}
	if timeout.Waited < timeout.Budget {
		t.Errorf("Waited = %s is below the budget %s", timeout.Waited, timeout.Budget)
	}

	_, logCalls := rs.counts()
	if logCalls != 0 {
		t.Errorf("log fetches = %d, want 0", logCalls)
	}
}

func TestWaitForRun_RetryExhausted(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){serverError},
	}
	client := newTestClient(t, rs.handler)

	_, _, err := client.WaitForRun(context.Background(), "r1", fastWait(2)...)

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *RetryExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}

	// maxRetries+1 failures, then no further fetches
	statusCalls, _ := rs.counts()
	if statusCalls != 3 {
		t.Errorf("status fetches = %d, want 3", statusCalls)
	}
}

// The consecutive-failure counter resets on success: two bursts of
// maxRetries failures separated by successes must not exhaust the budget.
func TestWaitForRun_FailureCounterResetsOnSuccess(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){
			serverError,
			serverError,
			listWith(StatusRunning, ""),
			serverError,
			serverError,
			listWith(StatusSucceeded, "out-commit-1"),
		},
		stdout: "ok",
	}
	client := newTestClient(t, rs.handler)

	run, _, err := client.WaitForRun(context.Background(), "r1", fastWait(2)...)
	if err != nil {
		t.Fatalf("WaitForRun() error = %v", err)
	}
	if run.Status != StatusSucceeded {
		t.Errorf("Status = %q, want %q", run.Status, StatusSucceeded)
	}

	statusCalls, _ := rs.counts()
	if statusCalls != 6 {
		t.Errorf("status fetches = %d, want 6", statusCalls)
	}
}

func TestWaitForRun_RunFailed(t *testing.T) {
	rs := &runListServer{
		steps:  []func(http.ResponseWriter){listWith(StatusFailed, "out-commit-1")},
		stdout: "Traceback: boom",
	}
	client := newTestClient(t, rs.handler)

	_, _, err := client.WaitForRun(context.Background(), "r1", fastWait(2)...)

	var failed *RunFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *RunFailedError, got %v", err)
	}
	if failed.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", failed.Status, StatusFailed)
	}
	if failed.Log != "Traceback: boom" {
		t.Errorf("Log = %q, want the fetched log text", failed.Log)
	}
}

func TestWaitForRun_UnknownRun(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){
			func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{
					map[string]any{"id": "other-run", "status": "Running"},
				}})
			},
		},
	}
	client := newTestClient(t, rs.handler)

	_, _, err := client.WaitForRun(context.Background(), "r1", fastWait(5)...)

	var unknown *UnknownRunError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownRunError, got %v", err)
	}

	// unknown runs are not retried
	statusCalls, _ := rs.counts()
	if statusCalls != 1 {
		t.Errorf("status fetches = %d, want 1", statusCalls)
	}
}

func TestWaitForRun_ContextCancelled(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){listWith(StatusRunning, "")},
	}
	client := newTestClient(t, rs.handler)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := client.WaitForRun(ctx, "r1",
		WithPollInterval(time.Hour), // the cancel must interrupt the sleep
		WithMaxWait(24*time.Hour),
		WithMaxRetries(0),
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitOptions_Validation(t *testing.T) {
	client := newTestClient(t, nil)

	tests := []struct {
		name string
		opt  WaitOption
	}{
		{"zero poll interval", WithPollInterval(0)},
		{"negative poll interval", WithPollInterval(-time.Second)},
		{"zero max wait", WithMaxWait(0)},
		{"negative max retries", WithMaxRetries(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := client.WaitForRun(context.Background(), "r1", tt.opt)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestRunsStartBlocking(t *testing.T) {
	rs := &runListServer{
		steps: []func(http.ResponseWriter){
			listWith(StatusRunning, ""),
			listWith(StatusSucceeded, "out-commit-1"),
		},
		stdout: "done",
	}

	var submitted runRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/projects/alice/demo/runs" {
			if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
				t.Errorf("decode submission: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"runId": "r1"})
			return
		}
		rs.handler(w, r)
	})

	run, log, err := client.RunsStartBlocking(context.Background(),
		[]string{"train.py", "--epochs", "10"},
		[]RunOption{WithTitle("nightly")},
		fastWait(2)...,
	)
	if err != nil {
		t.Fatalf("RunsStartBlocking() error = %v", err)
	}
	if run.ID != "r1" {
		t.Errorf("run ID = %q, want %q", run.ID, "r1")
	}
	if log != "done" {
		t.Errorf("log = %q, want %q", log, "done")
	}
	if len(submitted.Command) != 3 || submitted.Command[0] != "train.py" {
		t.Errorf("submitted command = %v", submitted.Command)
	}
	if submitted.Title == nil || *submitted.Title != "nightly" {
		t.Errorf("submitted title = %v, want nightly", submitted.Title)
	}
}
