package quarry

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

// appServer fakes the project lookup and app routes.
type appServer struct {
	apps     []map[string]string
	started  []string
	stopped  []string
	created  map[string]any
	createID string
}

func (s *appServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v4/gateway/projects/findProjectByOwnerAndName":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "proj-42"})
		case r.URL.Path == "/v4/modelProducts" && r.Method == http.MethodGet:
			if r.URL.Query().Get("projectId") != "proj-42" {
				t.Errorf("app list queried with projectId=%q", r.URL.Query().Get("projectId"))
			}
			_ = json.NewEncoder(w).Encode(s.apps)
		case r.URL.Path == "/v4/modelProducts" && r.Method == http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&s.created)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": s.createID})
			s.apps = append(s.apps, map[string]string{"id": s.createID})
		case r.URL.Path == "/v4/modelProducts/"+s.createID+"/start":
			s.started = append(s.started, s.createID)
		case r.URL.Path == "/v4/modelProducts/app-1/start":
			s.started = append(s.started, "app-1")
		case r.URL.Path == "/v4/modelProducts/app-1/stop":
			s.stopped = append(s.stopped, "app-1")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestAppPublish_CreatesWhenMissing(t *testing.T) {
	as := &appServer{createID: "app-new"}
	client := newTestClient(t, as.handler(t))

	err := client.AppPublish(context.Background(), WithAppName("scoring app"))
	if err != nil {
		t.Fatalf("AppPublish() error = %v", err)
	}

	if as.created == nil {
		t.Fatal("no app record was created")
	}
	if as.created["modelProductType"] != "APP" || as.created["projectId"] != "proj-42" {
		t.Errorf("created app record = %v", as.created)
	}
	if len(as.started) != 1 || as.started[0] != "app-new" {
		t.Errorf("started apps = %v, want [app-new]", as.started)
	}
}

func TestAppPublish_UnpublishesRunningFirst(t *testing.T) {
	as := &appServer{apps: []map[string]string{{"id": "app-1"}}}
	client := newTestClient(t, as.handler(t))

	if err := client.AppPublish(context.Background()); err != nil {
		t.Fatalf("AppPublish() error = %v", err)
	}

	if len(as.stopped) != 1 {
		t.Errorf("stopped apps = %v, want the running app stopped first", as.stopped)
	}
	if len(as.started) != 1 || as.started[0] != "app-1" {
		t.Errorf("started apps = %v, want [app-1]", as.started)
	}
}

func TestAppPublish_KeepRunning(t *testing.T) {
	as := &appServer{apps: []map[string]string{{"id": "app-1"}}}
	client := newTestClient(t, as.handler(t))

	if err := client.AppPublish(context.Background(), WithKeepRunning()); err != nil {
		t.Fatalf("AppPublish() error = %v", err)
	}

	if len(as.stopped) != 0 {
		t.Errorf("stopped apps = %v, want none with WithKeepRunning", as.stopped)
	}
}

func TestAppUnpublish_NoAppIsNoop(t *testing.T) {
	as := &appServer{}
	client := newTestClient(t, as.handler(t))

	if err := client.AppUnpublish(context.Background()); err != nil {
		t.Fatalf("AppUnpublish() error = %v", err)
	}
	if len(as.stopped) != 0 {
		t.Errorf("stopped apps = %v, want none", as.stopped)
	}
}
