package routes

import (
	"net/url"
	"strings"
)

// Builder constructs URLs for a single deployment and project.
//
// Builder is immutable after creation via [New]. All methods return fully
// qualified URLs rooted at the deployment host.
type Builder struct {
	host  string
	owner string
	name  string
}

// New creates a route builder for the given host and owner/project pair.
// A trailing slash on host is removed.
func New(host, owner, name string) *Builder {
	return &Builder{
		host:  strings.TrimRight(host, "/"),
		owner: owner,
		name:  name,
	}
}

// Host returns the deployment host the builder is bound to.
func (b *Builder) Host() string {
	return b.host
}

// project is the /v1 project prefix shared by most routes.
func (b *Builder) project() string {
	return b.host + "/v1/projects/" + url.PathEscape(b.owner) + "/" + url.PathEscape(b.name)
}

// DeploymentVersion returns the version probe route.
func (b *Builder) DeploymentVersion() string {
	return b.host + "/version"
}

func (b *Builder) CommitsList() string {
	return b.project() + "/commits"
}

// RunsList doubles as the run submission route (POST).
func (b *Builder) RunsList() string {
	return b.project() + "/runs"
}

func (b *Builder) RunsStatus(runID string) string {
	return b.project() + "/runs/" + url.PathEscape(runID)
}

func (b *Builder) RunStop(runID string) string {
	return b.project() + "/runs/" + url.PathEscape(runID) + "/stop"
}

func (b *Builder) RunStdout(runID string) string {
	return b.project() + "/runs/" + url.PathEscape(runID) + "/stdout"
}

// FilesList lists the project tree at a commit. The path may contain
// slashes; each segment is escaped individually.
func (b *Builder) FilesList(commitID, path string) string {
	return b.project() + "/files/" + url.PathEscape(commitID) + "/" + escapePath(path)
}

// FileUpload is the PUT target for uploading a file at path.
func (b *Builder) FileUpload(path string) string {
	return b.project() + "/" + escapePath(path)
}

func (b *Builder) BlobGet(key string) string {
	return b.project() + "/blobs/" + url.PathEscape(key)
}

func (b *Builder) EndpointState() string {
	return b.project() + "/endpoint/state"
}

func (b *Builder) Endpoint() string {
	return b.project() + "/endpoint"
}

func (b *Builder) EndpointPublish() string {
	return b.project() + "/endpoint/publishRelease"
}

func (b *Builder) CollaboratorsList() string {
	return b.project() + "/collaborators"
}

func (b *Builder) CollaboratorAdd() string {
	return b.project() + "/collaborators/add"
}

// ProjectCreate is the form-encoded project creation route. It is not
// project-scoped.
func (b *Builder) ProjectCreate() string {
	return b.host + "/project"
}

// FindProject resolves the bound owner/project pair to a project ID.
func (b *Builder) FindProject() string {
	q := url.Values{}
	q.Set("ownerName", b.owner)
	q.Set("projectName", b.name)
	return b.host + "/v4/gateway/projects/findProjectByOwnerAndName?" + q.Encode()
}

func (b *Builder) ProjectFork(projectID string) string {
	return b.host + "/v4/projects/" + url.PathEscape(projectID) + "/fork"
}

func (b *Builder) AppList(projectID string) string {
	q := url.Values{}
	q.Set("projectId", projectID)
	return b.host + "/v4/modelProducts?" + q.Encode()
}

func (b *Builder) AppCreate() string {
	return b.host + "/v4/modelProducts"
}

func (b *Builder) AppStart(appID string) string {
	return b.host + "/v4/modelProducts/" + url.PathEscape(appID) + "/start"
}

func (b *Builder) AppStop(appID string) string {
	return b.host + "/v4/modelProducts/" + url.PathEscape(appID) + "/stop"
}

func (b *Builder) EnvironmentsList() string {
	return b.host + "/v1/environments"
}

// ModelsList doubles as the model publishing route (POST).
func (b *Builder) ModelsList() string {
	return b.host + "/v1/models"
}

// ModelVersions doubles as the version publishing route (POST).
func (b *Builder) ModelVersions(modelID string) string {
	return b.host + "/v1/models/" + url.PathEscape(modelID) + "/versions"
}

// escapePath escapes a slash-separated path segment by segment, so "dir/a b"
// becomes "dir/a%20b" rather than escaping the separators.
func escapePath(path string) string {
	path = strings.TrimLeft(path, "/")
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
