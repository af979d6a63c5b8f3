package reporting

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-tracker/models"
)

type request struct {
	Method, Path, Key, Auth, ContentType string
	Body                                 []byte
}

type fakeTracker struct {
	mu       sync.Mutex
	requests []request
	status   int
}

func (f *fakeTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, request{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		Key:         r.URL.Query().Get("path"),
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "quota exceeded", status)
		return
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/v1/projects/ws/fitness/runs" {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "FIT-7"})
	}
}

func newTracker(t *testing.T, status int) (*fakeTracker, *Project) {
	f := &fakeTracker{status: status}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL, "secret-token", 0).Project("ws/fitness")
}

func TestReporter_RunLifecycle(t *testing.T) {
	f, project := newTracker(t, 0)
	r := NewReporter(project)
	ctx := context.Background()

	r.SetAttribute(ctx, "general/brief", "barbell study")
	r.StartRun(ctx, RunSpec{CustomRunID: "Axis Variation 10:00:00 abcd", Name: "axis", Tags: []string{"Report"}})
	r.UploadRun(ctx, "reports/figures/axis/Participant A - Bench", []byte("png"))
	r.UploadProject(ctx, "reports/axis/Participant A - Bench", []byte("png"))
	r.Stop(ctx)
	r.UploadRun(ctx, "after stop", []byte("png"))

	assert.Zero(t, r.Failures())
	require.Len(t, f.requests, 5)

	for _, req := range f.requests {
		assert.Equal(t, "Bearer secret-token", req.Auth)
	}

	assert.Equal(t, "PUT", f.requests[0].Method)
	assert.Equal(t, "/api/v1/projects/ws%2Ffitness/attributes", f.requests[0].Path)
	assert.Equal(t, "general/brief", f.requests[0].Key)
	assert.JSONEq(t, `{"value":"barbell study"}`, string(f.requests[0].Body))

	var spec RunSpec
	require.NoError(t, json.Unmarshal(f.requests[1].Body, &spec))
	assert.Equal(t, "Axis Variation 10:00:00 abcd", spec.CustomRunID)
	assert.Equal(t, "application/json", f.requests[1].ContentType)

	assert.Equal(t, "/api/v1/runs/FIT-7/files", f.requests[2].Path)
	assert.Equal(t, "reports/figures/axis/Participant A - Bench", f.requests[2].Key)
	assert.Equal(t, "image/png", f.requests[2].ContentType)

	assert.Equal(t, "/api/v1/projects/ws%2Ffitness/files", f.requests[3].Path)
	assert.Equal(t, "reports/axis/Participant A - Bench", f.requests[3].Key)

	assert.Equal(t, "POST", f.requests[4].Method)
	assert.Equal(t, "/api/v1/runs/FIT-7/stop", f.requests[4].Path)
}

func TestReporter_FailuresAreCounted(t *testing.T) {
	f, project := newTracker(t, http.StatusTooManyRequests)
	r := NewReporter(project)
	ctx := context.Background()

	r.SetAttribute(ctx, "general/brief", "x")
	r.StartRun(ctx, RunSpec{Name: "axis"})
	r.UploadRun(ctx, "k", []byte("png"))
	r.UploadProject(ctx, "k", []byte("png"))
	r.Stop(ctx)

	assert.Equal(t, 3, r.Failures())
	assert.Len(t, f.requests, 3, "run-scoped calls are skipped without a run")
}

func TestReporter_Disabled(t *testing.T) {
	r := Disabled()
	ctx := context.Background()
	assert.False(t, r.Enabled())

	r.SetAttribute(ctx, "k", "v")
	r.StartRun(ctx, RunSpec{})
	r.UploadProject(ctx, "k", nil)
	r.UploadRun(ctx, "k", nil)
	r.Stop(ctx)
	assert.Zero(t, r.Failures())
	assert.False(t, NewReporter(nil).Enabled())
}

func TestClient_ErrorCarriesStatus(t *testing.T) {
	_, project := newTracker(t, http.StatusForbidden)

	_, err := project.CreateRun(context.Background(), RunSpec{Name: "axis"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalService)
	assert.Contains(t, err.Error(), "403 - quota exceeded")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, "t", 0).Project("p").Upload(context.Background(), "k", []byte("png"))
	assert.ErrorIs(t, err, models.ErrExternalService)
}
