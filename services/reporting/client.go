// Package reporting pushes rendered charts and run metadata to an
// experiment-tracking service over HTTP.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fitness-tracker/models"
)

// RunSpec describes a run to create.
type RunSpec struct {
	CustomRunID string   `json:"custom_run_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	SourceFiles []string `json:"source_files,omitempty"`
}

// Client is a bearer-token authenticated tracker client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the tracker at baseURL.
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   apiToken,
		http:    &http.Client{Timeout: timeout},
	}
}

// Project is a handle on one tracker project.
type Project struct {
	c    *Client
	name string
}

// Project returns a handle for project name ("workspace/project").
func (c *Client) Project(name string) *Project {
	return &Project{c: c, name: name}
}

// Name returns the project path.
func (p *Project) Name() string { return p.name }

// Run is a handle on a created run.
type Run struct {
	c  *Client
	ID string
}

// CreateRun registers a new run in project.
func (p *Project) CreateRun(ctx context.Context, spec RunSpec) (*Run, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode run spec: %w", err)
	}
	var out struct {
		ID string `json:"id"`
	}
	endpoint := p.c.baseURL + "/api/v1/projects/" + url.PathEscape(p.name) + "/runs"
	if err := p.c.send(ctx, http.MethodPost, endpoint, "application/json", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, models.ExternalService(endpoint, "run created without id")
	}
	return &Run{c: p.c, ID: out.ID}, nil
}

// Upload stores a PNG under key in the project namespace.
func (p *Project) Upload(ctx context.Context, key string, png []byte) error {
	endpoint := p.c.baseURL + "/api/v1/projects/" + url.PathEscape(p.name) + "/files?path=" + url.QueryEscape(key)
	return p.c.send(ctx, http.MethodPut, endpoint, "image/png", png, nil)
}

// SetAttribute stores a string attribute under key in the project namespace.
func (p *Project) SetAttribute(ctx context.Context, key, value string) error {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return fmt.Errorf("encode attribute: %w", err)
	}
	endpoint := p.c.baseURL + "/api/v1/projects/" + url.PathEscape(p.name) + "/attributes?path=" + url.QueryEscape(key)
	return p.c.send(ctx, http.MethodPut, endpoint, "application/json", body, nil)
}

// Upload stores a PNG under key in the run namespace.
func (r *Run) Upload(ctx context.Context, key string, png []byte) error {
	endpoint := r.c.baseURL + "/api/v1/runs/" + url.PathEscape(r.ID) + "/files?path=" + url.QueryEscape(key)
	return r.c.send(ctx, http.MethodPut, endpoint, "image/png", png, nil)
}

// Stop marks the run finished.
func (r *Run) Stop(ctx context.Context) error {
	endpoint := r.c.baseURL + "/api/v1/runs/" + url.PathEscape(r.ID) + "/stop"
	return r.c.send(ctx, http.MethodPost, endpoint, "", nil, nil)
}

func (c *Client) send(ctx context.Context, method, endpoint, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &models.PipelineError{Kind: models.ErrExternalService, Path: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return models.ExternalService(endpoint, "%d - %s", resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &models.PipelineError{Kind: models.ErrExternalService, Path: endpoint, Msg: "decode response", Err: err}
		}
	}
	return nil
}
