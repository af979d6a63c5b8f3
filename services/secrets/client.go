// Package secrets fetches API keys from an Infisical secret manager using
// universal-auth machine credentials kept in a local JSON file.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"fitness-tracker/models"
	"fitness-tracker/utils"
)

// Credentials is the layout of the local secrets file.
type Credentials struct {
	Infisical struct {
		ClientID     string `json:"clientId"`
		ClientSecret string `json:"clientSecret"`
		WorkspaceID  string `json:"workspaceId"`
	} `json:"infisical"`
}

// LoadCredentials reads the secrets file at path.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	if c.Infisical.ClientID == "" || c.Infisical.ClientSecret == "" {
		return nil, fmt.Errorf("secrets file %s: infisical clientId and clientSecret are required", path)
	}
	return &c, nil
}

// Secret is one fetched key/value pair.
type Secret struct {
	Key   string
	Value string
}

// Client talks to the Infisical REST API.
type Client struct {
	baseURL string
	creds   *Credentials
	http    *http.Client
}

// NewClient creates a client for the Infisical instance at baseURL.
func NewClient(baseURL string, creds *Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Fetch exchanges the machine credentials for an access token, then reads
// the secret called name from environment env.
func (c *Client) Fetch(ctx context.Context, name, env string) (Secret, error) {
	if name == "" {
		return Secret{}, errors.New("secrets: empty secret name")
	}

	token, err := c.login(ctx)
	if err != nil {
		return Secret{}, err
	}
	utils.L().Debug("secret manager login complete")

	q := url.Values{}
	q.Set("environment", env)
	q.Set("workspaceId", c.creds.Infisical.WorkspaceID)
	endpoint := c.baseURL + "/api/v3/secrets/raw/" + url.PathEscape(name) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var body struct {
		Secret struct {
			SecretKey   string `json:"secretKey"`
			SecretValue string `json:"secretValue"`
		} `json:"secret"`
	}
	if err := c.do(req, &body); err != nil {
		return Secret{}, err
	}
	utils.L().Debug("secret %s fetched (env=%s)", name, env)
	return Secret{Key: body.Secret.SecretKey, Value: body.Secret.SecretValue}, nil
}

func (c *Client) login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("clientSecret", c.creds.Infisical.ClientSecret)
	form.Set("clientId", c.creds.Infisical.ClientID)

	endpoint := c.baseURL + "/api/v1/auth/universal-auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("secrets: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", models.ExternalService(endpoint, "login response carried no access token")
	}
	return body.AccessToken, nil
}

func (c *Client) do(req *http.Request, out any) error {
	endpoint := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		return &models.PipelineError{Kind: models.ErrExternalService, Path: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.PipelineError{Kind: models.ErrExternalService, Path: endpoint, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			return models.ExternalService(endpoint, "%d - %s", ae.StatusCode, ae.Message)
		}
		return models.ExternalService(endpoint, "status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &models.PipelineError{Kind: models.ErrExternalService, Path: endpoint, Msg: "decode response", Err: err}
	}
	return nil
}
