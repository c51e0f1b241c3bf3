// Package api implements the HTTP client used by the CLI to talk to the
// TimeTrac server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/pkg/api"
)

// Client is an HTTP client for the TimeTrac API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new API client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer credential attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account and returns the fresh session.
func (c *Client) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	req := api.RegisterRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	req := api.LoginRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout revokes the current credential server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Start begins a new entry, implicitly stopping any running one.
func (c *Client) Start(ctx context.Context, req api.StartRequest) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/tracks/start", req, &entry); err != nil {
		return nil, fmt.Errorf("start request failed: %w", err)
	}
	return &entry, nil
}

// Stop closes the running entry (or a specific one when id is set).
func (c *Client) Stop(ctx context.Context, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	req := api.StopRequest{ID: id}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/tracks/stop", req, &entry); err != nil {
		return nil, fmt.Errorf("stop request failed: %w", err)
	}
	return &entry, nil
}

// List returns the caller's entries, most recent first.
func (c *Client) List(ctx context.Context) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/tracks", nil, &entries); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return entries, nil
}

// doRequest performs one JSON round trip.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
