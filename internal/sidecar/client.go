// Package sidecar is the client for the local loopback agent that manages
// the remote development environment. The agent's contract is fixed:
// three JSON endpoints on a local port, no auth, no retries, no
// versioning.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Environment statuses reported by the agent.
const (
	StatusPending = "PENDING"
	StatusStable  = "STABLE"
	StatusChanged = "CHANGED"
)

type StartRequest struct {
	Location            string `json:"location"`
	RecreateHomeVolumes bool   `json:"recreateHomeVolumes"`
}

type devfileCreateRequest struct {
	Path string `json:"path"`
}

type DevfileCreateResponse struct {
	Location string `json:"location"`
}

type StatusResponse struct {
	ActionID string `json:"actionId"`
	Message  string `json:"message"`
	Status   string `json:"status"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(port int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", port),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Start asks the agent to start the environment at the given location.
func (c *Client) Start(ctx context.Context, req StartRequest) error {
	return c.post(ctx, "/start", req, nil)
}

// CreateDevfile asks the agent to create a devfile at the given path and
// returns the location the agent reports for it.
func (c *Client) CreateDevfile(ctx context.Context, path string) (string, error) {
	var resp DevfileCreateResponse
	if err := c.post(ctx, "/devfile/create", devfileCreateRequest{Path: path}, &resp); err != nil {
		return "", err
	}
	return resp.Location, nil
}

// Status reports the agent's view of the environment.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out interface{}) error {
	c.logger.Debug("sidecar request", zap.String("method", req.Method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sidecar %s returned %s: %s", path, resp.Status, string(payload))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode sidecar %s response: %w", path, err)
	}

	return nil
}
