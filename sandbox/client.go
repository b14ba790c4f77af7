package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voocel/toolgate/schema"
)

// HTTPClient talks to the sandbox provisioner over JSON/HTTP.
type HTTPClient struct {
	Endpoint  string
	Client    *http.Client
	AuthToken string
}

// NewHTTPClient creates a client for the given provisioner endpoint.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type createPayload struct {
	SandboxID string `json:"sandbox_id"`
	Runtime   string `json:"runtime"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
}

type createResponse struct {
	SandboxID string `json:"sandbox_id"`
	Status    string `json:"status"`
}

type writePayload struct {
	SandboxID string `json:"sandbox_id"`
	Path      string `json:"path"`
	Content   string `json:"content"`
}

type execPayload struct {
	SandboxID string   `json:"sandbox_id"`
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
}

type execResponse struct {
	Status   string `json:"status"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Create provisions a new sandbox session.
func (c *HTTPClient) Create(ctx context.Context, req CreateRequest) (Session, error) {
	payload := createPayload{
		SandboxID: uuid.New().String(),
		Runtime:   req.Runtime,
		TimeoutMS: req.TimeoutMS,
	}
	var resp createResponse
	if err := c.doJSON(ctx, "/v1/sandbox/create", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != StatusOK {
		return nil, fmt.Errorf("sandbox create failed: %s", resp.Status)
	}
	id := resp.SandboxID
	if id == "" {
		id = payload.SandboxID
	}
	return &httpSession{client: c, id: id}, nil
}

// Close releases the client. Individual sessions are stopped by their owners.
func (c *HTTPClient) Close() error { return nil }

type httpSession struct {
	client *HTTPClient
	id     string
}

func (s *httpSession) ID() string { return s.id }

func (s *httpSession) WriteFile(ctx context.Context, path string, content []byte) error {
	var resp statusResponse
	payload := writePayload{SandboxID: s.id, Path: path, Content: string(content)}
	if err := s.client.doJSON(ctx, "/v1/sandbox/write", payload, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != StatusOK {
		return fmt.Errorf("sandbox write failed: %s", resp.Status)
	}
	return nil
}

func (s *httpSession) Run(ctx context.Context, command string, args ...string) (*RunResult, error) {
	var resp execResponse
	payload := execPayload{SandboxID: s.id, Command: command, Args: args}
	if err := s.client.doJSON(ctx, "/v1/sandbox/exec", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("sandbox exec failed: %s", resp.Stderr)
	}
	return &RunResult{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}, nil
}

func (s *httpSession) Stop(ctx context.Context) error {
	var resp statusResponse
	payload := map[string]string{"sandbox_id": s.id}
	if err := s.client.doJSON(ctx, "/v1/sandbox/destroy", payload, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != StatusOK {
		return fmt.Errorf("sandbox destroy failed: %s", resp.Status)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, path string, in any, out any) error {
	if c == nil {
		return errors.New("sandbox client is nil")
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 60 * time.Second}
	}
	base := strings.TrimRight(c.Endpoint, "/")
	if base == "" {
		return errors.New("sandbox endpoint is empty")
	}
	fullURL, err := url.JoinPath(base, path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(c.AuthToken) != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrSandboxUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(data) > 0 {
			return fmt.Errorf("sandbox http error: %s: %s", resp.Status, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("sandbox http error: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
