// Package client talks to the trace service that produces storyboards.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// VisualizePath is the trace service endpoint.
const VisualizePath = "/api/visualize"

// Request asks the trace service to trace code run on input.
type Request struct {
	Code      string `json:"code"`
	InputData string `json:"input_data"`
}

type response struct {
	Storyboard storyboard.Storyboard `json:"storyboard"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// ServiceError is a non-2xx answer from the trace service.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("trace service returned %d", e.Status)
	}
	return fmt.Sprintf("trace service returned %d: %s", e.Status, e.Detail)
}

// Fetcher produces a storyboard for a request.
type Fetcher interface {
	Visualize(ctx context.Context, req Request) (storyboard.Storyboard, error)
}

// Client is a Fetcher over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	c := new(Client)
	c.url = strings.TrimRight(baseURL, "/") + VisualizePath
	c.http = &http.Client{Timeout: timeout}
	return c
}

// Visualize posts req and decodes the storyboard. A single attempt is made.
func (c *Client) Visualize(ctx context.Context, req Request) (storyboard.Storyboard, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Status: resp.StatusCode, Detail: detail(data)}
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode storyboard: %w", err)
	}
	return out.Storyboard, nil
}

// detail extracts the human readable reason from an error body. The
// service sends either a string or a structured validation report.
func detail(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	if string(body.Detail) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body.Detail); err != nil {
		return ""
	}
	return buf.String()
}

// Unreachable is shown when the failure carries no detail from the service.
const Unreachable = "Is the trace service reachable?"

// Message turns a fetch failure into the single line shown to the user.
func Message(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Detail != "" {
		return "Failed to load data: " + se.Detail
	}
	return "Failed to load data: " + Unreachable
}
