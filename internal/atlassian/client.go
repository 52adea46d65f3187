// Package atlassian turns tool invocations into single authenticated REST calls
// against Jira and Confluence Cloud and normalizes the responses.
//
// Every connector returns either domain fields (2xx), an upstream error map
// {"error": <body>, "status_code": <code>} (non-2xx), or {"error": "<param> is
// required"} without contacting the upstream. Only transport failures are returned
// as Go errors; they wrap ErrTransport.
package atlassian

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

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/config"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// maxResponseSize caps upstream response bodies.
const maxResponseSize = 10 << 20

const (
	jiraAPIPath       = "/rest/api/3"
	confluenceAPIPath = "/wiki/rest/api"
)

// ErrTransport marks failures to reach the upstream (DNS, connect, timeout).
var ErrTransport = errors.New("upstream unreachable")

// Client calls the Atlassian REST APIs with basic auth.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client for the configured Atlassian site.
func NewClient(cfg config.AtlassianConfig, logger *common.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		email:    cfg.Email,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger,
	}
}

// BaseURL returns the configured site URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// upstreamResponse is a fully read upstream reply.
type upstreamResponse struct {
	StatusCode int
	Body       []byte
}

func (r *upstreamResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// errorResult is the connector-level envelope for non-2xx replies.
func (r *upstreamResponse) errorResult() map[string]any {
	return map[string]any{
		"error":       string(r.Body),
		"status_code": r.StatusCode,
	}
}

func (r *upstreamResponse) decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse upstream response: %w", err)
	}
	return nil
}

func (c *Client) jira(ctx context.Context, method, endpoint string, body any) (*upstreamResponse, error) {
	return c.do(ctx, method, c.baseURL+jiraAPIPath+endpoint, body)
}

func (c *Client) confluence(ctx context.Context, method, endpoint string, body any) (*upstreamResponse, error) {
	return c.do(ctx, method, c.baseURL+confluenceAPIPath+endpoint, body)
}

// do performs one request. Non-2xx statuses are not errors.
func (c *Client) do(ctx context.Context, method, url string, body any) (*upstreamResponse, error) {
	c.logger.Debug().Str("method", method).Str("url", url).Msg("upstream request")

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.email, c.apiToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().
			Str("method", method).
			Str("url", url).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("upstream request failed")
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("upstream response")

	return &upstreamResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

// missing returns the connector-level error for absent required parameters.
func missing(names ...string) map[string]any {
	return map[string]any{"error": protocol.RequiredMessage(names...)}
}
