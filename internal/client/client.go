// Package client is the caller-side view of the tool server: health check, tool
// discovery and invocation. No method returns an error; failures are reported
// the same way the server reports them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// maxResponseSize caps server response bodies.
const maxResponseSize = 10 << 20

const (
	DefaultHealthTimeout = 5 * time.Second
	DefaultListTimeout   = 10 * time.Second
	DefaultInvokeTimeout = 30 * time.Second
)

// Client talks to a tool server.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *common.Logger
	healthTimeout time.Duration
	listTimeout   time.Duration
	invokeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHealthTimeout sets the HealthCheck deadline.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) { c.healthTimeout = d }
}

// WithListTimeout sets the ListTools deadline.
func WithListTimeout(d time.Duration) Option {
	return func(c *Client) { c.listTimeout = d }
}

// WithInvokeTimeout sets the Invoke deadline.
func WithInvokeTimeout(d time.Duration) Option {
	return func(c *Client) { c.invokeTimeout = d }
}

// New creates a client for the server at serverURL.
func New(serverURL string, logger *common.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(serverURL, "/"),
		httpClient:    &http.Client{},
		logger:        logger,
		healthTimeout: DefaultHealthTimeout,
		listTimeout:   DefaultListTimeout,
		invokeTimeout: DefaultInvokeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HealthCheck reports whether the server answers GET /health with 200.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	status, _, err := c.do(ctx, http.MethodGet, protocol.HealthPath, nil)
	if err != nil {
		c.logger.Debug().Str("error", err.Error()).Msg("health check failed")
		return false
	}
	return status == http.StatusOK
}

// ListTools returns the server's tool manifest, or an empty slice on any failure.
func (c *Client) ListTools(ctx context.Context) []protocol.ToolDescriptor {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	status, body, err := c.do(ctx, http.MethodGet, protocol.ToolsPath, nil)
	if err != nil {
		c.logger.Warn().Str("error", err.Error()).Msg("failed to list tools")
		return []protocol.ToolDescriptor{}
	}
	if status != http.StatusOK {
		c.logger.Warn().Int("status", status).Str("body", string(body)).Msg("failed to list tools")
		return []protocol.ToolDescriptor{}
	}

	var resp protocol.ToolsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn().Str("error", err.Error()).Msg("failed to parse tool manifest")
		return []protocol.ToolDescriptor{}
	}
	if resp.Tools == nil {
		return []protocol.ToolDescriptor{}
	}
	return resp.Tools
}

// Invoke calls a tool. Nil params are sent as {}.
func (c *Client) Invoke(ctx context.Context, name string, params map[string]any) protocol.InvocationResult {
	if params == nil {
		params = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.invokeTimeout)
	defer cancel()

	status, body, err := c.do(ctx, http.MethodPost, protocol.InvokePath, protocol.InvocationRequest{
		Name:       name,
		Parameters: params,
	})
	if err != nil {
		c.logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("invoke failed")
		return protocol.Failure(protocol.KindTransport, err.Error())
	}

	if result, ok := decodeEnvelope(body); ok {
		return result
	}
	if status < 200 || status >= 300 {
		return protocol.Failure(protocol.KindProtocol, fmt.Sprintf("server returned %d: %s", status, string(body)))
	}
	return protocol.Failure(protocol.KindProtocol, "failed to parse response: "+string(body))
}

// decodeEnvelope parses body as an invocation envelope. A JSON object without
// result or error keys is not an envelope.
func decodeEnvelope(body []byte) (protocol.InvocationResult, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return protocol.InvocationResult{}, false
	}
	_, hasResult := probe["result"]
	_, hasError := probe["error"]
	if !hasResult && !hasError {
		return protocol.InvocationResult{}, false
	}

	var result protocol.InvocationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return protocol.InvocationResult{}, false
	}
	return result, true
}

// do performs one request and reads the body. Only transport failures are errors.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
