package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/atlassian-mcp/internal/dispatch"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// NewServer creates an MCP server exposing every registry tool through the dispatcher.
func NewServer(d *dispatch.Dispatcher, name, version string) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	for _, desc := range d.Registry().List() {
		s.AddTool(BuildTool(desc), dispatchHandler(d, desc.Name))
	}
	s.AddTool(VersionTool(), VersionToolHandler(name))
	return s
}

// dispatchHandler routes an MCP tool call through the dispatcher so both
// transports share validation and error mapping.
func dispatchHandler(d *dispatch.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := r.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		out := d.Dispatch(ctx, protocol.InvocationRequest{Name: name, Parameters: args})
		if out.Result.Failed() {
			return errorResult(out.Result.Error), nil
		}

		body, err := json.Marshal(out.Result.Result)
		if err != nil {
			return errorResult("failed to encode result: " + err.Error()), nil
		}
		if out.Result.Kind == protocol.KindUpstream {
			return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(body))}, IsError: true}, nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(body))}}, nil
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
