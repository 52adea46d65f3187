package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/atlassian-mcp/internal/config"
)

// VersionToolName is reserved; it is not part of the HTTP tool manifest.
const VersionToolName = "get_version"

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(VersionToolName,
		mcp.WithDescription("Get the Atlassian MCP server version. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build information for the named service.
func VersionToolHandler(service string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(struct {
			Service string `json:"service"`
			config.VersionInfo
		}{Service: service, VersionInfo: config.GetVersionInfo()})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
