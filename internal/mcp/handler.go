// Package mcp exposes the tool registry over the Model Context Protocol, both as a
// Streamable HTTP endpoint and over stdio.
package mcp

import (
	"context"
	"net/http"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a stateless Streamable HTTP handler for s.
func NewHandler(s *mcpserver.MCPServer, logger *common.Logger) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
	)
	return &Handler{streamable: streamable, logger: logger}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// ServeStdio serves s over stdin/stdout until the input closes.
// Logging must not write to stdout while this runs.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer, logger *common.Logger) error {
	logger.Info().Msg("serving MCP over stdio")
	stdio := mcpserver.NewStdioServer(s)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
