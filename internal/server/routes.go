package server

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/atlassian-mcp/internal/handlers"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Tool protocol
	mux.Handle(protocol.HealthPath, s.app.HealthHandler)
	mux.Handle(protocol.ToolsPath, s.app.ToolsHandler)
	mux.Handle(protocol.InvokePath, s.app.InvokeHandler)

	mux.Handle("/version", s.app.VersionHandler)

	// MCP endpoint (JSON-RPC over Streamable HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns the error envelope for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, protocol.KindProtocol, fmt.Sprintf("Not found: %s", r.URL.Path))
}
