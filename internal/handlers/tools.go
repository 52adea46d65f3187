package handlers

import (
	"net/http"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
	"github.com/bobmcallan/atlassian-mcp/internal/registry"
)

// ToolsHandler serves the tool manifest.
type ToolsHandler struct {
	registry *registry.Registry
	logger   *common.Logger
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(reg *registry.Registry, logger *common.Logger) *ToolsHandler {
	return &ToolsHandler{registry: reg, logger: logger}
}

// ServeHTTP handles GET /mcp/v1/tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, protocol.ToolsResponse{Tools: h.registry.List()})
}
