package handlers

import (
	"net/http"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// HealthHandler reports liveness. It does not check upstream reachability.
type HealthHandler struct {
	service string
	logger  *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service string, logger *common.Logger) *HealthHandler {
	return &HealthHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, protocol.HealthResponse{
		Status:  "healthy",
		Service: h.service,
	})
}
