package app

import (
	"testing"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/config"
)

func TestNew_WiresEveryComponent(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Atlassian.URL = "https://example.atlassian.net"

	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Registry.Len() != 8 {
		t.Errorf("expected 8 tools, got %d", a.Registry.Len())
	}
	if err := a.Dispatcher.Verify(); err != nil {
		t.Errorf("expected every tool bound: %v", err)
	}
	if a.HealthHandler == nil || a.ToolsHandler == nil || a.InvokeHandler == nil || a.MCPHandler == nil {
		t.Error("expected all handlers to be initialized")
	}
}
