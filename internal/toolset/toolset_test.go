package toolset

import (
	"testing"

	"github.com/bobmcallan/atlassian-mcp/internal/atlassian"
	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/config"
	"github.com/bobmcallan/atlassian-mcp/internal/dispatch"
	"github.com/bobmcallan/atlassian-mcp/internal/registry"
)

func TestDescriptors_BuildRegistry(t *testing.T) {
	reg, err := registry.New(Descriptors()...)
	if err != nil {
		t.Fatalf("catalog must be structurally valid: %v", err)
	}
	if reg.Len() != 8 {
		t.Errorf("expected 8 tools, got %d", reg.Len())
	}
}

func TestDescriptors_IssueCreateRequired(t *testing.T) {
	for _, d := range Descriptors() {
		if d.Name != IssueCreate {
			continue
		}
		req := d.RequiredParameters()
		if len(req) != 2 || req[0] != "project_key" || req[1] != "summary" {
			t.Errorf("expected project_key and summary required, got %v", req)
		}
		return
	}
	t.Fatal("issue_create not declared")
}

func TestBind_CoversCatalog(t *testing.T) {
	reg, err := registry.New(Descriptors()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger := common.NewSilentLogger()
	client := atlassian.NewClient(config.AtlassianConfig{URL: "http://127.0.0.1:1"}, logger)

	d := dispatch.New(reg, logger)
	if err := Bind(d, client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
