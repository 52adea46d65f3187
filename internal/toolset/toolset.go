// Package toolset declares the Jira and Confluence tool catalog and binds each
// tool to its connector.
package toolset

import (
	"github.com/bobmcallan/atlassian-mcp/internal/atlassian"
	"github.com/bobmcallan/atlassian-mcp/internal/dispatch"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// Tool names.
const (
	ProjectList  = "project_list"
	IssueSearch  = "issue_search"
	IssueGet     = "issue_get"
	IssueCreate  = "issue_create"
	IssueComment = "issue_comment"
	SpaceList    = "space_list"
	PageSearch   = "page_search"
	PageGet      = "page_get"
)

func str(name, desc string, required bool) protocol.ParameterSpec {
	return protocol.ParameterSpec{Name: name, Type: protocol.TypeString, Description: desc, Required: required}
}

func integer(name, desc string) protocol.ParameterSpec {
	return protocol.ParameterSpec{Name: name, Type: protocol.TypeInteger, Description: desc}
}

// Descriptors returns the catalog in listing order.
func Descriptors() []protocol.ToolDescriptor {
	return []protocol.ToolDescriptor{
		{
			Name:        ProjectList,
			Description: "List all Jira projects",
		},
		{
			Name:        IssueSearch,
			Description: "Search Jira issues using JQL (Jira Query Language)",
			Parameters: []protocol.ParameterSpec{
				str("query", "JQL query string (default: ORDER BY created DESC)", false),
				integer("max_results", "Maximum number of results (default: 10)"),
			},
		},
		{
			Name:        IssueGet,
			Description: "Get details of a specific Jira issue",
			Parameters: []protocol.ParameterSpec{
				str("issue_key", "The issue key (e.g., PROJ-123)", true),
			},
		},
		{
			Name:        IssueCreate,
			Description: "Create a new Jira issue",
			Parameters: []protocol.ParameterSpec{
				str("project_key", "The project key", true),
				str("summary", "Issue summary/title", true),
				str("description", "Issue description", false),
				str("issue_type", "Issue type (default: Task)", false),
			},
		},
		{
			Name:        IssueComment,
			Description: "Add a comment to a Jira issue",
			Parameters: []protocol.ParameterSpec{
				str("issue_key", "The issue key (e.g., PROJ-123)", true),
				str("comment", "Comment text", true),
			},
		},
		{
			Name:        SpaceList,
			Description: "List all Confluence spaces",
		},
		{
			Name:        PageSearch,
			Description: "Search Confluence pages by title",
			Parameters: []protocol.ParameterSpec{
				str("query", "Search text", true),
				str("space_key", "Restrict the search to one space", false),
				integer("max_results", "Maximum number of results (default: 10)"),
			},
		},
		{
			Name:        PageGet,
			Description: "Get a Confluence page with its content",
			Parameters: []protocol.ParameterSpec{
				str("page_id", "The page ID", true),
			},
		},
	}
}

// Bind registers a connector handler for every tool in the catalog.
func Bind(d *dispatch.Dispatcher, c *atlassian.Client) error {
	bindings := map[string]dispatch.HandlerFunc{
		ProjectList:  c.ListProjects,
		IssueSearch:  c.SearchIssues,
		IssueGet:     c.GetIssue,
		IssueCreate:  c.CreateIssue,
		IssueComment: c.AddComment,
		SpaceList:    c.ListSpaces,
		PageSearch:   c.SearchPages,
		PageGet:      c.GetPage,
	}
	for _, desc := range Descriptors() {
		h, ok := bindings[desc.Name]
		if !ok {
			continue
		}
		if err := d.Register(desc.Name, h); err != nil {
			return err
		}
	}
	return d.Verify()
}
