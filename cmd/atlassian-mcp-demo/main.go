// Command atlassian-mcp-demo exercises a running atlassian-mcp server through the
// protocol client: it lists tools, then runs one read-only call per product.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/bobmcallan/atlassian-mcp/internal/client"
	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/config"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
	"github.com/bobmcallan/atlassian-mcp/internal/toolset"
)

var (
	configFile = flag.String("config", "", "Configuration file path")
	serverURL  = flag.String("server", "", "Tool server URL (overrides MCP_SERVER_URL)")
	jql        = flag.String("jql", "assignee = currentUser() ORDER BY updated DESC", "JQL for the issue search")
	pageQuery  = flag.String("page-query", "Benefits", "Title text for the page search")
	maxResults = flag.Int("max", 5, "Maximum results per search")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	var paths []string
	if *configFile != "" {
		paths = append(paths, *configFile)
	}
	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	c := client.New(cfg.Client.ServerURL, logger,
		client.WithHealthTimeout(cfg.Client.GetHealthTimeout()),
		client.WithListTimeout(cfg.Client.GetListTimeout()),
		client.WithInvokeTimeout(cfg.Client.GetInvokeTimeout()),
	)
	ctx := context.Background()

	bold := color.New(color.Bold)
	bold.Printf("Connecting to %s ... ", cfg.Client.ServerURL)
	if !c.HealthCheck(ctx) {
		color.Red("UNREACHABLE\n")
		fmt.Println()
		fmt.Println("Start the server first:")
		fmt.Println("  $ atlassian-mcp")
		os.Exit(1)
	}
	color.Green("connected\n")

	listTools(c.ListTools(ctx))
	listProjects(c.Invoke(ctx, toolset.ProjectList, nil))
	searchIssues(c.Invoke(ctx, toolset.IssueSearch, map[string]any{"query": *jql, "max_results": *maxResults}))
	listSpaces(c.Invoke(ctx, toolset.SpaceList, nil))
	searchPages(c.Invoke(ctx, toolset.PageSearch, map[string]any{"query": *pageQuery, "max_results": *maxResults}))
}

func section(title string) {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("--- %s ---\n", title)
}

// failed prints the envelope or upstream error and reports whether there was one.
func failed(r protocol.InvocationResult) bool {
	if r.Failed() {
		color.Red("   Error: %s\n", r.Error)
		return true
	}
	if msg, ok := r.Result["error"]; ok {
		color.Red("   Error: %v\n", msg)
		return true
	}
	return false
}

func listTools(tools []protocol.ToolDescriptor) {
	section("Available Tools")
	yellow := color.New(color.FgYellow)
	for _, t := range tools {
		yellow.Printf("   %s", t.Name)
		fmt.Printf(": %s\n", t.Description)
		for _, p := range t.Parameters {
			req := ""
			if p.Required {
				req = " (required)"
			}
			fmt.Printf("       - %s [%s]%s\n", p.Name, p.Type, req)
		}
	}
	if len(tools) == 0 {
		fmt.Println("   No tools reported")
	}
}

func items(r protocol.InvocationResult, key string) []map[string]any {
	raw, _ := r.Result[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func listProjects(r protocol.InvocationResult) {
	section("Jira Projects")
	if failed(r) {
		return
	}
	projects := items(r, "projects")
	if len(projects) == 0 {
		fmt.Println("   No projects found")
	}
	for _, p := range projects {
		fmt.Printf("   - [%v] %v\n", p["key"], p["name"])
	}
}

func searchIssues(r protocol.InvocationResult) {
	section("Jira Issue Search")
	fmt.Printf("   JQL: %s\n", *jql)
	if failed(r) {
		return
	}
	issues := items(r, "items")
	fmt.Printf("   Found %v issues (showing first %d):\n", r.Result["total"], len(issues))
	for _, i := range issues {
		fmt.Printf("   - [%v] %s\n", i["key"], truncate(fmt.Sprint(i["summary"]), 50))
		fmt.Printf("     Status: %v, Type: %v\n", i["status"], i["type"])
	}
}

func listSpaces(r protocol.InvocationResult) {
	section("Confluence Spaces")
	if failed(r) {
		return
	}
	spaces := items(r, "spaces")
	if len(spaces) == 0 {
		fmt.Println("   No spaces found")
	}
	for _, s := range spaces {
		fmt.Printf("   - [%v] %v (%v)\n", s["key"], s["name"], s["type"])
	}
}

func searchPages(r protocol.InvocationResult) {
	section("Confluence Search")
	fmt.Printf("   Query: %s\n", *pageQuery)
	if failed(r) {
		return
	}
	pages := items(r, "items")
	fmt.Printf("   Found %v pages (showing first %d):\n", r.Result["total"], len(pages))
	for _, p := range pages {
		space := p["space"]
		if space == nil {
			space = "???"
		}
		fmt.Printf("   - %v (Space: %v)\n", p["title"], space)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
