package atlassian

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultJQL lists the newest issues first.
const DefaultJQL = "ORDER BY created DESC"

const searchFields = "summary,status,issuetype,created"

// ListProjects returns every project visible to the configured account.
func (c *Client) ListProjects(ctx context.Context, _ map[string]any) (map[string]any, error) {
	resp, err := c.jira(ctx, http.MethodGet, "/project", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var projects []struct {
		Key  string     `json:"key"`
		Name string     `json:"name"`
		ID   flexString `json:"id"`
	}
	if err := resp.decode(&projects); err != nil {
		return nil, err
	}

	out := make([]any, 0, len(projects))
	for _, p := range projects {
		out = append(out, map[string]any{"key": p.Key, "name": p.Name, "id": string(p.ID)})
	}
	return map[string]any{"projects": out}, nil
}

// SearchIssues runs a JQL query. query defaults to DefaultJQL and max_results to 10.
func (c *Client) SearchIssues(ctx context.Context, params map[string]any) (map[string]any, error) {
	jql := stringParam(params, "query")
	if jql == "" {
		jql = DefaultJQL
	}
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(intParam(params, "max_results", defaultMaxResults)))
	q.Set("fields", searchFields)

	resp, err := c.jira(ctx, http.MethodGet, "/search/jql?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	page, err := parseSearchPage(resp.Body)
	if err != nil {
		return nil, err
	}
	issues, err := summarizeIssues(page.Issues)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(issues))
	for _, s := range issues {
		items = append(items, s.toMap())
	}
	total := len(items)
	if page.Total != nil {
		total = *page.Total
	}
	return map[string]any{"total": total, "items": items}, nil
}

// GetIssue fetches one issue by key.
func (c *Client) GetIssue(ctx context.Context, params map[string]any) (map[string]any, error) {
	key := stringParam(params, "issue_key")
	if key == "" {
		return missing("issue_key"), nil
	}

	resp, err := c.jira(ctx, http.MethodGet, "/issue/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var issue struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string          `json:"summary"`
			Description json.RawMessage `json:"description"`
			Status      named           `json:"status"`
			IssueType   named           `json:"issuetype"`
			Priority    *named          `json:"priority"`
			Assignee    *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
			Created string `json:"created"`
			Updated string `json:"updated"`
		} `json:"fields"`
	}
	if err := resp.decode(&issue); err != nil {
		return nil, err
	}

	f := issue.Fields
	var priority, assignee any
	if f.Priority != nil {
		priority = f.Priority.Name
	}
	if f.Assignee != nil {
		assignee = f.Assignee.DisplayName
	}
	return map[string]any{
		"key":         issue.Key,
		"summary":     f.Summary,
		"description": adfText(f.Description),
		"status":      f.Status.Name,
		"type":        f.IssueType.Name,
		"priority":    priority,
		"assignee":    assignee,
		"created":     f.Created,
		"updated":     f.Updated,
	}, nil
}

// CreateIssue creates an issue. Calling it twice creates two issues.
func (c *Client) CreateIssue(ctx context.Context, params map[string]any) (map[string]any, error) {
	projectKey := stringParam(params, "project_key")
	summary := stringParam(params, "summary")
	if projectKey == "" || summary == "" {
		return missing("project_key", "summary"), nil
	}
	issueType := stringParam(params, "issue_type")
	if issueType == "" {
		issueType = "Task"
	}

	body := map[string]any{
		"fields": map[string]any{
			"project":     map[string]any{"key": projectKey},
			"summary":     summary,
			"issuetype":   map[string]any{"name": issueType},
			"description": adfDocument(stringParam(params, "description")),
		},
	}

	resp, err := c.jira(ctx, http.MethodPost, "/issue", body)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var created struct {
		Key  string     `json:"key"`
		ID   flexString `json:"id"`
		Self string     `json:"self"`
	}
	if err := resp.decode(&created); err != nil {
		return nil, err
	}
	return map[string]any{"key": created.Key, "id": string(created.ID), "self": created.Self}, nil
}

// AddComment appends a plain-text comment to an issue.
func (c *Client) AddComment(ctx context.Context, params map[string]any) (map[string]any, error) {
	key := stringParam(params, "issue_key")
	comment := stringParam(params, "comment")
	if key == "" || comment == "" {
		return missing("issue_key", "comment"), nil
	}

	body := map[string]any{"body": adfDocument(comment)}
	resp, err := c.jira(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/comment", body)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var created struct {
		ID      flexString `json:"id"`
		Created string     `json:"created"`
	}
	if err := resp.decode(&created); err != nil {
		return nil, err
	}
	return map[string]any{"id": string(created.ID), "issue_key": key, "created": created.Created}, nil
}
