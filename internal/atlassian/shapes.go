package atlassian

import (
	"encoding/json"
	"fmt"
)

// IssueSummary is the normalized search hit returned by issue_search.
type IssueSummary struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Type    string `json:"type"`
	Created string `json:"created"`
}

func (s IssueSummary) toMap() map[string]any {
	return map[string]any{
		"key":     s.Key,
		"summary": s.Summary,
		"status":  s.Status,
		"type":    s.Type,
		"created": s.Created,
	}
}

// issueAdapter normalizes one known upstream issue shape.
type issueAdapter struct {
	name  string
	match func(fields map[string]json.RawMessage) bool
	adapt func(raw json.RawMessage) (IssueSummary, error)
}

// issueAdapters are tried in order; the last one matches anything.
//
// Jira's /search/jql has been observed returning both the classic nested layout
// ({"key", "fields": {...}}) and a flat layout with the fields at the top level.
var issueAdapters = []issueAdapter{
	{
		name: "nested",
		match: func(fields map[string]json.RawMessage) bool {
			_, ok := fields["fields"]
			return ok
		},
		adapt: adaptNestedIssue,
	},
	{
		name:  "flat",
		match: func(map[string]json.RawMessage) bool { return true },
		adapt: adaptFlatIssue,
	},
}

type nestedIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary   string `json:"summary"`
		Status    named  `json:"status"`
		IssueType named  `json:"issuetype"`
		Created   string `json:"created"`
	} `json:"fields"`
}

func adaptNestedIssue(raw json.RawMessage) (IssueSummary, error) {
	var issue nestedIssue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return IssueSummary{}, err
	}
	return IssueSummary{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Status:  issue.Fields.Status.Name,
		Type:    issue.Fields.IssueType.Name,
		Created: issue.Fields.Created,
	}, nil
}

type flatIssue struct {
	Key         string          `json:"key"`
	ID          flexString      `json:"id"`
	Summary     string          `json:"summary"`
	SummaryText string          `json:"summaryText"`
	Status      json.RawMessage `json:"status"`
	IssueType   json.RawMessage `json:"issuetype"`
	Created     string          `json:"created"`
}

func adaptFlatIssue(raw json.RawMessage) (IssueSummary, error) {
	var issue flatIssue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return IssueSummary{}, err
	}
	return IssueSummary{
		Key:     firstNonEmpty(issue.Key, string(issue.ID), "unknown"),
		Summary: firstNonEmpty(issue.Summary, issue.SummaryText, "No summary"),
		Status:  nameOrString(issue.Status),
		Type:    nameOrString(issue.IssueType),
		Created: firstNonEmpty(issue.Created, "Unknown"),
	}, nil
}

// nameOrString reads either {"name": "x"} or "x", falling back to "Unknown".
func nameOrString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "Unknown"
	}
	var n named
	if err := json.Unmarshal(raw, &n); err == nil {
		return firstNonEmpty(n.Name, "Unknown")
	}
	var s flexString
	if err := json.Unmarshal(raw, &s); err == nil {
		return firstNonEmpty(string(s), "Unknown")
	}
	return "Unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// searchPage is the decoded issue search body. Total is nil when the upstream omits it.
type searchPage struct {
	Issues []json.RawMessage
	Total  *int
}

// parseSearchPage accepts a top-level array of issues or an {"issues": [...]} object.
func parseSearchPage(body []byte) (*searchPage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return &searchPage{Issues: list}, nil
	}

	var obj struct {
		Issues []json.RawMessage `json:"issues"`
		Total  *int              `json:"total"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return &searchPage{Issues: obj.Issues, Total: obj.Total}, nil
}

// summarizeIssues runs every issue through the first matching adapter.
func summarizeIssues(issues []json.RawMessage) ([]IssueSummary, error) {
	out := make([]IssueSummary, 0, len(issues))
	for i, raw := range issues {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("issue %d is not an object: %w", i, err)
		}
		for _, a := range issueAdapters {
			if !a.match(fields) {
				continue
			}
			s, err := a.adapt(raw)
			if err != nil {
				return nil, fmt.Errorf("issue %d (%s shape): %w", i, a.name, err)
			}
			out = append(out, s)
			break
		}
	}
	return out, nil
}
