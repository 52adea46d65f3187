package atlassian

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListSpaces returns the first page of Confluence spaces.
func (c *Client) ListSpaces(ctx context.Context, _ map[string]any) (map[string]any, error) {
	resp, err := c.confluence(ctx, http.MethodGet, "/space", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var data struct {
		Results []struct {
			Key  string     `json:"key"`
			Name string     `json:"name"`
			Type string     `json:"type"`
			ID   flexString `json:"id"`
		} `json:"results"`
	}
	if err := resp.decode(&data); err != nil {
		return nil, err
	}

	spaces := make([]any, 0, len(data.Results))
	for _, s := range data.Results {
		spaces = append(spaces, map[string]any{
			"key":  s.Key,
			"name": s.Name,
			"type": s.Type,
			"id":   string(s.ID),
		})
	}
	return map[string]any{"spaces": spaces}, nil
}

// pageCQL builds a title search, optionally restricted to one space.
func pageCQL(query, spaceKey string) string {
	cql := fmt.Sprintf(`type=page AND title~"%s"`, escapeCQL(query))
	if spaceKey != "" {
		cql += fmt.Sprintf(` AND space="%s"`, escapeCQL(spaceKey))
	}
	return cql
}

func escapeCQL(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// SearchPages searches page titles with CQL.
func (c *Client) SearchPages(ctx context.Context, params map[string]any) (map[string]any, error) {
	query := stringParam(params, "query")
	if query == "" {
		return missing("query"), nil
	}

	q := url.Values{}
	q.Set("cql", pageCQL(query, stringParam(params, "space_key")))
	q.Set("limit", strconv.Itoa(intParam(params, "max_results", defaultMaxResults)))

	resp, err := c.confluence(ctx, http.MethodGet, "/content/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var data struct {
		Size    *int `json:"size"`
		Results []struct {
			ID         flexString `json:"id"`
			Title      string     `json:"title"`
			Type       string     `json:"type"`
			Expandable struct {
				Space string `json:"space"`
			} `json:"_expandable"`
		} `json:"results"`
	}
	if err := resp.decode(&data); err != nil {
		return nil, err
	}

	items := make([]any, 0, len(data.Results))
	for _, p := range data.Results {
		items = append(items, map[string]any{
			"id":    string(p.ID),
			"title": p.Title,
			"type":  p.Type,
			"space": spaceKeyFromPath(p.Expandable.Space),
		})
	}
	total := len(items)
	if data.Size != nil {
		total = *data.Size
	}
	return map[string]any{"total": total, "items": items}, nil
}

// spaceKeyFromPath extracts "HR" from "/rest/api/space/HR". It returns nil when
// the path carries no key.
func spaceKeyFromPath(p string) any {
	p = strings.TrimRight(p, "/")
	i := strings.LastIndex(p, "/")
	if i < 0 || i == len(p)-1 {
		return nil
	}
	return p[i+1:]
}

// GetPage fetches a page with its storage-format body and a plain-text rendering.
func (c *Client) GetPage(ctx context.Context, params map[string]any) (map[string]any, error) {
	id := stringParam(params, "page_id")
	if id == "" {
		return missing("page_id"), nil
	}

	endpoint := "/content/" + url.PathEscape(id) + "?expand=body.storage,space,version"
	resp, err := c.confluence(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return resp.errorResult(), nil
	}

	var page struct {
		ID    flexString `json:"id"`
		Title string     `json:"title"`
		Space *struct {
			Key string `json:"key"`
		} `json:"space"`
		Version *struct {
			Number int `json:"number"`
		} `json:"version"`
		Body struct {
			Storage struct {
				Value string `json:"value"`
			} `json:"storage"`
		} `json:"body"`
	}
	if err := resp.decode(&page); err != nil {
		return nil, err
	}

	var space, version any
	if page.Space != nil {
		space = page.Space.Key
	}
	if page.Version != nil {
		version = page.Version.Number
	}
	body := page.Body.Storage.Value
	return map[string]any{
		"id":      string(page.ID),
		"title":   page.Title,
		"space":   space,
		"version": version,
		"body":    body,
		"text":    htmlToText(body),
	}, nil
}
