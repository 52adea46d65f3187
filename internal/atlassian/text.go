package atlassian

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// adfDocument wraps plain text in a minimal Atlassian Document Format document.
// Empty text yields a document with no content.
func adfDocument(text string) map[string]any {
	content := []any{}
	if text != "" {
		content = append(content, map[string]any{
			"type": "paragraph",
			"content": []any{
				map[string]any{"type": "text", "text": text},
			},
		})
	}
	return map[string]any{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

// adfBlocks end with a line break when flattened.
var adfBlocks = map[string]bool{
	"paragraph": true, "heading": true, "listItem": true, "codeBlock": true,
	"blockquote": true, "rule": true, "tableRow": true, "panel": true,
}

// adfText flattens an ADF (or legacy plain string) description to text.
// Null or empty input returns nil.
func adfText(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return string(raw)
	}

	var b strings.Builder
	var walk func(n adfNode)
	walk = func(n adfNode) {
		switch n.Type {
		case "text":
			b.WriteString(n.Text)
		case "hardBreak":
			b.WriteByte('\n')
		}
		for _, child := range n.Content {
			walk(child)
		}
		if adfBlocks[n.Type] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}

// htmlBlocks start a new line when stripped.
var htmlBlocks = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true, "ul": true, "ol": true,
}

// htmlToText strips Confluence storage-format markup to readable plain text.
func htmlToText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapseLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
				continue
			}
			if htmlBlocks[tag] {
				b.WriteByte('\n')
			} else if tt != html.EndTagToken {
				b.WriteByte(' ')
			}
		}
	}
}

// collapseLines squeezes runs of whitespace and drops blank lines.
func collapseLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			out = append(out, strings.Join(f, " "))
		}
	}
	return strings.Join(out, "\n")
}
