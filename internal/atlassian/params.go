package atlassian

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// defaultMaxResults is the page size used when max_results is absent or below 1.
const defaultMaxResults = 10

// stringParam returns a trimmed string parameter, or "" when absent.
func stringParam(params map[string]any, name string) string {
	switch v := params[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// intParam returns an integer parameter, or def when absent, unparsable or below 1.
func intParam(params map[string]any, name string, def int) int {
	n := def
	switch v := params[name].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			n = int(v)
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n = int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n = i
		}
	}
	if n < 1 {
		return def
	}
	return n
}

// flexString decodes a JSON string or number into a string.
// Confluence returns numeric space IDs but string page IDs.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// named is the {"name": ...} object Jira uses for status, issue type and priority.
type named struct {
	Name string `json:"name"`
}
