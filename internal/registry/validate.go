package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// ValidationError reports invocation parameters that do not match a tool's declaration.
type ValidationError struct {
	Tool      string
	Parameter string
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrUnknownTool is returned by ValidateParameters for names not in the registry.
var ErrUnknownTool = errors.New("unknown tool")

// ValidateParameters checks params against the named tool's parameter list and
// returns a copy with declared integer and boolean values coerced to Go int and bool.
// A required parameter that is absent, null or an empty string counts as missing.
func (r *Registry) ValidateParameters(name string, params map[string]any) (map[string]any, error) {
	d, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	out := make(map[string]any, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		out[k] = v
	}

	for _, p := range d.Parameters {
		if p.Required && isMissing(out[p.Name]) {
			return nil, &ValidationError{
				Tool:      name,
				Parameter: p.Name,
				Message:   protocol.RequiredMessage(d.RequiredParameters()...),
			}
		}
	}

	for _, p := range d.Parameters {
		v, present := out[p.Name]
		if !present {
			continue
		}
		coerced, err := coerce(p.Type, v)
		if err != nil {
			return nil, &ValidationError{
				Tool:      name,
				Parameter: p.Name,
				Message:   fmt.Sprintf("%s must be %s", p.Name, article(p.Type)),
			}
		}
		out[p.Name] = coerced
	}

	if err := r.schemas[name].Validate(out); err != nil {
		return nil, schemaError(name, err)
	}

	return out, nil
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

// coerce converts loosely typed JSON values to the declared type.
// Values of a foreign type that cannot be converted are returned unchanged
// so the schema check reports them.
func coerce(t protocol.ParamType, v any) (any, error) {
	switch t {
	case protocol.TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if !integral(n) {
				return nil, fmt.Errorf("not an integer: %v", n)
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				f, ferr := n.Float64()
				if ferr != nil || !integral(f) {
					return nil, fmt.Errorf("not an integer: %s", n)
				}
				return int(f), nil
			}
			return int(i), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				return nil, err
			}
			return i, nil
		}
	case protocol.TypeBoolean:
		if s, ok := v.(string); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			return b, nil
		}
	}
	return v, nil
}

// integral reports whether f is a whole number that fits in an int64.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func article(t protocol.ParamType) string {
	if t == protocol.TypeInteger {
		return "an integer"
	}
	return "a " + string(t)
}

// schemaError turns a jsonschema failure into a ValidationError naming the first
// offending parameter.
func schemaError(tool string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Tool: tool, Message: fmt.Sprintf("invalid parameters: %v", err)}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	if len(leaf.InstanceLocation) == 0 {
		return &ValidationError{Tool: tool, Message: "invalid parameters: " + lastLine(leaf.Error())}
	}

	param := leaf.InstanceLocation[0]
	return &ValidationError{
		Tool:      tool,
		Parameter: param,
		Message:   fmt.Sprintf("invalid value for %s: %s", param, lastLine(leaf.Error())),
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(strings.TrimPrefix(lines[len(lines)-1], "-"))
}
