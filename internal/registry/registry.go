// Package registry holds the fixed, ordered catalog of invokable tools and validates
// invocation parameters against each tool's declared parameter list.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// Registry is a read-only catalog of tool descriptors keyed by name.
// Listing order is registration order.
type Registry struct {
	order   []string
	tools   map[string]protocol.ToolDescriptor
	schemas map[string]*jsonschema.Schema
}

// New validates the descriptors and builds a registry from them.
func New(descriptors ...protocol.ToolDescriptor) (*Registry, error) {
	r := &Registry{
		order:   make([]string, 0, len(descriptors)),
		tools:   make(map[string]protocol.ToolDescriptor, len(descriptors)),
		schemas: make(map[string]*jsonschema.Schema, len(descriptors)),
	}

	for _, d := range descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, dup := r.tools[d.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", d.Name)
		}

		d.Parameters = append(make([]protocol.ParameterSpec, 0, len(d.Parameters)), d.Parameters...)

		sch, err := compileSchema(d)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", d.Name, err)
		}

		r.order = append(r.order, d.Name)
		r.tools[d.Name] = d
		r.schemas[d.Name] = sch
	}

	return r, nil
}

// validateDescriptor checks structural completeness of one descriptor.
func validateDescriptor(d protocol.ToolDescriptor) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("tool has empty name")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("tool %q has empty description", d.Name)
	}
	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", d.Name, p.Name)
		}
		seen[p.Name] = true
		if !p.Type.Valid() {
			return fmt.Errorf("tool %q parameter %q has unsupported type %q", d.Name, p.Name, p.Type)
		}
	}
	return nil
}

// compileSchema builds a JSON Schema object for the tool's parameters.
// Undeclared parameters are allowed.
func compileSchema(d protocol.ToolDescriptor) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(d.Parameters))
	required := []string{}
	for _, p := range d.Parameters {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	raw, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameter schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode parameter schema: %w", err)
	}

	url := d.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema resource error: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema compile error: %w", err)
	}
	return sch, nil
}

// List returns a copy of all descriptors in registration order.
func (r *Registry) List() []protocol.ToolDescriptor {
	out := make([]protocol.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		d := r.tools[name]
		d.Parameters = append(make([]protocol.ParameterSpec, 0, len(d.Parameters)), d.Parameters...)
		out = append(out, d)
	}
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (protocol.ToolDescriptor, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Names returns the registered tool names in order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
