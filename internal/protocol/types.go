// Package protocol defines the wire contract shared by the tool server and its client.
package protocol

import (
	"encoding/json"
	"strings"
)

// Route paths served by the tool server.
const (
	HealthPath = "/health"
	ToolsPath  = "/mcp/v1/tools"
	InvokePath = "/mcp/v1/invoke"
)

// ParamType is the declared JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Valid reports whether t is one of the supported parameter types.
func (t ParamType) Valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeBoolean:
		return true
	}
	return false
}

// ParameterSpec describes one tool parameter.
type ParameterSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
}

// ToolDescriptor is one entry in the tool manifest served for discovery.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters"`
}

// RequiredParameters returns the names of the required parameters in declaration order.
func (d ToolDescriptor) RequiredParameters() []string {
	var names []string
	for _, p := range d.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// ToolsResponse is the body of GET /mcp/v1/tools.
type ToolsResponse struct {
	Tools []ToolDescriptor `json:"tools"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// InvocationRequest is the body of POST /mcp/v1/invoke.
type InvocationRequest struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// ErrorKind tags the layer a failure originated from.
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindTransport ErrorKind = "transport"
	KindUpstream  ErrorKind = "upstream"
	KindProtocol  ErrorKind = "protocol"
	KindHandler   ErrorKind = "handler"
)

// InvocationResult is the uniform envelope returned for every tool call.
// An empty Error encodes as JSON null.
type InvocationResult struct {
	Result map[string]any
	Error  string
	Kind   ErrorKind
}

type wireResult struct {
	Result map[string]any `json:"result"`
	Error  *string        `json:"error"`
	Kind   ErrorKind      `json:"kind,omitempty"`
}

// Success wraps a handler result.
func Success(result map[string]any) InvocationResult {
	return InvocationResult{Result: result}
}

// Failure builds an error envelope with a null result.
// A blank message is replaced so the envelope still reads as a failure.
func Failure(kind ErrorKind, message string) InvocationResult {
	if strings.TrimSpace(message) == "" {
		message = fallbackMessage(kind)
	}
	return InvocationResult{Error: message, Kind: kind}
}

func fallbackMessage(kind ErrorKind) string {
	switch kind {
	case KindTransport:
		return "upstream request failed"
	case KindProtocol:
		return "invalid request"
	case KindUpstream:
		return "upstream error"
	}
	return "tool failed"
}

// Failed reports whether the envelope carries an error message.
func (r InvocationResult) Failed() bool {
	return r.Error != ""
}

// MarshalJSON encodes the envelope with explicit nulls.
func (r InvocationResult) MarshalJSON() ([]byte, error) {
	w := wireResult{Result: r.Result, Kind: r.Kind}
	if r.Error != "" {
		msg := r.Error
		w.Error = &msg
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the envelope.
func (r *InvocationResult) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Result = w.Result
	r.Kind = w.Kind
	r.Error = ""
	if w.Error != nil {
		r.Error = *w.Error
	}
	return nil
}

// RequiredMessage formats the error text for missing required parameters:
// "a is required", "a and b are required", "a, b and c are required".
func RequiredMessage(names ...string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is required"
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1] + " are required"
}
