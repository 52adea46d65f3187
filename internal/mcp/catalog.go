package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// BuildTool converts a ToolDescriptor into an mcp.Tool with the matching input schema.
func BuildTool(desc protocol.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for _, p := range desc.Parameters {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(desc.Name, opts...)
}

// buildParamOption maps a ParameterSpec to the appropriate mcp-go tool option.
func buildParamOption(p protocol.ParameterSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case protocol.TypeInteger:
		return mcp.WithNumber(p.Name, opts...)
	case protocol.TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}
