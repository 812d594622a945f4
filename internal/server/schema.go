package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StringSchema creates an object schema of string properties. Properties
// map names to descriptions; required lists the mandatory ones. Listing
// every property in required gives the original all-required behavior.
func StringSchema(props map[string]string, required []string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(props))
	for name, description := range props {
		properties[name] = &jsonschema.Schema{
			Type:        "string",
			Description: description,
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// NewTool creates an mcp.Tool with the given parameters.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// JSONResult creates a CallToolResult with indented JSON content.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return TextResult(string(data)), nil
}

// ParseArguments unmarshals CallToolRequest arguments into a map.
func ParseArguments(req *mcp.CallToolRequest) (map[string]any, error) {
	if req == nil || req.Params == nil {
		return make(map[string]any), nil
	}

	if len(req.Params.Arguments) == 0 {
		return make(map[string]any), nil
	}

	var args map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	return args, nil
}

// stringArg extracts a string argument, treating absent and empty as unset.
func stringArg(args map[string]any, name string) (string, bool) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", false
	}

	return value, true
}

// requireStrings extracts the named arguments in order, failing on the
// first one that is absent or empty.
func requireStrings(args map[string]any, names ...string) ([]string, error) {
	out := make([]string, 0, len(names))

	for _, name := range names {
		value, ok := stringArg(args, name)
		if !ok {
			return nil, fmt.Errorf("missing required argument %q", name)
		}

		out = append(out, value)
	}

	return out, nil
}
