package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RequiredString extracts a required string argument, returning an error
// when the argument is missing, empty, or not a string.
func RequiredString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// OptionalString extracts an optional string argument, returning the
// fallback when absent.
func OptionalString(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// OptionalInt extracts an optional numeric argument as an int. JSON
// numbers arrive as float64 in tool arguments.
func OptionalInt(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// OptionalFloat extracts an optional numeric argument as a *float64,
// returning nil when absent.
func OptionalFloat(args map[string]interface{}, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

// OptionalBool extracts an optional boolean argument.
func OptionalBool(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// JSONResult marshals v as indented JSON and wraps it in a text result.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}
