// Package utils holds the argument-extraction helpers shared by every tool.
package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetStringParam safely extracts a string parameter from the request.
func GetStringParam(req mcp.CallToolRequest, key string, required bool) (string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: '%s'", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}
	return str, nil
}

// GetRequiredStringParam is a shorthand for GetStringParam with required=true.
func GetRequiredStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, true)
}

// GetOptionalStringParam is a shorthand for GetStringParam with required=false.
func GetOptionalStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, false)
}

// GetIntParam safely extracts an int parameter. JSON numbers arrive as
// float64, so the value is truncated.
func GetIntParam(req mcp.CallToolRequest, key string, required bool) (int, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return 0, nil
	}

	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}
	return int(f), nil
}

// GetRequiredIntParam is a shorthand for GetIntParam with required=true.
func GetRequiredIntParam(req mcp.CallToolRequest, key string) (int, error) {
	return GetIntParam(req, key, true)
}

// GetOptionalIntParam is a shorthand for GetIntParam with required=false.
func GetOptionalIntParam(req mcp.CallToolRequest, key string) (int, error) {
	return GetIntParam(req, key, false)
}

// GetBoolParam safely extracts a bool parameter from the request.
func GetBoolParam(req mcp.CallToolRequest, key string, required bool) (bool, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return false, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return false, nil
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("parameter '%s' must be a boolean", key)
	}
	return b, nil
}

// GetOptionalBoolParam is a shorthand for GetBoolParam with required=false.
func GetOptionalBoolParam(req mcp.CallToolRequest, key string) (bool, error) {
	return GetBoolParam(req, key, false)
}

// GetStringSliceParam extracts an array-of-strings parameter.
func GetStringSliceParam(req mcp.CallToolRequest, key string, required bool) ([]string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return nil, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return nil, nil
	}

	arr, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter '%s' must be an array", key)
	}

	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter '%s' must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetMapParam extracts an object parameter as a map.
func GetMapParam(req mcp.CallToolRequest, key string, required bool) (map[string]any, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return nil, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return nil, nil
	}

	m, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter '%s' must be an object", key)
	}
	return m, nil
}

// ParseIDs parses a comma-separated list of numeric IDs, e.g. "12, 34,56".
func ParseIDs(idsStr string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(idsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid ID format: %s", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no IDs provided")
	}
	return ids, nil
}

// HandleParameterError converts an extraction error into a tool error result.
func HandleParameterError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
