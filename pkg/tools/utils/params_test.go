package utils

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWith(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestGetStringParam(t *testing.T) {
	req := requestWith(map[string]any{"title": "Fix login", "count": float64(3)})

	val, err := GetRequiredStringParam(req, "title")
	require.NoError(t, err)
	assert.Equal(t, "Fix login", val)

	_, err = GetRequiredStringParam(req, "missing")
	assert.Error(t, err)

	val, err = GetOptionalStringParam(req, "missing")
	require.NoError(t, err)
	assert.Empty(t, val)

	_, err = GetRequiredStringParam(req, "count")
	assert.Error(t, err, "non-string values are rejected, not coerced")
}

func TestGetIntParam(t *testing.T) {
	// JSON numbers always arrive as float64.
	req := requestWith(map[string]any{"id": float64(42), "name": "x"})

	val, err := GetRequiredIntParam(req, "id")
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = GetOptionalIntParam(req, "missing")
	require.NoError(t, err)
	assert.Zero(t, val)

	_, err = GetRequiredIntParam(req, "name")
	assert.Error(t, err)
}

func TestGetBoolParam(t *testing.T) {
	req := requestWith(map[string]any{"is_draft": true, "id": float64(1)})

	val, err := GetOptionalBoolParam(req, "is_draft")
	require.NoError(t, err)
	assert.True(t, val)

	val, err = GetOptionalBoolParam(req, "missing")
	require.NoError(t, err)
	assert.False(t, val)

	_, err = GetOptionalBoolParam(req, "id")
	assert.Error(t, err)
}

func TestGetStringSliceParam(t *testing.T) {
	req := requestWith(map[string]any{
		"reviewers": []any{"a@example.com", "b@example.com"},
		"mixed":     []any{"a", float64(1)},
	})

	vals, err := GetStringSliceParam(req, "reviewers", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, vals)

	_, err = GetStringSliceParam(req, "mixed", true)
	assert.Error(t, err)

	vals, err = GetStringSliceParam(req, "missing", false)
	require.NoError(t, err)
	assert.Nil(t, vals)
}

func TestGetMapParam(t *testing.T) {
	req := requestWith(map[string]any{"fields": map[string]any{"System.Title": "x"}})

	m, err := GetMapParam(req, "fields", true)
	require.NoError(t, err)
	assert.Equal(t, "x", m["System.Title"])

	_, err = GetMapParam(req, "missing", true)
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("12, 34,56")
	require.NoError(t, err)
	assert.Equal(t, []int{12, 34, 56}, ids)

	ids, err = ParseIDs("42")
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids)

	ids, err = ParseIDs("1,,2,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)

	_, err = ParseIDs("1,abc")
	assert.Error(t, err)

	_, err = ParseIDs("")
	assert.Error(t, err)

	_, err = ParseIDs(",, ,")
	assert.Error(t, err)
}
