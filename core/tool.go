// Package core defines the contract every MCP tool in this server satisfies.
package core

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one registrable MCP tool: its schema handle and its handler.
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
