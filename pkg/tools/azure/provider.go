// Package azure exposes the Azure DevOps client as MCP tools. Each resource
// gets one tool with an operation argument; handlers extract primitive
// arguments, call the client, and render the result as markdown.
package azure

import (
	"github.com/charmbracelet/log"

	"github.com/azdevtools/mcp-azure-devops/core"
	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

// Defaults are the scope values used when a tool call does not name its own
// project, repository or team.
type Defaults struct {
	Project    string
	Repository string
	Team       string
}

// Provider assembles the Azure DevOps tool set.
type Provider struct {
	Tools map[string]core.Tool
}

// NewProvider wires every tool to the shared client. The client carries its
// credentials; nothing here reads ambient state per call.
func NewProvider(client *azure.Client, defaults Defaults, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}

	return &Provider{
		Tools: map[string]core.Tool{
			"pull_request": NewPullRequestTool(client, defaults, logger),
			"work_item":    NewWorkItemTool(client, defaults, logger),
			"project":      NewProjectTool(client, logger),
			"team":         NewTeamTool(client, defaults, logger),
		},
	}
}
