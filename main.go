// Command mcp-azure-devops is an MCP server exposing Azure DevOps pull
// requests, work items, projects and teams as tools.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-azure-devops",
	Short: "MCP server for Azure DevOps",
	Long: `An MCP (Model Context Protocol) server that lets AI assistants manage
Azure DevOps pull requests, work items, projects and teams over the REST API.

Authentication uses a personal access token:

  export AZURE_DEVOPS_ORG=myorg
  export AZDO_PAT=<personal access token>
  mcp-azure-devops serve`,
}

func main() {
	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
