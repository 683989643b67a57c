package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
	"github.com/azdevtools/mcp-azure-devops/pkg/config"
	tools "github.com/azdevtools/mcp-azure-devops/pkg/tools/azure"
)

var (
	transportFlag string
	addrFlag      string
	baseURLFlag   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on stdio (the default, for editor and assistant
integrations) or as an SSE endpoint for remote clients.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&transportFlag, "transport", "stdio", "Transport to serve on: stdio or sse")
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "Listen address for the SSE transport")
	serveCmd.Flags().StringVar(&baseURLFlag, "base-url", "http://localhost:8080", "Externally visible base URL for the SSE transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mcp-azure-devops",
	})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: cfg.Server.RequestTimeout}
	client, err := azure.NewClient(creds, azure.NewTransportWithClient(httpClient, logger))
	if err != nil {
		return err
	}

	mcpServer := server.NewMCPServer(
		"Azure DevOps MCP Server",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
	)

	provider := tools.NewProvider(client, tools.Defaults{
		Project:    cfg.Azure.Project,
		Repository: cfg.Azure.Repository,
		Team:       cfg.Azure.Team,
	}, logger)

	for name, tool := range provider.Tools {
		logger.Debug("registering tool", "name", name)
		mcpServer.AddTool(tool.Handle(), tool.Handler)
	}

	switch transportFlag {
	case "stdio":
		logger.Info("serving on stdio", "organization", creds.Organization)
		return server.ServeStdio(mcpServer)
	case "sse":
		logger.Info("serving over SSE", "addr", addrFlag, "organization", creds.Organization)
		sseServer := server.NewSSEServer(mcpServer, baseURLFlag)
		return sseServer.Start(addrFlag)
	default:
		return fmt.Errorf("unknown transport %q: must be stdio or sse", transportFlag)
	}
}
