package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/azdevtools/mcp-azure-devops/core"
	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
	"github.com/azdevtools/mcp-azure-devops/pkg/tools/utils"
)

// ProjectTool manages team projects.
type ProjectTool struct {
	handle mcp.Tool
	client *azure.Client
	logger *log.Logger
}

// NewProjectTool creates a new tool instance.
func NewProjectTool(client *azure.Client, logger *log.Logger) core.Tool {
	tool := &ProjectTool{
		client: client,
		logger: logger,
	}

	tool.handle = mcp.NewTool(
		"project",
		mcp.WithDescription("Manage Azure DevOps projects: list, inspect and create them."),
		mcp.WithString(
			"operation",
			mcp.Required(),
			mcp.Description("The operation to perform"),
			mcp.Enum("list", "get", "create", "check_operation", "get_process_templates"),
		),

		mcp.WithString("project", mcp.Description("Project name or ID (get)")),

		// list
		mcp.WithString("state_filter", mcp.Description("Filter projects by state: all, wellFormed, createPending, deleted")),
		mcp.WithNumber("top", mcp.Description("Maximum number of results to return")),
		mcp.WithString("continuation_token", mcp.Description("Cursor from a previous page to fetch the next one")),

		// create
		mcp.WithString("name", mcp.Description("Name of the project to create")),
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithString("source_control_type", mcp.Description("Source control type: Git (default) or Tfvc")),
		mcp.WithString("process_template_id", mcp.Description("Process template ID (see get_process_templates)")),
		mcp.WithString("visibility", mcp.Description("Project visibility: private (default) or public")),

		// check_operation
		mcp.WithString("operation_id", mcp.Description("Operation ID returned by create, to poll for completion")),
	)
	return tool
}

func (tool *ProjectTool) Handle() mcp.Tool {
	return tool.handle
}

func (tool *ProjectTool) operationHandlers() map[string]OperationHandler {
	return map[string]OperationHandler{
		"list":                  tool.handleList,
		"get":                   tool.handleGet,
		"create":                tool.handleCreate,
		"check_operation":       tool.handleCheckOperation,
		"get_process_templates": tool.handleGetProcessTemplates,
	}
}

func (tool *ProjectTool) Handler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, req, tool.operationHandlers())
}

func (tool *ProjectTool) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stateFilter, err := utils.GetOptionalStringParam(req, "state_filter")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	top, err := utils.GetOptionalIntParam(req, "top")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	token, err := utils.GetOptionalStringParam(req, "continuation_token")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	projects, next, err := tool.client.ListProjects(ctx, azure.ListProjectsArgs{
		StateFilter:       stateFilter,
		Top:               top,
		ContinuationToken: token,
	})
	if err != nil {
		return errorResult(err), nil
	}
	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects found."), nil
	}

	formatted := make([]string, len(projects))
	for i := range projects {
		formatted[i] = formatProject(&projects[i])
	}
	out := strings.Join(formatted, "\n\n")
	if next != "" {
		out += fmt.Sprintf("\n\nMore results available. Pass continuation_token %q to fetch the next page.", next)
	}
	return mcp.NewToolResultText(out), nil
}

func (tool *ProjectTool) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := utils.GetRequiredStringParam(req, "project")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	project, err := tool.client.GetProject(ctx, name)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatProject(project)), nil
}

func (tool *ProjectTool) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := utils.GetRequiredStringParam(req, "name")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	description, err := utils.GetOptionalStringParam(req, "description")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	sourceControl, err := utils.GetOptionalStringParam(req, "source_control_type")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	processTemplate, err := utils.GetOptionalStringParam(req, "process_template_id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	visibility, err := utils.GetOptionalStringParam(req, "visibility")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	op, err := tool.client.CreateProject(ctx, azure.CreateProjectArgs{
		Name:              name,
		Description:       description,
		SourceControlType: sourceControl,
		ProcessTemplateID: processTemplate,
		Visibility:        visibility,
	})
	if err != nil {
		return errorResult(err), nil
	}

	tool.logger.Info("queued project creation", "name", name, "operation_id", op.ID)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Project creation for %q queued.\n\n%s\n\nPoll with the check_operation operation and this operation ID.",
		name, formatOperation(op))), nil
}

func (tool *ProjectTool) handleCheckOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	operationID, err := utils.GetRequiredStringParam(req, "operation_id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	op, err := tool.client.GetOperation(ctx, operationID)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatOperation(op)), nil
}

func (tool *ProjectTool) handleGetProcessTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := tool.client.ListProcessTemplates(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if len(templates) == 0 {
		return mcp.NewToolResultText("No process templates found."), nil
	}

	var b strings.Builder
	b.WriteString("Available process templates:\n\n")
	for i, template := range templates {
		fmt.Fprintf(&b, "%d. %s (ID: %s)", i+1, template.Name, template.ID)
		if template.IsDefault {
			b.WriteString(" [default]")
		}
		b.WriteString("\n")
		if template.Description != "" {
			fmt.Fprintf(&b, "   %s\n", template.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
