package azure

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/azdevtools/mcp-azure-devops/core"
	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
	"github.com/azdevtools/mcp-azure-devops/pkg/tools/utils"
)

// TeamTool inspects teams and their membership.
type TeamTool struct {
	handle   mcp.Tool
	client   *azure.Client
	defaults Defaults
	logger   *log.Logger
}

// NewTeamTool creates a new tool instance.
func NewTeamTool(client *azure.Client, defaults Defaults, logger *log.Logger) core.Tool {
	tool := &TeamTool{
		client:   client,
		defaults: defaults,
		logger:   logger,
	}

	tool.handle = mcp.NewTool(
		"team",
		mcp.WithDescription("Inspect Azure DevOps teams and their members."),
		mcp.WithString(
			"operation",
			mcp.Required(),
			mcp.Description("The operation to perform"),
			mcp.Enum("list", "get_members"),
		),

		mcp.WithString("project", mcp.Description("Project name (defaults to the configured project, required for get_members)")),
		mcp.WithString("team", mcp.Description("Team name or ID (defaults to the configured team)")),

		// list
		mcp.WithBoolean("mine", mcp.Description("Only list teams the authenticated user is a member of")),
		mcp.WithNumber("top", mcp.Description("Maximum number of results to return")),
		mcp.WithNumber("skip", mcp.Description("Number of results to skip")),
	)
	return tool
}

func (tool *TeamTool) Handle() mcp.Tool {
	return tool.handle
}

func (tool *TeamTool) operationHandlers() map[string]OperationHandler {
	return map[string]OperationHandler{
		"list":        tool.handleList,
		"get_members": tool.handleGetMembers,
	}
}

func (tool *TeamTool) Handler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, req, tool.operationHandlers())
}

func (tool *TeamTool) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mine, err := utils.GetOptionalBoolParam(req, "mine")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	top, err := utils.GetOptionalIntParam(req, "top")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	skip, err := utils.GetOptionalIntParam(req, "skip")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	teams, err := tool.client.ListTeams(ctx, azure.ListTeamsArgs{Mine: mine, Top: top, Skip: skip})
	if err != nil {
		return errorResult(err), nil
	}
	if len(teams) == 0 {
		return mcp.NewToolResultText("No teams found."), nil
	}

	formatted := make([]string, len(teams))
	for i := range teams {
		formatted[i] = formatTeam(&teams[i])
	}
	return mcp.NewToolResultText(strings.Join(formatted, "\n\n")), nil
}

func (tool *TeamTool) handleGetMembers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := projectScope(req, tool.defaults, tool.client.Organization())
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	team, err := utils.GetOptionalStringParam(req, "team")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	if team == "" {
		team = tool.defaults.Team
	}

	members, err := tool.client.ListTeamMembers(ctx, scope, team)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatTeamMembers(team, members)), nil
}
