package azure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/azdevtools/mcp-azure-devops/core"
	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
	"github.com/azdevtools/mcp-azure-devops/pkg/tools/utils"
)

// WorkItemTool manages work items.
type WorkItemTool struct {
	handle   mcp.Tool
	client   *azure.Client
	defaults Defaults
	logger   *log.Logger
}

// NewWorkItemTool creates a new tool instance.
func NewWorkItemTool(client *azure.Client, defaults Defaults, logger *log.Logger) core.Tool {
	tool := &WorkItemTool{
		client:   client,
		defaults: defaults,
		logger:   logger,
	}

	tool.handle = mcp.NewTool(
		"work_item",
		mcp.WithDescription("Manage Azure DevOps work items (tasks, bugs, stories, epics, etc.)"),
		mcp.WithString(
			"operation",
			mcp.Required(),
			mcp.Description("The operation to perform"),
			mcp.Enum(
				"get", "query", "create", "update",
				"get_comments", "add_comment",
				"get_types", "get_type_fields", "get_templates",
			),
		),

		mcp.WithString("project", mcp.Description("Project name (defaults to the configured project)")),

		mcp.WithString("ids", mcp.Description("Work item ID or comma-separated list of IDs (get)")),
		mcp.WithNumber("id", mcp.Description("The ID of the work item (update, get_comments, add_comment)")),

		// query
		mcp.WithString("query", mcp.Description("WIQL query string, e.g. SELECT [System.Id] FROM WorkItems WHERE ...")),
		mcp.WithNumber("top", mcp.Description("Maximum number of query results (default: 30)")),

		// create / update
		mcp.WithString("type", mcp.Description("Work item type, e.g. Task, Bug, User Story (create, get_type_fields, get_templates filter)")),
		mcp.WithString("title", mcp.Description("Value for System.Title")),
		mcp.WithString("description", mcp.Description("Value for System.Description")),
		mcp.WithString("state", mcp.Description("Value for System.State")),
		mcp.WithString("fields", mcp.Description("JSON object of additional fields keyed by reference name, e.g. {\"System.Tags\": \"api\"}")),
		mcp.WithNumber("parent_id", mcp.Description("Parent work item to link the created item under")),

		// comments
		mcp.WithString("text", mcp.Description("Comment text (add_comment)")),

		// templates
		mcp.WithString("team", mcp.Description("Team name whose templates to list (get_templates)")),
	)
	return tool
}

func (tool *WorkItemTool) Handle() mcp.Tool {
	return tool.handle
}

func (tool *WorkItemTool) operationHandlers() map[string]OperationHandler {
	return map[string]OperationHandler{
		"get":          tool.handleGet,
		"query":        tool.handleQuery,
		"create":       tool.handleCreate,
		"update":       tool.handleUpdate,
		"get_comments": tool.handleGetComments,
		"add_comment":  tool.handleAddComment,

		"get_types":       tool.handleGetTypes,
		"get_type_fields": tool.handleGetTypeFields,
		"get_templates":   tool.handleGetTemplates,
	}
}

func (tool *WorkItemTool) Handler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, req, tool.operationHandlers())
}

func (tool *WorkItemTool) scope(req mcp.CallToolRequest) (azure.Scope, error) {
	return projectScope(req, tool.defaults, tool.client.Organization())
}

// collectFields merges the shorthand title/description/state arguments with
// the free-form fields JSON object into one field map.
func collectFields(req mcp.CallToolRequest) (map[string]any, error) {
	fieldsArg, err := utils.GetOptionalStringParam(req, "fields")
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	if fieldsArg != "" {
		if err := json.Unmarshal([]byte(fieldsArg), &merged); err != nil {
			return nil, fmt.Errorf("parameter 'fields' must be a JSON object: %w", err)
		}
	}

	for arg, ref := range map[string]string{
		"title":       "System.Title",
		"description": "System.Description",
		"state":       "System.State",
	} {
		val, err := utils.GetOptionalStringParam(req, arg)
		if err != nil {
			return nil, err
		}
		if val != "" {
			merged[ref] = val
		}
	}
	return merged, nil
}

func (tool *WorkItemTool) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	idsArg, err := utils.GetRequiredStringParam(req, "ids")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	ids, err := utils.ParseIDs(idsArg)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	if len(ids) == 1 {
		item, err := tool.client.GetWorkItem(ctx, scope, ids[0])
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(formatWorkItem(item)), nil
	}

	items, err := tool.client.GetWorkItems(ctx, scope, ids)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItems(items)), nil
}

func (tool *WorkItemTool) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	wiql, err := utils.GetRequiredStringParam(req, "query")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	top, err := utils.GetOptionalIntParam(req, "top")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	items, err := tool.client.QueryWorkItems(ctx, scope, wiql, top)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItems(items)), nil
}

func (tool *WorkItemTool) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	itemType, err := utils.GetRequiredStringParam(req, "type")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	parentID, err := utils.GetOptionalIntParam(req, "parent_id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	fields, err := collectFields(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	item, err := tool.client.CreateWorkItem(ctx, scope, azure.CreateWorkItemArgs{
		Type:     itemType,
		Fields:   fields,
		ParentID: parentID,
	})
	if err != nil {
		// The item may exist even though linking to the parent failed.
		if item != nil {
			tool.logger.Warn("work item created but parent link failed",
				"id", item.ID, "parent_id", parentID)
			return mcp.NewToolResultText(fmt.Sprintf(
				"%s\n\nWarning: created, but linking to parent %d failed: %s",
				formatWorkItem(item), parentID, err)), nil
		}
		return errorResult(err), nil
	}

	tool.logger.Info("created work item", "id", item.ID, "type", itemType)
	return mcp.NewToolResultText(formatWorkItem(item)), nil
}

func (tool *WorkItemTool) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := utils.GetRequiredIntParam(req, "id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	fields, err := collectFields(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	item, err := tool.client.UpdateWorkItem(ctx, scope, id, fields)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItem(item)), nil
}

func (tool *WorkItemTool) handleGetComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := utils.GetRequiredIntParam(req, "id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	comments, err := tool.client.ListWorkItemComments(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItemComments(comments)), nil
}

func (tool *WorkItemTool) handleGetTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	types, err := tool.client.ListWorkItemTypes(ctx, scope)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItemTypes(scope.Project, types)), nil
}

func (tool *WorkItemTool) handleGetTypeFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	typeName, err := utils.GetRequiredStringParam(req, "type")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	fields, err := tool.client.ListWorkItemTypeFields(ctx, scope, typeName)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItemTypeFields(typeName, fields)), nil
}

func (tool *WorkItemTool) handleGetTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	team, err := utils.GetRequiredStringParam(req, "team")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	typeName, err := utils.GetOptionalStringParam(req, "type")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	templates, err := tool.client.ListWorkItemTemplates(ctx, scope, team, typeName)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatWorkItemTemplates(team, templates)), nil
}

func (tool *WorkItemTool) handleAddComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := utils.GetRequiredIntParam(req, "id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	text, err := utils.GetRequiredStringParam(req, "text")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	comment, err := tool.client.AddWorkItemComment(ctx, scope, id, text)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Comment %d added to work item %d.", comment.ID, id)), nil
}
