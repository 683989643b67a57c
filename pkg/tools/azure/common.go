package azure

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
	"github.com/azdevtools/mcp-azure-devops/pkg/tools/utils"
)

// OperationHandler is one dispatchable operation of an aggregated tool.
type OperationHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// dispatch routes a request to the handler named by its operation argument.
func dispatch(ctx context.Context, req mcp.CallToolRequest, handlers map[string]OperationHandler) (*mcp.CallToolResult, error) {
	operation, err := utils.GetRequiredStringParam(req, "operation")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	handler, ok := handlers[operation]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown operation: %s", operation)), nil
	}
	return handler(ctx, req)
}

// errorResult renders a classified client error for the model. Validation
// and configuration problems read as caller mistakes; everything else names
// the failure class so the model can decide whether retrying makes sense.
func errorResult(err error) *mcp.CallToolResult {
	var ae *azure.Error
	if errors.As(err, &ae) {
		return mcp.NewToolResultError(fmt.Sprintf("%s error: %s", ae.Kind, ae.Message))
	}
	return mcp.NewToolResultError(err.Error())
}

// repoScope builds a repository-level scope from the request, falling back
// to the configured defaults.
func repoScope(req mcp.CallToolRequest, defaults Defaults, org string) (azure.Scope, error) {
	project, err := utils.GetOptionalStringParam(req, "project")
	if err != nil {
		return azure.Scope{}, err
	}
	if project == "" {
		project = defaults.Project
	}

	repository, err := utils.GetOptionalStringParam(req, "repository")
	if err != nil {
		return azure.Scope{}, err
	}
	if repository == "" {
		repository = defaults.Repository
	}

	return azure.Scope{Organization: org, Project: project, Repository: repository}, nil
}

// projectScope builds a project-level scope from the request.
func projectScope(req mcp.CallToolRequest, defaults Defaults, org string) (azure.Scope, error) {
	scope, err := repoScope(req, defaults, org)
	if err != nil {
		return azure.Scope{}, err
	}
	scope.Repository = ""
	return scope, nil
}
