package azure

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListProjectsArgs filter a project listing.
type ListProjectsArgs struct {
	StateFilter       string
	Top               int
	ContinuationToken string
}

// ListProjects lists the projects visible to the authenticated user. The
// second return value is the continuation cursor for the next page.
func (c *Client) ListProjects(ctx context.Context, args ListProjectsArgs) ([]Project, string, error) {
	query := map[string]string{}
	if args.StateFilter != "" {
		query["stateFilter"] = args.StateFilter
	}
	if args.Top > 0 {
		query["$top"] = strconv.Itoa(args.Top)
	}
	if args.ContinuationToken != "" {
		query["continuationToken"] = args.ContinuationToken
	}

	var projects []Project
	token, err := c.doList(ctx, newRequest("GET", projectsPath(), query, nil), &projects)
	if err != nil {
		return nil, "", err
	}
	return projects, token, nil
}

// GetProject fetches one project by name or ID.
func (c *Client) GetProject(ctx context.Context, nameOrID string) (*Project, error) {
	if nameOrID == "" {
		return nil, validationError("project name or ID is required")
	}
	var project Project
	path := fmt.Sprintf("%s/%s", projectsPath(), url.PathEscape(nameOrID))
	if err := c.do(ctx, newRequest("GET", path, nil, nil), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProjectArgs are the caller inputs for CreateProject.
type CreateProjectArgs struct {
	Name              string
	Description       string
	SourceControlType string
	ProcessTemplateID string
	Visibility        string
}

// CreateProject queues project creation and returns the operation reference
// to poll. Creation is asynchronous on the remote side and is not idempotent,
// so nothing here retries.
func (c *Client) CreateProject(ctx context.Context, args CreateProjectArgs) (*Operation, error) {
	if args.Name == "" {
		return nil, validationError("project name is required")
	}
	if args.SourceControlType == "" {
		args.SourceControlType = "Git"
	}
	if args.SourceControlType != "Git" && args.SourceControlType != "Tfvc" {
		return nil, validationError("invalid source control type %q: must be Git or Tfvc", args.SourceControlType)
	}
	if args.Visibility == "" {
		args.Visibility = "private"
	}
	if args.Visibility != "private" && args.Visibility != "public" {
		return nil, validationError("invalid visibility %q: must be private or public", args.Visibility)
	}

	capabilities := map[string]any{
		"versioncontrol": map[string]string{"sourceControlType": args.SourceControlType},
	}
	if args.ProcessTemplateID != "" {
		capabilities["processTemplate"] = map[string]string{"templateTypeId": args.ProcessTemplateID}
	}

	body := map[string]any{
		"name":         args.Name,
		"description":  args.Description,
		"capabilities": capabilities,
		"visibility":   args.Visibility,
	}

	var op Operation
	if err := c.do(ctx, newRequest("POST", projectsPath(), nil, body), &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetOperation polls the status of a queued operation.
func (c *Client) GetOperation(ctx context.Context, operationID string) (*Operation, error) {
	if operationID == "" {
		return nil, validationError("operation ID is required")
	}
	var op Operation
	path := fmt.Sprintf("_apis/operations/%s", url.PathEscape(operationID))
	if err := c.do(ctx, newRequest("GET", path, nil, nil), &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// ListProcessTemplates lists the processes available for project creation.
func (c *Client) ListProcessTemplates(ctx context.Context) ([]ProcessTemplate, error) {
	var templates []ProcessTemplate
	req := newRequest("GET", "_apis/process/processes", nil, nil)
	if _, err := c.doList(ctx, req, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
