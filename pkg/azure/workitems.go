package azure

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetWorkItem fetches one work item with relations expanded.
func (c *Client) GetWorkItem(ctx context.Context, scope Scope, id int) (*WorkItem, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	var item WorkItem
	query := map[string]string{"$expand": "relations"}
	if err := c.do(ctx, newRequest("GET", workItemPath(scope, id), query, nil), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWorkItems batch-fetches work items by ID.
func (c *Client) GetWorkItems(ctx context.Context, scope Scope, ids []int) ([]WorkItem, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, validationError("at least one work item ID is required")
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.Itoa(id)
	}
	query := map[string]string{
		"ids":         strings.Join(idStrs, ","),
		"errorPolicy": "omit",
	}

	var items []WorkItem
	if _, err := c.doList(ctx, newRequest("GET", workItemsPath(scope), query, nil), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// QueryWorkItems runs a WIQL query and resolves the matched references into
// full work items. Two calls in order: the query, then the batch fetch; a
// failed query short-circuits.
func (c *Client) QueryWorkItems(ctx context.Context, scope Scope, wiql string, top int) ([]WorkItem, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(wiql) == "" {
		return nil, validationError("query is required")
	}
	if top <= 0 {
		top = 30
	}

	var result wiqlResult
	query := map[string]string{"$top": strconv.Itoa(top)}
	path := fmt.Sprintf("%s/_apis/wit/wiql", url.PathEscape(scope.Project))
	body := map[string]string{"query": wiql}
	if err := c.do(ctx, newRequest("POST", path, query, body), &result); err != nil {
		return nil, err
	}
	if len(result.WorkItems) == 0 {
		return nil, nil
	}

	ids := make([]int, len(result.WorkItems))
	for i, ref := range result.WorkItems {
		ids[i] = ref.ID
	}
	return c.GetWorkItems(ctx, scope, ids)
}

// CreateWorkItemArgs are the caller inputs for CreateWorkItem. Fields maps
// field reference names (bare names are prefixed with /fields/) to values.
type CreateWorkItemArgs struct {
	Type     string
	Fields   map[string]any
	ParentID int
}

// CreateWorkItem creates a work item from a JSON-Patch add document. When a
// parent is given the hierarchy link goes in a second call; a created item
// whose linking failed is still returned alongside the error.
func (c *Client) CreateWorkItem(ctx context.Context, scope Scope, args CreateWorkItemArgs) (*WorkItem, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if args.Type == "" {
		return nil, validationError("work item type is required")
	}
	if len(args.Fields) == 0 {
		return nil, validationError("at least one field is required")
	}

	doc := buildFieldDocument(args.Fields, "add")
	path := fmt.Sprintf("%s/$%s", workItemsPath(scope), args.Type)

	var item WorkItem
	if err := c.do(ctx, newPatchDocumentRequest("POST", path, nil, doc), &item); err != nil {
		return nil, err
	}

	if args.ParentID > 0 {
		linked, err := c.addHierarchyLink(ctx, scope, item.ID, args.ParentID)
		if err != nil {
			return &item, err
		}
		return linked, nil
	}
	return &item, nil
}

func (c *Client) addHierarchyLink(ctx context.Context, scope Scope, id, parentID int) (*WorkItem, error) {
	parentURL := fmt.Sprintf("%s/_apis/wit/workItems/%d",
		strings.TrimRight(c.creds.BaseURL, "/"), parentID)
	doc := []PatchOperation{{
		Op:   "add",
		Path: "/relations/-",
		Value: map[string]any{
			"rel": "System.LinkTypes.Hierarchy-Reverse",
			"url": parentURL,
		},
	}}

	var item WorkItem
	req := newPatchDocumentRequest("PATCH", workItemPath(scope, id), nil, doc)
	if err := c.do(ctx, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWorkItem replaces fields on an existing work item.
func (c *Client) UpdateWorkItem(ctx context.Context, scope Scope, id int, fields map[string]any) (*WorkItem, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationError("at least one field is required")
	}

	doc := buildFieldDocument(fields, "replace")
	var item WorkItem
	req := newPatchDocumentRequest("PATCH", workItemPath(scope, id), nil, doc)
	if err := c.do(ctx, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListWorkItemTypes lists the work item types the project's process defines.
func (c *Client) ListWorkItemTypes(ctx context.Context, scope Scope) ([]WorkItemType, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	var types []WorkItemType
	path := fmt.Sprintf("%s/_apis/wit/workitemtypes", url.PathEscape(scope.Project))
	if _, err := c.doList(ctx, newRequest("GET", path, nil, nil), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListWorkItemTypeFields lists the fields declared on one work item type,
// expanded to include allowed values.
func (c *Client) ListWorkItemTypeFields(ctx context.Context, scope Scope, typeName string) ([]WorkItemTypeField, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(typeName) == "" {
		return nil, validationError("work item type is required")
	}

	var fields []WorkItemTypeField
	path := fmt.Sprintf("%s/_apis/wit/workitemtypes/%s/fields",
		url.PathEscape(scope.Project), url.PathEscape(typeName))
	query := map[string]string{"$expand": "all"}
	if _, err := c.doList(ctx, newRequest("GET", path, query, nil), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ListWorkItemTemplates lists a team's work item templates, optionally
// filtered to one work item type. Templates live under the team, not the
// project, so the team name is required.
func (c *Client) ListWorkItemTemplates(ctx context.Context, scope Scope, team, workItemType string) ([]WorkItemTemplate, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(team) == "" {
		return nil, validationError("team is required")
	}

	var query map[string]string
	if workItemType != "" {
		query = map[string]string{"workitemtypename": workItemType}
	}

	var templates []WorkItemTemplate
	path := fmt.Sprintf("%s/%s/_apis/wit/templates",
		url.PathEscape(scope.Project), url.PathEscape(team))
	if _, err := c.doList(ctx, newRequest("GET", path, query, nil), &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ListWorkItemComments fetches the comments on a work item.
func (c *Client) ListWorkItemComments(ctx context.Context, scope Scope, id int) ([]WorkItemComment, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	var list workItemCommentList
	path := fmt.Sprintf("%s/comments", workItemPath(scope, id))
	query := map[string]string{"api-version": apiVersion + "-preview.4"}
	req := OperationRequest{Method: "GET", Path: path, Query: query}
	if err := c.do(ctx, req, &list); err != nil {
		return nil, err
	}
	return list.Comments, nil
}

// AddWorkItemComment posts a new comment on a work item.
func (c *Client) AddWorkItemComment(ctx context.Context, scope Scope, id int, text string) (*WorkItemComment, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationError("comment text is required")
	}

	var comment WorkItemComment
	path := fmt.Sprintf("%s/comments", workItemPath(scope, id))
	query := map[string]string{"api-version": apiVersion + "-preview.4"}
	req := OperationRequest{Method: "POST", Path: path, Query: query, Body: map[string]string{"text": text}}
	if err := c.do(ctx, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
