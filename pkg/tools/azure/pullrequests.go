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

// PullRequestTool manages pull requests.
type PullRequestTool struct {
	handle   mcp.Tool
	client   *azure.Client
	defaults Defaults
	logger   *log.Logger
}

// NewPullRequestTool creates a new tool instance.
func NewPullRequestTool(client *azure.Client, defaults Defaults, logger *log.Logger) core.Tool {
	tool := &PullRequestTool{
		client:   client,
		defaults: defaults,
		logger:   logger,
	}

	tool.handle = mcp.NewTool(
		"pull_request",
		mcp.WithDescription("Manage Azure DevOps pull requests: create, review, vote, comment, and merge."),
		mcp.WithString(
			"operation",
			mcp.Required(),
			mcp.Description("The operation to perform"),
			mcp.Enum(
				"create", "get", "list", "update",
				"add_comment", "get_thread_comments",
				"approve", "reject", "vote",
				"complete", "abandon", "reactivate",
				"get_commits", "get_changes",
				"get_work_items", "link_work_items",
				"get_policy_evaluations",
			),
		),

		// Scope overrides; the configured defaults apply when omitted.
		mcp.WithString("project", mcp.Description("Project name (defaults to the configured project)")),
		mcp.WithString("repository", mcp.Description("Repository name or ID (defaults to the configured repository)")),

		// Common parameters
		mcp.WithNumber("id", mcp.Description("The ID of the pull request")),

		// create / update
		mcp.WithString("title", mcp.Description("Pull request title")),
		mcp.WithString("description", mcp.Description("Pull request description")),
		mcp.WithString("source_branch", mcp.Description("Source branch, bare (main) or fully qualified (refs/heads/main)")),
		mcp.WithString("target_branch", mcp.Description("Target branch, bare or fully qualified")),
		mcp.WithString("reviewers", mcp.Description("Comma-separated reviewer IDs or emails")),
		mcp.WithBoolean("is_draft", mcp.Description("Create the pull request as a draft")),
		mcp.WithString("status", mcp.Description("Status: active, abandoned or completed (list also accepts 'all')")),

		// list filters
		mcp.WithString("creator", mcp.Description("Filter by creator ID (list)")),
		mcp.WithString("reviewer", mcp.Description("Filter by reviewer ID (list)")),
		mcp.WithNumber("top", mcp.Description("Maximum number of results to return")),
		mcp.WithString("continuation_token", mcp.Description("Cursor from a previous page to fetch the next one")),

		// comments
		mcp.WithString("content", mcp.Description("Comment text (add_comment)")),
		mcp.WithNumber("thread_id", mcp.Description("The ID of the comment thread (get_thread_comments)")),

		// vote
		mcp.WithNumber("vote", mcp.Description("Vote value: 10 approve, 5 approve with suggestions, 0 reset, -5 wait for author, -10 reject")),

		// complete
		mcp.WithString("merge_strategy", mcp.Description("Merge strategy: squash (default), rebase, rebaseMerge or merge")),
		mcp.WithBoolean("delete_source_branch", mcp.Description("Delete the source branch after merging")),
		mcp.WithString("merge_commit_message", mcp.Description("Custom merge commit message")),

		// work item links
		mcp.WithString("work_item_ids", mcp.Description("Comma-separated work item IDs to link (link_work_items)")),
	)
	return tool
}

func (tool *PullRequestTool) Handle() mcp.Tool {
	return tool.handle
}

func (tool *PullRequestTool) operationHandlers() map[string]OperationHandler {
	return map[string]OperationHandler{
		"create":              tool.handleCreate,
		"get":                 tool.handleGet,
		"list":                tool.handleList,
		"update":              tool.handleUpdate,
		"add_comment":         tool.handleAddComment,
		"get_thread_comments": tool.handleGetThreadComments,
		"approve":             tool.handleApprove,
		"reject":              tool.handleReject,
		"vote":                tool.handleVote,
		"complete":            tool.handleComplete,
		"abandon":             tool.handleAbandon,
		"reactivate":          tool.handleReactivate,
		"get_commits":         tool.handleGetCommits,
		"get_changes":         tool.handleGetChanges,
		"get_work_items":      tool.handleGetWorkItems,
		"link_work_items":     tool.handleLinkWorkItems,

		"get_policy_evaluations": tool.handleGetPolicyEvaluations,
	}
}

func (tool *PullRequestTool) Handler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, req, tool.operationHandlers())
}

func (tool *PullRequestTool) scope(req mcp.CallToolRequest) (azure.Scope, error) {
	return repoScope(req, tool.defaults, tool.client.Organization())
}

// requestID extracts the mandatory pull request ID argument.
func requestID(req mcp.CallToolRequest) (int, error) {
	id, err := utils.GetRequiredIntParam(req, "id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("parameter 'id' must be a positive pull request ID")
	}
	return id, nil
}

func (tool *PullRequestTool) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	title, err := utils.GetRequiredStringParam(req, "title")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	sourceBranch, err := utils.GetRequiredStringParam(req, "source_branch")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	targetBranch, err := utils.GetRequiredStringParam(req, "target_branch")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	description, err := utils.GetOptionalStringParam(req, "description")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	reviewersArg, err := utils.GetOptionalStringParam(req, "reviewers")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	isDraft, err := utils.GetOptionalBoolParam(req, "is_draft")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	var reviewers []string
	for _, r := range strings.Split(reviewersArg, ",") {
		if r = strings.TrimSpace(r); r != "" {
			reviewers = append(reviewers, r)
		}
	}

	pr, err := tool.client.CreatePullRequest(ctx, scope, azure.CreatePullRequestArgs{
		Title:        title,
		Description:  description,
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		Reviewers:    reviewers,
		IsDraft:      isDraft,
	})
	if err != nil {
		return errorResult(err), nil
	}

	tool.logger.Info("created pull request", "id", pr.PullRequestID, "repository", scope.Repository)
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	pr, err := tool.client.GetPullRequest(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	status, err := utils.GetOptionalStringParam(req, "status")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	creator, err := utils.GetOptionalStringParam(req, "creator")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	reviewer, err := utils.GetOptionalStringParam(req, "reviewer")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	targetBranch, err := utils.GetOptionalStringParam(req, "target_branch")
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

	prs, next, err := tool.client.ListPullRequests(ctx, scope, azure.ListPullRequestsArgs{
		Status:            status,
		Creator:           creator,
		Reviewer:          reviewer,
		TargetBranch:      targetBranch,
		Top:               top,
		ContinuationToken: token,
	})
	if err != nil {
		return errorResult(err), nil
	}

	out := formatPullRequests(prs)
	if next != "" {
		out += fmt.Sprintf("\n\nMore results available. Pass continuation_token %q to fetch the next page.", next)
	}
	return mcp.NewToolResultText(out), nil
}

func (tool *PullRequestTool) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	var args azure.UpdatePullRequestArgs
	for key, target := range map[string]**string{
		"title":       &args.Title,
		"description": &args.Description,
		"status":      &args.Status,
	} {
		if _, present := req.Params.Arguments[key]; !present {
			continue
		}
		val, err := utils.GetRequiredStringParam(req, key)
		if err != nil {
			return utils.HandleParameterError(err), nil
		}
		*target = &val
	}

	pr, err := tool.client.UpdatePullRequest(ctx, scope, id, args)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleAddComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	content, err := utils.GetRequiredStringParam(req, "content")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	thread, err := tool.client.AddComment(ctx, scope, id, content)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Comment added to PR #%d in thread #%d.", id, thread.ID)), nil
}

func (tool *PullRequestTool) handleGetThreadComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	threadID, err := utils.GetRequiredIntParam(req, "thread_id")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	comments, err := tool.client.GetThreadComments(ctx, scope, id, threadID)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatThreadComments(id, threadID, comments)), nil
}

func (tool *PullRequestTool) handleApprove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return tool.castVote(ctx, req, 10)
}

func (tool *PullRequestTool) handleReject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return tool.castVote(ctx, req, -10)
}

func (tool *PullRequestTool) handleVote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vote, err := utils.GetRequiredIntParam(req, "vote")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	return tool.castVote(ctx, req, vote)
}

func (tool *PullRequestTool) castVote(ctx context.Context, req mcp.CallToolRequest, vote int) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	reviewer, err := tool.client.SetVote(ctx, scope, id, vote)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s %s PR #%d.", reviewer.DisplayName, azure.VoteDescription(vote), id)), nil
}

func (tool *PullRequestTool) handleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	strategy, err := utils.GetOptionalStringParam(req, "merge_strategy")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	deleteSource, err := utils.GetOptionalBoolParam(req, "delete_source_branch")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	message, err := utils.GetOptionalStringParam(req, "merge_commit_message")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	pr, err := tool.client.CompletePullRequest(ctx, scope, id, azure.CompletePullRequestArgs{
		MergeStrategy:      strategy,
		DeleteSourceBranch: deleteSource,
		MergeCommitMessage: message,
	})
	if err != nil {
		return errorResult(err), nil
	}

	tool.logger.Info("completed pull request", "id", id, "repository", scope.Repository)
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleAbandon(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	pr, err := tool.client.AbandonPullRequest(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleReactivate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	pr, err := tool.client.ReactivatePullRequest(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPullRequest(pr)), nil
}

func (tool *PullRequestTool) handleGetCommits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	commits, err := tool.client.ListPullRequestCommits(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatCommits(id, commits)), nil
}

func (tool *PullRequestTool) handleGetChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	changes, err := tool.client.ListPullRequestChanges(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatChanges(id, changes)), nil
}

func (tool *PullRequestTool) handleGetWorkItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	refs, err := tool.client.ListPullRequestWorkItems(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	if len(refs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No work items linked to PR #%d.", id)), nil
	}

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Work items linked to PR #%d: %s", id, strings.Join(ids, ", "))), nil
}

func (tool *PullRequestTool) handleGetPolicyEvaluations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	evaluations, err := tool.client.ListPolicyEvaluations(ctx, scope, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatPolicyEvaluations(id, evaluations)), nil
}

func (tool *PullRequestTool) handleLinkWorkItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := tool.scope(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	id, err := requestID(req)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	idsArg, err := utils.GetRequiredStringParam(req, "work_item_ids")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	workItemIDs, err := utils.ParseIDs(idsArg)
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	if err := tool.client.LinkWorkItems(ctx, scope, id, workItemIDs); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Linked %d work item(s) to PR #%d.", len(workItemIDs), id)), nil
}
