package azure

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CreatePullRequestArgs are the caller inputs for CreatePullRequest. Branch
// names may be bare or fully qualified.
type CreatePullRequestArgs struct {
	Title        string
	Description  string
	SourceBranch string
	TargetBranch string
	Reviewers    []string
	IsDraft      bool
}

// CreatePullRequest opens a pull request in the scoped repository.
func (c *Client) CreatePullRequest(ctx context.Context, scope Scope, args CreatePullRequestArgs) (*PullRequest, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	if args.Title == "" {
		return nil, validationError("title is required")
	}
	if args.SourceBranch == "" || args.TargetBranch == "" {
		return nil, validationError("source and target branches are required")
	}

	body := map[string]any{
		"title":         args.Title,
		"description":   args.Description,
		"sourceRefName": NormalizeRef(args.SourceBranch),
		"targetRefName": NormalizeRef(args.TargetBranch),
		"isDraft":       args.IsDraft,
	}
	if len(args.Reviewers) > 0 {
		reviewers := make([]map[string]string, 0, len(args.Reviewers))
		for _, r := range args.Reviewers {
			if r == "" {
				return nil, validationError("reviewer list contains an empty entry")
			}
			reviewers = append(reviewers, map[string]string{"id": r})
		}
		body["reviewers"] = reviewers
	}

	var pr PullRequest
	req := newRequest("POST", pullRequestsPath(scope), nil, body)
	if err := c.do(ctx, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetPullRequest fetches one pull request by ID.
func (c *Client) GetPullRequest(ctx context.Context, scope Scope, id int) (*PullRequest, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	var pr PullRequest
	req := newRequest("GET", pullRequestPath(scope, id), nil, nil)
	if err := c.do(ctx, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListPullRequestsArgs filter a pull request listing. Zero values mean no
// filter. ContinuationToken replays the cursor from a previous page.
type ListPullRequestsArgs struct {
	Status            string
	Creator           string
	Reviewer          string
	TargetBranch      string
	Top               int
	ContinuationToken string
}

// ListPullRequests lists pull requests in the scoped repository. The second
// return value is the continuation cursor for the next page, "" when done.
func (c *Client) ListPullRequests(ctx context.Context, scope Scope, args ListPullRequestsArgs) ([]PullRequest, string, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, "", err
	}

	query := map[string]string{}
	if args.Status != "" {
		if args.Status != "all" {
			if err := validateStatus(args.Status); err != nil {
				return nil, "", err
			}
		}
		query["searchCriteria.status"] = args.Status
	}
	if args.Creator != "" {
		query["searchCriteria.creatorId"] = args.Creator
	}
	if args.Reviewer != "" {
		query["searchCriteria.reviewerId"] = args.Reviewer
	}
	if args.TargetBranch != "" {
		query["searchCriteria.targetRefName"] = NormalizeRef(args.TargetBranch)
	}
	if args.Top > 0 {
		query["$top"] = strconv.Itoa(args.Top)
	}
	if args.ContinuationToken != "" {
		query["continuationToken"] = args.ContinuationToken
	}

	var prs []PullRequest
	token, err := c.doList(ctx, newRequest("GET", pullRequestsPath(scope), query, nil), &prs)
	if err != nil {
		return nil, "", err
	}
	return prs, token, nil
}

// UpdatePullRequestArgs are the mutable pull request fields. Nil pointers
// leave the field untouched.
type UpdatePullRequestArgs struct {
	Title       *string
	Description *string
	Status      *string
}

// UpdatePullRequest patches title, description or status. Status changes go
// through the local lifecycle guard first: completed is terminal, so the
// round trip is skipped for transitions out of it.
func (c *Client) UpdatePullRequest(ctx context.Context, scope Scope, id int, args UpdatePullRequestArgs) (*PullRequest, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	if args.Title == nil && args.Description == nil && args.Status == nil {
		return nil, validationError("no update parameters provided")
	}

	body := map[string]any{}
	if args.Title != nil {
		body["title"] = *args.Title
	}
	if args.Description != nil {
		body["description"] = *args.Description
	}
	if args.Status != nil {
		if err := validateStatus(*args.Status); err != nil {
			return nil, err
		}
		current, err := c.GetPullRequest(ctx, scope, id)
		if err != nil {
			return nil, err
		}
		if err := validateTransition(current.Status, *args.Status); err != nil {
			return nil, err
		}
		body["status"] = *args.Status
	}

	var pr PullRequest
	req := newRequest("PATCH", pullRequestPath(scope, id), nil, body)
	if err := c.do(ctx, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// SetVote casts the authenticated user's vote on a pull request. The
// identity is resolved first; if that read fails the vote is never sent.
func (c *Client) SetVote(ctx context.Context, scope Scope, id, vote int) (*Reviewer, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	if err := validateVote(vote); err != nil {
		return nil, err
	}

	identity, err := c.authenticatedIdentity(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/reviewers/%s", pullRequestPath(scope, id), identity.ID)
	body := map[string]any{"id": identity.ID, "vote": vote}

	var reviewer Reviewer
	if err := c.do(ctx, newRequest("PUT", path, nil, body), &reviewer); err != nil {
		return nil, err
	}
	return &reviewer, nil
}

// VoteDescription renders a vote value as the phrase used in tool output.
func VoteDescription(vote int) string {
	if desc, ok := validVotes[vote]; ok {
		return desc
	}
	return "voted on"
}

// CompletePullRequestArgs configure the merge performed by
// CompletePullRequest.
type CompletePullRequestArgs struct {
	MergeStrategy      string
	DeleteSourceBranch bool
	MergeCommitMessage string
}

// CompletePullRequest merges a pull request: it reads the current
// representation, guards the lifecycle transition, then patches status to
// completed with the completionOptions envelope and the just-read merge
// source commit. If the read fails the write is never attempted.
func (c *Client) CompletePullRequest(ctx context.Context, scope Scope, id int, args CompletePullRequestArgs) (*PullRequest, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	if args.MergeStrategy == "" {
		args.MergeStrategy = "squash"
	}
	if err := validateMergeStrategy(args.MergeStrategy); err != nil {
		return nil, err
	}

	current, err := c.GetPullRequest(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(current.Status, StatusCompleted); err != nil {
		return nil, err
	}

	body := map[string]any{
		"status": StatusCompleted,
		"completionOptions": CompletionOptions{
			MergeStrategy:      args.MergeStrategy,
			DeleteSourceBranch: args.DeleteSourceBranch,
			MergeCommitMessage: args.MergeCommitMessage,
		},
	}
	if current.LastMergeSourceRef != nil {
		body["lastMergeSourceCommit"] = current.LastMergeSourceRef
	}

	var pr PullRequest
	req := newRequest("PATCH", pullRequestPath(scope, id), nil, body)
	if err := c.do(ctx, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// AbandonPullRequest moves an active pull request to abandoned.
func (c *Client) AbandonPullRequest(ctx context.Context, scope Scope, id int) (*PullRequest, error) {
	status := StatusAbandoned
	return c.UpdatePullRequest(ctx, scope, id, UpdatePullRequestArgs{Status: &status})
}

// ReactivatePullRequest moves an abandoned pull request back to active.
func (c *Client) ReactivatePullRequest(ctx context.Context, scope Scope, id int) (*PullRequest, error) {
	status := StatusActive
	return c.UpdatePullRequest(ctx, scope, id, UpdatePullRequestArgs{Status: &status})
}

// AddComment starts a new comment thread on a pull request.
func (c *Client) AddComment(ctx context.Context, scope Scope, id int, content string) (*PullRequestThread, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, validationError("comment content is required")
	}

	body := map[string]any{
		"comments": []map[string]any{
			{"parentCommentId": 0, "content": content, "commentType": "text"},
		},
		"status": "active",
	}

	var thread PullRequestThread
	path := pullRequestPath(scope, id) + "/threads"
	if err := c.do(ctx, newRequest("POST", path, nil, body), &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetThreadComments fetches every comment in one thread.
func (c *Client) GetThreadComments(ctx context.Context, scope Scope, id, threadID int) ([]Comment, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	var thread PullRequestThread
	path := fmt.Sprintf("%s/threads/%d", pullRequestPath(scope, id), threadID)
	if err := c.do(ctx, newRequest("GET", path, nil, nil), &thread); err != nil {
		return nil, err
	}
	return thread.Comments, nil
}

// ListPullRequestCommits lists the commits a pull request carries.
func (c *Client) ListPullRequestCommits(ctx context.Context, scope Scope, id int) ([]CommitRef, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	var commits []CommitRef
	path := pullRequestPath(scope, id) + "/commits"
	if _, err := c.doList(ctx, newRequest("GET", path, nil, nil), &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// ListPullRequestChanges lists the changed files of the latest iteration.
// Two reads: the iteration listing, then the change entries of the newest
// one. If the first read fails the second is never issued.
func (c *Client) ListPullRequestChanges(ctx context.Context, scope Scope, id int) ([]IterationChange, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}

	var iterations []struct {
		ID int `json:"id"`
	}
	iterationsPath := pullRequestPath(scope, id) + "/iterations"
	if _, err := c.doList(ctx, newRequest("GET", iterationsPath, nil, nil), &iterations); err != nil {
		return nil, err
	}
	if len(iterations) == 0 {
		return nil, nil
	}

	latest := iterations[len(iterations)-1].ID
	var changes struct {
		ChangeEntries []IterationChange `json:"changeEntries"`
	}
	changesPath := fmt.Sprintf("%s/%d/changes", iterationsPath, latest)
	if err := c.do(ctx, newRequest("GET", changesPath, nil, nil), &changes); err != nil {
		return nil, err
	}
	return changes.ChangeEntries, nil
}

// ListPullRequestWorkItems lists the work item references linked to a pull
// request.
func (c *Client) ListPullRequestWorkItems(ctx context.Context, scope Scope, id int) ([]ResourceRef, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}
	var refs []ResourceRef
	path := pullRequestPath(scope, id) + "/workitems"
	if _, err := c.doList(ctx, newRequest("GET", path, nil, nil), &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// ListPolicyEvaluations lists the branch policy verdicts on a pull request.
// Evaluations are keyed on an artifact built from the project GUID, so the
// pull request is read first to resolve it; a failed read short-circuits.
func (c *Client) ListPolicyEvaluations(ctx context.Context, scope Scope, id int) ([]PolicyEvaluation, error) {
	if err := scope.requireRepository(); err != nil {
		return nil, err
	}

	pr, err := c.GetPullRequest(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if pr.Repository == nil || pr.Repository.Project == nil || pr.Repository.Project.ID == "" {
		return nil, decodeError(nil, "pull request %d carries no project identifier", id)
	}

	artifact := fmt.Sprintf("vstfs:///CodeReview/CodeReviewId/%s/%d",
		pr.Repository.Project.ID, pr.PullRequestID)
	query := map[string]string{
		"artifactId":  artifact,
		"api-version": apiVersion + "-preview.1",
	}
	path := fmt.Sprintf("%s/_apis/policy/evaluations", url.PathEscape(scope.Project))

	var evaluations []PolicyEvaluation
	req := OperationRequest{Method: "GET", Path: path, Query: query}
	if _, err := c.doList(ctx, req, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// LinkWorkItems attaches work items to a pull request by adding an artifact
// link relation to each item. The ID list must be non-empty; that is checked
// before any network traffic.
func (c *Client) LinkWorkItems(ctx context.Context, scope Scope, id int, workItemIDs []int) error {
	if err := scope.requireRepository(); err != nil {
		return err
	}
	if len(workItemIDs) == 0 {
		return validationError("at least one work item ID is required")
	}

	pr, err := c.GetPullRequest(ctx, scope, id)
	if err != nil {
		return err
	}

	// Artifact links resolve by GUID, not by name. The just-read pull request
	// carries both; scope names are only a fallback for truncated responses.
	project, repository := scope.Project, scope.Repository
	if pr.Repository != nil {
		if pr.Repository.ID != "" {
			repository = pr.Repository.ID
		}
		if pr.Repository.Project != nil && pr.Repository.Project.ID != "" {
			project = pr.Repository.Project.ID
		}
	}
	artifact := fmt.Sprintf("vstfs:///Git/PullRequestId/%s%%2F%s%%2F%d",
		project, repository, pr.PullRequestID)

	for _, itemID := range workItemIDs {
		doc := []PatchOperation{{
			Op:   "add",
			Path: "/relations/-",
			Value: map[string]any{
				"rel": "ArtifactLink",
				"url": artifact,
				"attributes": map[string]any{
					"name": "Pull Request",
				},
			},
		}}
		req := newPatchDocumentRequest("PATCH", workItemPath(scope, itemID), nil, doc)
		if err := c.do(ctx, req, nil); err != nil {
			return err
		}
	}
	return nil
}
