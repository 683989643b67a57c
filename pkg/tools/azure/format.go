package azure

import (
	"fmt"
	"strings"
	"time"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

// truncate shortens s to at most max runes, appending an ellipsis. Slicing on
// runes keeps multi-byte characters intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatPullRequest(pr *azure.PullRequest) string {
	lines := []string{
		fmt.Sprintf("# Pull Request: %s", pr.Title),
		fmt.Sprintf("ID: %d", pr.PullRequestID),
	}

	if pr.Status != "" {
		lines = append(lines, fmt.Sprintf("Status: %s", pr.Status))
	}
	lines = append(lines,
		fmt.Sprintf("Source Branch: %s", azure.ShortRef(pr.SourceRefName)),
		fmt.Sprintf("Target Branch: %s", azure.ShortRef(pr.TargetRefName)),
	)

	if pr.CreatedBy != nil && pr.CreatedBy.DisplayName != "" {
		lines = append(lines, fmt.Sprintf("Creator: %s", pr.CreatedBy.DisplayName))
	}
	if pr.CreationDate != nil {
		lines = append(lines, fmt.Sprintf("Creation Date: %s", pr.CreationDate.Format(time.RFC3339)))
	}
	if pr.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", truncate(pr.Description, 100)))
	}
	if pr.URL != "" {
		lines = append(lines, fmt.Sprintf("URL: %s", pr.URL))
	}

	return strings.Join(lines, "\n")
}

func formatPullRequests(prs []azure.PullRequest) string {
	if len(prs) == 0 {
		return "No pull requests found."
	}
	formatted := make([]string, len(prs))
	for i := range prs {
		formatted[i] = formatPullRequest(&prs[i])
	}
	return strings.Join(formatted, "\n\n")
}

func formatCommits(prID int, commits []azure.CommitRef) string {
	if len(commits) == 0 {
		return fmt.Sprintf("No commits found in pull request #%d.", prID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Commits in PR #%d:\n\n", prID)
	for i, commit := range commits {
		id := commit.CommitID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&b, "%d. Commit ID: %s\n", i+1, id)
		if commit.Author != nil {
			fmt.Fprintf(&b, "   Author: %s\n", commit.Author.Name)
			if commit.Author.Date != nil {
				fmt.Fprintf(&b, "   Date: %s\n", commit.Author.Date.Format(time.RFC3339))
			}
		}
		fmt.Fprintf(&b, "   Comment: %s\n\n", truncate(commit.Comment, 100))
	}
	return b.String()
}

func formatChanges(prID int, changes []azure.IterationChange) string {
	if len(changes) == 0 {
		return fmt.Sprintf("No file changes found in pull request #%d.", prID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File changes in PR #%d:\n\n", prID)
	for i, change := range changes {
		fmt.Fprintf(&b, "%d. %s\n   Change type: %s\n\n", i+1, change.Item.Path, change.ChangeType)
	}
	fmt.Fprintf(&b, "Summary: %d files changed.", len(changes))
	return b.String()
}

func formatThreadComments(prID, threadID int, comments []azure.Comment) string {
	if len(comments) == 0 {
		return fmt.Sprintf("No comments found in thread #%d of pull request #%d.", threadID, prID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comments in thread #%d of PR #%d:\n\n", threadID, prID)
	for i, comment := range comments {
		author := "Unknown"
		if comment.Author != nil && comment.Author.DisplayName != "" {
			author = comment.Author.DisplayName
		}
		date := "N/A"
		if comment.PublishedDate != nil {
			date = comment.PublishedDate.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%d. Author: %s\n   Date: %s\n   Content: %s\n\n", i+1, author, date, comment.Content)
	}
	return b.String()
}

func formatPolicyEvaluations(prID int, evaluations []azure.PolicyEvaluation) string {
	if len(evaluations) == 0 {
		return fmt.Sprintf("No policy evaluations found for pull request #%d.", prID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Policy evaluations for PR #%d:\n\n", prID)
	approved, rejected, pending := 0, 0, 0
	for i, eval := range evaluations {
		name := eval.Configuration.Type.DisplayName
		if name == "" {
			name = "Unknown Policy"
		}
		fmt.Fprintf(&b, "%d. Policy: %s\n   Status: %s\n", i+1, name, eval.Status)
		if eval.Configuration.IsBlocking {
			b.WriteString("   Blocking: yes\n")
		}
		switch eval.Status {
		case "approved":
			approved++
		case "rejected":
			rejected++
			if eval.Context.ErrorMessage != "" {
				fmt.Fprintf(&b, "   Reason: %s\n", eval.Context.ErrorMessage)
			}
		case "queued", "running":
			pending++
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Summary: %d approved, %d rejected, %d pending.", approved, rejected, pending)
	return b.String()
}

func formatWorkItem(item *azure.WorkItem) string {
	lines := []string{fmt.Sprintf("# Work Item %d: %s", item.ID, item.Title())}

	if t := item.Type(); t != "" {
		lines = append(lines, fmt.Sprintf("Type: %s", t))
	}
	if state := item.State(); state != "" {
		lines = append(lines, fmt.Sprintf("State: %s", state))
	}
	if assignee := item.AssignedTo(); assignee != "" {
		lines = append(lines, fmt.Sprintf("Assigned To: %s", assignee))
	}
	if project := item.Project(); project != "" {
		lines = append(lines, fmt.Sprintf("Project: %s", project))
	}
	if item.URL != "" {
		lines = append(lines, fmt.Sprintf("URL: %s", item.URL))
	}

	return strings.Join(lines, "\n")
}

func formatWorkItems(items []azure.WorkItem) string {
	if len(items) == 0 {
		return "No work items found."
	}
	formatted := make([]string, len(items))
	for i := range items {
		formatted[i] = formatWorkItem(&items[i])
	}
	return strings.Join(formatted, "\n\n")
}

func formatWorkItemComments(comments []azure.WorkItemComment) string {
	if len(comments) == 0 {
		return "No comments found for this work item."
	}

	formatted := make([]string, 0, len(comments))
	for _, comment := range comments {
		author := "Unknown"
		if comment.CreatedBy != nil && comment.CreatedBy.DisplayName != "" {
			author = comment.CreatedBy.DisplayName
		}
		date := ""
		if comment.CreatedDate != nil {
			date = " on " + comment.CreatedDate.Format(time.RFC3339)
		}
		formatted = append(formatted, fmt.Sprintf("## Comment by %s%s:\n%s", author, date, comment.Text))
	}
	return strings.Join(formatted, "\n\n")
}

func formatWorkItemTypes(project string, types []azure.WorkItemType) string {
	if len(types) == 0 {
		return fmt.Sprintf("No work item types found in project %s.", project)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Work Item Types in Project: %s\n\n", project)
	b.WriteString("| Name | Reference Name | Description |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, t := range types {
		if t.IsDisabled {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Name, t.ReferenceName, truncate(t.Description, 100))
	}
	return b.String()
}

func formatWorkItemTypeFields(typeName string, fields []azure.WorkItemTypeField) string {
	if len(fields) == 0 {
		return fmt.Sprintf("No fields found for work item type %s.", typeName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Fields for Work Item Type: %s\n\n", typeName)
	b.WriteString("| Name | Reference Name | Required |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, f := range fields {
		required := "No"
		if f.AlwaysRequired {
			required = "Yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", f.Name, f.ReferenceName, required)
	}
	return b.String()
}

func formatWorkItemTemplates(team string, templates []azure.WorkItemTemplate) string {
	if len(templates) == 0 {
		return fmt.Sprintf("No work item templates found for team %s.", team)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Work Item Templates for Team: %s\n\n", team)
	b.WriteString("| Name | Work Item Type | Description |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, t := range templates {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Name, t.WorkItemTypeName, truncate(t.Description, 100))
	}
	return b.String()
}

func formatProject(project *azure.Project) string {
	lines := []string{
		fmt.Sprintf("# Project: %s", project.Name),
		fmt.Sprintf("ID: %s", project.ID),
	}

	if project.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", project.Description))
	}
	if project.State != "" {
		lines = append(lines, fmt.Sprintf("State: %s", project.State))
	}
	if project.Visibility != "" {
		lines = append(lines, fmt.Sprintf("Visibility: %s", project.Visibility))
	}
	if project.URL != "" {
		lines = append(lines, fmt.Sprintf("URL: %s", project.URL))
	}
	if project.LastUpdateTime != nil {
		lines = append(lines, fmt.Sprintf("Last Updated: %s", project.LastUpdateTime.Format(time.RFC3339)))
	}

	return strings.Join(lines, "\n")
}

func formatOperation(op *azure.Operation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Operation Status: %s\n\n", op.Status)
	fmt.Fprintf(&b, "- Operation ID: %s\n", op.ID)
	if op.URL != "" {
		fmt.Fprintf(&b, "- Status URL: %s\n", op.URL)
	}
	if op.DetailedMessage != "" {
		fmt.Fprintf(&b, "\n**Completion Message:** %s\n", op.DetailedMessage)
	}

	switch strings.ToLower(op.Status) {
	case "succeeded":
		b.WriteString("\nThe operation completed successfully.")
	case "failed":
		b.WriteString("\nThe operation failed. Check the completion message for details.")
	case "inprogress", "in progress", "queued", "notset":
		b.WriteString("\nThe operation is still in progress. Check again later with the same operation ID.")
	}
	return b.String()
}

func formatTeam(team *azure.Team) string {
	lines := []string{
		fmt.Sprintf("# Team: %s", team.Name),
		fmt.Sprintf("ID: %s", team.ID),
	}
	if team.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", team.Description))
	}
	if team.ProjectName != "" {
		lines = append(lines, fmt.Sprintf("Project: %s", team.ProjectName))
	}
	if team.ProjectID != "" {
		lines = append(lines, fmt.Sprintf("Project ID: %s", team.ProjectID))
	}
	return strings.Join(lines, "\n")
}

func formatTeamMembers(team string, members []azure.TeamMember) string {
	if len(members) == 0 {
		return fmt.Sprintf("No members found in team %s.", team)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Members of team %s:\n\n", team)
	for i, member := range members {
		fmt.Fprintf(&b, "%d. %s", i+1, member.Identity.DisplayName)
		if member.Identity.UniqueName != "" {
			fmt.Fprintf(&b, " (%s)", member.Identity.UniqueName)
		}
		if member.IsTeamAdmin {
			b.WriteString(" [admin]")
		}
		b.WriteString("\n")
	}
	return b.String()
}
