package azure

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	short := "fits as it is"
	assert.Equal(t, short, truncate(short, 100))

	long := strings.Repeat("ü", 150)
	out := truncate(long, 100)
	assert.True(t, utf8.ValidString(out), "truncation must not split a multi-byte rune")
	assert.Equal(t, strings.Repeat("ü", 97)+"...", out)
	assert.Equal(t, 100, utf8.RuneCountInString(out))
}

func TestFormatPullRequestTruncatesDescription(t *testing.T) {
	pr := &azure.PullRequest{
		PullRequestID: 1,
		Title:         "Long one",
		Description:   strings.Repeat("é", 120),
	}
	out := formatPullRequest(pr)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 97)+"...")
}

func TestFormatCommitsTruncatesComment(t *testing.T) {
	commits := []azure.CommitRef{{
		CommitID: "abcdef0123456789",
		Comment:  strings.Repeat("漢", 130),
	}}
	out := formatCommits(3, commits)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("漢", 97)+"...")
}

func TestFormatPolicyEvaluations(t *testing.T) {
	var approved, rejected, running azure.PolicyEvaluation
	approved.Status = "approved"
	approved.Configuration.Type.DisplayName = "Minimum number of reviewers"
	approved.Configuration.IsBlocking = true
	rejected.Status = "rejected"
	rejected.Context.ErrorMessage = "build failed"
	running.Status = "running"
	running.Configuration.Type.DisplayName = "Build"

	out := formatPolicyEvaluations(7, []azure.PolicyEvaluation{approved, rejected, running})
	assert.Contains(t, out, "Policy evaluations for PR #7:")
	assert.Contains(t, out, "Policy: Minimum number of reviewers")
	assert.Contains(t, out, "Blocking: yes")
	assert.Contains(t, out, "Policy: Unknown Policy")
	assert.Contains(t, out, "Reason: build failed")
	assert.Contains(t, out, "Summary: 1 approved, 1 rejected, 1 pending.")

	assert.Equal(t, "No policy evaluations found for pull request #7.",
		formatPolicyEvaluations(7, nil))
}

func TestFormatWorkItemTypeFields(t *testing.T) {
	fields := []azure.WorkItemTypeField{
		{Name: "Title", ReferenceName: "System.Title", AlwaysRequired: true},
		{Name: "Tags", ReferenceName: "System.Tags"},
	}
	out := formatWorkItemTypeFields("Bug", fields)
	assert.Contains(t, out, "# Fields for Work Item Type: Bug")
	assert.Contains(t, out, "| Title | System.Title | Yes |")
	assert.Contains(t, out, "| Tags | System.Tags | No |")
}

func TestFormatWorkItemTemplates(t *testing.T) {
	templates := []azure.WorkItemTemplate{
		{Name: "Hotfix", WorkItemTypeName: "Bug", Description: "Prefilled hotfix"},
	}
	out := formatWorkItemTemplates("Platform", templates)
	assert.Contains(t, out, "# Work Item Templates for Team: Platform")
	assert.Contains(t, out, "| Hotfix | Bug | Prefilled hotfix |")

	assert.Equal(t, "No work item templates found for team Platform.",
		formatWorkItemTemplates("Platform", nil))
}
