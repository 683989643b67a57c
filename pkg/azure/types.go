package azure

import "time"

// Pull request lifecycle states as the REST API spells them.
const (
	StatusActive    = "active"
	StatusAbandoned = "abandoned"
	StatusCompleted = "completed"
)

// Credentials carry everything the transport needs to authenticate one call.
// Resolved once per invocation, never persisted, never logged.
type Credentials struct {
	Organization string
	BaseURL      string
	Token        string
}

// IdentityRef is the identity shape embedded across REST responses.
type IdentityRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Reviewer is an identity with its current vote on a pull request.
type Reviewer struct {
	IdentityRef
	Vote       int  `json:"vote"`
	IsRequired bool `json:"isRequired,omitempty"`
}

// GitRef names a branch as the API returns it, e.g. refs/heads/main.
type GitRef struct {
	Name string `json:"name"`
}

// CommitRef identifies a commit inside a pull request.
type CommitRef struct {
	CommitID string     `json:"commitId"`
	Comment  string     `json:"comment,omitempty"`
	Author   *GitAuthor `json:"author,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// GitAuthor is the name/email/date triple on a commit.
type GitAuthor struct {
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
	Date  *time.Time `json:"date,omitempty"`
}

// CompletionOptions is the authoritative wire form for merge settings on a
// pull request PATCH.
type CompletionOptions struct {
	MergeStrategy      string `json:"mergeStrategy,omitempty"`
	DeleteSourceBranch bool   `json:"deleteSourceBranch,omitempty"`
	MergeCommitMessage string `json:"mergeCommitMessage,omitempty"`
}

// Repository identifies the git repository a pull request belongs to,
// including the GUIDs that artifact links are keyed on.
type Repository struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Project *Project `json:"project,omitempty"`
}

// PullRequest is the decoded pull request resource. Only fields the tools
// surface are declared; unknown fields are dropped at decode time.
type PullRequest struct {
	PullRequestID      int                `json:"pullRequestId"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	Status             string             `json:"status"`
	SourceRefName      string             `json:"sourceRefName"`
	TargetRefName      string             `json:"targetRefName"`
	Repository         *Repository        `json:"repository,omitempty"`
	CreatedBy          *IdentityRef       `json:"createdBy,omitempty"`
	ClosedBy           *IdentityRef       `json:"closedBy,omitempty"`
	CreationDate       *time.Time         `json:"creationDate,omitempty"`
	ClosedDate         *time.Time         `json:"closedDate,omitempty"`
	MergeStatus        string             `json:"mergeStatus,omitempty"`
	IsDraft            bool               `json:"isDraft,omitempty"`
	Reviewers          []Reviewer         `json:"reviewers,omitempty"`
	CompletionOptions  *CompletionOptions `json:"completionOptions,omitempty"`
	LastMergeSourceRef *CommitRef         `json:"lastMergeSourceCommit,omitempty"`
	URL                string             `json:"url,omitempty"`
}

// Comment is one comment inside a pull request thread.
type Comment struct {
	ID            int          `json:"id"`
	Content       string       `json:"content"`
	CommentType   string       `json:"commentType,omitempty"`
	Author        *IdentityRef `json:"author,omitempty"`
	PublishedDate *time.Time   `json:"publishedDate,omitempty"`
}

// PullRequestThread is a comment thread on a pull request.
type PullRequestThread struct {
	ID       int       `json:"id"`
	Status   string    `json:"status,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// IterationChange is one changed file in a pull request.
type IterationChange struct {
	ChangeType string `json:"changeType"`
	Item       struct {
		Path string `json:"path"`
	} `json:"item"`
}

// PolicyEvaluation is one branch policy's verdict on a pull request.
type PolicyEvaluation struct {
	Status        string `json:"status"`
	Configuration struct {
		IsBlocking bool `json:"isBlocking"`
		Type       struct {
			DisplayName string `json:"displayName"`
		} `json:"type"`
	} `json:"configuration"`
	Context struct {
		ErrorMessage string `json:"errorMessage,omitempty"`
	} `json:"context"`
}

// ResourceRef is the minimal id/url pair returned by link endpoints.
type ResourceRef struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// WorkItemRelation links a work item to another resource.
type WorkItemRelation struct {
	Rel        string         `json:"rel"`
	URL        string         `json:"url"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// WorkItem is the decoded work item resource. The field set is defined by
// the server's process template, so Fields stays a map; typed accessors
// cover the system fields every process carries.
type WorkItem struct {
	ID        int                `json:"id"`
	Rev       int                `json:"rev,omitempty"`
	Fields    map[string]any     `json:"fields"`
	Relations []WorkItemRelation `json:"relations,omitempty"`
	URL       string             `json:"url,omitempty"`
}

func (w WorkItem) stringField(name string) string {
	if v, ok := w.Fields[name].(string); ok {
		return v
	}
	return ""
}

func (w WorkItem) Title() string   { return w.stringField("System.Title") }
func (w WorkItem) State() string   { return w.stringField("System.State") }
func (w WorkItem) Type() string    { return w.stringField("System.WorkItemType") }
func (w WorkItem) Project() string { return w.stringField("System.TeamProject") }

func (w WorkItem) AssignedTo() string {
	if m, ok := w.Fields["System.AssignedTo"].(map[string]any); ok {
		if name, ok := m["displayName"].(string); ok {
			return name
		}
	}
	return w.stringField("System.AssignedTo")
}

// WorkItemComment is a comment on a work item.
type WorkItemComment struct {
	ID          int          `json:"id"`
	Text        string       `json:"text"`
	CreatedBy   *IdentityRef `json:"createdBy,omitempty"`
	CreatedDate *time.Time   `json:"createdDate,omitempty"`
}

// workItemCommentList is the comments endpoint envelope, which deviates from
// the standard count/value form.
type workItemCommentList struct {
	TotalCount int               `json:"totalCount"`
	Count      int               `json:"count"`
	Comments   []WorkItemComment `json:"comments"`
}

// wiqlResult is the response of a WIQL query: references only, no fields.
type wiqlResult struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

// WorkItemTypeState is one state a work item type can be in.
type WorkItemTypeState struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// WorkItemType describes one type the project's process defines.
type WorkItemType struct {
	Name          string              `json:"name"`
	ReferenceName string              `json:"referenceName"`
	Description   string              `json:"description,omitempty"`
	IsDisabled    bool                `json:"isDisabled,omitempty"`
	States        []WorkItemTypeState `json:"states,omitempty"`
}

// WorkItemTypeField is one field declared on a work item type.
type WorkItemTypeField struct {
	Name           string   `json:"name"`
	ReferenceName  string   `json:"referenceName"`
	AlwaysRequired bool     `json:"alwaysRequired,omitempty"`
	AllowedValues  []string `json:"allowedValues,omitempty"`
}

// WorkItemTemplate is a team-scoped work item template.
type WorkItemTemplate struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	WorkItemTypeName string            `json:"workItemTypeName"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// Project is the decoded team project resource.
type Project struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	State          string     `json:"state,omitempty"`
	Visibility     string     `json:"visibility,omitempty"`
	URL            string     `json:"url,omitempty"`
	LastUpdateTime *time.Time `json:"lastUpdateTime,omitempty"`
}

// Team is the decoded team resource.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	URL         string `json:"url,omitempty"`
}

// TeamMember wraps the member identity as the teams endpoint returns it.
type TeamMember struct {
	Identity    IdentityRef `json:"identity"`
	IsTeamAdmin bool        `json:"isTeamAdmin,omitempty"`
}

// ProcessTemplate describes one process usable at project creation.
type ProcessTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}

// Operation is the long-running operation reference returned by project
// creation and polled for status.
type Operation struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	URL             string     `json:"url,omitempty"`
	DetailedMessage string     `json:"detailedMessage,omitempty"`
	CreatedDate     *time.Time `json:"createdDate,omitempty"`
	LastModified    *time.Time `json:"lastUpdatedDate,omitempty"`
}

// connectionData is the subset of _apis/connectionData used to resolve the
// identity behind the PAT.
type connectionData struct {
	AuthenticatedUser IdentityRef `json:"authenticatedUser"`
}
