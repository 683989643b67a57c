package azure

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const apiVersion = "7.1"

// OperationRequest is a fully assembled request for one remote call. Built
// fresh per operation and never reused.
type OperationRequest struct {
	Method string
	// Path is relative to the organization base URL, without a leading slash.
	Path string
	// Query holds the query parameters. Keys are unique; EncodeQuery emits
	// them in sorted order so identical inputs produce identical URLs.
	Query map[string]string
	// Body is any JSON-serializable value, or nil for body-less requests.
	Body any
	// ContentType overrides application/json, used by JSON-Patch endpoints.
	ContentType string
}

// EncodeQuery renders the query string with stable key order.
func (r OperationRequest) EncodeQuery() string {
	if len(r.Query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(r.Query))
	for k := range r.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(r.Query[k]))
	}
	return b.String()
}

// URL joins the request onto the organization base URL.
func (r OperationRequest) URL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/") + "/" + r.Path
	if q := r.EncodeQuery(); q != "" {
		u += "?" + q
	}
	return u
}

func newRequest(method, path string, query map[string]string, body any) OperationRequest {
	if query == nil {
		query = map[string]string{}
	}
	query["api-version"] = apiVersion
	return OperationRequest{Method: method, Path: path, Query: query, Body: body}
}

func newPatchDocumentRequest(method, path string, query map[string]string, doc []PatchOperation) OperationRequest {
	req := newRequest(method, path, query, doc)
	req.ContentType = "application/json-patch+json"
	return req
}

// PatchOperation is one entry of a JSON-Patch document as the work item
// tracking endpoints consume it.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// buildFieldDocument turns a field map into a JSON-Patch document. Bare field
// names get the /fields/ prefix the endpoint expects.
func buildFieldDocument(fields map[string]any, op string) []PatchOperation {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := make([]PatchOperation, 0, len(names))
	for _, name := range names {
		path := name
		if !strings.HasPrefix(path, "/fields/") {
			path = "/fields/" + path
		}
		doc = append(doc, PatchOperation{Op: op, Path: path, Value: fields[name]})
	}
	return doc
}

// Resource path templates. Pull requests live under a repository, work items
// under a project, projects/teams/operations under the organization.

func pullRequestsPath(s Scope) string {
	return fmt.Sprintf("%s/_apis/git/repositories/%s/pullrequests",
		url.PathEscape(s.Project), url.PathEscape(s.Repository))
}

func pullRequestPath(s Scope, id int) string {
	return fmt.Sprintf("%s/%d", pullRequestsPath(s), id)
}

func workItemsPath(s Scope) string {
	return fmt.Sprintf("%s/_apis/wit/workitems", url.PathEscape(s.Project))
}

func workItemPath(s Scope, id int) string {
	return fmt.Sprintf("%s/%d", workItemsPath(s), id)
}

func projectsPath() string {
	return "_apis/projects"
}

func teamsPath() string {
	return "_apis/teams"
}

// Valid vote values: 10 approve, 5 approve with suggestions, 0 reset,
// -5 waiting for author, -10 reject.
var validVotes = map[int]string{
	10:  "approved",
	5:   "approved with suggestions",
	0:   "reset their vote on",
	-5:  "is waiting for the author on",
	-10: "rejected",
}

func validateVote(vote int) error {
	if _, ok := validVotes[vote]; !ok {
		return validationError("invalid vote %d: must be one of -10, -5, 0, 5, 10", vote)
	}
	return nil
}

var validMergeStrategies = map[string]bool{
	"squash":      true,
	"rebase":      true,
	"rebaseMerge": true,
	"merge":       true,
}

func validateMergeStrategy(strategy string) error {
	if !validMergeStrategies[strategy] {
		return validationError("invalid merge strategy %q: must be one of squash, rebase, rebaseMerge, merge", strategy)
	}
	return nil
}

// Pull request lifecycle guard. Completed is terminal; transitions out of it
// are rejected locally to avoid a wasted round trip.
var allowedTransitions = map[string]map[string]bool{
	StatusActive:    {StatusAbandoned: true, StatusCompleted: true},
	StatusAbandoned: {StatusActive: true},
	StatusCompleted: {},
}

func validateTransition(from, to string) error {
	if from == to {
		return nil
	}
	allowed, known := allowedTransitions[from]
	if !known {
		return validationError("unknown pull request status %q", from)
	}
	if !allowed[to] {
		return validationError("pull request status cannot change from %s to %s", from, to)
	}
	return nil
}

func validateStatus(status string) error {
	switch status {
	case StatusActive, StatusAbandoned, StatusCompleted:
		return nil
	}
	return validationError("invalid status %q: must be active, abandoned or completed", status)
}
