package azure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/azdevtools/mcp-azure-devops/core"
	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := azure.Credentials{Organization: "testorg", BaseURL: srv.URL, Token: "fake-pat"}
	client, err := azure.NewClient(creds, azure.NewTransportWithClient(srv.Client(), log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}

	defaults := Defaults{Project: "proj", Repository: "repo", Team: "Platform"}
	return NewProvider(client, defaults, log.New(io.Discard))
}

func callRequest(operation string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]any{"operation": operation}
	for k, v := range args {
		req.Params.Arguments[k] = v
	}
	return req
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestProvider(t *testing.T) {
	Convey("Given an Azure DevOps tool provider", t, func() {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		Convey("It should register one tool per resource", func() {
			So(provider.Tools, ShouldContainKey, "pull_request")
			So(provider.Tools, ShouldContainKey, "work_item")
			So(provider.Tools, ShouldContainKey, "project")
			So(provider.Tools, ShouldContainKey, "team")
		})

		Convey("Every tool should implement the core.Tool interface", func() {
			for _, tool := range provider.Tools {
				So(tool, ShouldImplement, (*core.Tool)(nil))
			}
		})

		Convey("Tool handles should carry their registration names", func() {
			for name, tool := range provider.Tools {
				So(tool.Handle().Name, ShouldEqual, name)
			}
		})
	})
}

func TestPullRequestToolDispatch(t *testing.T) {
	Convey("Given a pull_request tool", t, func() {
		Convey("An unknown operation is rejected without a network call", func() {
			called := false
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			tool := provider.Tools["pull_request"]

			result, err := tool.Handler(context.Background(), callRequest("destroy", nil))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(resultText(result), ShouldContainSubstring, "Unknown operation")
			So(called, ShouldBeFalse)
		})

		Convey("A missing operation argument is a parameter error", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
			tool := provider.Tools["pull_request"]

			var req mcp.CallToolRequest
			req.Params.Arguments = map[string]any{}
			result, err := tool.Handler(context.Background(), req)
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
		})

		Convey("The get operation renders the pull request as markdown", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/proj/_apis/git/repositories/repo/pullrequests/42" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"pullRequestId": 42,
					"title":         "Add retry",
					"status":        "active",
					"sourceRefName": "refs/heads/feature/retry",
					"targetRefName": "refs/heads/main",
				})
			})
			tool := provider.Tools["pull_request"]

			result, err := tool.Handler(context.Background(), callRequest("get", map[string]any{"id": float64(42)}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)

			text := resultText(result)
			So(text, ShouldContainSubstring, "# Pull Request: Add retry")
			So(text, ShouldContainSubstring, "ID: 42")
			So(text, ShouldContainSubstring, "Source Branch: feature/retry")
		})

		Convey("A remote 404 surfaces as a classified error message", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"message": "PR not found"})
			})
			tool := provider.Tools["pull_request"]

			result, err := tool.Handler(context.Background(), callRequest("get", map[string]any{"id": float64(9)}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(resultText(result), ShouldContainSubstring, "not found")
			So(resultText(result), ShouldContainSubstring, "PR not found")
		})

		Convey("An invalid vote never reaches the network", func() {
			called := false
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			tool := provider.Tools["pull_request"]

			result, err := tool.Handler(context.Background(), callRequest("vote", map[string]any{
				"id":   float64(1),
				"vote": float64(7),
			}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(resultText(result), ShouldContainSubstring, "validation")
			So(called, ShouldBeFalse)
		})
	})
}

func TestWorkItemToolDispatch(t *testing.T) {
	Convey("Given a work_item tool", t, func() {
		Convey("The get operation fetches a single item with relations", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/proj/_apis/wit/workitems/101" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("$expand") != "relations" {
					t.Errorf("expected relations expansion, got %q", r.URL.Query().Get("$expand"))
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"id": 101,
					"fields": map[string]any{
						"System.Title":        "Investigate flaky test",
						"System.State":        "Active",
						"System.WorkItemType": "Bug",
					},
				})
			})
			tool := provider.Tools["work_item"]

			result, err := tool.Handler(context.Background(), callRequest("get", map[string]any{"ids": "101"}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)

			text := resultText(result)
			So(text, ShouldContainSubstring, "# Work Item 101: Investigate flaky test")
			So(text, ShouldContainSubstring, "Type: Bug")
			So(text, ShouldContainSubstring, "State: Active")
		})

		Convey("Malformed IDs are rejected before any network call", func() {
			called := false
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			tool := provider.Tools["work_item"]

			result, err := tool.Handler(context.Background(), callRequest("get", map[string]any{"ids": "12,abc"}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(called, ShouldBeFalse)
		})

		Convey("get_types renders the type table", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/proj/_apis/wit/workitemtypes" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"count": 1,
					"value": []map[string]any{{
						"name":          "Bug",
						"referenceName": "Microsoft.VSTS.WorkItemTypes.Bug",
						"description":   "Tracks a defect",
					}},
				})
			})
			tool := provider.Tools["work_item"]

			result, err := tool.Handler(context.Background(), callRequest("get_types", nil))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)

			text := resultText(result)
			So(text, ShouldContainSubstring, "# Work Item Types in Project: proj")
			So(text, ShouldContainSubstring, "| Bug | Microsoft.VSTS.WorkItemTypes.Bug | Tracks a defect |")
		})

		Convey("get_templates requires the team argument", func() {
			called := false
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			tool := provider.Tools["work_item"]

			result, err := tool.Handler(context.Background(), callRequest("get_templates", nil))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(called, ShouldBeFalse)
		})

		Convey("A malformed fields JSON object is a parameter error", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
			tool := provider.Tools["work_item"]

			result, err := tool.Handler(context.Background(), callRequest("create", map[string]any{
				"type":   "Task",
				"fields": "{not json",
			}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(resultText(result), ShouldContainSubstring, "fields")
		})
	})
}

func TestTeamToolDispatch(t *testing.T) {
	Convey("Given a team tool", t, func() {
		Convey("get_members falls back to the configured team", func() {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/_apis/projects/proj/teams/Platform/members" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"count": 1,
					"value": []map[string]any{{
						"identity": map[string]any{"id": "u1", "displayName": "Dev One", "uniqueName": "dev1@example.com"},
					}},
				})
			})
			tool := provider.Tools["team"]

			result, err := tool.Handler(context.Background(), callRequest("get_members", nil))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(resultText(result), ShouldContainSubstring, "Dev One")
			So(resultText(result), ShouldContainSubstring, "dev1@example.com")
		})
	})
}
